package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/aparatus/aparatus/server/service/availability"
)

// GetAvailableTimeSlotsTool returns the bookable time points for a
// barbershop on a calendar day. Validation failures come back as structured
// error documents, never as error returns.
type GetAvailableTimeSlotsTool struct {
	deps Deps
}

func NewGetAvailableTimeSlotsTool(deps Deps) *GetAvailableTimeSlotsTool {
	return &GetAvailableTimeSlotsTool{deps: deps}
}

func (t *GetAvailableTimeSlotsTool) Name() string {
	return "getAvailableTimeSlotsForBarbershop"
}

func (t *GetAvailableTimeSlotsTool) Description() string {
	return "Obtém os horários disponíveis para uma barbearia em uma data específica."
}

func (t *GetAvailableTimeSlotsTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"barbershopId": map[string]any{
				"type":        "string",
				"description": "ID da barbearia",
			},
			"date": map[string]any{
				"type":        "string",
				"description": "Data no formato YYYY-MM-DD para a qual deseja obter os horários disponíveis",
			},
		},
		"required": []string{"barbershopId", "date"},
	}
}

func (t *GetAvailableTimeSlotsTool) Run(ctx context.Context, input string) (string, error) {
	var args struct {
		BarbershopID string `json:"barbershopId"`
		Date         string `json:"date"`
	}
	if err := json.Unmarshal([]byte(input), &args); err != nil || args.BarbershopID == "" {
		return errorResult("parâmetros inválidos"), nil
	}

	day, err := time.ParseInLocation("2006-01-02", args.Date, time.Local)
	if err != nil {
		return errorResult("Data inválida"), nil
	}

	slots, err := t.deps.Availability.AvailableSlots(ctx, args.BarbershopID, day)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrNotFound):
			return errorResult("Barbearia não encontrada"), nil
		case errors.Is(err, availability.ErrInvalidDate):
			return errorResult("Data inválida"), nil
		}
		return "", errors.Wrap(err, "failed to compute available slots")
	}

	return marshal(struct {
		BarbershopID       string   `json:"barbershopId"`
		Date               string   `json:"date"`
		AvailableTimeSlots []string `json:"availableTimeSlots"`
	}{
		BarbershopID:       args.BarbershopID,
		Date:               args.Date,
		AvailableTimeSlots: slots,
	})
}
