package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/aparatus/aparatus/server/service/booking"
)

// GetUserBookingHistoryTool fetches the signed-in user's latest bookings for
// personalization. For anonymous sessions it returns an error document with
// an empty list; an authenticated user with no bookings gets just the empty
// list, no error.
type GetUserBookingHistoryTool struct {
	deps Deps
}

func NewGetUserBookingHistoryTool(deps Deps) *GetUserBookingHistoryTool {
	return &GetUserBookingHistoryTool{deps: deps}
}

func (t *GetUserBookingHistoryTool) Name() string {
	return "getUserBookingHistory"
}

func (t *GetUserBookingHistoryTool) Description() string {
	return "Busca os últimos agendamentos do usuário logado para personalização e sugestões."
}

func (t *GetUserBookingHistoryTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

type bookingEntry struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Cancelled bool   `json:"cancelled"`
	Service   struct {
		ID    string  `json:"id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"service"`
	Barbershop struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Address string `json:"address"`
	} `json:"barbershop"`
}

func (t *GetUserBookingHistoryTool) Run(ctx context.Context, input string) (string, error) {
	if !t.deps.Session.IsAuthenticated() {
		return marshal(struct {
			Error    string         `json:"error"`
			Bookings []bookingEntry `json:"bookings"`
		}{
			Error:    "Usuário não está logado",
			Bookings: []bookingEntry{},
		})
	}

	details, err := t.deps.Booking.ListRecentBookings(ctx, t.deps.Session.UserID, 10)
	if err != nil {
		return "", errors.Wrap(err, "failed to list booking history")
	}

	entries := []bookingEntry{}
	for _, detail := range details {
		entry := bookingEntry{
			ID:        detail.Booking.UID,
			Date:      time.Unix(detail.Booking.DateTs, 0).Format(time.RFC3339),
			Cancelled: detail.Booking.Cancelled,
		}
		entry.Service.ID = detail.Service.UID
		entry.Service.Name = detail.Service.Name
		entry.Service.Price = price(detail.Service.PriceCents)
		entry.Barbershop.ID = detail.Barbershop.UID
		entry.Barbershop.Name = detail.Barbershop.Name
		entry.Barbershop.Address = detail.Barbershop.Address
		entries = append(entries, entry)
	}

	return marshal(struct {
		Bookings []bookingEntry `json:"bookings"`
	}{Bookings: entries})
}

// CreateBookingTool books a service at a specific date and time. It enforces
// authentication before anything else: an anonymous call returns the error
// document and performs zero writes.
type CreateBookingTool struct {
	deps Deps
}

func NewCreateBookingTool(deps Deps) *CreateBookingTool {
	return &CreateBookingTool{deps: deps}
}

func (t *CreateBookingTool) Name() string {
	return "createBooking"
}

func (t *CreateBookingTool) Description() string {
	return "Cria um agendamento para um serviço em uma data específica. O usuário precisa estar logado."
}

func (t *CreateBookingTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"serviceId": map[string]any{
				"type":        "string",
				"description": "ID do serviço",
			},
			"date": map[string]any{
				"type":        "string",
				"description": "Data em ISO String para a qual deseja agendar (YYYY-MM-DDTHH:mm:ss)",
			},
		},
		"required": []string{"serviceId", "date"},
	}
}

type createBookingResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	BookingID string `json:"bookingId,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (t *CreateBookingTool) Run(ctx context.Context, input string) (string, error) {
	if !t.deps.Session.IsAuthenticated() {
		return marshal(createBookingResult{
			Success: false,
			Error:   "User must be logged in",
		})
	}

	var args struct {
		ServiceID string `json:"serviceId"`
		Date      string `json:"date"`
	}
	if err := json.Unmarshal([]byte(input), &args); err != nil || args.ServiceID == "" {
		return marshal(createBookingResult{Success: false, Error: "parâmetros inválidos"})
	}

	at, err := parseBookingDate(args.Date)
	if err != nil {
		return marshal(createBookingResult{Success: false, Error: "Data inválida"})
	}

	detail, err := t.deps.Booking.Create(ctx, t.deps.Session.UserID, args.ServiceID, at)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrServiceNotFound):
			return marshal(createBookingResult{Success: false, Error: "Serviço não encontrado"})
		case errors.Is(err, booking.ErrSlotTaken):
			return marshal(createBookingResult{Success: false, Error: "Este horário já está reservado"})
		}
		return "", errors.Wrap(err, "failed to create booking")
	}

	return marshal(createBookingResult{
		Success:   true,
		Message:   "Agendamento criado com sucesso! 🎉",
		BookingID: detail.Booking.UID,
	})
}

func parseBookingDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339} {
		if at, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return at, nil
		}
	}
	return time.Time{}, errors.Errorf("unparseable date: %s", raw)
}
