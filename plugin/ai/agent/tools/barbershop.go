package tools

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/aparatus/aparatus/store"
)

type serviceSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type barbershopSummary struct {
	BarbershopID string           `json:"barbershopId"`
	Name         string           `json:"name"`
	Address      string           `json:"address"`
	ImageURL     string           `json:"imageUrl"`
	Services     []serviceSummary `json:"services"`
}

// SearchBarbershopsTool searches barbershops by name, returning all of them
// when no name is given.
type SearchBarbershopsTool struct {
	deps Deps
}

func NewSearchBarbershopsTool(deps Deps) *SearchBarbershopsTool {
	return &SearchBarbershopsTool{deps: deps}
}

func (t *SearchBarbershopsTool) Name() string {
	return "searchBarbershops"
}

func (t *SearchBarbershopsTool) Description() string {
	return "Pesquisa barbearias pelo nome. Se nenhum nome é fornecido, retorna todas as barbearias."
}

func (t *SearchBarbershopsTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{
				"type":        "string",
				"description": "Nome opcional da barbearia",
			},
		},
	}
}

func (t *SearchBarbershopsTool) Run(ctx context.Context, input string) (string, error) {
	var args struct {
		Name string `json:"name"`
	}
	if input != "" {
		if err := json.Unmarshal([]byte(input), &args); err != nil {
			return errorResult("parâmetros inválidos"), nil
		}
	}

	shops, err := t.deps.Booking.SearchBarbershops(ctx, args.Name)
	if err != nil {
		return "", errors.Wrap(err, "failed to search barbershops")
	}

	summaries := []barbershopSummary{}
	for _, shop := range shops {
		services, err := t.deps.Booking.ListServices(ctx, shop.ID)
		if err != nil {
			return "", errors.Wrap(err, "failed to list services")
		}
		summaries = append(summaries, summarizeBarbershop(shop, services))
	}

	return marshal(summaries)
}

func summarizeBarbershop(shop *store.Barbershop, services []*store.BarberService) barbershopSummary {
	summary := barbershopSummary{
		BarbershopID: shop.UID,
		Name:         shop.Name,
		Address:      shop.Address,
		ImageURL:     shop.ImageURL,
		Services:     []serviceSummary{},
	}
	for _, service := range services {
		summary.Services = append(summary.Services, serviceSummary{
			ID:    service.UID,
			Name:  service.Name,
			Price: price(service.PriceCents),
		})
	}
	return summary
}

// GetBarbershopDetailsTool fetches the full profile of one barbershop,
// including description, phones and service details.
type GetBarbershopDetailsTool struct {
	deps Deps
}

func NewGetBarbershopDetailsTool(deps Deps) *GetBarbershopDetailsTool {
	return &GetBarbershopDetailsTool{deps: deps}
}

func (t *GetBarbershopDetailsTool) Name() string {
	return "getBarbershopDetails"
}

func (t *GetBarbershopDetailsTool) Description() string {
	return "Busca detalhes completos de uma barbearia específica incluindo imagem, descrição e telefones."
}

func (t *GetBarbershopDetailsTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"barbershopId": map[string]any{
				"type":        "string",
				"description": "ID da barbearia",
			},
		},
		"required": []string{"barbershopId"},
	}
}

func (t *GetBarbershopDetailsTool) Run(ctx context.Context, input string) (string, error) {
	var args struct {
		BarbershopID string `json:"barbershopId"`
	}
	if err := json.Unmarshal([]byte(input), &args); err != nil || args.BarbershopID == "" {
		return errorResult("parâmetros inválidos"), nil
	}

	shop, err := t.deps.Booking.GetBarbershop(ctx, args.BarbershopID)
	if err != nil {
		return "", errors.Wrap(err, "failed to get barbershop")
	}
	if shop == nil {
		return errorResult("Barbearia não encontrada"), nil
	}

	services, err := t.deps.Booking.ListServices(ctx, shop.ID)
	if err != nil {
		return "", errors.Wrap(err, "failed to list services")
	}

	type serviceDetail struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		ImageURL    string  `json:"imageUrl"`
	}
	detail := struct {
		BarbershopID string          `json:"barbershopId"`
		Name         string          `json:"name"`
		Address      string          `json:"address"`
		Description  string          `json:"description"`
		ImageURL     string          `json:"imageUrl"`
		Phones       []string        `json:"phones"`
		Services     []serviceDetail `json:"services"`
	}{
		BarbershopID: shop.UID,
		Name:         shop.Name,
		Address:      shop.Address,
		Description:  shop.Description,
		ImageURL:     shop.ImageURL,
		Phones:       shop.Phones,
		Services:     []serviceDetail{},
	}
	for _, service := range services {
		detail.Services = append(detail.Services, serviceDetail{
			ID:          service.UID,
			Name:        service.Name,
			Description: service.Description,
			Price:       price(service.PriceCents),
			ImageURL:    service.ImageURL,
		})
	}

	return marshal(detail)
}
