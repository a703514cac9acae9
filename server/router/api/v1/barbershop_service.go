package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aparatus/aparatus/server/service/availability"
	"github.com/aparatus/aparatus/store"
)

type barbershopView struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Address     string            `json:"address"`
	Description string            `json:"description"`
	ImageURL    string            `json:"imageUrl"`
	Phones      []string          `json:"phones"`
	Services    []serviceItemView `json:"services,omitempty"`
}

type serviceItemView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
}

// ListBarbershops returns barbershops, optionally filtered by name substring.
func (s *APIV1Service) ListBarbershops(c echo.Context) error {
	shops, err := s.BookingService.SearchBarbershops(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list barbershops")
	}

	views := []barbershopView{}
	for _, shop := range shops {
		views = append(views, toBarbershopView(shop, nil))
	}
	return c.JSON(http.StatusOK, views)
}

// GetBarbershop returns one barbershop with its services.
func (s *APIV1Service) GetBarbershop(c echo.Context) error {
	ctx := c.Request().Context()
	shop, err := s.BookingService.GetBarbershop(ctx, c.Param("uid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get barbershop")
	}
	if shop == nil {
		return echo.NewHTTPError(http.StatusNotFound, "barbershop not found")
	}

	services, err := s.BookingService.ListServices(ctx, shop.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list services")
	}
	return c.JSON(http.StatusOK, toBarbershopView(shop, services))
}

// GetAvailableSlots returns the open time points for a barbershop on a day.
func (s *APIV1Service) GetAvailableSlots(c echo.Context) error {
	day, err := time.ParseInLocation("2006-01-02", c.QueryParam("date"), time.Local)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	slots, err := s.AvailabilityService.AvailableSlots(c.Request().Context(), c.Param("uid"), day)
	if err != nil {
		if errors.Is(err, availability.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "barbershop not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute slots")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"date":               c.QueryParam("date"),
		"availableTimeSlots": slots,
	})
}

func toBarbershopView(shop *store.Barbershop, services []*store.BarberService) barbershopView {
	view := barbershopView{
		ID:          shop.UID,
		Name:        shop.Name,
		Address:     shop.Address,
		Description: shop.Description,
		ImageURL:    shop.ImageURL,
		Phones:      shop.Phones,
	}
	for _, service := range services {
		view.Services = append(view.Services, serviceItemView{
			ID:          service.UID,
			Name:        service.Name,
			Description: service.Description,
			Price:       float64(service.PriceCents) / 100,
			ImageURL:    service.ImageURL,
		})
	}
	return view
}
