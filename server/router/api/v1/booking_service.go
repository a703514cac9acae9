package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aparatus/aparatus/server/service/booking"
	"github.com/aparatus/aparatus/store"
)

type bookingView struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Cancelled  bool   `json:"cancelled"`
	Service    string `json:"service"`
	Barbershop string `json:"barbershop"`
	Address    string `json:"address"`
}

// ListBookings returns the authenticated user's bookings, newest first.
func (s *APIV1Service) ListBookings(c echo.Context) error {
	user, err := s.requireUser(c)
	if err != nil {
		return err
	}

	details, err := s.BookingService.ListRecentBookings(c.Request().Context(), user.ID, 50)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list bookings")
	}

	views := []bookingView{}
	for _, detail := range details {
		views = append(views, toBookingView(detail))
	}
	return c.JSON(http.StatusOK, views)
}

// CancelBooking marks one of the user's bookings as cancelled.
func (s *APIV1Service) CancelBooking(c echo.Context) error {
	user, err := s.requireUser(c)
	if err != nil {
		return err
	}

	_, err = s.BookingService.Cancel(c.Request().Context(), user.ID, c.Param("uid"))
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "booking not found")
		case errors.Is(err, booking.ErrNotOwner):
			return echo.NewHTTPError(http.StatusForbidden, "booking belongs to another user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to cancel booking")
	}

	return c.NoContent(http.StatusNoContent)
}

// requireUser resolves the bearer token and rejects anonymous requests.
func (s *APIV1Service) requireUser(c echo.Context) (*store.User, error) {
	user, err := s.Authenticator.Authenticate(c.Request().Context(), c.Request().Header.Get("Authorization"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
	}
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return user, nil
}

func toBookingView(detail *booking.Detail) bookingView {
	view := bookingView{
		ID:        detail.Booking.UID,
		Date:      time.Unix(detail.Booking.DateTs, 0).Format(time.RFC3339),
		Cancelled: detail.Booking.Cancelled,
	}
	if detail.Service != nil {
		view.Service = detail.Service.Name
	}
	if detail.Barbershop != nil {
		view.Barbershop = detail.Barbershop.Name
		view.Address = detail.Barbershop.Address
	}
	return view
}
