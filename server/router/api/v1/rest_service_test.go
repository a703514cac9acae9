package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/aparatus/aparatus/server/auth"
	"github.com/aparatus/aparatus/store"
)

func doRequest(e *echo.Echo, method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func seedUser(t *testing.T, s *store.Store) *store.User {
	t.Helper()
	hash, err := auth.HashPassword("demo123")
	require.NoError(t, err)
	user, err := s.CreateUser(context.Background(), &store.User{
		UID: "u_demo", Email: "demo@aparatus.ai", Nickname: "Demo", PasswordHash: hash,
	})
	require.NoError(t, err)
	return user
}

func TestSignInAndListBookings(t *testing.T) {
	e, s := newTestServer(t, nil)
	seedShopAndService(t, s)
	user := seedUser(t, s)

	// Wrong password is rejected.
	rec := doRequest(e, http.MethodPost, "/api/v1/auth/signin", `{"email":"demo@aparatus.ai","password":"wrong"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(e, http.MethodPost, "/api/v1/auth/signin", `{"email":"demo@aparatus.ai","password":"demo123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var signedIn signInResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signedIn))
	require.NotEmpty(t, signedIn.Token)
	require.Equal(t, "Demo", signedIn.User.Name)

	// Bookings require authentication.
	rec = doRequest(e, http.MethodGet, "/api/v1/bookings", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	at := time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local)
	_, err := s.CreateBooking(context.Background(), &store.Booking{
		UID: "bk_1", UserID: user.ID, ServiceID: 2, BarbershopID: 1, DateTs: at.Unix(),
	})
	require.NoError(t, err)

	rec = doRequest(e, http.MethodGet, "/api/v1/bookings", "", signedIn.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	var bookings []bookingView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bookings))
	require.Len(t, bookings, 1)
	require.Equal(t, "bk_1", bookings[0].ID)
}

func TestListBarbershops(t *testing.T) {
	e, s := newTestServer(t, nil)
	seedShopAndService(t, s)

	rec := doRequest(e, http.MethodGet, "/api/v1/barbershops", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var shops []barbershopView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shops))
	require.Len(t, shops, 1)
	require.Equal(t, "Barbearia Vintage", shops[0].Name)

	rec = doRequest(e, http.MethodGet, "/api/v1/barbershops?name=nothing", "", "")
	var empty []barbershopView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &empty))
	require.Empty(t, empty)
}

func TestGetBarbershopWithServices(t *testing.T) {
	e, s := newTestServer(t, nil)
	seedShopAndService(t, s)

	rec := doRequest(e, http.MethodGet, "/api/v1/barbershops/bs_vintage", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var shop barbershopView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shop))
	require.Len(t, shop.Services, 1)
	require.InDelta(t, 45.0, shop.Services[0].Price, 0.001)

	rec = doRequest(e, http.MethodGet, "/api/v1/barbershops/missing", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAvailableSlotsEndpoint(t *testing.T) {
	e, s := newTestServer(t, nil)
	seedShopAndService(t, s)

	rec := doRequest(e, http.MethodGet, "/api/v1/barbershops/bs_vintage/slots?date=2099-01-10", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Date               string   `json:"date"`
		AvailableTimeSlots []string `json:"availableTimeSlots"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotEmpty(t, result.AvailableTimeSlots)

	rec = doRequest(e, http.MethodGet, "/api/v1/barbershops/bs_vintage/slots?date=bad", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelBookingEndpoint(t *testing.T) {
	e, s := newTestServer(t, nil)
	seedShopAndService(t, s)
	user := seedUser(t, s)

	_, err := s.CreateBooking(context.Background(), &store.Booking{
		UID: "bk_1", UserID: user.ID, ServiceID: 2, BarbershopID: 1,
		DateTs: time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local).Unix(),
	})
	require.NoError(t, err)

	rec := doRequest(e, http.MethodPost, "/api/v1/auth/signin", `{"email":"demo@aparatus.ai","password":"demo123"}`, "")
	var signedIn signInResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signedIn))

	rec = doRequest(e, http.MethodPost, "/api/v1/bookings/bk_1/cancel", "", signedIn.Token)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(e, http.MethodPost, "/api/v1/bookings/missing/cancel", "", signedIn.Token)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
