package tools

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aparatus/aparatus/plugin/ai/agent"
	"github.com/aparatus/aparatus/server/service/availability"
	"github.com/aparatus/aparatus/server/service/booking"
	"github.com/aparatus/aparatus/store"
	"github.com/aparatus/aparatus/store/teststore"
)

type fixture struct {
	store   *store.Store
	driver  *teststore.Driver
	shop    *store.Barbershop
	service *store.BarberService
	user    *store.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s, driver := teststore.New()

	shop, err := s.CreateBarbershop(ctx, &store.Barbershop{
		UID: "bs_vintage", Name: "Barbearia Vintage", Address: "Rua Augusta, 1024",
		Description: "Cortes clássicos.", Phones: []string{"(11) 99999-1111"},
	})
	require.NoError(t, err)
	service, err := s.CreateBarberService(ctx, &store.BarberService{
		UID: "sv_corte", BarbershopID: shop.ID, Name: "Corte de Cabelo", PriceCents: 4500,
	})
	require.NoError(t, err)
	user, err := s.CreateUser(ctx, &store.User{
		UID: "u_demo", Email: "demo@aparatus.ai", Nickname: "Demo",
	})
	require.NoError(t, err)

	return &fixture{store: s, driver: driver, shop: shop, service: service, user: user}
}

func (f *fixture) deps(session *agent.SessionContext) Deps {
	return Deps{
		Session:      session,
		Booking:      booking.NewService(f.store),
		Availability: availability.NewService(f.store),
	}
}

func (f *fixture) authenticated() *agent.SessionContext {
	return &agent.SessionContext{UserID: f.user.ID, DisplayName: "Demo", Email: "demo@aparatus.ai"}
}

func anonymous() *agent.SessionContext {
	return &agent.SessionContext{}
}

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestSearchBarbershopsEmptyNameReturnsAll(t *testing.T) {
	f := newFixture(t)
	tool := NewSearchBarbershopsTool(f.deps(anonymous()))

	out, err := tool.Run(context.Background(), `{}`)
	require.NoError(t, err)

	var shops []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &shops))
	require.Len(t, shops, 1)
	require.Equal(t, "Barbearia Vintage", shops[0]["name"])

	services := shops[0]["services"].([]any)
	require.Len(t, services, 1)
	// 4500 centavos surface as 45 reais.
	require.InDelta(t, 45.0, services[0].(map[string]any)["price"], 0.001)
}

func TestSearchBarbershopsInvalidInput(t *testing.T) {
	f := newFixture(t)
	tool := NewSearchBarbershopsTool(f.deps(anonymous()))

	out, err := tool.Run(context.Background(), `{"name": 42`)
	require.NoError(t, err)
	require.Equal(t, "parâmetros inválidos", decode(t, out)["error"])
}

func TestGetBarbershopDetails(t *testing.T) {
	f := newFixture(t)
	tool := NewGetBarbershopDetailsTool(f.deps(anonymous()))

	out, err := tool.Run(context.Background(), `{"barbershopId":"bs_vintage"}`)
	require.NoError(t, err)
	detail := decode(t, out)
	require.Equal(t, "Barbearia Vintage", detail["name"])
	require.Equal(t, "Cortes clássicos.", detail["description"])
	require.Equal(t, []any{"(11) 99999-1111"}, detail["phones"])

	out, err = tool.Run(context.Background(), `{"barbershopId":"missing"}`)
	require.NoError(t, err)
	require.Equal(t, "Barbearia não encontrada", decode(t, out)["error"])
}

func TestGetAvailableTimeSlots(t *testing.T) {
	f := newFixture(t)
	tool := NewGetAvailableTimeSlotsTool(f.deps(anonymous()))

	out, err := tool.Run(context.Background(), `{"barbershopId":"bs_vintage","date":"2099-01-10"}`)
	require.NoError(t, err)
	result := decode(t, out)
	require.Equal(t, "2099-01-10", result["date"])
	require.NotEmpty(t, result["availableTimeSlots"])

	out, err = tool.Run(context.Background(), `{"barbershopId":"bs_vintage","date":"not-a-date"}`)
	require.NoError(t, err)
	require.Equal(t, "Data inválida", decode(t, out)["error"])

	out, err = tool.Run(context.Background(), `{"barbershopId":"missing","date":"2099-01-10"}`)
	require.NoError(t, err)
	require.Equal(t, "Barbearia não encontrada", decode(t, out)["error"])
}

func TestBookingHistoryAnonymous(t *testing.T) {
	f := newFixture(t)
	tool := NewGetUserBookingHistoryTool(f.deps(anonymous()))

	out, err := tool.Run(context.Background(), `{}`)
	require.NoError(t, err)
	result := decode(t, out)
	require.Equal(t, "Usuário não está logado", result["error"])
	require.Equal(t, []any{}, result["bookings"])
}

func TestBookingHistoryAuthenticatedEmpty(t *testing.T) {
	f := newFixture(t)
	tool := NewGetUserBookingHistoryTool(f.deps(f.authenticated()))

	out, err := tool.Run(context.Background(), `{}`)
	require.NoError(t, err)
	result := decode(t, out)
	// An empty history is not an error.
	require.NotContains(t, result, "error")
	require.Equal(t, []any{}, result["bookings"])
}

func TestBookingHistoryAuthenticated(t *testing.T) {
	f := newFixture(t)
	at := time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local)
	_, err := f.store.CreateBooking(context.Background(), &store.Booking{
		UID: "bk_1", UserID: f.user.ID, ServiceID: f.service.ID,
		BarbershopID: f.shop.ID, DateTs: at.Unix(),
	})
	require.NoError(t, err)

	tool := NewGetUserBookingHistoryTool(f.deps(f.authenticated()))
	out, err := tool.Run(context.Background(), `{}`)
	require.NoError(t, err)

	bookings := decode(t, out)["bookings"].([]any)
	require.Len(t, bookings, 1)
	entry := bookings[0].(map[string]any)
	require.Equal(t, false, entry["cancelled"])
	require.InDelta(t, 45.0, entry["service"].(map[string]any)["price"], 0.001)
	require.Equal(t, "Barbearia Vintage", entry["barbershop"].(map[string]any)["name"])
}

func TestCheckUserAuthentication(t *testing.T) {
	f := newFixture(t)

	out, err := NewCheckUserAuthenticationTool(f.deps(anonymous())).Run(context.Background(), `{}`)
	require.NoError(t, err)
	result := decode(t, out)
	require.Equal(t, false, result["isAuthenticated"])
	require.NotEmpty(t, result["message"])

	out, err = NewCheckUserAuthenticationTool(f.deps(f.authenticated())).Run(context.Background(), `{}`)
	require.NoError(t, err)
	result = decode(t, out)
	require.Equal(t, true, result["isAuthenticated"])
	user := result["user"].(map[string]any)
	require.Equal(t, "Demo", user["name"])
	require.Equal(t, "demo@aparatus.ai", user["email"])
}

func TestCreateBookingRequiresLogin(t *testing.T) {
	f := newFixture(t)
	tool := NewCreateBookingTool(f.deps(anonymous()))

	out, err := tool.Run(context.Background(), `{"serviceId":"sv_corte","date":"2026-09-10T10:00:00"}`)
	require.NoError(t, err)
	result := decode(t, out)
	require.Equal(t, false, result["success"])
	require.Equal(t, "User must be logged in", result["error"])
	// The guard fires before any store access.
	require.Zero(t, f.driver.BookingCount())
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)
	tool := NewCreateBookingTool(f.deps(f.authenticated()))

	out, err := tool.Run(context.Background(), `{"serviceId":"sv_corte","date":"2026-09-10T10:00:00"}`)
	require.NoError(t, err)
	result := decode(t, out)
	require.Equal(t, true, result["success"])
	require.NotEmpty(t, result["bookingId"])

	// Same slot again is refused.
	out, err = tool.Run(context.Background(), `{"serviceId":"sv_corte","date":"2026-09-10T10:00:00"}`)
	require.NoError(t, err)
	result = decode(t, out)
	require.Equal(t, false, result["success"])
	require.Equal(t, "Este horário já está reservado", result["error"])
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t)
	tool := NewCreateBookingTool(f.deps(f.authenticated()))

	out, err := tool.Run(context.Background(), `{"serviceId":"sv_corte","date":"not-a-date"}`)
	require.NoError(t, err)
	require.Equal(t, "Data inválida", decode(t, out)["error"])

	out, err = tool.Run(context.Background(), `{"serviceId":"missing","date":"2026-09-10T10:00:00"}`)
	require.NoError(t, err)
	require.Equal(t, "Serviço não encontrado", decode(t, out)["error"])
}

func TestNewAllExposesSixTools(t *testing.T) {
	f := newFixture(t)
	all := NewAll(f.deps(anonymous()))
	require.Len(t, all, 6)

	names := map[string]bool{}
	for _, tool := range all {
		names[tool.Name()] = true
		require.NotEmpty(t, tool.Description())
		require.Equal(t, "object", tool.Parameters()["type"])
	}
	for _, name := range []string{
		"searchBarbershops", "getAvailableTimeSlotsForBarbershop", "getBarbershopDetails",
		"getUserBookingHistory", "checkUserAuthentication", "createBooking",
	} {
		require.True(t, names[name], name)
	}
}
