package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aparatus/aparatus/store"
	"github.com/aparatus/aparatus/store/teststore"
)

type fixture struct {
	store   *store.Store
	svc     *Service
	shop    *store.Barbershop
	service *store.BarberService
	user    *store.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s, _ := teststore.New()

	shop, err := s.CreateBarbershop(ctx, &store.Barbershop{UID: "bs_vintage", Name: "Barbearia Vintage", Address: "Rua Augusta, 1024"})
	require.NoError(t, err)
	service, err := s.CreateBarberService(ctx, &store.BarberService{
		UID: "sv_corte", BarbershopID: shop.ID, Name: "Corte de Cabelo", PriceCents: 4500,
	})
	require.NoError(t, err)
	user, err := s.CreateUser(ctx, &store.User{UID: "u_demo", Email: "demo@aparatus.ai", Nickname: "Demo"})
	require.NoError(t, err)

	return &fixture{store: s, svc: NewService(s), shop: shop, service: service, user: user}
}

func TestSearchBarbershopsEmptyNameReturnsAll(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.CreateBarbershop(context.Background(), &store.Barbershop{UID: "bs_navalha", Name: "Navalha de Ouro"})
	require.NoError(t, err)

	shops, err := f.svc.SearchBarbershops(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, shops, 2)
}

func TestSearchBarbershopsByName(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.CreateBarbershop(context.Background(), &store.Barbershop{UID: "bs_navalha", Name: "Navalha de Ouro"})
	require.NoError(t, err)

	shops, err := f.svc.SearchBarbershops(context.Background(), "vintage")
	require.NoError(t, err)
	require.Len(t, shops, 1)
	require.Equal(t, "Barbearia Vintage", shops[0].Name)
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	at := time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local)
	detail, err := f.svc.Create(context.Background(), f.user.ID, "sv_corte", at)
	require.NoError(t, err)
	require.NotEmpty(t, detail.Booking.UID)
	require.Equal(t, f.user.ID, detail.Booking.UserID)
	require.Equal(t, f.shop.ID, detail.Booking.BarbershopID)
	require.Equal(t, at.Unix(), detail.Booking.DateTs)
	require.Equal(t, "Barbearia Vintage", detail.Barbershop.Name)
}

func TestCreateBookingServiceNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.user.ID, "missing", time.Now())
	require.ErrorIs(t, err, ErrServiceNotFound)
}

func TestCreateBookingSlotTaken(t *testing.T) {
	f := newFixture(t)

	at := time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local)
	_, err := f.svc.Create(context.Background(), f.user.ID, "sv_corte", at)
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), f.user.ID, "sv_corte", at)
	require.ErrorIs(t, err, ErrSlotTaken)
}

func TestListRecentBookingsNewestFirstWithLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base := time.Date(2026, 9, 10, 9, 0, 0, 0, time.Local)
	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(ctx, f.user.ID, "sv_corte", base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}

	details, err := f.svc.ListRecentBookings(ctx, f.user.ID, 2)
	require.NoError(t, err)
	require.Len(t, details, 2)
	require.Greater(t, details[0].Booking.DateTs, details[1].Booking.DateTs)
	require.Equal(t, "Corte de Cabelo", details[0].Service.Name)
}

func TestCancelBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	detail, err := f.svc.Create(ctx, f.user.ID, "sv_corte", time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local))
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, f.user.ID, detail.Booking.UID)
	require.NoError(t, err)
	require.True(t, cancelled.Cancelled)
}

func TestCancelBookingOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other, err := f.store.CreateUser(ctx, &store.User{UID: "u_other", Email: "other@aparatus.ai", Nickname: "Other"})
	require.NoError(t, err)

	detail, err := f.svc.Create(ctx, f.user.ID, "sv_corte", time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local))
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, other.ID, detail.Booking.UID)
	require.ErrorIs(t, err, ErrNotOwner)

	_, err = f.svc.Cancel(ctx, f.user.ID, "missing")
	require.ErrorIs(t, err, ErrBookingNotFound)
}
