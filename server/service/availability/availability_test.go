package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aparatus/aparatus/store"
	"github.com/aparatus/aparatus/store/teststore"
)

func seedShop(t *testing.T, s *store.Store) *store.Barbershop {
	t.Helper()
	shop, err := s.CreateBarbershop(context.Background(), &store.Barbershop{
		UID:  "bs_test",
		Name: "Barbearia Teste",
	})
	require.NoError(t, err)
	return shop
}

func fixedNow() time.Time {
	return time.Date(2026, 9, 1, 8, 0, 0, 0, time.Local)
}

func TestAvailableSlotsFullDay(t *testing.T) {
	s, _ := teststore.New()
	seedShop(t, s)

	svc := NewService(s)
	svc.now = fixedNow

	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.Local)
	slots, err := svc.AvailableSlots(context.Background(), "bs_test", day)
	require.NoError(t, err)

	// 09:00 through 20:30 on a 30 minute grid.
	require.Len(t, slots, 24)
	require.Equal(t, "09:00", slots[0])
	require.Equal(t, "20:30", slots[len(slots)-1])
}

func TestAvailableSlotsExcludesBooked(t *testing.T) {
	s, _ := teststore.New()
	shop := seedShop(t, s)

	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.Local)
	at := time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local)
	_, err := s.CreateBooking(context.Background(), &store.Booking{
		UID:          "bk_1",
		UserID:       1,
		ServiceID:    1,
		BarbershopID: shop.ID,
		DateTs:       at.Unix(),
	})
	require.NoError(t, err)

	svc := NewService(s)
	svc.now = fixedNow

	slots, err := svc.AvailableSlots(context.Background(), "bs_test", day)
	require.NoError(t, err)
	require.NotContains(t, slots, "10:00")
	require.Contains(t, slots, "10:30")
}

func TestAvailableSlotsKeepsCancelled(t *testing.T) {
	s, _ := teststore.New()
	shop := seedShop(t, s)

	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.Local)
	at := time.Date(2026, 9, 10, 10, 0, 0, 0, time.Local)
	_, err := s.CreateBooking(context.Background(), &store.Booking{
		UID:          "bk_1",
		UserID:       1,
		ServiceID:    1,
		BarbershopID: shop.ID,
		DateTs:       at.Unix(),
		Cancelled:    true,
	})
	require.NoError(t, err)

	svc := NewService(s)
	svc.now = fixedNow

	slots, err := svc.AvailableSlots(context.Background(), "bs_test", day)
	require.NoError(t, err)
	require.Contains(t, slots, "10:00")
}

func TestAvailableSlotsExcludesPastToday(t *testing.T) {
	s, _ := teststore.New()
	seedShop(t, s)

	svc := NewService(s)
	svc.now = func() time.Time {
		return time.Date(2026, 9, 10, 12, 15, 0, 0, time.Local)
	}

	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.Local)
	slots, err := svc.AvailableSlots(context.Background(), "bs_test", day)
	require.NoError(t, err)
	require.Equal(t, "12:30", slots[0])
	require.NotContains(t, slots, "12:00")
}

func TestAvailableSlotsUnknownShop(t *testing.T) {
	s, _ := teststore.New()

	svc := NewService(s)
	_, err := svc.AvailableSlots(context.Background(), "missing", time.Now())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAvailableSlotsZeroDate(t *testing.T) {
	s, _ := teststore.New()
	seedShop(t, s)

	svc := NewService(s)
	_, err := svc.AvailableSlots(context.Background(), "bs_test", time.Time{})
	require.ErrorIs(t, err, ErrInvalidDate)
}
