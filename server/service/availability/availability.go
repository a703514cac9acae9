package availability

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/aparatus/aparatus/store"
)

var (
	// ErrNotFound is returned when the barbershop does not exist.
	ErrNotFound = errors.New("barbershop not found")
	// ErrInvalidDate is returned for zero or out-of-range dates.
	ErrInvalidDate = errors.New("invalid date")
)

const (
	// OpenHour and CloseHour bound the bookable day.
	OpenHour  = 9
	CloseHour = 21
	// SlotInterval is the spacing of the bookable time grid.
	SlotInterval = 30 * time.Minute
)

// Service computes bookable time slots for a barbershop on a given day.
type Service struct {
	store *store.Store

	// now is swappable in tests.
	now func() time.Time
}

func NewService(s *store.Store) *Service {
	return &Service{store: s, now: time.Now}
}

// AvailableSlots returns the open "HH:MM" time points for the barbershop on
// the given calendar day, excluding already-booked slots and, for today,
// slots that are already in the past. day is interpreted in its own location.
func (s *Service) AvailableSlots(ctx context.Context, barbershopUID string, day time.Time) ([]string, error) {
	if day.IsZero() {
		return nil, ErrInvalidDate
	}

	shop, err := s.store.GetBarbershop(ctx, &store.FindBarbershop{UID: &barbershopUID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find barbershop")
	}
	if shop == nil {
		return nil, ErrNotFound
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	startTs, endTs := dayStart.Unix(), dayEnd.Unix()

	bookings, err := s.store.ListBookings(ctx, &store.FindBooking{
		BarbershopID:     &shop.ID,
		DateAfter:        &startTs,
		DateBefore:       &endTs,
		ExcludeCancelled: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list bookings")
	}

	taken := make(map[int64]bool, len(bookings))
	for _, booking := range bookings {
		taken[booking.DateTs] = true
	}

	now := s.now()
	slots := []string{}
	open := dayStart.Add(time.Duration(OpenHour) * time.Hour)
	close := dayStart.Add(time.Duration(CloseHour) * time.Hour)
	for slot := open; slot.Before(close); slot = slot.Add(SlotInterval) {
		if taken[slot.Unix()] {
			continue
		}
		if !slot.After(now) {
			continue
		}
		slots = append(slots, slot.Format("15:04"))
	}

	return slots, nil
}
