package booking

import (
	"context"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/aparatus/aparatus/store"
)

var (
	// ErrServiceNotFound is returned when the requested service does not exist.
	ErrServiceNotFound = errors.New("service not found")
	// ErrBookingNotFound is returned when the requested booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrSlotTaken is returned when the requested time already has a booking.
	ErrSlotTaken = errors.New("time slot already booked")
	// ErrNotOwner is returned when a user touches a booking they do not own.
	ErrNotOwner = errors.New("booking belongs to another user")
)

// Detail is a booking joined with its service and barbershop.
type Detail struct {
	Booking    *store.Booking
	Service    *store.BarberService
	Barbershop *store.Barbershop
}

// Service implements the booking operations behind the assistant tools and
// the REST surface.
type Service struct {
	store *store.Store
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// SearchBarbershops lists barbershops whose name contains name.
// An empty name returns the full list.
func (s *Service) SearchBarbershops(ctx context.Context, name string) ([]*store.Barbershop, error) {
	find := &store.FindBarbershop{}
	if name != "" {
		find.NameContains = &name
	}
	return s.store.ListBarbershops(ctx, find)
}

// GetBarbershop returns the barbershop with the given UID, or nil.
func (s *Service) GetBarbershop(ctx context.Context, uid string) (*store.Barbershop, error) {
	return s.store.GetBarbershop(ctx, &store.FindBarbershop{UID: &uid})
}

// ListServices returns the services offered by a barbershop.
func (s *Service) ListServices(ctx context.Context, barbershopID int32) ([]*store.BarberService, error) {
	return s.store.ListBarberServices(ctx, &store.FindBarberService{BarbershopID: &barbershopID})
}

// GetService returns the service with the given UID, or nil.
func (s *Service) GetService(ctx context.Context, uid string) (*store.BarberService, error) {
	return s.store.GetBarberService(ctx, &store.FindBarberService{UID: &uid})
}

// ListRecentBookings returns the user's most recent bookings, newest first,
// joined with service and barbershop.
func (s *Service) ListRecentBookings(ctx context.Context, userID int32, limit int) ([]*Detail, error) {
	bookings, err := s.store.ListBookings(ctx, &store.FindBooking{
		UserID:          &userID,
		OrderByDateDesc: true,
		Limit:           &limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list bookings")
	}
	return s.joinDetails(ctx, bookings)
}

// ListUpcomingBookings returns the user's future, non-cancelled bookings,
// soonest first.
func (s *Service) ListUpcomingBookings(ctx context.Context, userID int32) ([]*Detail, error) {
	nowTs := time.Now().Unix()
	bookings, err := s.store.ListBookings(ctx, &store.FindBooking{
		UserID:           &userID,
		DateAfter:        &nowTs,
		ExcludeCancelled: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list bookings")
	}
	return s.joinDetails(ctx, bookings)
}

// Create books the service for the user at the given time. The caller is
// responsible for authentication; userID must belong to an existing user.
func (s *Service) Create(ctx context.Context, userID int32, serviceUID string, at time.Time) (*Detail, error) {
	service, err := s.store.GetBarberService(ctx, &store.FindBarberService{UID: &serviceUID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find service")
	}
	if service == nil {
		return nil, ErrServiceNotFound
	}

	// Reject a double booking of the same slot at the same shop.
	dateTs := at.Unix()
	dateEnd := dateTs + 1
	existing, err := s.store.ListBookings(ctx, &store.FindBooking{
		BarbershopID:     &service.BarbershopID,
		DateAfter:        &dateTs,
		DateBefore:       &dateEnd,
		ExcludeCancelled: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to check slot")
	}
	if len(existing) > 0 {
		return nil, ErrSlotTaken
	}

	created, err := s.store.CreateBooking(ctx, &store.Booking{
		UID:          shortuuid.New(),
		UserID:       userID,
		ServiceID:    service.ID,
		BarbershopID: service.BarbershopID,
		DateTs:       dateTs,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create booking")
	}

	shop, err := s.store.GetBarbershop(ctx, &store.FindBarbershop{ID: &service.BarbershopID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find barbershop")
	}
	return &Detail{Booking: created, Service: service, Barbershop: shop}, nil
}

// Cancel marks the user's booking as cancelled.
func (s *Service) Cancel(ctx context.Context, userID int32, bookingUID string) (*store.Booking, error) {
	bookings, err := s.store.ListBookings(ctx, &store.FindBooking{UID: &bookingUID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find booking")
	}
	if len(bookings) == 0 {
		return nil, ErrBookingNotFound
	}
	booking := bookings[0]
	if booking.UserID != userID {
		return nil, ErrNotOwner
	}

	cancelled := true
	return s.store.UpdateBooking(ctx, &store.UpdateBooking{ID: booking.ID, Cancelled: &cancelled})
}

func (s *Service) joinDetails(ctx context.Context, bookings []*store.Booking) ([]*Detail, error) {
	details := []*Detail{}
	for _, booking := range bookings {
		service, err := s.store.GetBarberService(ctx, &store.FindBarberService{ID: &booking.ServiceID})
		if err != nil {
			return nil, errors.Wrap(err, "failed to find service")
		}
		shop, err := s.store.GetBarbershop(ctx, &store.FindBarbershop{ID: &booking.BarbershopID})
		if err != nil {
			return nil, errors.Wrap(err, "failed to find barbershop")
		}
		details = append(details, &Detail{Booking: booking, Service: service, Barbershop: shop})
	}
	return details, nil
}
