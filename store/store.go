package store

import (
	"context"

	"github.com/aparatus/aparatus/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	return s.driver.CreateUser(ctx, create)
}

func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

// GetUser returns the first user matching find, or nil when none matches.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	users, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return users[0], nil
}

func (s *Store) CreateBarbershop(ctx context.Context, create *Barbershop) (*Barbershop, error) {
	return s.driver.CreateBarbershop(ctx, create)
}

func (s *Store) ListBarbershops(ctx context.Context, find *FindBarbershop) ([]*Barbershop, error) {
	return s.driver.ListBarbershops(ctx, find)
}

// GetBarbershop returns the first barbershop matching find, or nil when none matches.
func (s *Store) GetBarbershop(ctx context.Context, find *FindBarbershop) (*Barbershop, error) {
	shops, err := s.driver.ListBarbershops(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(shops) == 0 {
		return nil, nil
	}
	return shops[0], nil
}

func (s *Store) CreateBarberService(ctx context.Context, create *BarberService) (*BarberService, error) {
	return s.driver.CreateBarberService(ctx, create)
}

func (s *Store) ListBarberServices(ctx context.Context, find *FindBarberService) ([]*BarberService, error) {
	return s.driver.ListBarberServices(ctx, find)
}

// GetBarberService returns the first service matching find, or nil when none matches.
func (s *Store) GetBarberService(ctx context.Context, find *FindBarberService) (*BarberService, error) {
	services, err := s.driver.ListBarberServices(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return nil, nil
	}
	return services[0], nil
}

func (s *Store) CreateBooking(ctx context.Context, create *Booking) (*Booking, error) {
	return s.driver.CreateBooking(ctx, create)
}

func (s *Store) ListBookings(ctx context.Context, find *FindBooking) ([]*Booking, error) {
	return s.driver.ListBookings(ctx, find)
}

func (s *Store) UpdateBooking(ctx context.Context, update *UpdateBooking) (*Booking, error) {
	return s.driver.UpdateBooking(ctx, update)
}
