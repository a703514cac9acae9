package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)

	// Barbershop model related methods.
	CreateBarbershop(ctx context.Context, create *Barbershop) (*Barbershop, error)
	ListBarbershops(ctx context.Context, find *FindBarbershop) ([]*Barbershop, error)

	// BarberService model related methods.
	CreateBarberService(ctx context.Context, create *BarberService) (*BarberService, error)
	ListBarberServices(ctx context.Context, find *FindBarberService) ([]*BarberService, error)

	// Booking model related methods.
	CreateBooking(ctx context.Context, create *Booking) (*Booking, error)
	ListBookings(ctx context.Context, find *FindBooking) ([]*Booking, error)
	UpdateBooking(ctx context.Context, update *UpdateBooking) (*Booking, error)
}
