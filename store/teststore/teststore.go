// Package teststore provides an in-memory store.Driver for tests.
package teststore

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/aparatus/aparatus/internal/profile"
	"github.com/aparatus/aparatus/store"
)

// Driver is an in-memory implementation of store.Driver.
type Driver struct {
	mu sync.Mutex

	users       []*store.User
	barbershops []*store.Barbershop
	services    []*store.BarberService
	bookings    []*store.Booking

	nextID int32
}

// New returns a store.Store backed by an in-memory driver.
func New() (*store.Store, *Driver) {
	driver := &Driver{nextID: 1}
	return store.New(driver, &profile.Profile{Mode: "dev", Driver: "sqlite"}), driver
}

func (d *Driver) GetDB() *sql.DB { return nil }

func (d *Driver) Close() error { return nil }

func (d *Driver) IsInitialized(context.Context) (bool, error) { return true, nil }

// BookingCount reports how many bookings were written, for zero-write checks.
func (d *Driver) BookingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.bookings)
}

func (d *Driver) allocID() int32 {
	id := d.nextID
	d.nextID++
	return id
}

func (d *Driver) CreateUser(_ context.Context, create *store.User) (*store.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = d.allocID()
	d.users = append(d.users, create)
	return create, nil
}

func (d *Driver) ListUsers(_ context.Context, find *store.FindUser) ([]*store.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := []*store.User{}
	for _, user := range d.users {
		if find.ID != nil && user.ID != *find.ID {
			continue
		}
		if find.UID != nil && user.UID != *find.UID {
			continue
		}
		if find.Email != nil && user.Email != *find.Email {
			continue
		}
		list = append(list, user)
	}
	return list, nil
}

func (d *Driver) CreateBarbershop(_ context.Context, create *store.Barbershop) (*store.Barbershop, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = d.allocID()
	d.barbershops = append(d.barbershops, create)
	return create, nil
}

func (d *Driver) ListBarbershops(_ context.Context, find *store.FindBarbershop) ([]*store.Barbershop, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := []*store.Barbershop{}
	for _, shop := range d.barbershops {
		if find.ID != nil && shop.ID != *find.ID {
			continue
		}
		if find.UID != nil && shop.UID != *find.UID {
			continue
		}
		if find.NameContains != nil &&
			!strings.Contains(strings.ToLower(shop.Name), strings.ToLower(*find.NameContains)) {
			continue
		}
		list = append(list, shop)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (d *Driver) CreateBarberService(_ context.Context, create *store.BarberService) (*store.BarberService, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = d.allocID()
	d.services = append(d.services, create)
	return create, nil
}

func (d *Driver) ListBarberServices(_ context.Context, find *store.FindBarberService) ([]*store.BarberService, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := []*store.BarberService{}
	for _, service := range d.services {
		if find.ID != nil && service.ID != *find.ID {
			continue
		}
		if find.UID != nil && service.UID != *find.UID {
			continue
		}
		if find.BarbershopID != nil && service.BarbershopID != *find.BarbershopID {
			continue
		}
		list = append(list, service)
	}
	return list, nil
}

func (d *Driver) CreateBooking(_ context.Context, create *store.Booking) (*store.Booking, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = d.allocID()
	d.bookings = append(d.bookings, create)
	return create, nil
}

func (d *Driver) ListBookings(_ context.Context, find *store.FindBooking) ([]*store.Booking, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := []*store.Booking{}
	for _, booking := range d.bookings {
		if find.ID != nil && booking.ID != *find.ID {
			continue
		}
		if find.UID != nil && booking.UID != *find.UID {
			continue
		}
		if find.UserID != nil && booking.UserID != *find.UserID {
			continue
		}
		if find.BarbershopID != nil && booking.BarbershopID != *find.BarbershopID {
			continue
		}
		if find.DateAfter != nil && booking.DateTs < *find.DateAfter {
			continue
		}
		if find.DateBefore != nil && booking.DateTs >= *find.DateBefore {
			continue
		}
		if find.ExcludeCancelled && booking.Cancelled {
			continue
		}
		list = append(list, booking)
	}
	if find.OrderByDateDesc {
		sort.Slice(list, func(i, j int) bool { return list[i].DateTs > list[j].DateTs })
	} else {
		sort.Slice(list, func(i, j int) bool { return list[i].DateTs < list[j].DateTs })
	}
	if find.Limit != nil && len(list) > *find.Limit {
		list = list[:*find.Limit]
	}
	return list, nil
}

func (d *Driver) UpdateBooking(_ context.Context, update *store.UpdateBooking) (*store.Booking, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, booking := range d.bookings {
		if booking.ID == update.ID {
			if update.Cancelled != nil {
				booking.Cancelled = *update.Cancelled
			}
			return booking, nil
		}
	}
	return nil, sql.ErrNoRows
}
