package store

// Booking is a confirmed appointment for a service at a barbershop.
type Booking struct {
	ID        int32
	UID       string
	CreatedTs int64

	UserID       int32
	ServiceID    int32
	BarbershopID int32
	// DateTs is the appointment time as a unix timestamp.
	DateTs    int64
	Cancelled bool
}

type FindBooking struct {
	ID           *int32
	UID          *string
	UserID       *int32
	BarbershopID *int32
	// DateAfter and DateBefore bound DateTs (inclusive start, exclusive end).
	DateAfter  *int64
	DateBefore *int64
	// ExcludeCancelled drops cancelled bookings from the result.
	ExcludeCancelled bool
	// OrderByDateDesc orders newest-first instead of the default oldest-first.
	OrderByDateDesc bool
	Limit           *int
}

type UpdateBooking struct {
	ID        int32
	Cancelled *bool
}
