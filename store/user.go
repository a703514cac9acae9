package store

// User is an account that can create bookings.
type User struct {
	ID        int32
	UID       string
	CreatedTs int64
	UpdatedTs int64

	Email        string
	Nickname     string
	PasswordHash string
}

type FindUser struct {
	ID    *int32
	UID   *string
	Email *string
}
