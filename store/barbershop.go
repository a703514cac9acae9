package store

// Barbershop is a shop listed on the marketplace.
type Barbershop struct {
	ID        int32
	UID       string
	CreatedTs int64

	Name        string
	Address     string
	Description string
	ImageURL    string
	// Phones is stored as a JSON array of strings.
	Phones []string
}

type FindBarbershop struct {
	ID  *int32
	UID *string
	// NameContains filters by case-insensitive substring on name. Case
	// folding is full Unicode on postgres (ILIKE) but ASCII-only on sqlite,
	// whose LIKE and lower() do not fold accented characters without ICU.
	NameContains *string
}

// BarberService is a bookable service offered by a barbershop.
type BarberService struct {
	ID           int32
	UID          string
	BarbershopID int32

	Name        string
	Description string
	// PriceCents is the price in integer minor-currency units (centavos).
	PriceCents int64
	ImageURL   string
}

type FindBarberService struct {
	ID           *int32
	UID          *string
	BarbershopID *int32
}
