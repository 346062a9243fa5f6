package domain

// Pagination defaults for booker listings
const (
	DefaultPageOffset = 0
	DefaultPageLimit  = 10
)
