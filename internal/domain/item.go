package domain

// User is a user account from the user directory
type User struct {
	ID    int64
	Name  string
	Email string
}

// Item is a shareable item from the item catalog.
// Available gates booking creation only.
type Item struct {
	ID        int64
	OwnerID   int64
	Name      string
	Available bool
}
