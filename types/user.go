package types

// User represents an identity resolved from the identity provider.
// It is upserted wholesale on every authenticated request.
type User struct {
	// ID is the identity provider's stable subject identifier.
	// It is never generated locally.
	ID string `json:"id" db:"id"`

	// Username is the provider's preferred username.
	Username string `json:"username" db:"username"`

	// Name is the user's given name.
	Name string `json:"name" db:"name"`

	// Lastname is the user's family name.
	Lastname string `json:"lastname" db:"lastname"`

	// Email is the user's email address.
	Email string `json:"email" db:"email"`
}
