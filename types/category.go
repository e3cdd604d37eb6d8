package types

// Category classifies transactions as income or outcome.
// A category belongs to exactly one user and is only visible to that user.
type Category struct {
	// ID is the store-generated identifier of the category.
	ID string `json:"id" db:"id"`

	// Name is the human-readable name of the category. Never blank.
	Name string `json:"name" db:"name"`

	// Type tells whether the category classifies income or outcome.
	Type TransactionType `json:"type" db:"type"`

	// Pattern is an optional expression intended for matching free-text
	// transaction descriptions. It is stored but not interpreted.
	Pattern string `json:"pattern" db:"pattern"`

	// User is the owning user.
	User User `json:"user" db:"user"`
}

// CategoryInput is the client payload used to create or replace a category.
type CategoryInput struct {
	Name    string          `json:"name" validate:"notblank"`
	Type    TransactionType `json:"type" validate:"required,oneof=INCOME OUTCOME"`
	Pattern string          `json:"pattern"`
}
