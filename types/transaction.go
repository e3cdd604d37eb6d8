package types

// TransactionType tells whether money comes in or goes out.
type TransactionType string

// Supported transaction types.
const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeOutcome TransactionType = "OUTCOME"
)

// TransactionStatus is a plain attribute; any status may follow any other.
type TransactionStatus string

// Supported transaction statuses.
const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusDone    TransactionStatus = "DONE"
)

// Transaction represents a dated monetary movement owned by a user.
type Transaction struct {
	// ID is the store-generated identifier of the transaction.
	ID string `json:"id" db:"id"`

	// Description is an optional free-text note.
	Description string `json:"description" db:"description"`

	// Date is the calendar date the movement happened or is due.
	Date Date `json:"date" db:"date"`

	// Value is the strictly positive amount of the movement.
	Value Amount `json:"value" db:"value"`

	// Type tells whether the movement is income or outcome.
	Type TransactionType `json:"type" db:"type"`

	// Status tells whether the movement is still pending or already done.
	Status TransactionStatus `json:"status" db:"status"`

	// User is the owning user.
	User User `json:"user" db:"user"`

	// Category is the optional classifier. When set it is owned by User.
	Category *Category `json:"category" db:"category"`
}

// TransactionInput is the client payload used to create or replace a transaction.
// An empty CategoryID means no category.
type TransactionInput struct {
	Description string            `json:"description"`
	Date        *Date             `json:"date" validate:"required"`
	Value       *Amount           `json:"value" validate:"required,gt=0"`
	Type        TransactionType   `json:"type" validate:"required,oneof=INCOME OUTCOME"`
	Status      TransactionStatus `json:"status" validate:"required,oneof=PENDING DONE"`
	CategoryID  string            `json:"categoryId"`
}
