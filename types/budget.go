package types

// Budget is a monthly spending target for a category.
// No operation reads or writes budgets yet.
type Budget struct {
	ID       string   `json:"id" db:"id"`
	Month    int      `json:"month" db:"month"`
	Year     int      `json:"year" db:"year"`
	Category Category `json:"category" db:"category"`
	Value    Amount   `json:"value" db:"value"`
	User     User     `json:"user" db:"user"`
}
