package models

import "time"

// Transaction kinds
const (
	KindExpense = "expense"
	KindIncome  = "income"
)

// Transaction represents a financial transaction
type Transaction struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Kind        string    `json:"kind"` // expense or income
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	OccurredAt  time.Time `json:"occurred_at"`
	Description string    `json:"description"`
}
