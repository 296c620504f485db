package models

import "time"

// RecurringBill represents a repeating payment obligation
type RecurringBill struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Amount      float64   `json:"amount"`
	Frequency   string    `json:"frequency"`
	NextDueDate time.Time `json:"next_due_date"`
}
