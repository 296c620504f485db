package models

// Budget periods
const (
	PeriodWeekly    = "weekly"
	PeriodMonthly   = "monthly"
	PeriodQuarterly = "quarterly"
	PeriodYearly    = "yearly"
)

// Budget represents a per-category spending limit for a period
type Budget struct {
	ID           int64   `json:"id"`
	OwnerID      int64   `json:"owner_id"`
	Category     string  `json:"category"`
	PeriodAmount float64 `json:"period_amount"`
	SpentAmount  float64 `json:"spent_amount"`
	Period       string  `json:"period"`
}

// IsOverBudget reports whether spending exceeded the period amount.
func (b *Budget) IsOverBudget() bool {
	return b.SpentAmount > b.PeriodAmount
}
