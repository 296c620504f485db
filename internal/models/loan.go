package models

import "time"

// Loan directions
const (
	LoanGiven    = "given"
	LoanReceived = "received"
)

// Loan represents money lent to or borrowed by a user.
// Invariant: 0 <= RemainingBalance <= Principal.
type Loan struct {
	ID                   int64      `json:"id"`
	OwnerID              int64      `json:"owner_id"`
	Name                 string     `json:"name"`
	Direction            string     `json:"direction"` // given or received
	Principal            float64    `json:"principal"`
	RemainingBalance     float64    `json:"remaining_balance"`
	InterestRateAnnual   *float64   `json:"interest_rate_annual,omitempty"`
	DueDate              *time.Time `json:"due_date,omitempty"`
	InstallmentAmount    *float64   `json:"installment_amount,omitempty"`
	InstallmentFrequency *string    `json:"installment_frequency,omitempty"`
}

// Rate returns the annual interest rate, zero when unset.
func (l *Loan) Rate() float64 {
	if l.InterestRateAnnual == nil {
		return 0
	}
	return *l.InterestRateAnnual
}

// Installment returns the installment amount, zero when unset.
func (l *Loan) Installment() float64 {
	if l.InstallmentAmount == nil {
		return 0
	}
	return *l.InstallmentAmount
}
