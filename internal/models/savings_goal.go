package models

import "time"

// SavingsGoal represents a savings target
type SavingsGoal struct {
	ID            int64      `json:"id"`
	OwnerID       int64      `json:"owner_id"`
	Name          string     `json:"name"`
	TargetAmount  float64    `json:"target_amount"`
	CurrentAmount float64    `json:"current_amount"`
	TargetDate    *time.Time `json:"target_date,omitempty"`
}

// ProgressRatio returns CurrentAmount/TargetAmount clamped to [0, 1]
// for display. Projection math uses the raw quotient instead.
func (g *SavingsGoal) ProgressRatio() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	ratio := g.CurrentAmount / g.TargetAmount
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}
