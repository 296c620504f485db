package engine

import "github.com/finbuddy/advisor-service/internal/models"

// HealthScore breaks a 0-100 financial health total into five 20-point
// sub-scores, each reported individually.
type HealthScore struct {
	SavingsRate     float64 `json:"savings_rate"`
	DebtRatio       float64 `json:"debt_ratio"`
	BudgetAdherence float64 `json:"budget_adherence"`
	EmergencyFund   float64 `json:"emergency_fund"`
	GoalProgress    float64 `json:"goal_progress"`
	Total           float64 `json:"total"`
	Grade           string  `json:"grade"`
}

// HealthInputs are the aggregates the health score consumes. Income and
// Expenses cover the scoring window; MonthlyDebtPayments and
// MonthlyExpenses are per-month figures.
type HealthInputs struct {
	Income              float64
	Expenses            float64
	MonthlyExpenses     float64
	MonthlyDebtPayments float64
	LiquidSavings       float64
	Budgets             []models.Budget
	Goals               []models.SavingsGoal
}

// ScoreHealth computes the five sub-scores and the letter grade. Every
// sub-score is clamped to [0, 20] so the total stays in [0, 100] for
// any input, including all-zero users.
func ScoreHealth(in HealthInputs) HealthScore {
	score := HealthScore{
		SavingsRate:     scoreSavingsRate(in.Income, in.Expenses),
		DebtRatio:       scoreDebtRatio(in.Income, in.MonthlyDebtPayments),
		BudgetAdherence: scoreBudgetAdherence(in.Budgets),
		EmergencyFund:   scoreEmergencyFund(in.LiquidSavings, in.MonthlyExpenses),
		GoalProgress:    scoreGoalProgress(in.Goals),
	}
	score.Total = score.SavingsRate + score.DebtRatio + score.BudgetAdherence +
		score.EmergencyFund + score.GoalProgress
	score.Grade = healthGrade(score.Total)
	return score
}

func healthGrade(total float64) string {
	switch {
	case total >= 90:
		return "A"
	case total >= 80:
		return "B"
	case total >= 70:
		return "C"
	case total >= 60:
		return "D"
	default:
		return "F"
	}
}

// A 20% savings rate or better earns full points; the score scales
// linearly below that benchmark.
func scoreSavingsRate(income, expenses float64) float64 {
	if income <= 0 {
		return 0
	}
	rate := (income - expenses) / income
	return clampScore(rate / 0.20 * 20)
}

// Debt payments at or under 10% of income score full points; 50% or
// more scores zero, linear in between.
func scoreDebtRatio(income, monthlyDebt float64) float64 {
	if monthlyDebt <= 0 {
		return 20
	}
	if income <= 0 {
		return 0
	}
	ratio := monthlyDebt / (income / monthsInWindow)
	if ratio <= 0.10 {
		return 20
	}
	if ratio >= 0.50 {
		return 0
	}
	return clampScore((0.50 - ratio) / 0.40 * 20)
}

// monthsInWindow matches the three-month aggregation window the health
// intent fixes, converting window income to a monthly figure.
const monthsInWindow = 3

func scoreBudgetAdherence(budgets []models.Budget) float64 {
	if len(budgets) == 0 {
		return 10 // neutral: nothing tracked, nothing violated
	}
	within := 0
	for _, b := range budgets {
		if !b.IsOverBudget() {
			within++
		}
	}
	return clampScore(float64(within) / float64(len(budgets)) * 20)
}

// Six months of expense coverage earns full points.
func scoreEmergencyFund(liquidSavings, monthlyExpenses float64) float64 {
	if monthlyExpenses <= 0 {
		if liquidSavings > 0 {
			return 20
		}
		return 10
	}
	months := liquidSavings / monthlyExpenses
	return clampScore(months / 6 * 20)
}

func scoreGoalProgress(goals []models.SavingsGoal) float64 {
	if len(goals) == 0 {
		return 10
	}
	var sum float64
	for _, g := range goals {
		sum += g.ProgressRatio()
	}
	return clampScore(sum / float64(len(goals)) * 20)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 20 {
		return 20
	}
	return v
}
