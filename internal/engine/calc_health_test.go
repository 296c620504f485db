package engine

import (
	"testing"

	"github.com/finbuddy/advisor-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestScoreHealthBounded(t *testing.T) {
	// Synthetic inputs spanning zero, negative-net and extreme cases;
	// every sub-score must sit in [0, 20] and the total in [0, 100].
	inputs := []HealthInputs{
		{},
		{Income: 9000, Expenses: 3000, MonthlyExpenses: 1000, LiquidSavings: 12000},
		{Income: 3000, Expenses: 9000, MonthlyExpenses: 3000},
		{Income: 9000, Expenses: 3000, MonthlyDebtPayments: 5000},
		{Expenses: 5000, MonthlyExpenses: 1666, MonthlyDebtPayments: 800},
		{Income: 1, Expenses: 1e9, MonthlyExpenses: 1e9 / 3, MonthlyDebtPayments: 1e9},
		{
			Income: 30000, Expenses: 12000, MonthlyExpenses: 4000, LiquidSavings: 40000,
			Budgets: []models.Budget{{PeriodAmount: 100, SpentAmount: 50}},
			Goals:   []models.SavingsGoal{{TargetAmount: 1000, CurrentAmount: 1000}},
		},
		{
			Budgets: []models.Budget{{PeriodAmount: 100, SpentAmount: 500}, {PeriodAmount: 100, SpentAmount: 90}},
			Goals:   []models.SavingsGoal{{TargetAmount: 1000, CurrentAmount: -50}, {TargetAmount: 0}},
		},
	}

	for _, in := range inputs {
		score := ScoreHealth(in)
		for name, sub := range map[string]float64{
			"savings rate":     score.SavingsRate,
			"debt ratio":       score.DebtRatio,
			"budget adherence": score.BudgetAdherence,
			"emergency fund":   score.EmergencyFund,
			"goal progress":    score.GoalProgress,
		} {
			assert.GreaterOrEqual(t, sub, 0.0, "%s for %+v", name, in)
			assert.LessOrEqual(t, sub, 20.0, "%s for %+v", name, in)
		}
		assert.GreaterOrEqual(t, score.Total, 0.0)
		assert.LessOrEqual(t, score.Total, 100.0)
	}
}

func TestScoreHealthSubScores(t *testing.T) {
	t.Run("strong finances score high", func(t *testing.T) {
		score := ScoreHealth(HealthInputs{
			Income: 30000, Expenses: 12000, // 60% savings rate over the window
			MonthlyExpenses: 4000,
			LiquidSavings:   40000, // 10 months of coverage
			Budgets:         []models.Budget{{PeriodAmount: 500, SpentAmount: 300}},
			Goals:           []models.SavingsGoal{{TargetAmount: 1000, CurrentAmount: 1000}},
		})
		assert.Equal(t, 20.0, score.SavingsRate)
		assert.Equal(t, 20.0, score.DebtRatio)
		assert.Equal(t, 20.0, score.BudgetAdherence)
		assert.Equal(t, 20.0, score.EmergencyFund)
		assert.Equal(t, 20.0, score.GoalProgress)
		assert.Equal(t, "A", score.Grade)
	})

	t.Run("overspending scores zero on savings rate", func(t *testing.T) {
		score := ScoreHealth(HealthInputs{Income: 3000, Expenses: 4000})
		assert.Equal(t, 0.0, score.SavingsRate)
	})

	t.Run("half the budgets blown halves adherence", func(t *testing.T) {
		score := ScoreHealth(HealthInputs{Budgets: []models.Budget{
			{PeriodAmount: 100, SpentAmount: 150},
			{PeriodAmount: 100, SpentAmount: 50},
		}})
		assert.Equal(t, 10.0, score.BudgetAdherence)
	})
}

func TestHealthGradeCutoffs(t *testing.T) {
	assert.Equal(t, "A", healthGrade(90))
	assert.Equal(t, "B", healthGrade(89.9))
	assert.Equal(t, "B", healthGrade(80))
	assert.Equal(t, "C", healthGrade(70))
	assert.Equal(t, "D", healthGrade(60))
	assert.Equal(t, "F", healthGrade(59.9))
	assert.Equal(t, "F", healthGrade(0))
}
