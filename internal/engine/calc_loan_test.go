package engine

import (
	"testing"

	"github.com/finbuddy/advisor-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rate(v float64) *float64 { return &v }

func TestAmortizePayoff(t *testing.T) {
	t.Run("converges to the hand-computed schedule", func(t *testing.T) {
		// $10,000 at 6% with a $300/month payment: 37 payments, about
		// $966.74 total interest.
		res := AmortizePayoff(10000, 0.06, 300)

		require.True(t, res.Amortizes)
		assert.Equal(t, 37, res.Months)
		assert.InDelta(t, 966.74, res.TotalInterest, 1.0)
		assert.InDelta(t, 10966.74, res.TotalPaid, 1.0)
		assert.Len(t, res.Schedule, 37)
		assert.InDelta(t, 0, res.Schedule[36].Balance, 0.01)
	})

	t.Run("first period splits interest and principal correctly", func(t *testing.T) {
		res := AmortizePayoff(10000, 0.06, 300)
		first := res.Schedule[0]
		assert.InDelta(t, 50.0, first.Interest, 0.001) // 10000 * 0.06/12
		assert.InDelta(t, 250.0, first.Principal, 0.001)
		assert.InDelta(t, 9750.0, first.Balance, 0.001)
	})

	t.Run("payment below interest hits the cap instead of looping forever", func(t *testing.T) {
		res := AmortizePayoff(10000, 0.12, 50) // monthly interest is $100
		assert.False(t, res.Amortizes)
		assert.Equal(t, maxAmortizationPeriods, res.Months)
	})

	t.Run("zero principal is already paid off", func(t *testing.T) {
		res := AmortizePayoff(0, 0.06, 300)
		assert.True(t, res.Amortizes)
		assert.Equal(t, 0, res.Months)
	})

	t.Run("zero rate divides principal evenly", func(t *testing.T) {
		res := AmortizePayoff(1200, 0, 100)
		require.True(t, res.Amortizes)
		assert.Equal(t, 12, res.Months)
		assert.InDelta(t, 0, res.TotalInterest, 0.001)
	})
}

func TestCompareExtraPayment(t *testing.T) {
	cmp := CompareExtraPayment(10000, 0.06, 300, 100)

	require.True(t, cmp.Base.Amortizes)
	require.True(t, cmp.WithExtra.Amortizes)
	assert.Less(t, cmp.WithExtra.Months, cmp.Base.Months)
	assert.Greater(t, cmp.InterestSaved, 0.0)
	assert.Equal(t, cmp.Base.Months-cmp.WithExtra.Months, cmp.MonthsSaved)
	assert.InDelta(t, cmp.Base.TotalInterest-cmp.WithExtra.TotalInterest, cmp.InterestSaved, 0.001)
}

func TestDebtFreeTimeline(t *testing.T) {
	loans := []models.Loan{
		{Name: "Car", Direction: models.LoanReceived, Principal: 8000, RemainingBalance: 5000, InterestRateAnnual: rate(0.04)},
		{Name: "Card", Direction: models.LoanReceived, Principal: 3000, RemainingBalance: 2000, InterestRateAnnual: rate(0.20)},
		{Name: "To Alice", Direction: models.LoanGiven, Principal: 1000, RemainingBalance: 1000},
	}

	t.Run("avalanche clears the highest rate first", func(t *testing.T) {
		plan := DebtFreeTimeline(loans, 500, StrategyAvalanche)
		require.True(t, plan.Feasible)
		require.Len(t, plan.Order, 2, "given loans are not part of the payoff plan")
		assert.Equal(t, "Card", plan.Order[0].LoanName)
		assert.Equal(t, "Car", plan.Order[1].LoanName)
		assert.Greater(t, plan.Months, 0)
	})

	t.Run("snowball clears the smallest balance first", func(t *testing.T) {
		plan := DebtFreeTimeline(loans, 500, StrategySnowball)
		require.True(t, plan.Feasible)
		assert.Equal(t, "Card", plan.Order[0].LoanName)
	})

	t.Run("avalanche pays no more interest than snowball", func(t *testing.T) {
		avalanche := DebtFreeTimeline(loans, 500, StrategyAvalanche)
		snowball := DebtFreeTimeline(loans, 500, StrategySnowball)
		assert.LessOrEqual(t, avalanche.TotalInterest, snowball.TotalInterest)
	})

	t.Run("budget below interest is infeasible", func(t *testing.T) {
		plan := DebtFreeTimeline(loans, 5, StrategyAvalanche)
		assert.False(t, plan.Feasible)
		assert.Equal(t, maxAmortizationPeriods, plan.Months)
	})

	t.Run("no received loans is trivially feasible", func(t *testing.T) {
		plan := DebtFreeTimeline([]models.Loan{loans[2]}, 500, StrategyAvalanche)
		assert.True(t, plan.Feasible)
		assert.Equal(t, 0, plan.Months)
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		a := DebtFreeTimeline(loans, 500, StrategyAvalanche)
		b := DebtFreeTimeline(loans, 500, StrategyAvalanche)
		assert.Equal(t, a, b)
	})
}
