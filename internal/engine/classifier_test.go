package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// regressionSet is the curated phrasing set spanning every intent. It
// doubles as the guard for pattern-order changes: adding a rule must
// not move any of these.
var regressionSet = []struct {
	text   string
	intent Intent
}{
	{"how much did I spend on groceries", IntentSpendingOnCategory},
	{"what did I spend on food last month", IntentSpendingOnCategory},
	{"SPENT on coffee?", IntentSpendingOnCategory},
	{"show my spending", IntentSpendingTotal},
	{"total expenses this month", IntentSpendingTotal},
	{"how much did i spend", IntentSpendingTotal},
	{"break it down by category", IntentCategoryBreakdown},
	{"where did my money go", IntentCategoryBreakdown},
	{"what were my biggest expenses", IntentCategoryBreakdown},
	{"how much income this month", IntentIncomeSummary},
	{"how much did i earn", IntentIncomeSummary},
	{"what's my cash flow", IntentNetBalance},
	{"did i save money this month", IntentNetBalance},
	{"income vs expenses", IntentNetBalance},
	{"am i over budget", IntentOverBudget},
	{"have i exceeded any budgets", IntentOverBudget},
	{"how are my budgets", IntentBudgetStatus},
	{"how are my savings goals", IntentGoalProgress},
	{"how close am i to my vacation goal", IntentGoalProgress},
	{"what loans do i have", IntentLoanStatus},
	{"how much do i owe", IntentLoanStatus},
	{"when will my loan be paid off", IntentLoanPayoff},
	{"what if i pay an extra $50", IntentLoanPayoff},
	{"when will i be debt free", IntentDebtTimeline},
	{"pay off all my debts with the snowball method", IntentDebtTimeline},
	{"use the avalanche strategy", IntentDebtTimeline},
	{"do i have any subscriptions", IntentSubscriptions},
	{"find my recurring charges", IntentSubscriptions},
	{"what bills are due soon", IntentBillsDue},
	{"show upcoming bills", IntentBillsDue},
	{"what's my financial health score", IntentHealthScore},
	{"how am i doing financially", IntentHealthScore},
	{"what's my savings rate", IntentRatios},
	{"what's my debt to income ratio", IntentRatios},
	{"can i deduct any of this on my taxes", IntentTaxDeductions},
	{"what tax write offs do i have", IntentTaxDeductions},
	{"which months do i spend the most", IntentSeasonal},
	{"what's my most expensive month", IntentSeasonal},
	{"am i spending more than last month", IntentTrend},
	{"how does my spending compare to last month", IntentTrend},
	{"compare my spending with my partner", IntentPartnerCompare},
	{"who spends more me or my partner", IntentPartnerCompare},
	{"help", IntentHelp},
	{"what can you do", IntentHelp},
	{"tell me a joke about quantum physics", IntentUnknown},
	{"", IntentUnknown},
}

func TestClassifyRegressionSet(t *testing.T) {
	c := NewClassifier()
	for _, tc := range regressionSet {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.intent, c.Classify(tc.text).Intent)
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := NewClassifier()
	for i := 0; i < 5; i++ {
		for _, tc := range regressionSet {
			require.Equal(t, tc.intent, c.Classify(tc.text).Intent)
		}
	}
}

func TestClassifyCaptures(t *testing.T) {
	c := NewClassifier()

	m := c.Classify("how much did I spend on groceries")
	assert.Equal(t, IntentSpendingOnCategory, m.Intent)
	assert.Equal(t, "groceries", m.Category)

	m = c.Classify("what did I spend on food last month")
	assert.Equal(t, "food", m.Category, "trailing range words are not part of the category")

	m = c.Classify("what if i pay an extra $75.50")
	assert.Equal(t, IntentLoanPayoff, m.Intent)
	assert.Equal(t, 75.50, m.Amount)

	m = c.Classify("pay off all my debts with the snowball method")
	assert.Equal(t, StrategySnowball, m.Strategy)

	m = c.Classify("when will i be debt free")
	assert.Equal(t, StrategyAvalanche, m.Strategy, "avalanche is the default strategy")
}

// Appending a pattern group must not change any existing resolution:
// first-match-wins means new rules at the end only ever claim text that
// previously fell through to Unknown.
func TestPatternOrderNonInterference(t *testing.T) {
	extended := &Classifier{rules: append(defaultRules(),
		newRule(Intent("crypto_holdings"), captureNone, `crypto`, `bitcoin`))}

	for _, tc := range regressionSet {
		if tc.intent == IntentUnknown {
			continue
		}
		require.Equal(t, tc.intent, extended.Classify(tc.text).Intent,
			"adding a rule changed the resolution of %q", tc.text)
	}

	assert.Equal(t, Intent("crypto_holdings"), extended.Classify("how much bitcoin do i have").Intent)
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "what did i spend", normalizeQuery("  What   DID I\tspend  "))
}
