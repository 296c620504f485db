package engine

// Intent is a closed category of question the engine knows how to answer.
type Intent string

// Known intents. The classifier resolves every query to exactly one of
// these; IntentUnknown routes to the suggestion fallback.
const (
	IntentSpendingOnCategory Intent = "spending_on_category"
	IntentSpendingTotal      Intent = "spending_total"
	IntentCategoryBreakdown  Intent = "category_breakdown"
	IntentIncomeSummary      Intent = "income_summary"
	IntentNetBalance         Intent = "net_balance"
	IntentOverBudget         Intent = "over_budget"
	IntentBudgetStatus       Intent = "budget_status"
	IntentGoalProgress       Intent = "goal_progress"
	IntentLoanPayoff         Intent = "loan_payoff"
	IntentDebtTimeline       Intent = "debt_timeline"
	IntentLoanStatus         Intent = "loan_status"
	IntentSubscriptions      Intent = "subscriptions"
	IntentBillsDue           Intent = "bills_due"
	IntentHealthScore        Intent = "health_score"
	IntentRatios             Intent = "ratios"
	IntentTaxDeductions      Intent = "tax_deductions"
	IntentSeasonal           Intent = "seasonal"
	IntentPartnerCompare     Intent = "partner_compare"
	IntentTrend              Intent = "trend"
	IntentHelp               Intent = "help"
	IntentUnknown            Intent = "unknown"
)
