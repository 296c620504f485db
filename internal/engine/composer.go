package engine

import (
	"fmt"
	"strings"

	"github.com/finbuddy/advisor-service/internal/models"
)

// Composer turns calculator payloads into the response envelope the UI
// consumes. It owns all currency and percentage formatting, response
// type escalation, and the per-intent quick-action templates.
type Composer struct{}

// NewComposer initializes a composer.
func NewComposer() *Composer {
	return &Composer{}
}

// quickActions holds 2-4 follow-up prompts per intent.
var quickActions = map[Intent][]string{
	IntentSpendingOnCategory: {"Compare with last month", "Show my category breakdown", "How can I spend less?"},
	IntentSpendingTotal:      {"Break it down by category", "Compare with last month", "Am I over budget?"},
	IntentCategoryBreakdown:  {"What's my biggest expense?", "Compare with last month", "How is my budget doing?"},
	IntentIncomeSummary:      {"What's my net balance?", "What's my savings rate?"},
	IntentNetBalance:         {"Show my spending breakdown", "What's my financial health score?"},
	IntentOverBudget:         {"Show all my budgets", "Where did my money go?"},
	IntentBudgetStatus:       {"Am I over budget anywhere?", "Show my spending this month"},
	IntentGoalProgress:       {"How is my financial health?", "What's my savings rate?"},
	IntentLoanPayoff:         {"What if I paid an extra $100?", "Show my debt-free timeline", "List my loans"},
	IntentDebtTimeline:       {"Try the snowball strategy", "Try the avalanche strategy", "List my loans"},
	IntentLoanStatus:         {"When will I be debt-free?", "What if I paid extra each month?"},
	IntentSubscriptions:      {"Which months do I spend the most?", "Show my recurring bills"},
	IntentBillsDue:           {"Scan for subscriptions", "What's my total spending?"},
	IntentHealthScore:        {"Show my financial ratios", "How can I improve my savings rate?"},
	IntentRatios:             {"What's my health score?", "Show my category breakdown"},
	IntentTaxDeductions:      {"Show my category breakdown", "What's my total spending this year?"},
	IntentSeasonal:           {"Compare with last month", "Scan for subscriptions"},
	IntentPartnerCompare:     {"Show my category breakdown", "What's our combined spending?"},
	IntentTrend:              {"Which months do I spend the most?", "Break it down by category"},
	IntentHelp:               {"What's my total spending?", "How is my financial health?", "Scan for subscriptions"},
}

// emptyStates carries the dedicated no-data response per intent,
// returned without invoking the calculator.
var emptyStates = map[Intent]string{
	IntentSpendingOnCategory: "I couldn't find any expenses in that category for this period.",
	IntentSpendingTotal:      "No expenses recorded for this period yet.",
	IntentCategoryBreakdown:  "No expenses recorded for this period, so there's nothing to break down yet.",
	IntentIncomeSummary:      "No income recorded for this period yet.",
	IntentNetBalance:         "No transactions recorded for this period yet.",
	IntentOverBudget:         "You haven't set up any budgets yet.",
	IntentBudgetStatus:       "You haven't set up any budgets yet.",
	IntentGoalProgress:       "You haven't created any savings goals yet.",
	IntentLoanPayoff:         "You have no active loans right now 🎉",
	IntentDebtTimeline:       "You have no active loans right now 🎉",
	IntentLoanStatus:         "You have no active loans right now 🎉",
	IntentSubscriptions:      "I need a few months of transactions to spot subscriptions, and I don't see any yet.",
	IntentBillsDue:           "You have no recurring bills on file.",
	IntentHealthScore:        "I need some transaction history before I can score your financial health.",
	IntentRatios:             "I need some transaction history before I can compute your ratios.",
	IntentTaxDeductions:      "No expenses on file to scan for deductions.",
	IntentSeasonal:           "I need several months of transactions to spot seasonal patterns.",
	IntentPartnerCompare:     "You don't have a linked partner yet.",
	IntentTrend:              "I need at least two months of transactions to show a trend.",
}

func (c *Composer) respond(text, kind string, intent Intent) models.EngineResponse {
	return models.EngineResponse{Text: text, Type: kind, QuickActions: quickActions[intent]}
}

// Empty returns the dedicated no-data response for an intent.
func (c *Composer) Empty(intent Intent) models.EngineResponse {
	text, ok := emptyStates[intent]
	if !ok {
		text = "There's no data for that yet."
	}
	return c.respond(text, models.ResponseText, intent)
}

// Fallback is the friendly response for unrecognized queries, carrying
// suggested questions as quick actions. Never surfaced as a failure.
func (c *Composer) Fallback(suggestions []string) models.EngineResponse {
	return models.EngineResponse{
		Text:         "I didn't quite get that. Here are some things you could ask me:",
		Type:         models.ResponseSuggestion,
		QuickActions: suggestions,
	}
}

// money formats a dollar amount for display.
func money(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}

// pct formats a percentage with one decimal.
func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// SpendSummary composes the total-spending answer.
func (c *Composer) SpendSummary(s SpendSummary) models.EngineResponse {
	text := fmt.Sprintf("You've spent %s across %d transactions this period.", money(s.Total), s.Count)
	if s.TopCategory != "" {
		text += fmt.Sprintf(" Your biggest category was %s.", s.TopCategory)
	}
	return c.respond(text, models.ResponseText, IntentSpendingTotal)
}

// CategorySpend composes the spending-on-category answer.
func (c *Composer) CategorySpend(s CategorySpend) models.EngineResponse {
	text := fmt.Sprintf("You spent %s on %s (%d transactions, %s of your spending this period).",
		money(s.Total), s.Category, s.Count, pct(s.Percent))
	kind := models.ResponseText
	if s.Percent >= 40 {
		kind = models.ResponseInsight
		text += " That's a large share of your total."
	}
	return c.respond(text, kind, IntentSpendingOnCategory)
}

// Breakdown composes the category breakdown table.
func (c *Composer) Breakdown(rows []CategoryTotal, total float64) models.EngineResponse {
	var b strings.Builder
	fmt.Fprintf(&b, "Here's where your %s went:\n", money(total))
	for _, r := range rows {
		fmt.Fprintf(&b, "• %s: %s (%s)\n", r.Category, money(r.Total), pct(r.Percent))
	}
	return c.respond(strings.TrimRight(b.String(), "\n"), models.ResponseInsight, IntentCategoryBreakdown)
}

// Income composes the income summary.
func (c *Composer) Income(income float64) models.EngineResponse {
	return c.respond(fmt.Sprintf("You earned %s this period.", money(income)),
		models.ResponseText, IntentIncomeSummary)
}

// NetBalance composes income minus expenses, escalating to a warning
// when the period ran negative.
func (c *Composer) NetBalance(income, expenses float64) models.EngineResponse {
	net := income - expenses
	text := fmt.Sprintf("Income %s, expenses %s: net %s this period.", money(income), money(expenses), money(net))
	kind := models.ResponseInsight
	if net < 0 {
		kind = models.ResponseWarning
		text += " You spent more than you earned."
	}
	return c.respond(text, kind, IntentNetBalance)
}

// Budgets composes the full budget status list with per-budget sources.
func (c *Composer) Budgets(budgets []models.Budget) models.EngineResponse {
	var b strings.Builder
	over := 0
	var sources []models.Source
	b.WriteString("Your budgets:\n")
	for _, bd := range budgets {
		state := "on track"
		if bd.IsOverBudget() {
			state = "OVER"
			over++
		}
		fmt.Fprintf(&b, "• %s: %s of %s (%s)\n", bd.Category, money(bd.SpentAmount), money(bd.PeriodAmount), state)
		sources = append(sources, models.Source{ID: bd.ID, Label: "budget: " + bd.Category})
	}
	kind := models.ResponseInsight
	if over > 0 {
		kind = models.ResponseWarning
	}
	resp := c.respond(strings.TrimRight(b.String(), "\n"), kind, IntentBudgetStatus)
	resp.Sources = sources
	return resp
}

// OverBudget composes the over-budget check.
func (c *Composer) OverBudget(budgets []models.Budget) models.EngineResponse {
	var over []models.Budget
	for _, bd := range budgets {
		if bd.IsOverBudget() {
			over = append(over, bd)
		}
	}
	if len(over) == 0 {
		return c.respond("Good news: all your budgets are on track.", models.ResponseText, IntentOverBudget)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You're over budget in %d categor%s:\n", len(over), plural(len(over), "y", "ies"))
	for _, bd := range over {
		fmt.Fprintf(&b, "• %s: %s over\n", bd.Category, money(bd.SpentAmount-bd.PeriodAmount))
	}
	return c.respond(strings.TrimRight(b.String(), "\n"), models.ResponseWarning, IntentOverBudget)
}

// Goals composes savings goal progress.
func (c *Composer) Goals(goals []models.SavingsGoal) models.EngineResponse {
	var b strings.Builder
	b.WriteString("Your savings goals:\n")
	for _, g := range goals {
		fmt.Fprintf(&b, "• %s: %s of %s (%s)\n",
			g.Name, money(g.CurrentAmount), money(g.TargetAmount), pct(g.ProgressRatio()*100))
	}
	return c.respond(strings.TrimRight(b.String(), "\n"), models.ResponseInsight, IntentGoalProgress)
}

// Loans composes the loan status list with sources.
func (c *Composer) Loans(loans []models.Loan) models.EngineResponse {
	var b strings.Builder
	var sources []models.Source
	var owed, lent float64
	active := 0
	b.WriteString("Your loans:\n")
	for _, l := range loans {
		if l.RemainingBalance <= 0 {
			continue
		}
		active++
		if l.Direction == models.LoanReceived {
			owed += l.RemainingBalance
		} else {
			lent += l.RemainingBalance
		}
		fmt.Fprintf(&b, "• %s (%s): %s remaining of %s\n", l.Name, l.Direction, money(l.RemainingBalance), money(l.Principal))
		sources = append(sources, models.Source{ID: l.ID, Label: "loan: " + l.Name})
	}
	if active == 0 {
		return c.respond("All your loans are fully paid off 🎉", models.ResponseText, IntentLoanStatus)
	}
	if owed > 0 {
		fmt.Fprintf(&b, "Total owed: %s.", money(owed))
	}
	if lent > 0 {
		fmt.Fprintf(&b, " Total lent out: %s.", money(lent))
	}
	resp := c.respond(strings.TrimSpace(b.String()), models.ResponseInsight, IntentLoanStatus)
	resp.Sources = sources
	return resp
}

// Payoff composes an extra-payment what-if. A plan whose base payment
// doesn't amortize escalates to a warning.
func (c *Composer) Payoff(loanName string, cmp PayoffComparison) models.EngineResponse {
	if !cmp.Base.Amortizes {
		text := fmt.Sprintf("At the current payment, %s would never be paid off — the payment doesn't cover the monthly interest.", loanName)
		return c.respond(text, models.ResponseWarning, IntentLoanPayoff)
	}
	text := fmt.Sprintf("%s clears in %d months with %s total interest at the current payment.",
		loanName, cmp.Base.Months, money(cmp.Base.TotalInterest))
	if cmp.ExtraPayment > 0 && cmp.WithExtra.Amortizes {
		text += fmt.Sprintf(" Paying an extra %s/month clears it in %d months and saves %s in interest.",
			money(cmp.ExtraPayment), cmp.WithExtra.Months, money(cmp.InterestSaved))
	}
	return c.respond(text, models.ResponseInsight, IntentLoanPayoff)
}

// DebtPlan composes the debt-free timeline.
func (c *Composer) DebtPlan(plan DebtPlan) models.EngineResponse {
	if !plan.Feasible {
		text := fmt.Sprintf("At %s/month the %s plan never clears your debts — the budget doesn't keep up with interest.",
			money(plan.MonthlyBudget), plan.Strategy)
		return c.respond(text, models.ResponseWarning, IntentDebtTimeline)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "With the %s strategy at %s/month you'd be debt-free in %d months, paying %s total interest:\n",
		plan.Strategy, money(plan.MonthlyBudget), plan.Months, money(plan.TotalInterest))
	for _, step := range plan.Order {
		fmt.Fprintf(&b, "• %s cleared in month %d\n", step.LoanName, step.ClearedMonth)
	}
	return c.respond(strings.TrimRight(b.String(), "\n"), models.ResponseInsight, IntentDebtTimeline)
}

// Subscriptions composes the subscription scan.
func (c *Composer) Subscriptions(report SubscriptionReport) models.EngineResponse {
	if len(report.Candidates) == 0 {
		return c.respond("I didn't spot any likely subscriptions in the last three months.",
			models.ResponseText, IntentSubscriptions)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "I found %d likely subscription%s costing about %s/month:\n",
		len(report.Candidates), plural(len(report.Candidates), "", "s"), money(report.TotalMonthly))
	for _, s := range report.Candidates {
		fmt.Fprintf(&b, "• %s: ~%s/mo, ~%s/yr (%s of spending)\n",
			s.Name, money(s.MonthlyAmount), money(s.YearlyAmount), pct(s.ShareOfSpend))
	}
	fmt.Fprintf(&b, "Cancelling a quarter of them would save about %s a year.", money(report.YearlyIfCut25))
	return c.respond(b.String(), models.ResponseInsight, IntentSubscriptions)
}

// Bills composes the upcoming-bills answer.
func (c *Composer) Bills(bills []UpcomingBill) models.EngineResponse {
	if len(bills) == 0 {
		return c.respond("Nothing due in the next 30 days.", models.ResponseText, IntentBillsDue)
	}
	var b strings.Builder
	var total float64
	b.WriteString("Coming up in the next 30 days:\n")
	for _, bill := range bills {
		total += bill.Amount
		fmt.Fprintf(&b, "• %s: %s due %s\n", bill.Name, money(bill.Amount), bill.DueDate.Format("Jan 2"))
	}
	fmt.Fprintf(&b, "Total: %s.", money(total))
	return c.respond(b.String(), models.ResponseInsight, IntentBillsDue)
}

// Health composes the health score with every sub-score reported.
func (c *Composer) Health(score HealthScore) models.EngineResponse {
	var b strings.Builder
	fmt.Fprintf(&b, "Your financial health score is %.0f/100 (grade %s):\n", score.Total, score.Grade)
	fmt.Fprintf(&b, "• Savings rate: %.0f/20\n", score.SavingsRate)
	fmt.Fprintf(&b, "• Debt load: %.0f/20\n", score.DebtRatio)
	fmt.Fprintf(&b, "• Budget adherence: %.0f/20\n", score.BudgetAdherence)
	fmt.Fprintf(&b, "• Emergency fund: %.0f/20\n", score.EmergencyFund)
	fmt.Fprintf(&b, "• Goal progress: %.0f/20", score.GoalProgress)
	kind := models.ResponseInsight
	if score.Total < 50 {
		kind = models.ResponseWarning
	}
	return c.respond(b.String(), kind, IntentHealthScore)
}

// Ratios composes the benchmark comparison table.
func (c *Composer) Ratios(report RatioReport) models.EngineResponse {
	var b strings.Builder
	b.WriteString("Your financial ratios:\n")
	worst := StatusExcellent
	for _, r := range report.Ratios {
		value := pct(r.Value * 100)
		if r.Name == "emergency fund" {
			value = fmt.Sprintf("%.1f months", r.Value)
		}
		fmt.Fprintf(&b, "• %s: %s — %s (benchmark: %s)\n", r.Name, value, r.Status, r.Benchmark)
		if statusRank(r.Status) > statusRank(worst) {
			worst = r.Status
		}
	}
	kind := models.ResponseInsight
	if worst == StatusCritical {
		kind = models.ResponseWarning
	}
	return c.respond(strings.TrimRight(b.String(), "\n"), kind, IntentRatios)
}

func statusRank(s RatioStatus) int {
	switch s {
	case StatusExcellent:
		return 0
	case StatusGood:
		return 1
	case StatusAcceptable:
		return 2
	case StatusNeedsImprovement:
		return 3
	default:
		return 4
	}
}

// Tax composes the deduction estimate, always labeled an estimate.
func (c *Composer) Tax(estimate TaxEstimate) models.EngineResponse {
	if len(estimate.Buckets) == 0 {
		return c.respond("I didn't find expenses that look tax-deductible in the past year.",
			models.ResponseText, IntentTaxDeductions)
	}
	var b strings.Builder
	b.WriteString("Possible deductions from the past 12 months:\n")
	for _, bucket := range estimate.Buckets {
		fmt.Fprintf(&b, "• %s: %s (%d expenses)\n", bucket.Name, money(bucket.Total), bucket.Count)
	}
	fmt.Fprintf(&b, "Estimated saving at a %s bracket: %s. This is a rough estimate, not tax advice.",
		pct(estimate.BracketRate*100), money(estimate.EstimatedSaving))
	return c.respond(b.String(), models.ResponseInsight, IntentTaxDeductions)
}

// Seasonal composes the variance table.
func (c *Composer) Seasonal(report SeasonalReport) models.EngineResponse {
	var b strings.Builder
	fmt.Fprintf(&b, "Your average month runs %s.", money(report.Mean))
	if len(report.HighMonths) > 0 {
		fmt.Fprintf(&b, " Spending runs high in: %s.\n", strings.Join(report.HighMonths, ", "))
	} else {
		b.WriteString(" No month stands out as unusually expensive.\n")
	}
	for _, m := range report.Months {
		if m.Level == SeasonNormal {
			continue
		}
		fmt.Fprintf(&b, "• %s: %s (%+.1f%% vs average, %s)\n", m.Month, money(m.Total), m.DeviationPct, m.Level)
	}
	return c.respond(strings.TrimRight(b.String(), "\n"), models.ResponseInsight, IntentSeasonal)
}

// Partner composes the two-owner comparison.
func (c *Composer) Partner(cmp PartnerComparison) models.EngineResponse {
	text := fmt.Sprintf("You spent %s, your partner spent %s this period.", money(cmp.MyExpenses), money(cmp.PartnerExpenses))
	if cmp.MyTopCategory != "" {
		text += fmt.Sprintf(" Your top category: %s.", cmp.MyTopCategory)
	}
	if cmp.PartnerTop != "" {
		text += fmt.Sprintf(" Theirs: %s.", cmp.PartnerTop)
	}
	return c.respond(text, models.ResponseInsight, IntentPartnerCompare)
}

// Trend composes the month-over-month comparison.
func (c *Composer) Trend(report TrendReport) models.EngineResponse {
	var text string
	switch report.Direction {
	case TrendUp:
		text = fmt.Sprintf("Spending is up %s versus last month (%s vs %s).",
			pct(report.ChangePct), money(report.Current), money(report.Previous))
	case TrendDown:
		text = fmt.Sprintf("Spending is down %s versus last month (%s vs %s).",
			pct(-report.ChangePct), money(report.Current), money(report.Previous))
	default:
		text = fmt.Sprintf("Spending is holding steady around %s a month.", money(report.Current))
	}
	kind := models.ResponseInsight
	if report.Direction == TrendUp && report.ChangePct > 25 {
		kind = models.ResponseWarning
	}
	return c.respond(text, kind, IntentTrend)
}

// Help lists what the engine can answer.
func (c *Composer) Help() models.EngineResponse {
	text := "I can answer questions about your spending, income, budgets, savings goals, " +
		"loans and payoff plans, subscriptions, upcoming bills, seasonal patterns, " +
		"tax deductions, and your overall financial health."
	return c.respond(text, models.ResponseText, IntentHelp)
}

func plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
