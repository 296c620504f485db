package engine

import (
	"sort"
	"time"

	"github.com/finbuddy/advisor-service/internal/models"
)

// SpendSummary is the basic spend aggregate for a window.
type SpendSummary struct {
	Total       float64 `json:"total"`
	Count       int     `json:"count"`
	TopCategory string  `json:"top_category"`
}

// SummarizeSpending folds the view's expense aggregates into a summary.
func SummarizeSpending(v *View) SpendSummary {
	s := SpendSummary{Total: v.Expenses}
	for _, t := range v.Transactions {
		if t.Kind == models.KindExpense {
			s.Count++
		}
	}
	if len(v.ByCategory) > 0 {
		s.TopCategory = v.ByCategory[0].Category
	}
	return s
}

// CategorySpend is spending for one named category within a window.
type CategorySpend struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
}

// SpendOnCategory sums the expenses whose category matches the captured
// name, case-insensitively.
func SpendOnCategory(v *View, category string) CategorySpend {
	out := CategorySpend{Category: category}
	for _, t := range v.Transactions {
		if t.Kind != models.KindExpense || !equalFold(t.Category, category) {
			continue
		}
		out.Total += t.Amount
		out.Count++
	}
	if v.Expenses > 0 {
		out.Percent = out.Total / v.Expenses * 100
	}
	return out
}

// Trend directions.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// TrendReport compares the two most recent complete-ish months.
type TrendReport struct {
	Current   float64 `json:"current"`
	Previous  float64 `json:"previous"`
	ChangePct float64 `json:"change_pct"`
	Direction string  `json:"direction"`
}

// completeMonths drops the trailing in-progress bucket so trend math
// compares whole months only; a mid-month partial total would read as a
// spending drop.
func completeMonths(series []MonthTotal, now time.Time) []MonthTotal {
	if len(series) == 0 {
		return series
	}
	last := series[len(series)-1].Month
	if last.Year() == now.Year() && last.Month() == now.Month() {
		return series[:len(series)-1]
	}
	return series
}

// AnalyzeTrend reads the last two buckets of the month series.
func AnalyzeTrend(series []MonthTotal) TrendReport {
	report := TrendReport{Direction: TrendStable}
	if len(series) < 2 {
		return report
	}
	report.Current = series[len(series)-1].Total
	report.Previous = series[len(series)-2].Total
	if report.Previous > 0 {
		report.ChangePct = (report.Current - report.Previous) / report.Previous * 100
	}
	switch {
	case report.ChangePct > 5:
		report.Direction = TrendUp
	case report.ChangePct < -5:
		report.Direction = TrendDown
	}
	return report
}

// PartnerComparison merges two independently aggregated views.
type PartnerComparison struct {
	MyExpenses      float64 `json:"my_expenses"`
	PartnerExpenses float64 `json:"partner_expenses"`
	MyTopCategory   string  `json:"my_top_category"`
	PartnerTop      string  `json:"partner_top_category"`
	DifferencePct   float64 `json:"difference_pct"` // positive: I spend more
}

// ComparePartners builds the comparison payload from a view carrying a
// partner sub-view.
func ComparePartners(v *View) PartnerComparison {
	cmp := PartnerComparison{MyExpenses: v.Expenses}
	if len(v.ByCategory) > 0 {
		cmp.MyTopCategory = v.ByCategory[0].Category
	}
	if v.Partner == nil {
		return cmp
	}
	cmp.PartnerExpenses = v.Partner.Expenses
	if len(v.Partner.ByCategory) > 0 {
		cmp.PartnerTop = v.Partner.ByCategory[0].Category
	}
	if cmp.PartnerExpenses > 0 {
		cmp.DifferencePct = (cmp.MyExpenses - cmp.PartnerExpenses) / cmp.PartnerExpenses * 100
	}
	return cmp
}

// UpcomingBill is one bill inside the look-ahead window.
type UpcomingBill struct {
	Name    string    `json:"name"`
	Amount  float64   `json:"amount"`
	DueDate time.Time `json:"due_date"`
	DaysOut int       `json:"days_out"`
}

// BillsDueWithin lists bills due inside the next `days` days, soonest first.
func BillsDueWithin(bills []models.RecurringBill, now time.Time, days int) []UpcomingBill {
	cutoff := now.AddDate(0, 0, days)
	var out []UpcomingBill
	for _, b := range bills {
		if b.NextDueDate.Before(now) || b.NextDueDate.After(cutoff) {
			continue
		}
		out = append(out, UpcomingBill{
			Name:    b.Name,
			Amount:  b.Amount,
			DueDate: b.NextDueDate,
			DaysOut: int(b.NextDueDate.Sub(now).Hours() / 24),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out
}

// MonthlyDebtPayments sums the installment amounts of received loans,
// normalized to a monthly figure.
func MonthlyDebtPayments(loans []models.Loan) float64 {
	var total float64
	for _, l := range loans {
		if l.Direction != models.LoanReceived || l.RemainingBalance <= 0 {
			continue
		}
		total += monthlyInstallment(l)
	}
	return total
}

func monthlyInstallment(l models.Loan) float64 {
	amount := l.Installment()
	if l.InstallmentFrequency == nil {
		return amount
	}
	switch *l.InstallmentFrequency {
	case models.PeriodWeekly:
		return amount * 52 / 12
	case models.PeriodQuarterly:
		return amount / 3
	case models.PeriodYearly:
		return amount / 12
	default:
		return amount
	}
}

// LiquidSavings approximates the emergency fund as the sum of current
// savings goal balances.
func LiquidSavings(goals []models.SavingsGoal) float64 {
	var total float64
	for _, g := range goals {
		total += g.CurrentAmount
	}
	return total
}

// HousingSpend pulls the housing-tagged categories out of the grouping.
func HousingSpend(byCategory []CategoryTotal) float64 {
	var total float64
	for _, c := range byCategory {
		switch normalizeQuery(c.Category) {
		case "rent", "mortgage", "housing", "home":
			total += c.Total
		}
	}
	return total
}

func equalFold(a, b string) bool {
	return normalizeQuery(a) == normalizeQuery(b)
}
