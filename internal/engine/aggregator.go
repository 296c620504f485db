package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/finbuddy/advisor-service/internal/models"
)

// ErrDataUnavailable wraps any failure of the backing store. The engine
// never computes over partial data: callers get this error or a full view.
var ErrDataUnavailable = errors.New("financial data unavailable")

// Store is the read-only view of the data store the engine consumes.
// The engine never writes through this interface.
type Store interface {
	TransactionsInRange(ctx context.Context, ownerID int64, from, to time.Time) ([]models.Transaction, error)
	Loans(ctx context.Context, ownerID int64) ([]models.Loan, error)
	Budgets(ctx context.Context, ownerID int64) ([]models.Budget, error)
	SavingsGoals(ctx context.Context, ownerID int64) ([]models.SavingsGoal, error)
	RecurringBills(ctx context.Context, ownerID int64) ([]models.RecurringBill, error)
	PartnerID(ctx context.Context, ownerID int64) (*int64, error)
}

// CategoryTotal is one row of a group-by-category aggregation.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Percent  float64 `json:"percent"`
}

// MonthTotal is one bucket of a group-by-month series. Months with no
// transactions are present with a zero total.
type MonthTotal struct {
	Month time.Time `json:"month"` // first day of the month
	Total float64   `json:"total"`
}

// View is the pre-aggregated slice of a user's records that a calculator
// consumes. It carries no business conclusions, only filtered sums,
// groupings and entity lists.
type View struct {
	OwnerID      int64
	Range        DateRange
	Transactions []models.Transaction
	Income       float64
	Expenses     float64
	ByCategory   []CategoryTotal // expenses, sorted by total descending
	ByMonth      []MonthTotal    // expenses, zero-filled buckets
	Loans        []models.Loan
	Budgets      []models.Budget
	Goals        []models.SavingsGoal
	Bills        []models.RecurringBill
	Partner      *View // populated for comparison intents only
}

// ReceivedLoans returns the loans the user owes money on.
func (v *View) ReceivedLoans() []models.Loan {
	var out []models.Loan
	for _, l := range v.Loans {
		if l.Direction == models.LoanReceived && l.RemainingBalance > 0 {
			out = append(out, l)
		}
	}
	return out
}

// needs declares which record slices an intent's calculator reads.
type needs struct {
	months   int // history window in calendar months; 0 means the request range
	loans    bool
	budgets  bool
	goals    bool
	bills    bool
	partner  bool
	fixedWin bool // intent fixes its own window regardless of the request range
}

var intentNeeds = map[Intent]needs{
	IntentSpendingOnCategory: {},
	IntentSpendingTotal:      {},
	IntentCategoryBreakdown:  {},
	IntentIncomeSummary:      {},
	IntentNetBalance:         {},
	IntentOverBudget:         {budgets: true},
	IntentBudgetStatus:       {budgets: true},
	IntentGoalProgress:       {goals: true},
	IntentLoanPayoff:         {loans: true},
	IntentDebtTimeline:       {loans: true},
	IntentLoanStatus:         {loans: true},
	IntentSubscriptions:      {months: 3, fixedWin: true},
	IntentBillsDue:           {bills: true},
	IntentHealthScore:        {months: 3, fixedWin: true, loans: true, budgets: true, goals: true},
	IntentRatios:             {months: 3, fixedWin: true, loans: true, goals: true},
	IntentTaxDeductions:      {months: 12, fixedWin: true},
	IntentSeasonal:           {months: 12, fixedWin: true},
	IntentPartnerCompare:     {partner: true},
	IntentTrend:              {months: 12, fixedWin: true},
}

// Aggregator fetches and pre-aggregates the minimal record slice an
// intent needs. All reasoning stays in the calculators; this component
// only filters, sums and groups.
type Aggregator struct {
	store Store
}

// NewAggregator wraps a read-only store.
func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// Aggregate builds the view for one owner and intent. A nil rng means
// the intent default applies: the current calendar month, unless the
// intent fixes its own multi-month window.
func (a *Aggregator) Aggregate(ctx context.Context, ownerID int64, intent Intent, rng *DateRange, now time.Time) (*View, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	need := intentNeeds[intent]
	window := currentMonth(now)
	switch {
	case need.fixedWin:
		window = trailingMonths(now, need.months)
	case rng != nil:
		window = *rng
	}

	view := &View{OwnerID: ownerID, Range: window}

	txs, err := a.store.TransactionsInRange(ctx, ownerID, window.From, window.To)
	if err != nil {
		return nil, fmt.Errorf("%w: transactions: %v", ErrDataUnavailable, err)
	}
	view.Transactions = txs
	a.foldTransactions(view)

	if need.loans {
		if view.Loans, err = a.store.Loans(ctx, ownerID); err != nil {
			return nil, fmt.Errorf("%w: loans: %v", ErrDataUnavailable, err)
		}
	}
	if need.budgets {
		if view.Budgets, err = a.store.Budgets(ctx, ownerID); err != nil {
			return nil, fmt.Errorf("%w: budgets: %v", ErrDataUnavailable, err)
		}
	}
	if need.goals {
		if view.Goals, err = a.store.SavingsGoals(ctx, ownerID); err != nil {
			return nil, fmt.Errorf("%w: savings goals: %v", ErrDataUnavailable, err)
		}
	}
	if need.bills {
		if view.Bills, err = a.store.RecurringBills(ctx, ownerID); err != nil {
			return nil, fmt.Errorf("%w: recurring bills: %v", ErrDataUnavailable, err)
		}
	}

	if need.partner {
		partnerID, err := a.store.PartnerID(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("%w: partner lookup: %v", ErrDataUnavailable, err)
		}
		if partnerID != nil {
			// Two independent aggregations, merged downstream by the
			// composer; the partner side never recurses further.
			partnerView, err := a.Aggregate(ctx, *partnerID, IntentSpendingTotal, rng, now)
			if err != nil {
				return nil, err
			}
			view.Partner = partnerView
		}
	}

	return view, nil
}

// foldTransactions fills the sums, category grouping and zero-filled
// month series from the fetched transaction list.
func (a *Aggregator) foldTransactions(view *View) {
	byCategory := make(map[string]float64)
	for _, t := range view.Transactions {
		switch t.Kind {
		case models.KindIncome:
			view.Income += t.Amount
		case models.KindExpense:
			view.Expenses += t.Amount
			byCategory[t.Category] += t.Amount
		}
	}

	for category, total := range byCategory {
		row := CategoryTotal{Category: category, Total: total}
		if view.Expenses > 0 {
			row.Percent = total / view.Expenses * 100
		}
		view.ByCategory = append(view.ByCategory, row)
	}
	sort.Slice(view.ByCategory, func(i, j int) bool {
		if view.ByCategory[i].Total != view.ByCategory[j].Total {
			return view.ByCategory[i].Total > view.ByCategory[j].Total
		}
		return view.ByCategory[i].Category < view.ByCategory[j].Category
	})

	// Materialize one bucket per calendar month in the window so trend
	// and seasonal math never sees gaps.
	first := time.Date(view.Range.From.Year(), view.Range.From.Month(), 1, 0, 0, 0, 0, view.Range.From.Location())
	for month := first; month.Before(view.Range.To); month = month.AddDate(0, 1, 0) {
		view.ByMonth = append(view.ByMonth, MonthTotal{Month: month})
	}
	for _, t := range view.Transactions {
		if t.Kind != models.KindExpense {
			continue
		}
		idx := monthsBetween(first, t.OccurredAt)
		if idx >= 0 && idx < len(view.ByMonth) {
			view.ByMonth[idx].Total += t.Amount
		}
	}
}

func monthsBetween(from, at time.Time) int {
	return (at.Year()-from.Year())*12 + int(at.Month()) - int(from.Month())
}
