package engine

import (
	"context"
	"time"

	"github.com/finbuddy/advisor-service/internal/models"
	"github.com/sirupsen/logrus"
)

// QueryContext is the ephemeral per-request state. It is created when a
// query arrives and discarded when the response returns; nothing here
// survives across requests.
type QueryContext struct {
	RawText       string
	PriorMessages []models.ChatMessage
	Resolved      Match
	Range         *DateRange
}

// handlerFunc turns an aggregated view into a response for one intent.
type handlerFunc func(view *View, qc *QueryContext) models.EngineResponse

// Engine answers financial questions from stored records. It is
// stateless per request: one classify, one aggregate, one calculate,
// one compose, no locks and no cross-request cache.
type Engine struct {
	classifier  *Classifier
	aggregator  *Aggregator
	composer    *Composer
	log         *logrus.Logger
	bracketRate float64
	handlers    map[Intent]handlerFunc
	now         func() time.Time
}

// Option tweaks engine construction.
type Option func(*Engine)

// WithBracketRate sets the assumed marginal tax rate for the deduction
// estimator.
func WithBracketRate(rate float64) Option {
	return func(e *Engine) { e.bracketRate = rate }
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New initializes the engine over a read-only store.
func New(store Store, log *logrus.Logger, opts ...Option) *Engine {
	e := &Engine{
		classifier:  NewClassifier(),
		aggregator:  NewAggregator(store),
		composer:    NewComposer(),
		log:         log,
		bracketRate: DefaultBracketRate,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.handlers = e.buildHandlers()
	return e
}

// buildHandlers registers the per-intent dispatch table. Adding a
// question type means one classifier rule plus one entry here.
func (e *Engine) buildHandlers() map[Intent]handlerFunc {
	c := e.composer
	return map[Intent]handlerFunc{
		IntentSpendingTotal: func(v *View, _ *QueryContext) models.EngineResponse {
			return c.SpendSummary(SummarizeSpending(v))
		},
		IntentSpendingOnCategory: func(v *View, qc *QueryContext) models.EngineResponse {
			spend := SpendOnCategory(v, qc.Resolved.Category)
			if spend.Count == 0 {
				return c.Empty(IntentSpendingOnCategory)
			}
			return c.CategorySpend(spend)
		},
		IntentCategoryBreakdown: func(v *View, _ *QueryContext) models.EngineResponse {
			return c.Breakdown(v.ByCategory, v.Expenses)
		},
		IntentIncomeSummary: func(v *View, _ *QueryContext) models.EngineResponse {
			return c.Income(v.Income)
		},
		IntentNetBalance: func(v *View, _ *QueryContext) models.EngineResponse {
			return c.NetBalance(v.Income, v.Expenses)
		},
		IntentBudgetStatus: func(v *View, _ *QueryContext) models.EngineResponse {
			return c.Budgets(v.Budgets)
		},
		IntentOverBudget: func(v *View, _ *QueryContext) models.EngineResponse {
			return c.OverBudget(v.Budgets)
		},
		IntentGoalProgress: func(v *View, _ *QueryContext) models.EngineResponse {
			return c.Goals(v.Goals)
		},
		IntentLoanStatus: func(v *View, _ *QueryContext) models.EngineResponse {
			return c.Loans(v.Loans)
		},
		IntentLoanPayoff:   e.handlePayoff,
		IntentDebtTimeline: e.handleDebtTimeline,
		IntentSubscriptions: func(v *View, _ *QueryContext) models.EngineResponse {
			return c.Subscriptions(DetectSubscriptions(v.Transactions))
		},
		IntentBillsDue: func(v *View, _ *QueryContext) models.EngineResponse {
			return c.Bills(BillsDueWithin(v.Bills, e.now(), 30))
		},
		IntentHealthScore: func(v *View, _ *QueryContext) models.EngineResponse {
			return c.Health(e.scoreHealth(v))
		},
		IntentRatios: func(v *View, _ *QueryContext) models.EngineResponse {
			return c.Ratios(AnalyzeRatios(ratioInputs(v)))
		},
		IntentTaxDeductions: func(v *View, _ *QueryContext) models.EngineResponse {
			return c.Tax(EstimateTaxDeductions(v.Transactions, e.bracketRate))
		},
		IntentSeasonal: func(v *View, _ *QueryContext) models.EngineResponse {
			return c.Seasonal(AnalyzeSeasonal(v.ByMonth))
		},
		IntentPartnerCompare: func(v *View, _ *QueryContext) models.EngineResponse {
			if v.Partner == nil {
				return c.Empty(IntentPartnerCompare)
			}
			return c.Partner(ComparePartners(v))
		},
		IntentTrend: func(v *View, _ *QueryContext) models.EngineResponse {
			return c.Trend(AnalyzeTrend(completeMonths(v.ByMonth, e.now())))
		},
	}
}

// Answer runs one query end to end. Cancellation is honored up to the
// point aggregation completes; calculators then run to completion under
// their own iteration caps.
func (e *Engine) Answer(ctx context.Context, ownerID int64, text string, history []models.ChatMessage) (models.EngineResponse, error) {
	now := e.now()
	qc := &QueryContext{
		RawText:       text,
		PriorMessages: history,
		Resolved:      e.classifier.Classify(text),
		Range:         ParseDateRange(text, now),
	}
	e.resolveFromHistory(qc)

	e.log.WithFields(logrus.Fields{
		"owner_id": ownerID,
		"intent":   qc.Resolved.Intent,
	}).Debug("query classified")

	if qc.Resolved.Intent == IntentUnknown {
		return e.fallback(ctx, ownerID, now)
	}
	if qc.Resolved.Intent == IntentHelp {
		return e.composer.Help(), nil
	}

	view, err := e.aggregator.Aggregate(ctx, ownerID, qc.Resolved.Intent, qc.Range, now)
	if err != nil {
		return models.EngineResponse{}, err
	}

	if emptyFor(qc.Resolved.Intent, view) {
		return e.composer.Empty(qc.Resolved.Intent), nil
	}
	return e.handlers[qc.Resolved.Intent](view, qc), nil
}

// Suggestions returns proactive question prompts for the owner.
func (e *Engine) Suggestions(ctx context.Context, ownerID int64) ([]string, error) {
	view, err := e.suggestionView(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return Suggest(view), nil
}

// HealthDigest computes the score and suggestions together, for the
// weekly email job.
func (e *Engine) HealthDigest(ctx context.Context, ownerID int64) (HealthScore, []string, error) {
	view, err := e.aggregator.Aggregate(ctx, ownerID, IntentHealthScore, nil, e.now())
	if err != nil {
		return HealthScore{}, nil, err
	}
	sview, err := e.suggestionView(ctx, ownerID)
	if err != nil {
		return HealthScore{}, nil, err
	}
	return e.scoreHealth(view), Suggest(sview), nil
}

// UpcomingBills lists the owner's bills due inside the next `days`
// days, for the reminder email job.
func (e *Engine) UpcomingBills(ctx context.Context, ownerID int64, days int) ([]UpcomingBill, error) {
	view, err := e.aggregator.Aggregate(ctx, ownerID, IntentBillsDue, nil, e.now())
	if err != nil {
		return nil, err
	}
	return BillsDueWithin(view.Bills, e.now(), days), nil
}

// suggestionView aggregates the snapshot the suggestion generator
// personalizes from: recent history plus goals, bills and loans.
func (e *Engine) suggestionView(ctx context.Context, ownerID int64) (*View, error) {
	now := e.now()
	view, err := e.aggregator.Aggregate(ctx, ownerID, IntentSeasonal, nil, now)
	if err != nil {
		return nil, err
	}
	loanView, err := e.aggregator.Aggregate(ctx, ownerID, IntentLoanStatus, nil, now)
	if err != nil {
		return nil, err
	}
	billView, err := e.aggregator.Aggregate(ctx, ownerID, IntentBillsDue, nil, now)
	if err != nil {
		return nil, err
	}
	goalView, err := e.aggregator.Aggregate(ctx, ownerID, IntentGoalProgress, nil, now)
	if err != nil {
		return nil, err
	}
	view.Loans = loanView.Loans
	view.Bills = billView.Bills
	view.Goals = goalView.Goals
	return view, nil
}

func (e *Engine) fallback(ctx context.Context, ownerID int64, now time.Time) (models.EngineResponse, error) {
	view, err := e.suggestionView(ctx, ownerID)
	if err != nil {
		// The fallback must stay graceful even when the store is down.
		e.log.WithError(err).Warn("suggestion snapshot unavailable, using generic prompts")
		return e.composer.Fallback(genericSuggestions[:suggestionCount]), nil
	}
	return e.composer.Fallback(Suggest(view)), nil
}

// resolveFromHistory fills a missing category capture from the most
// recent prior user message that had one.
func (e *Engine) resolveFromHistory(qc *QueryContext) {
	if qc.Resolved.Intent != IntentSpendingOnCategory || qc.Resolved.Category != "" {
		return
	}
	for i := len(qc.PriorMessages) - 1; i >= 0; i-- {
		msg := qc.PriorMessages[i]
		if msg.Role != "user" {
			continue
		}
		if prior := e.classifier.Classify(msg.Text); prior.Category != "" {
			qc.Resolved.Category = prior.Category
			return
		}
	}
}

func (e *Engine) scoreHealth(v *View) HealthScore {
	months := float64(len(v.ByMonth))
	if months == 0 {
		months = 1
	}
	return ScoreHealth(HealthInputs{
		Income:              v.Income,
		Expenses:            v.Expenses,
		MonthlyExpenses:     v.Expenses / months,
		MonthlyDebtPayments: MonthlyDebtPayments(v.Loans),
		LiquidSavings:       LiquidSavings(v.Goals),
		Budgets:             v.Budgets,
		Goals:               v.Goals,
	})
}

func ratioInputs(v *View) RatioInputs {
	months := float64(len(v.ByMonth))
	if months == 0 {
		months = 1
	}
	return RatioInputs{
		MonthlyIncome:       v.Income / months,
		MonthlyExpenses:     v.Expenses / months,
		MonthlyDebtPayments: MonthlyDebtPayments(v.Loans),
		MonthlyHousingCost:  HousingSpend(v.ByCategory) / months,
		LiquidSavings:       LiquidSavings(v.Goals),
		ByCategory:          v.ByCategory,
	}
}

// emptyFor reports whether the view lacks the records the intent needs,
// which routes to the dedicated empty response instead of a calculator.
func emptyFor(intent Intent, v *View) bool {
	switch intent {
	case IntentBudgetStatus, IntentOverBudget:
		return len(v.Budgets) == 0
	case IntentGoalProgress:
		return len(v.Goals) == 0
	case IntentLoanStatus, IntentLoanPayoff, IntentDebtTimeline:
		return len(v.Loans) == 0
	case IntentBillsDue:
		return len(v.Bills) == 0
	case IntentSpendingTotal, IntentCategoryBreakdown, IntentSubscriptions,
		IntentSeasonal, IntentTrend, IntentTaxDeductions:
		return len(v.Transactions) == 0
	case IntentIncomeSummary:
		return v.Income == 0 && len(v.Transactions) == 0
	case IntentNetBalance:
		return len(v.Transactions) == 0
	case IntentHealthScore, IntentRatios:
		return len(v.Transactions) == 0 && len(v.Loans) == 0 && len(v.Goals) == 0
	}
	return false
}

// handlePayoff runs the payoff scenario on the largest received loan,
// using the captured extra amount when present.
func (e *Engine) handlePayoff(v *View, qc *QueryContext) models.EngineResponse {
	loans := v.ReceivedLoans()
	if len(loans) == 0 {
		return e.composer.Empty(IntentLoanPayoff)
	}
	target := loans[0]
	for _, l := range loans[1:] {
		if l.RemainingBalance > target.RemainingBalance {
			target = l
		}
	}
	payment := monthlyInstallment(target)
	if payment <= 0 {
		// No installment on file: assume a 36-month straight-line pace.
		payment = target.RemainingBalance / 36
	}
	extra := qc.Resolved.Amount
	if extra <= 0 {
		extra = 100
	}
	cmp := CompareExtraPayment(target.RemainingBalance, target.Rate(), payment, extra)
	resp := e.composer.Payoff(target.Name, cmp)
	resp.Sources = []models.Source{{ID: target.ID, Label: "loan: " + target.Name}}
	return resp
}

// handleDebtTimeline simulates the rollover plan across all received
// loans with the current total installment load as the monthly budget.
func (e *Engine) handleDebtTimeline(v *View, qc *QueryContext) models.EngineResponse {
	loans := v.ReceivedLoans()
	if len(loans) == 0 {
		return e.composer.Empty(IntentDebtTimeline)
	}
	budget := MonthlyDebtPayments(v.Loans)
	if budget <= 0 {
		var total float64
		for _, l := range loans {
			total += l.RemainingBalance
		}
		budget = total / 36
	}
	strategy := qc.Resolved.Strategy
	if strategy == "" {
		strategy = StrategyAvalanche
	}
	return e.composer.DebtPlan(DebtFreeTimeline(v.Loans, budget, strategy))
}
