package engine

import (
	"sort"

	"github.com/finbuddy/advisor-service/internal/models"
)

// Debt payoff strategies.
const (
	StrategyAvalanche = "avalanche" // highest interest rate first
	StrategySnowball  = "snowball"  // lowest remaining balance first
)

// maxAmortizationPeriods caps every amortization loop so pathological
// inputs (payment at or below the monthly interest) still terminate.
const maxAmortizationPeriods = 600

// AmortizationRow is one period of a payoff schedule.
type AmortizationRow struct {
	Period    int     `json:"period"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}

// PayoffResult is the outcome of running one fixed-payment scenario.
type PayoffResult struct {
	Months        int               `json:"months"`
	TotalInterest float64           `json:"total_interest"`
	TotalPaid     float64           `json:"total_paid"`
	Schedule      []AmortizationRow `json:"schedule"`
	Amortizes     bool              `json:"amortizes"` // false when the cap was hit
}

// AmortizePayoff iterates a monthly amortization until the balance
// clears or the safety cap is reached. Each period accrues interest at
// annualRate/12 on the open balance; the remainder of the payment
// retires principal.
func AmortizePayoff(principal, annualRate, payment float64) PayoffResult {
	res := PayoffResult{}
	if principal <= 0 {
		res.Amortizes = true
		return res
	}
	if payment <= 0 {
		return res
	}

	monthlyRate := annualRate / 12
	balance := principal
	for period := 1; period <= maxAmortizationPeriods; period++ {
		interest := balance * monthlyRate
		due := balance + interest
		paid := payment
		if paid > due {
			paid = due
		}
		retired := paid - interest
		balance -= retired

		res.Months = period
		res.TotalInterest += interest
		res.TotalPaid += paid
		res.Schedule = append(res.Schedule, AmortizationRow{
			Period:    period,
			Interest:  interest,
			Principal: retired,
			Balance:   balance,
		})

		if balance <= 0.005 {
			res.Amortizes = true
			return res
		}
	}
	return res
}

// PayoffComparison reports the effect of paying extra each month.
type PayoffComparison struct {
	Base          PayoffResult `json:"base"`
	WithExtra     PayoffResult `json:"with_extra"`
	ExtraPayment  float64      `json:"extra_payment"`
	InterestSaved float64      `json:"interest_saved"`
	MonthsSaved   int          `json:"months_saved"`
}

// CompareExtraPayment reruns the amortization with an increased payment
// and reports the interest and time deltas.
func CompareExtraPayment(principal, annualRate, payment, extra float64) PayoffComparison {
	base := AmortizePayoff(principal, annualRate, payment)
	boosted := AmortizePayoff(principal, annualRate, payment+extra)
	return PayoffComparison{
		Base:          base,
		WithExtra:     boosted,
		ExtraPayment:  extra,
		InterestSaved: base.TotalInterest - boosted.TotalInterest,
		MonthsSaved:   base.Months - boosted.Months,
	}
}

// DebtPlanStep records when one loan in the plan clears.
type DebtPlanStep struct {
	LoanName     string  `json:"loan_name"`
	ClearedMonth int     `json:"cleared_month"`
	InterestPaid float64 `json:"interest_paid"`
}

// DebtPlan is a full debt-free timeline simulation.
type DebtPlan struct {
	Strategy      string         `json:"strategy"`
	MonthlyBudget float64        `json:"monthly_budget"`
	Months        int            `json:"months"`
	TotalInterest float64        `json:"total_interest"`
	Order         []DebtPlanStep `json:"order"`
	Feasible      bool           `json:"feasible"`
}

// DebtFreeTimeline orders the received loans by the chosen strategy and
// simulates the whole monthly budget hitting the front loan while the
// rest accrue interest; when the front loan clears, the budget rolls
// onto the next. The amortization cap bounds the simulation.
func DebtFreeTimeline(loans []models.Loan, monthlyBudget float64, strategy string) DebtPlan {
	plan := DebtPlan{Strategy: strategy, MonthlyBudget: monthlyBudget}

	type debt struct {
		name     string
		balance  float64
		rate     float64
		interest float64
	}
	var debts []debt
	for _, l := range loans {
		if l.Direction != models.LoanReceived || l.RemainingBalance <= 0 {
			continue
		}
		debts = append(debts, debt{name: l.Name, balance: l.RemainingBalance, rate: l.Rate()})
	}
	if len(debts) == 0 {
		plan.Feasible = true
		return plan
	}
	if monthlyBudget <= 0 {
		return plan
	}

	if strategy == StrategySnowball {
		sort.SliceStable(debts, func(i, j int) bool { return debts[i].balance < debts[j].balance })
	} else {
		sort.SliceStable(debts, func(i, j int) bool { return debts[i].rate > debts[j].rate })
	}

	front := 0
	for month := 1; month <= maxAmortizationPeriods; month++ {
		// Every open loan accrues interest for the month.
		for i := front; i < len(debts); i++ {
			interest := debts[i].balance * debts[i].rate / 12
			debts[i].balance += interest
			debts[i].interest += interest
			plan.TotalInterest += interest
		}

		// The whole budget attacks the front loans, rolling forward as
		// each clears within the month.
		available := monthlyBudget
		for available > 0 && front < len(debts) {
			paid := available
			if paid > debts[front].balance {
				paid = debts[front].balance
			}
			debts[front].balance -= paid
			available -= paid
			if debts[front].balance <= 0.005 {
				plan.Order = append(plan.Order, DebtPlanStep{
					LoanName:     debts[front].name,
					ClearedMonth: month,
					InterestPaid: debts[front].interest,
				})
				front++
			}
		}

		if front == len(debts) {
			plan.Months = month
			plan.Feasible = true
			return plan
		}
	}

	plan.Months = maxAmortizationPeriods
	return plan
}
