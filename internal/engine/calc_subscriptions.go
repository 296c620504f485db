package engine

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/finbuddy/advisor-service/internal/models"
)

// Subscription detection thresholds, applied over the trailing
// three-month window the aggregator fixes for this intent.
const (
	subscriptionMinOccurrences = 3
	subscriptionAmountTol      = 0.02 // max relative deviation from the mean charge
	subscriptionMinGapDays     = 25
	subscriptionMaxGapDays     = 35
)

// Subscription is one likely recurring charge.
type Subscription struct {
	Name          string  `json:"name"`
	MonthlyAmount float64 `json:"monthly_amount"`
	YearlyAmount  float64 `json:"yearly_amount"`
	Occurrences   int     `json:"occurrences"`
	ShareOfSpend  float64 `json:"share_of_spend"` // percent of window expenses
}

// SubscriptionReport lists detected subscriptions with cancel-savings
// projections.
type SubscriptionReport struct {
	Candidates    []Subscription `json:"candidates"`
	TotalMonthly  float64        `json:"total_monthly"`
	YearlyIfCut25 float64        `json:"yearly_if_cut_25"` // yearly savings from cancelling 25%
	YearlyIfCut50 float64        `json:"yearly_if_cut_50"`
}

var descriptionNoise = regexp.MustCompile(`[^a-z ]+`)

// subscriptionKey normalizes a description so charges from the same
// merchant group together despite reference numbers and dates.
func subscriptionKey(t models.Transaction) string {
	key := strings.ToLower(t.Description)
	if key == "" {
		key = strings.ToLower(t.Category)
	}
	key = descriptionNoise.ReplaceAllString(key, " ")
	return strings.Join(strings.Fields(key), " ")
}

// DetectSubscriptions flags expense groups that recur at least three
// times with near-identical amounts and roughly monthly spacing.
func DetectSubscriptions(txs []models.Transaction) SubscriptionReport {
	report := SubscriptionReport{}

	groups := make(map[string][]models.Transaction)
	var totalSpend float64
	for _, t := range txs {
		if t.Kind != models.KindExpense {
			continue
		}
		totalSpend += t.Amount
		key := subscriptionKey(t)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], t)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		group := groups[key]
		if len(group) < subscriptionMinOccurrences {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].OccurredAt.Before(group[j].OccurredAt) })

		var sum float64
		for _, t := range group {
			sum += t.Amount
		}
		mean := sum / float64(len(group))
		if mean <= 0 {
			continue
		}

		steady := true
		for _, t := range group {
			if math.Abs(t.Amount-mean)/mean > subscriptionAmountTol {
				steady = false
				break
			}
		}
		if !steady {
			continue
		}

		monthly := true
		for i := 1; i < len(group); i++ {
			gap := group[i].OccurredAt.Sub(group[i-1].OccurredAt).Hours() / 24
			if gap < subscriptionMinGapDays || gap > subscriptionMaxGapDays {
				monthly = false
				break
			}
		}
		if !monthly {
			continue
		}

		candidate := Subscription{
			Name:          titleCase(key),
			MonthlyAmount: mean,
			YearlyAmount:  mean * 12,
			Occurrences:   len(group),
		}
		if totalSpend > 0 {
			candidate.ShareOfSpend = sum / totalSpend * 100
		}
		report.Candidates = append(report.Candidates, candidate)
		report.TotalMonthly += mean
	}

	sort.Slice(report.Candidates, func(i, j int) bool {
		if report.Candidates[i].MonthlyAmount != report.Candidates[j].MonthlyAmount {
			return report.Candidates[i].MonthlyAmount > report.Candidates[j].MonthlyAmount
		}
		return report.Candidates[i].Name < report.Candidates[j].Name
	})

	report.YearlyIfCut25 = report.TotalMonthly * 12 * 0.25
	report.YearlyIfCut50 = report.TotalMonthly * 12 * 0.50
	return report
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
