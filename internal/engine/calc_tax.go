package engine

import (
	"strings"

	"github.com/finbuddy/advisor-service/internal/models"
)

// DefaultBracketRate is the assumed marginal rate when the host
// configures none.
const DefaultBracketRate = 0.22

// taxBucketRule maps keywords found in a transaction's category or
// description to a deduction bucket. Rules are consulted in order; the
// first hit wins.
type taxBucketRule struct {
	bucket   string
	keywords []string
}

var taxBuckets = []taxBucketRule{
	{"Medical", []string{"medical", "doctor", "dentist", "pharmacy", "hospital", "therapy"}},
	{"Charitable donations", []string{"donation", "charity", "church", "nonprofit", "red cross"}},
	{"Home office", []string{"home office", "desk", "monitor", "office supplies", "internet"}},
	{"Education", []string{"tuition", "course", "textbook", "seminar", "conference", "training"}},
	{"Professional fees", []string{"accountant", "tax prep", "legal fees", "union dues", "license"}},
	{"Business travel", []string{"business travel", "mileage", "work trip"}},
}

// TaxBucket is the sum of matched expenses for one deduction bucket.
type TaxBucket struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// TaxEstimate is a rough deduction summary. It is an estimate computed
// from keyword matches, never tax advice, and the composer labels it so.
type TaxEstimate struct {
	Buckets         []TaxBucket `json:"buckets"`
	TotalDeductible float64     `json:"total_deductible"`
	BracketRate     float64     `json:"bracket_rate"`
	EstimatedSaving float64     `json:"estimated_saving"`
}

// EstimateTaxDeductions scans expenses against the keyword table and
// projects the saving at the assumed bracket rate.
func EstimateTaxDeductions(txs []models.Transaction, bracketRate float64) TaxEstimate {
	if bracketRate <= 0 {
		bracketRate = DefaultBracketRate
	}
	estimate := TaxEstimate{BracketRate: bracketRate}

	totals := make(map[string]*TaxBucket)
	for _, t := range txs {
		if t.Kind != models.KindExpense {
			continue
		}
		haystack := strings.ToLower(t.Category + " " + t.Description)
		bucket := matchTaxBucket(haystack)
		if bucket == "" {
			continue
		}
		row, ok := totals[bucket]
		if !ok {
			row = &TaxBucket{Name: bucket}
			totals[bucket] = row
		}
		row.Total += t.Amount
		row.Count++
		estimate.TotalDeductible += t.Amount
	}

	// Fixed table order keeps the report stable across runs.
	for _, rule := range taxBuckets {
		if row, ok := totals[rule.bucket]; ok {
			estimate.Buckets = append(estimate.Buckets, *row)
		}
	}
	estimate.EstimatedSaving = estimate.TotalDeductible * bracketRate
	return estimate
}

func matchTaxBucket(haystack string) string {
	for _, rule := range taxBuckets {
		for _, keyword := range rule.keywords {
			if strings.Contains(haystack, keyword) {
				return rule.bucket
			}
		}
	}
	return ""
}
