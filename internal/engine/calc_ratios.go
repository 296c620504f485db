package engine

// RatioStatus is the tier a ratio lands in against its benchmark.
type RatioStatus string

// Status tiers, best to worst.
const (
	StatusExcellent        RatioStatus = "excellent"
	StatusGood             RatioStatus = "good"
	StatusAcceptable       RatioStatus = "acceptable"
	StatusNeedsImprovement RatioStatus = "needs-improvement"
	StatusCritical         RatioStatus = "critical"
)

// Ratio is one computed ratio with its benchmark verdict.
type Ratio struct {
	Name      string      `json:"name"`
	Value     float64     `json:"value"` // fraction, not percent
	Benchmark string      `json:"benchmark"`
	Status    RatioStatus `json:"status"`
}

// RatioReport is the full ratio analysis for one user.
type RatioReport struct {
	Ratios        []Ratio         `json:"ratios"`
	TopCategories []CategoryTotal `json:"top_categories"`
}

// RatioInputs are monthly figures plus the category distribution.
type RatioInputs struct {
	MonthlyIncome       float64
	MonthlyExpenses     float64
	MonthlyDebtPayments float64
	MonthlyHousingCost  float64
	LiquidSavings       float64
	ByCategory          []CategoryTotal
}

// tierCut maps a threshold to the status earned at or past it. Cuts are
// evaluated in order; the final entry is the fallthrough.
type tierCut struct {
	limit  float64
	status RatioStatus
}

// higherIsBetter walks cuts where exceeding the limit is good.
func higherIsBetter(value float64, cuts []tierCut) RatioStatus {
	for _, c := range cuts {
		if value >= c.limit {
			return c.status
		}
	}
	return StatusCritical
}

// lowerIsBetter walks cuts where staying under the limit is good.
func lowerIsBetter(value float64, cuts []tierCut) RatioStatus {
	for _, c := range cuts {
		if value <= c.limit {
			return c.status
		}
	}
	return StatusCritical
}

// AnalyzeRatios computes the four standard ratios against the fixed
// benchmark table. The output ordering is fixed, so identical inputs
// produce identical reports.
func AnalyzeRatios(in RatioInputs) RatioReport {
	savingsRate := 0.0
	if in.MonthlyIncome > 0 {
		savingsRate = (in.MonthlyIncome - in.MonthlyExpenses) / in.MonthlyIncome
	}
	debtToIncome := 0.0
	housingRatio := 0.0
	if in.MonthlyIncome > 0 {
		debtToIncome = in.MonthlyDebtPayments / in.MonthlyIncome
		housingRatio = in.MonthlyHousingCost / in.MonthlyIncome
	}
	emergencyMonths := 0.0
	if in.MonthlyExpenses > 0 {
		emergencyMonths = in.LiquidSavings / in.MonthlyExpenses
	}

	report := RatioReport{
		Ratios: []Ratio{
			{
				Name:      "savings rate",
				Value:     savingsRate,
				Benchmark: "20% or more of income saved",
				Status: higherIsBetter(savingsRate, []tierCut{
					{0.20, StatusExcellent},
					{0.15, StatusGood},
					{0.10, StatusAcceptable},
					{0.05, StatusNeedsImprovement},
				}),
			},
			{
				Name:      "debt-to-income",
				Value:     debtToIncome,
				Benchmark: "under 20% of income on debt payments",
				Status: lowerIsBetter(debtToIncome, []tierCut{
					{0.10, StatusExcellent},
					{0.20, StatusGood},
					{0.36, StatusAcceptable},
					{0.43, StatusNeedsImprovement},
				}),
			},
			{
				Name:      "housing cost",
				Value:     housingRatio,
				Benchmark: "under 30% of income on housing",
				Status: lowerIsBetter(housingRatio, []tierCut{
					{0.25, StatusExcellent},
					{0.30, StatusGood},
					{0.35, StatusAcceptable},
					{0.40, StatusNeedsImprovement},
				}),
			},
			{
				Name:      "emergency fund",
				Value:     emergencyMonths,
				Benchmark: "6 months of expenses covered",
				Status: higherIsBetter(emergencyMonths, []tierCut{
					{6, StatusExcellent},
					{3, StatusGood},
					{1, StatusAcceptable},
					{0.5, StatusNeedsImprovement},
				}),
			},
		},
		TopCategories: topCategories(in.ByCategory, 3),
	}
	return report
}

func topCategories(byCategory []CategoryTotal, n int) []CategoryTotal {
	if len(byCategory) <= n {
		return byCategory
	}
	return byCategory[:n]
}
