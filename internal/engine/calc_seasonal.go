package engine

// Months deviating more than 15% above the mean are flagged high;
// symmetric below for low.
const seasonalThreshold = 0.15

// Seasonality levels.
const (
	SeasonHigh   = "high"
	SeasonNormal = "normal"
	SeasonLow    = "low"
)

// MonthVariance is one row of the seasonal explanation table.
type MonthVariance struct {
	Month        string  `json:"month"` // e.g. "2024-03"
	Total        float64 `json:"total"`
	DeviationPct float64 `json:"deviation_pct"` // percent from mean
	Level        string  `json:"level"`
}

// SeasonalReport summarizes spending variance across the 12-month series.
type SeasonalReport struct {
	Mean       float64         `json:"mean"`
	Months     []MonthVariance `json:"months"`
	HighMonths []string        `json:"high_months"`
}

// AnalyzeSeasonal computes per-month deviation from the series mean and
// flags the outliers. The input series is the aggregator's zero-filled
// 12-bucket grouping.
func AnalyzeSeasonal(series []MonthTotal) SeasonalReport {
	report := SeasonalReport{}
	if len(series) == 0 {
		return report
	}

	var sum float64
	for _, m := range series {
		sum += m.Total
	}
	report.Mean = sum / float64(len(series))

	for _, m := range series {
		row := MonthVariance{
			Month: m.Month.Format("2006-01"),
			Total: m.Total,
			Level: SeasonNormal,
		}
		if report.Mean > 0 {
			row.DeviationPct = (m.Total - report.Mean) / report.Mean * 100
			switch {
			case row.DeviationPct > seasonalThreshold*100:
				row.Level = SeasonHigh
				report.HighMonths = append(report.HighMonths, row.Month)
			case row.DeviationPct < -seasonalThreshold*100:
				row.Level = SeasonLow
			}
		}
		report.Months = append(report.Months, row)
	}
	return report
}
