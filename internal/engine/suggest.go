package engine

import (
	"fmt"
	"math/rand"
)

// suggestionCount is how many prompts a suggestion request returns.
const suggestionCount = 3

// genericSuggestions pad the personalized picks when a user's history
// is too thin to reference.
var genericSuggestions = []string{
	"How much did I spend this month?",
	"Show my category breakdown",
	"What's my financial health score?",
	"Do I have any subscriptions I forgot about?",
	"How are my savings goals doing?",
	"Am I over budget anywhere?",
}

// Suggest builds a short list of questions the user is likely to ask
// next, preferring templates that reference their actual records so the
// prompts feel personal. The output depends only on the snapshot.
func Suggest(v *View) []string {
	var out []string

	if len(v.ByCategory) > 0 {
		out = append(out, fmt.Sprintf("How much did I spend on %s?", v.ByCategory[0].Category))
	}
	if month := highestMonth(v.ByMonth); month != "" {
		out = append(out, fmt.Sprintf("Why was %s so expensive?", month))
	}
	if len(v.Bills) > 0 {
		out = append(out, "What bills are coming up?")
	}
	if len(v.ReceivedLoans()) > 0 {
		out = append(out, "When will I be debt-free?")
	}
	for _, g := range v.Goals {
		if g.ProgressRatio() < 1 {
			out = append(out, fmt.Sprintf("How close am I to my %s goal?", g.Name))
			break
		}
	}

	for _, s := range genericSuggestions {
		if len(out) >= suggestionCount {
			break
		}
		out = append(out, s)
	}
	return out[:suggestionCount]
}

// highestMonth returns the label of the biggest nonzero bucket, or ""
// when the series is flat.
func highestMonth(series []MonthTotal) string {
	best := -1
	for i, m := range series {
		if m.Total > 0 && (best == -1 || m.Total > series[best].Total) {
			best = i
		}
	}
	if best == -1 {
		return ""
	}
	return series[best].Month.Format("January")
}

// tips rotate on the landing screen; selection is seeded by the caller
// so the same seed always yields the same tip.
var tips = []string{
	"Review your subscriptions every quarter — forgotten ones add up fast.",
	"Aim to save at least 20% of your income each month.",
	"An emergency fund of 3-6 months of expenses keeps surprises from becoming debt.",
	"Paying even a little extra on a loan each month can cut years off the payoff.",
	"Check your budgets weekly, not monthly — small corrections beat big ones.",
	"The avalanche strategy (highest rate first) minimizes total interest paid.",
}

// TipOfDay picks a tip deterministically from the seed. Callers usually
// seed with the day number so the tip rotates daily.
func TipOfDay(seed int64) string {
	rng := rand.New(rand.NewSource(seed))
	return tips[rng.Intn(len(tips))]
}
