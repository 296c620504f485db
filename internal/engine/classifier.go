package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// Match is the outcome of classifying one query.
type Match struct {
	Intent   Intent
	Category string  // captured category name, if the pattern has one
	Amount   float64 // captured dollar amount, if the pattern has one
	Strategy string  // payoff strategy keyword for debt timeline queries
}

type captureKind int

const (
	captureNone captureKind = iota
	captureCategory
	captureAmount
)

// rule binds one intent to its pattern group. Group 1 of a pattern, when
// present, is interpreted according to capture.
type rule struct {
	intent   Intent
	capture  captureKind
	patterns []*regexp.Regexp
}

// Classifier resolves free text to an intent by consulting an ordered
// table of pattern groups. Matching is first-match-wins in table order,
// so more specific intents must be registered before the broader ones
// they overlap with; that ordering is part of the table's contract.
type Classifier struct {
	rules []rule
}

// NewClassifier builds a classifier with the default intent table.
func NewClassifier() *Classifier {
	return &Classifier{rules: defaultRules()}
}

func newRule(intent Intent, capture captureKind, patterns ...string) rule {
	r := rule{intent: intent, capture: capture}
	for _, p := range patterns {
		r.patterns = append(r.patterns, regexp.MustCompile(p))
	}
	return r
}

func defaultRules() []rule {
	return []rule{
		newRule(IntentLoanPayoff, captureAmount,
			`pay (?:an )?extra \$?(\d+(?:\.\d+)?)`,
			`extra \$?(\d+(?:\.\d+)?) (?:a|per|each) month`,
			`what if i paid? \$?(\d+(?:\.\d+)?) more`,
			`pay off my loan`,
			`payoff scenario`,
			`when will (?:my loan|the loan) be paid off`,
			`how long (?:until|till|to) .*pay(?:ing)? off`),
		newRule(IntentDebtTimeline, captureNone,
			`debt[ -]?free`,
			`avalanche`,
			`snowball`,
			`pay off all my (?:debts|loans)`,
			`get out of debt`),
		newRule(IntentPartnerCompare, captureNone,
			`compare .*(?:partner|spouse|wife|husband)`,
			`(?:partner|spouse|wife|husband).*(?:spend|expense)`,
			`who spends more`,
			`(?:me|mine) (?:vs|versus) (?:my )?partner`),
		newRule(IntentSubscriptions, captureNone,
			`subscriptions?`,
			`recurring (?:charges|payments|expenses)`,
			`what am i paying for (?:every|each) month`),
		newRule(IntentBillsDue, captureNone,
			`bills? (?:are )?(?:due|coming)`,
			`upcoming bills`,
			`recurring bills`,
			`what bills`,
			`next bill`),
		newRule(IntentHealthScore, captureNone,
			`health score`,
			`financial health`,
			`how am i doing financially`,
			`rate my finances`,
			`grade my finances`),
		newRule(IntentRatios, captureNone,
			`ratios?`,
			`savings rate`,
			`debt[ -]?to[ -]?income`,
			`how do my finances compare`,
			`benchmarks?`),
		newRule(IntentTaxDeductions, captureNone,
			`tax(?:es)?`,
			`deduct(?:ions?|ible)?`,
			`write[ -]?offs?`),
		newRule(IntentSeasonal, captureNone,
			`seasonal`,
			`(?:which|what) months? (?:do i|am i|is)`,
			`most expensive month`,
			`expensive time of (?:the )?year`),
		newRule(IntentTrend, captureNone,
			`trends?`,
			`compared? (?:to|with) last month`,
			`month over month`,
			`spending going (?:up|down)`,
			`am i spending more`),
		newRule(IntentOverBudget, captureNone,
			`over budget`,
			`blown? (?:my|the|any) budgets?`,
			`exceeded? (?:my|the|any) budgets?`),
		newRule(IntentBudgetStatus, captureNone,
			`budgets?`),
		newRule(IntentGoalProgress, captureNone,
			`goals?`,
			`saving up`,
			`savings progress`,
			`how close am i to`),
		newRule(IntentSpendingOnCategory, captureCategory,
			`(?:spen[dt]|spending|pay|paid) .*on ([a-z][a-z ]*)`,
			`how much (?:is|was|are) ([a-z][a-z ]*) costing`),
		newRule(IntentCategoryBreakdown, captureNone,
			`breakdown`,
			`by category`,
			`where (?:did|does|is) my money go(?:ing)?`,
			`biggest expenses?`,
			`top categories`),
		newRule(IntentSpendingTotal, captureNone,
			`how much (?:did|have) i spent?`,
			`total (?:spend|spending|expenses)`,
			`my spending`,
			`my expenses`,
			`what did i spend`),
		newRule(IntentNetBalance, captureNone,
			`net (?:balance|position)`,
			`cash ?flow`,
			`left over`,
			`did i save (?:any )?money`,
			`income (?:vs|versus|minus) expenses`),
		newRule(IntentIncomeSummary, captureNone,
			`income`,
			`how much (?:did|do) i (?:earn|make)`,
			`earnings`),
		newRule(IntentLoanStatus, captureNone,
			`loans?`,
			`(?:what|how much) do i owe`,
			`my debts?`,
			`borrowed`,
			`lent`),
		newRule(IntentHelp, captureNone,
			`^help$`,
			`what can (?:you do|i ask)`,
			`how do(?:es this|you) work`),
	}
}

// Classify maps raw input text to an intent. It never fails: text that
// matches no pattern group resolves to IntentUnknown.
func (c *Classifier) Classify(text string) Match {
	normalized := normalizeQuery(text)
	for _, r := range c.rules {
		for _, p := range r.patterns {
			groups := p.FindStringSubmatch(normalized)
			if groups == nil {
				continue
			}
			m := Match{Intent: r.intent}
			if len(groups) > 1 && groups[1] != "" {
				switch r.capture {
				case captureCategory:
					m.Category = trimTimePhrases(groups[1])
				case captureAmount:
					m.Amount, _ = strconv.ParseFloat(groups[1], 64)
				}
			}
			if r.intent == IntentDebtTimeline {
				m.Strategy = detectStrategy(normalized)
			}
			return m
		}
	}
	return Match{Intent: IntentUnknown}
}

func normalizeQuery(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// trimTimePhrases strips trailing range words so "food last month"
// captures the category "food".
var timePhrase = regexp.MustCompile(`\s*(?:this|last)\s+(?:week|month|year)\s*$`)

func trimTimePhrases(category string) string {
	return strings.TrimSpace(timePhrase.ReplaceAllString(category, ""))
}

func detectStrategy(text string) string {
	if strings.Contains(text, "snowball") {
		return StrategySnowball
	}
	return StrategyAvalanche
}
