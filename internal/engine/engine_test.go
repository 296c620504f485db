package engine

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/finbuddy/advisor-service/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store for end-to-end engine tests.
type fakeStore struct {
	txs     map[int64][]models.Transaction
	loans   map[int64][]models.Loan
	budgets map[int64][]models.Budget
	goals   map[int64][]models.SavingsGoal
	bills   map[int64][]models.RecurringBill
	partner map[int64]int64
	err     error
}

func (f *fakeStore) TransactionsInRange(_ context.Context, ownerID int64, from, to time.Time) ([]models.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Transaction
	for _, t := range f.txs[ownerID] {
		if !t.OccurredAt.Before(from) && t.OccurredAt.Before(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) Loans(_ context.Context, ownerID int64) ([]models.Loan, error) {
	return f.loans[ownerID], f.err
}

func (f *fakeStore) Budgets(_ context.Context, ownerID int64) ([]models.Budget, error) {
	return f.budgets[ownerID], f.err
}

func (f *fakeStore) SavingsGoals(_ context.Context, ownerID int64) ([]models.SavingsGoal, error) {
	return f.goals[ownerID], f.err
}

func (f *fakeStore) RecurringBills(_ context.Context, ownerID int64) ([]models.RecurringBill, error) {
	return f.bills[ownerID], f.err
}

func (f *fakeStore) PartnerID(_ context.Context, ownerID int64) (*int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	if id, ok := f.partner[ownerID]; ok {
		return &id, nil
	}
	return nil, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testClock() func() time.Time {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func TestAnswerGracefulForEmptyUser(t *testing.T) {
	eng := New(&fakeStore{}, testLogger(), WithClock(testClock()))

	queries := []string{
		"how much did I spend this month?",
		"what did I spend on coffee?",
		"show my breakdown by category",
		"how much did I earn?",
		"did I save any money?",
		"am I over budget?",
		"how are my budgets?",
		"how are my goals?",
		"what loans do I have?",
		"when will my loan be paid off?",
		"when will I be debt-free?",
		"do I have any subscriptions?",
		"what bills are coming up?",
		"what's my financial health score?",
		"what's my debt to income ratio?",
		"can I deduct anything on my taxes?",
		"which months do I spend the most?",
		"compare my spending with my partner",
		"is my spending trending up?",
		"help",
	}

	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			resp, err := eng.Answer(context.Background(), 1, q, nil)
			require.NoError(t, err)
			assert.NotEmpty(t, resp.Text)
			assert.NotEmpty(t, resp.Type)
			assert.NotContains(t, resp.Text, "NaN")
			assert.NotContains(t, resp.Text, "Inf")
		})
	}
}

func TestAnswerSpendingTotal(t *testing.T) {
	store := &fakeStore{txs: map[int64][]models.Transaction{
		1: {
			expenseOn("lunch", "Food", 100.50, "2024-03-02"),
			expenseOn("bus", "Transport", 49.50, "2024-03-05"),
			{OwnerID: 1, Kind: models.KindIncome, Amount: 1000, OccurredAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		},
	}}
	eng := New(store, testLogger(), WithClock(testClock()))

	resp, err := eng.Answer(context.Background(), 1, "how much did I spend this month?", nil)
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "$150.00")
	assert.Contains(t, resp.Text, "Food")
	assert.Equal(t, models.ResponseText, resp.Type)
	assert.NotEmpty(t, resp.QuickActions)
}

func TestAnswerPartnerComparison(t *testing.T) {
	store := &fakeStore{
		txs: map[int64][]models.Transaction{
			1: {
				expenseOn("groceries", "Food", 500, "2024-03-03"),
				expenseOn("fuel", "Transport", 400, "2024-03-08"),
			},
			2: {expenseOn("rent", "Rent", 600, "2024-03-01")},
		},
		partner: map[int64]int64{1: 2},
	}
	eng := New(store, testLogger(), WithClock(testClock()))

	resp, err := eng.Answer(context.Background(), 1, "compare my spending with my partner", nil)
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "$900.00")
	assert.Contains(t, resp.Text, "$600.00")
	assert.Contains(t, resp.Text, "Food")
}

func TestAnswerResolvesCategoryFromHistory(t *testing.T) {
	store := &fakeStore{txs: map[int64][]models.Transaction{
		1: {
			expenseOn("latte", "Coffee", 5, "2024-02-03"),
			expenseOn("espresso", "Coffee", 7, "2024-02-20"),
		},
	}}
	eng := New(store, testLogger(), WithClock(testClock()))

	history := []models.ChatMessage{
		{Role: "user", Text: "How much did I spend on coffee?"},
		{Role: "assistant", Text: "You spent $12.00 on coffee."},
	}
	resp, err := eng.Answer(context.Background(), 1, "what did I spend on last month?", history)
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "coffee")
	assert.Contains(t, resp.Text, "$12.00")
}

func TestAnswerDataUnavailable(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	eng := New(store, testLogger(), WithClock(testClock()))

	_, err := eng.Answer(context.Background(), 1, "how much did I spend this month?", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.NotContains(t, err.Error(), "how much", "query text stays out of the error")
}

func TestAnswerUnknownFallsBack(t *testing.T) {
	t.Run("healthy store", func(t *testing.T) {
		eng := New(&fakeStore{}, testLogger(), WithClock(testClock()))
		resp, err := eng.Answer(context.Background(), 1, "asdf qwerty zxcv", nil)
		require.NoError(t, err)
		assert.Equal(t, models.ResponseSuggestion, resp.Type)
		assert.Len(t, resp.QuickActions, suggestionCount)
	})

	t.Run("broken store stays graceful", func(t *testing.T) {
		eng := New(&fakeStore{err: errors.New("db down")}, testLogger(), WithClock(testClock()))
		resp, err := eng.Answer(context.Background(), 1, "asdf qwerty zxcv", nil)
		require.NoError(t, err)
		assert.Equal(t, models.ResponseSuggestion, resp.Type)
		assert.Len(t, resp.QuickActions, suggestionCount)
	})
}

func TestAnswerHelpSkipsAggregation(t *testing.T) {
	eng := New(&fakeStore{err: errors.New("db down")}, testLogger(), WithClock(testClock()))
	resp, err := eng.Answer(context.Background(), 1, "help", nil)
	require.NoError(t, err)
	assert.True(t, strings.Contains(resp.Text, "spending"))
}

func TestAnswerHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := New(&fakeStore{}, testLogger(), WithClock(testClock()))
	_, err := eng.Answer(ctx, 1, "how much did I spend this month?", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSuggestionsEndToEnd(t *testing.T) {
	store := &fakeStore{
		txs: map[int64][]models.Transaction{
			1: {expenseOn("groceries", "Food", 350, "2024-03-04")},
		},
		bills: map[int64][]models.RecurringBill{
			1: {{Name: "Rent", Amount: 1200, NextDueDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)}},
		},
	}
	eng := New(store, testLogger(), WithClock(testClock()))

	got, err := eng.Suggestions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, suggestionCount)
	assert.Contains(t, got[0], "Food")
}

func TestAnswerTrendIgnoresCurrentMonth(t *testing.T) {
	// Jan 1000 → Feb 1300; March is two weeks in with only $100 spent,
	// which must not read as a spending drop.
	store := &fakeStore{txs: map[int64][]models.Transaction{
		1: {
			expenseOn("groceries", "Food", 1000, "2024-01-10"),
			expenseOn("groceries", "Food", 1300, "2024-02-10"),
			expenseOn("groceries", "Food", 100, "2024-03-05"),
		},
	}}
	eng := New(store, testLogger(), WithClock(testClock()))

	resp, err := eng.Answer(context.Background(), 1, "is my spending trending up?", nil)
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "up 30.0%")
	assert.Contains(t, resp.Text, "$1300.00")
	assert.Contains(t, resp.Text, "$1000.00")
}

func TestAnswerLoansAllPaidOff(t *testing.T) {
	store := &fakeStore{loans: map[int64][]models.Loan{
		1: {
			{Name: "Car", Direction: models.LoanReceived, Principal: 8000, RemainingBalance: 0},
			{Name: "To Alice", Direction: models.LoanGiven, Principal: 500, RemainingBalance: 0},
		},
	}}
	eng := New(store, testLogger(), WithClock(testClock()))

	resp, err := eng.Answer(context.Background(), 1, "what loans do I have?", nil)
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "paid off")
	assert.NotContains(t, resp.Text, "Your loans:")
}

func TestUpcomingBills(t *testing.T) {
	store := &fakeStore{bills: map[int64][]models.RecurringBill{
		1: {
			{Name: "Power", Amount: 80, NextDueDate: time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)},
			{Name: "Rent", Amount: 1200, NextDueDate: time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)},
		},
	}}
	eng := New(store, testLogger(), WithClock(testClock()))

	bills, err := eng.UpcomingBills(context.Background(), 1, 7)
	require.NoError(t, err)
	require.Len(t, bills, 1, "only bills inside the look-ahead window")
	assert.Equal(t, "Power", bills[0].Name)

	none, err := eng.UpcomingBills(context.Background(), 2, 7)
	require.NoError(t, err)
	assert.Empty(t, none, "users with nothing due get no reminder")
}

func TestHealthDigest(t *testing.T) {
	store := &fakeStore{
		txs: map[int64][]models.Transaction{
			1: {
				{OwnerID: 1, Kind: models.KindIncome, Amount: 3000, OccurredAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
				expenseOn("rent", "Rent", 1200, "2024-02-02"),
				expenseOn("groceries", "Food", 400, "2024-02-10"),
			},
		},
		goals: map[int64][]models.SavingsGoal{
			1: {{Name: "Emergency fund", TargetAmount: 5000, CurrentAmount: 2500}},
		},
	}
	eng := New(store, testLogger(), WithClock(testClock()))

	score, suggestions, err := eng.HealthDigest(context.Background(), 1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, score.Total, 0.0)
	assert.LessOrEqual(t, score.Total, 100.0)
	assert.NotEmpty(t, score.Grade)
	assert.Len(t, suggestions, suggestionCount)
}
