package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbuddy/advisor-service/internal/config"
	"github.com/finbuddy/advisor-service/internal/engine"
	"github.com/finbuddy/advisor-service/internal/middleware"
	"github.com/finbuddy/advisor-service/internal/models"
)

const testSecret = "test-secret"

// stubStore backs the engine for handler tests.
type stubStore struct {
	txs []models.Transaction
	err error
}

func (s *stubStore) TransactionsInRange(_ context.Context, _ int64, from, to time.Time) ([]models.Transaction, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Transaction
	for _, t := range s.txs {
		if !t.OccurredAt.Before(from) && t.OccurredAt.Before(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubStore) Loans(context.Context, int64) ([]models.Loan, error) { return nil, s.err }

func (s *stubStore) Budgets(context.Context, int64) ([]models.Budget, error) { return nil, s.err }

func (s *stubStore) SavingsGoals(context.Context, int64) ([]models.SavingsGoal, error) {
	return nil, s.err
}

func (s *stubStore) RecurringBills(context.Context, int64) ([]models.RecurringBill, error) {
	return nil, s.err
}

func (s *stubStore) PartnerID(context.Context, int64) (*int64, error) { return nil, s.err }

func testRouter(store engine.Store) *mux.Router {
	log := logrus.New()
	log.SetOutput(io.Discard)

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	eng := engine.New(store, log, engine.WithClock(func() time.Time { return now }))
	h := NewHandler(nil, eng, nil, log)

	cfg := &config.Config{JWTSecret: testSecret}
	router := mux.NewRouter()
	router.HandleFunc("/tip", h.Tip).Methods("GET")

	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg))
	protected.HandleFunc("/query", h.Query).Methods("POST")
	protected.HandleFunc("/suggestions", h.Suggestions).Methods("GET")
	return router
}

func signToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(router *mux.Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestQueryAnswers(t *testing.T) {
	store := &stubStore{txs: []models.Transaction{
		{OwnerID: 1, Kind: models.KindExpense, Category: "Food", Amount: 80, OccurredAt: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)},
	}}
	router := testRouter(store)

	rec := doRequest(router, "POST", "/query", signToken(t, "1"),
		map[string]string{"text": "how much did I spend this month?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.EngineResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Text, "$80.00")
	assert.NotEmpty(t, resp.QuickActions)
}

func TestQueryRejectsUnauthenticated(t *testing.T) {
	router := testRouter(&stubStore{})

	rec := doRequest(router, "POST", "/query", "", map[string]string{"text": "help"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, "POST", "/query", "not-a-jwt", map[string]string{"text": "help"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestQueryValidatesBody(t *testing.T) {
	router := testRouter(&stubStore{})
	token := signToken(t, "1")

	rec := doRequest(router, "POST", "/query", token, map[string]string{"text": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryDataUnavailable(t *testing.T) {
	router := testRouter(&stubStore{err: errors.New("connection refused")})

	rec := doRequest(router, "POST", "/query", signToken(t, "1"),
		map[string]string{"text": "how much did I spend this month?"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSuggestions(t *testing.T) {
	router := testRouter(&stubStore{})

	rec := doRequest(router, "GET", "/suggestions", signToken(t, "7"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp["suggestions"], 3)
}

func TestTipIsPublicAndStable(t *testing.T) {
	router := testRouter(&stubStore{})

	first := doRequest(router, "GET", "/tip", "", nil)
	require.Equal(t, http.StatusOK, first.Code)
	firstBody := first.Body.String()

	var resp map[string]string
	require.NoError(t, json.NewDecoder(first.Body).Decode(&resp))
	assert.NotEmpty(t, resp["tip"])

	second := doRequest(router, "GET", "/tip", "", nil)
	assert.Equal(t, firstBody, second.Body.String())
}
