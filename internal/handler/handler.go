package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finbuddy/advisor-service/internal/engine"
	"github.com/finbuddy/advisor-service/internal/integrations/rates"
	"github.com/finbuddy/advisor-service/internal/middleware"
	"github.com/finbuddy/advisor-service/internal/models"
	"github.com/finbuddy/advisor-service/internal/service"
	"github.com/sirupsen/logrus"
)

// Handler exposes the engine and account operations over HTTP
type Handler struct {
	svc   *service.Service
	eng   *engine.Engine
	rates *rates.Client
	log   *logrus.Logger
}

// NewHandler initializes a new handler
func NewHandler(svc *service.Service, eng *engine.Engine, ratesClient *rates.Client, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, eng: eng, rates: ratesClient, log: log}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.svc.Register(req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Query answers one financial question for the authenticated user
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req struct {
		Text    string               `json:"text"`
		History []models.ChatMessage `json:"history"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	resp, err := h.eng.Answer(r.Context(), ownerID, req.Text, req.History)
	if err != nil {
		if errors.Is(err, engine.ErrDataUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "financial data is temporarily unavailable, please retry")
			return
		}
		h.log.Errorf("query failed for user %d: %v", ownerID, err)
		writeError(w, http.StatusInternalServerError, "failed to answer query")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Suggestions returns proactive question prompts
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	suggestions, err := h.eng.Suggestions(r.Context(), ownerID)
	if err != nil {
		if errors.Is(err, engine.ErrDataUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "financial data is temporarily unavailable, please retry")
			return
		}
		h.log.Errorf("suggestions failed for user %d: %v", ownerID, err)
		writeError(w, http.StatusInternalServerError, "failed to build suggestions")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

// LinkPartner links the caller with another user for comparison queries
func (h *Handler) LinkPartner(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req struct {
		PartnerEmail string `json:"partner_email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PartnerEmail == "" {
		writeError(w, http.StatusBadRequest, "partner_email is required")
		return
	}

	if err := h.svc.LinkPartner(ownerID, req.PartnerEmail); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "partner linked"})
}

// RefinanceRate returns the current central bank key rate, for users
// weighing payoff against refinancing
func (h *Handler) RefinanceRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.rates.GetKeyRate()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "rate source unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"key_rate": rate})
}

// Tip returns the deterministic tip of the day
func (h *Handler) Tip(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"tip": engine.TipOfDay(daySeed())})
}
