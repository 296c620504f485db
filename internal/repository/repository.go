package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/finbuddy/advisor-service/internal/models"
)

// Repository provides database operations. Financial records are
// read-only here; the engine never writes them.
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO advisor.users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, partner_id, created_at
		FROM advisor.users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.PartnerID, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, partner_id, created_at
		FROM advisor.users
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.PartnerID, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// AllUsers lists every user, for the weekly digest job
func (r *Repository) AllUsers() ([]models.User, error) {
	rows, err := r.db.Query(`SELECT id, username, email, created_at FROM advisor.users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SetPartner links two users symmetrically for comparison queries
func (r *Repository) SetPartner(userID, partnerID int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin partner link: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE advisor.users SET partner_id = $1 WHERE id = $2`, partnerID, userID); err != nil {
		return fmt.Errorf("failed to link partner: %w", err)
	}
	if _, err := tx.Exec(`UPDATE advisor.users SET partner_id = $1 WHERE id = $2`, userID, partnerID); err != nil {
		return fmt.Errorf("failed to link partner: %w", err)
	}
	return tx.Commit()
}

// PartnerID returns the linked partner id for a user, nil when unlinked
func (r *Repository) PartnerID(ctx context.Context, ownerID int64) (*int64, error) {
	var partnerID sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT partner_id FROM advisor.users WHERE id = $1`, ownerID).
		Scan(&partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find partner: %w", err)
	}
	if !partnerID.Valid {
		return nil, nil
	}
	return &partnerID.Int64, nil
}

// TransactionsInRange lists an owner's transactions inside [from, to)
func (r *Repository) TransactionsInRange(ctx context.Context, ownerID int64, from, to time.Time) ([]models.Transaction, error) {
	query := `
		SELECT id, owner_id, kind, amount, category, occurred_at, COALESCE(description, '')
		FROM advisor.transactions
		WHERE owner_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		ORDER BY occurred_at`
	rows, err := r.db.QueryContext(ctx, query, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Kind, &t.Amount, &t.Category, &t.OccurredAt, &t.Description); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// Loans lists an owner's loans
func (r *Repository) Loans(ctx context.Context, ownerID int64) ([]models.Loan, error) {
	query := `
		SELECT id, owner_id, name, direction, principal, remaining_balance,
		       interest_rate_annual, due_date, installment_amount, installment_frequency
		FROM advisor.loans
		WHERE owner_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch loans: %w", err)
	}
	defer rows.Close()

	var loans []models.Loan
	for rows.Next() {
		var l models.Loan
		var rate, installment sql.NullFloat64
		var due sql.NullTime
		var freq sql.NullString
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Name, &l.Direction, &l.Principal,
			&l.RemainingBalance, &rate, &due, &installment, &freq); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		if rate.Valid {
			l.InterestRateAnnual = &rate.Float64
		}
		if due.Valid {
			l.DueDate = &due.Time
		}
		if installment.Valid {
			l.InstallmentAmount = &installment.Float64
		}
		if freq.Valid {
			l.InstallmentFrequency = &freq.String
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

// Budgets lists an owner's budgets
func (r *Repository) Budgets(ctx context.Context, ownerID int64) ([]models.Budget, error) {
	query := `
		SELECT id, owner_id, category, period_amount, spent_amount, period
		FROM advisor.budgets
		WHERE owner_id = $1
		ORDER BY category`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch budgets: %w", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Category, &b.PeriodAmount, &b.SpentAmount, &b.Period); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// SavingsGoals lists an owner's savings goals
func (r *Repository) SavingsGoals(ctx context.Context, ownerID int64) ([]models.SavingsGoal, error) {
	query := `
		SELECT id, owner_id, name, target_amount, current_amount, target_date
		FROM advisor.savings_goals
		WHERE owner_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch savings goals: %w", err)
	}
	defer rows.Close()

	var goals []models.SavingsGoal
	for rows.Next() {
		var g models.SavingsGoal
		var due sql.NullTime
		if err := rows.Scan(&g.ID, &g.OwnerID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &due); err != nil {
			return nil, fmt.Errorf("failed to scan savings goal: %w", err)
		}
		if due.Valid {
			g.TargetDate = &due.Time
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// RecurringBills lists an owner's recurring bills
func (r *Repository) RecurringBills(ctx context.Context, ownerID int64) ([]models.RecurringBill, error) {
	query := `
		SELECT id, owner_id, name, amount, frequency, next_due_date
		FROM advisor.recurring_bills
		WHERE owner_id = $1
		ORDER BY next_due_date`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recurring bills: %w", err)
	}
	defer rows.Close()

	var bills []models.RecurringBill
	for rows.Next() {
		var b models.RecurringBill
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Amount, &b.Frequency, &b.NextDueDate); err != nil {
			return nil, fmt.Errorf("failed to scan recurring bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}
