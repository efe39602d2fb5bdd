package transactions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"fintrack/internal/database"
)

var (
	// ErrNotFound is returned when no transaction matches the id.
	ErrNotFound = errors.New("transaction not found")
	// ErrForbidden is returned when the transaction belongs to another user.
	ErrForbidden = errors.New("not the owner of this transaction")
)

// Range is an optional inclusive date window. A nil bound is unbounded
// on that side.
type Range struct {
	From *time.Time
	To   *time.Time
}

// Repository handles all database operations for transactions.
type Repository struct {
	db database.Service
}

// NewRepository creates a new transactions repository.
func NewRepository(db database.Service) *Repository {
	return &Repository{db: db}
}

const transactionColumns = `id, user_id, type, amount, category, note, date, created_at`

// Create inserts a new transaction owned by the given user.
func (r *Repository) Create(ctx context.Context, userID uuid.UUID, req CreateTransactionRequest) (*Transaction, error) {
	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	query := `
		INSERT INTO transactions (id, user_id, type, amount, category, note, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING ` + transactionColumns

	row := r.db.QueryRow(ctx, query, uuid.New(), userID, req.Type, req.Amount, req.Category, req.Note, date)
	txn, err := scanTransaction(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return txn, nil
}

// GetByID retrieves a single transaction by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	txn, err := scanTransaction(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return txn, nil
}

// ListByUser retrieves all transactions owned by the user inside the optional
// date range, most recent first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, rng Range) ([]Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`
	args := []any{userID}

	if rng.From != nil {
		args = append(args, *rng.From)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if rng.To != nil {
		args = append(args, *rng.To)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	// Empty list serializes as [] rather than null.
	txns := make([]Transaction, 0)
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Category, &t.Note, &t.Date, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, nil
}

// Update applies the provided fields to a transaction owned by the user.
func (r *Repository) Update(ctx context.Context, id, userID uuid.UUID, req UpdateTransactionRequest) (*Transaction, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrForbidden
	}

	updates := map[string]any{}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if len(updates) == 0 {
		return existing, nil
	}

	query := `UPDATE transactions SET `
	args := []any{}
	for field, value := range updates {
		if len(args) > 0 {
			query += ", "
		}
		args = append(args, value)
		query += fmt.Sprintf("%s = $%d", field, len(args))
	}
	args = append(args, id, userID)
	query += fmt.Sprintf(" WHERE id = $%d AND user_id = $%d RETURNING %s",
		len(args)-1, len(args), transactionColumns)

	txn, err := scanTransaction(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return txn, nil
}

// Delete removes a transaction owned by the user.
func (r *Repository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return ErrForbidden
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanTransaction(row pgx.Row) (*Transaction, error) {
	t := &Transaction{}
	err := row.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Category, &t.Note, &t.Date, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}
