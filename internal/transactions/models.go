package transactions

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Transaction types. Every record is exactly one of the two.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

var (
	// ErrInvalidType is returned when type is not income or expense.
	ErrInvalidType = errors.New("type must be income or expense")
	// ErrInvalidAmount is returned when amount is not positive.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrMissingCategory is returned when category is empty.
	ErrMissingCategory = errors.New("category is required")
)

// Transaction represents a single income or expense record owned by a user.
// Ownership is immutable after creation.
type Transaction struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Note      string    `json:"note,omitempty"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTransactionRequest is the request body for POST /transactions.
// Date defaults to the current time when omitted.
type CreateTransactionRequest struct {
	Type     string     `json:"type" binding:"required"`
	Amount   float64    `json:"amount" binding:"required"`
	Category string     `json:"category" binding:"required"`
	Note     string     `json:"note,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
}

// Validate checks the semantic rules beyond request shape.
func (r CreateTransactionRequest) Validate() error {
	if err := validateType(r.Type); err != nil {
		return err
	}
	if r.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrMissingCategory
	}
	return nil
}

// UpdateTransactionRequest is the request body for PUT /transactions/:id.
// Only fields present in the request are applied.
type UpdateTransactionRequest struct {
	Type     *string    `json:"type,omitempty"`
	Amount   *float64   `json:"amount,omitempty"`
	Category *string    `json:"category,omitempty"`
	Note     *string    `json:"note,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
}

// Validate re-checks the create rules for every field that is present.
func (r UpdateTransactionRequest) Validate() error {
	if r.Type != nil {
		if err := validateType(*r.Type); err != nil {
			return err
		}
	}
	if r.Amount != nil && *r.Amount <= 0 {
		return ErrInvalidAmount
	}
	if r.Category != nil && strings.TrimSpace(*r.Category) == "" {
		return ErrMissingCategory
	}
	return nil
}

func validateType(t string) error {
	if t != TypeIncome && t != TypeExpense {
		return ErrInvalidType
	}
	return nil
}
