package transactions

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/auth"
)

// Handler handles HTTP requests for transactions.
type Handler struct {
	service  Service
	exporter *Exporter
	log      *slog.Logger
}

// NewHandler creates a new transactions handler. The exporter may be nil when
// object storage is not configured; the export route then responds 503.
func NewHandler(service Service, exporter *Exporter, log *slog.Logger) *Handler {
	return &Handler{service: service, exporter: exporter, log: log}
}

// Create handles POST /transactions
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	txn, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("transaction create failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create transaction"})
		return
	}

	c.JSON(http.StatusCreated, txn)
}

// List handles GET /transactions
func (h *Handler) List(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	rng, err := parseRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txns, err := h.service.List(c.Request.Context(), userID, rng)
	if err != nil {
		h.log.Error("transaction list failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve transactions"})
		return
	}

	c.JSON(http.StatusOK, txns)
}

// Get handles GET /transactions/:id
// Lookup and ownership already happened in RequireOwnership.
func (h *Handler) Get(c *gin.Context) {
	txn, ok := GetTransaction(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transaction missing from context"})
		return
	}

	c.JSON(http.StatusOK, txn)
}

// Update handles PUT /transactions/:id
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	txn, ok := GetTransaction(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transaction missing from context"})
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), txn.ID, userID, req)
	if err != nil {
		switch {
		case isValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		case errors.Is(err, ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "not the owner of this transaction"})
		default:
			h.log.Error("transaction update failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update transaction"})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /transactions/:id
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	txn, ok := GetTransaction(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transaction missing from context"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), txn.ID, userID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		case errors.Is(err, ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "not the owner of this transaction"})
		default:
			h.log.Error("transaction delete failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete transaction"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "transaction deleted"})
}

// GetStats handles GET /transactions/stats?startDate=&endDate=
func (h *Handler) GetStats(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	rng, err := parseRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), userID, rng)
	if err != nil {
		h.log.Error("stats computation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Export handles GET /transactions/export
func (h *Handler) Export(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if h.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "export storage is not configured"})
		return
	}

	rng, err := parseRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := h.exporter.Export(c.Request.Context(), userID, rng)
	if err != nil {
		h.log.Error("statement export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export statement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// parseRange reads the optional startDate/endDate query parameters. Each
// bound is independently optional. Bare dates cover the whole calendar day:
// startDate from midnight, endDate through the end of the day.
func parseRange(c *gin.Context) (Range, error) {
	var rng Range

	if v := c.Query("startDate"); v != "" {
		t, _, err := parseDateParam(v)
		if err != nil {
			return rng, errors.New("invalid startDate, expected YYYY-MM-DD or RFC 3339")
		}
		rng.From = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, bare, err := parseDateParam(v)
		if err != nil {
			return rng, errors.New("invalid endDate, expected YYYY-MM-DD or RFC 3339")
		}
		if bare {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		rng.To = &t
	}

	return rng, nil
}

func parseDateParam(v string) (t time.Time, bare bool, err error) {
	if t, err = time.Parse("2006-01-02", v); err == nil {
		return t, true, nil
	}
	t, err = time.Parse(time.RFC3339, v)
	return t, false, err
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrInvalidType) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrMissingCategory)
}
