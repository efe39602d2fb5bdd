package transactions

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fintrack/internal/auth"
)

// contextKey is the gin context key for the ownership-checked transaction.
const contextKey = "transaction"

// Loader is the subset of the service needed by the ownership middleware.
type Loader interface {
	Get(ctx context.Context, id uuid.UUID) (*Transaction, error)
}

// RequireOwnership loads the transaction addressed by the :id route parameter
// and verifies it belongs to the authenticated user. A missing transaction is
// 404 and a foreign one is 403. The loaded entity is attached to the context
// so handlers do not look it up again.
func RequireOwnership(loader Loader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "user not authenticated",
			})
			return
		}

		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "invalid transaction id",
			})
			return
		}

		txn, err := loader.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
					"error": "transaction not found",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "failed to load transaction",
			})
			return
		}

		if txn.UserID != userID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "not the owner of this transaction",
			})
			return
		}

		c.Set(contextKey, txn)
		c.Next()
	}
}

// GetTransaction is a helper to extract the ownership-checked transaction
// from context.
func GetTransaction(c *gin.Context) (*Transaction, bool) {
	value, exists := c.Get(contextKey)
	if !exists {
		return nil, false
	}
	txn, ok := value.(*Transaction)
	return txn, ok
}
