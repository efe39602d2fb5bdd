package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Mock user store for testing
type mockUserStore struct {
	getFunc func(ctx context.Context, id uuid.UUID) (*User, error)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

func authTestRouter(tokens *TokenManager, users UserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequireAuth(tokens, users))
	r.GET("/test", func(c *gin.Context) {
		userID, _ := GetUserID(c)
		user, _ := GetUser(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id": userID,
			"email":   user.Email,
		})
	})
	return r
}

func TestRequireAuth_ValidToken(t *testing.T) {
	tokens := NewTokenManager(testSecret, time.Hour)
	userID := uuid.New()

	users := &mockUserStore{
		getFunc: func(ctx context.Context, id uuid.UUID) (*User, error) {
			if id != userID {
				t.Errorf("Expected lookup for %s, got %s", userID, id)
			}
			return &User{ID: userID, Name: "Test", Email: "test@example.com"}, nil
		},
	}

	token, err := tokens.Issue(userID)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	r := authTestRouter(tokens, users)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response["user_id"] != userID.String() {
		t.Errorf("Expected user_id %s, got %v", userID, response["user_id"])
	}
	if response["email"] != "test@example.com" {
		t.Errorf("Expected email test@example.com, got %v", response["email"])
	}
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	tokens := NewTokenManager(testSecret, time.Hour)
	r := authTestRouter(tokens, &mockUserStore{})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestRequireAuth_NotBearer(t *testing.T) {
	tokens := NewTokenManager(testSecret, time.Hour)
	r := authTestRouter(tokens, &mockUserStore{})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	expired := NewTokenManager(testSecret, -time.Minute)
	tokens := NewTokenManager(testSecret, time.Hour)

	token, err := expired.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	r := authTestRouter(tokens, &mockUserStore{})
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestRequireAuth_DeletedUser(t *testing.T) {
	tokens := NewTokenManager(testSecret, time.Hour)

	// Token is still validly signed, but the account is gone.
	token, err := tokens.Issue(uuid.New())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	users := &mockUserStore{
		getFunc: func(ctx context.Context, id uuid.UUID) (*User, error) {
			return nil, ErrUserNotFound
		},
	}

	r := authTestRouter(tokens, users)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}
