package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Mock account service for handler tests
type mockAuthService struct {
	registerFunc func(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	loginFunc    func(ctx context.Context, req LoginRequest) (*AuthResponse, error)
}

func (m *mockAuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	return m.registerFunc(ctx, req)
}

func (m *mockAuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	return m.loginFunc(ctx, req)
}

func (m *mockAuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*User, error) {
	return nil, ErrUserNotFound
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*User, error) {
	return nil, ErrUserNotFound
}

func (m *mockAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	return nil
}

func (m *mockAuthService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func handlerRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc, slog.New(slog.DiscardHandler))
	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterHandler_Success(t *testing.T) {
	svc := &mockAuthService{
		registerFunc: func(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
			return &AuthResponse{
				Token: "token",
				User:  &User{ID: uuid.New(), Name: req.Name, Email: req.Email},
			}, nil
		},
	}
	r := handlerRouter(svc)

	w := postJSON(r, "/auth/register", `{"name":"Ada","email":"ada@example.com","password":"correct-horse"}`)

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRegisterHandler_DuplicateEmail(t *testing.T) {
	svc := &mockAuthService{
		registerFunc: func(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
			return nil, ErrEmailTaken
		},
	}
	r := handlerRouter(svc)

	w := postJSON(r, "/auth/register", `{"name":"Ada","email":"ada@example.com","password":"correct-horse"}`)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
}

func TestRegisterHandler_BadBody(t *testing.T) {
	called := false
	svc := &mockAuthService{
		registerFunc: func(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
			called = true
			return nil, nil
		},
	}
	r := handlerRouter(svc)

	tests := []string{
		`{"name":"Ada","email":"not-an-email","password":"correct-horse"}`,
		`{"name":"Ada","email":"ada@example.com","password":"short"}`,
		`{"email":"ada@example.com","password":"correct-horse"}`,
	}
	for _, body := range tests {
		w := postJSON(r, "/auth/register", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected status 400, got %d", body, w.Code)
		}
	}
	if called {
		t.Error("Service should not be called for invalid bodies")
	}
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	svc := &mockAuthService{
		loginFunc: func(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
			return nil, ErrInvalidCredentials
		},
	}
	r := handlerRouter(svc)

	w := postJSON(r, "/auth/login", `{"email":"ada@example.com","password":"wrong"}`)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}
