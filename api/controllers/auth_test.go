package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/users"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubAuthService struct {
	tokens       *auth.TokenResponse
	err          error
	refreshToken string
	bearer       string
	loggedOut    string
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.TokenResponse, error) {
	return s.tokens, s.err
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.TokenResponse, error) {
	return s.tokens, s.err
}

func (s *stubAuthService) Refresh(ctx context.Context, accessToken string, req auth.RefreshRequest) (*auth.TokenResponse, error) {
	s.bearer = accessToken
	s.refreshToken = req.RefreshToken
	return s.tokens, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.loggedOut = accessID
	return s.err
}

func (s *stubAuthService) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID, Role: enums.UserRoleUser}, s.err
}

func TestAuthRegisterCreated(t *testing.T) {
	svc := &stubAuthService{tokens: &auth.TokenResponse{AccessToken: "a", RefreshToken: "r"}}
	body := `{"name":"Ada","email":"ada@example.com","password":"secret1"}`
	resp := httptest.NewRecorder()
	AuthRegister(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader(body)))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAuthRegisterValidation(t *testing.T) {
	body := `{"name":"A","email":"not-an-email","password":"123"}`
	resp := httptest.NewRecorder()
	AuthRegister(&stubAuthService{}, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader(body)))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "name") {
		t.Fatalf("expected first violation to name the field: %s", resp.Body.String())
	}
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid email or password")}
	body := `{"email":"ada@example.com","password":"wrong"}`
	resp := httptest.NewRecorder()
	AuthLogin(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(body)))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRefreshRequiresBearer(t *testing.T) {
	svc := &stubAuthService{}
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users/refresh", strings.NewReader(`{"refreshToken":"r"}`))
	AuthRefresh(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRefreshForwardsTokens(t *testing.T) {
	svc := &stubAuthService{tokens: &auth.TokenResponse{AccessToken: "a2", RefreshToken: "r2"}}
	req := httptest.NewRequest(http.MethodPost, "/api/users/refresh", strings.NewReader(`{"refreshToken":"r1"}`))
	req.Header.Set("Authorization", "Bearer a1")
	resp := httptest.NewRecorder()
	AuthRefresh(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.bearer != "a1" || svc.refreshToken != "r1" {
		t.Fatalf("unexpected forwarded tokens %q %q", svc.bearer, svc.refreshToken)
	}
}

func TestAuthLogoutRevokesCurrentSession(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/api/users/logout", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), uuid.New(), enums.UserRoleUser, "access-42"))
	resp := httptest.NewRecorder()
	AuthLogout(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK || svc.loggedOut != "access-42" {
		t.Fatalf("expected logout of access-42, got %d %q", resp.Code, svc.loggedOut)
	}
	if !strings.Contains(resp.Body.String(), "Logged out successfully") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}
