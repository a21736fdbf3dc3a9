package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	identityapp "github.com/orderdesk/backend/internal/application/identity"
	"github.com/orderdesk/backend/internal/domain/identity"
	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/orderdesk/backend/internal/infrastructure/auth"
	"github.com/orderdesk/backend/internal/infrastructure/config"
	"github.com/orderdesk/backend/internal/interfaces/http/middleware"
)

type fakeUserRepo struct {
	byID map[uuid.UUID]*identity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[uuid.UUID]*identity.User)}
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	for _, u := range r.byID {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepo) FindAll(ctx context.Context, filter identity.UserFilter) ([]identity.User, int64, error) {
	out := make([]identity.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Save(ctx context.Context, u *identity.User) error {
	r.byID[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *identity.User) error {
	r.byID[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func seedUser(t *testing.T, repo *fakeUserRepo) *identity.User {
	t.Helper()
	u, err := identity.NewUser("Asha Verma", "asha@orderdesk.io", "correct-horse", identity.RoleAdmin)
	require.NoError(t, err)
	repo.byID[u.ID] = u
	return u
}

func newAuthRouter(repo *fakeUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-at-least-32-characters!!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "orderdesk-test",
	})
	svc := identityapp.NewAuthService(repo, jwtService, nil, zap.NewNop())
	h := NewAuthHandler(svc)

	router := gin.New()
	router.POST("/auth/login", h.Login)
	router.POST("/auth/refresh", h.Refresh)

	authed := router.Group("/")
	authed.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
	}))
	authed.GET("/auth/me", h.Me)
	authed.POST("/auth/logout", h.Logout)
	authed.POST("/auth/password", h.ChangePassword)
	return router
}

func loginFor(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data identityapp.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.AccessToken)
	return resp.Data.AccessToken
}

func TestAuthHandler_Login(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo)
	router := newAuthRouter(repo)

	body, _ := json.Marshal(map[string]string{"email": user.Email, "password": "correct-horse"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                      `json:"success"`
		Data    identityapp.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.AccessToken)
	assert.NotEmpty(t, resp.Data.RefreshToken)
	assert.Equal(t, "Bearer", resp.Data.TokenType)
	assert.Equal(t, user.Email, resp.Data.User.Email)
	assert.NotNil(t, repo.byID[user.ID].LastLoginAt, "login should be recorded")
}

func TestAuthHandler_LoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo)
	router := newAuthRouter(repo)

	body, _ := json.Marshal(map[string]string{"email": user.Email, "password": "wrong-password"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_INVALID_CREDENTIALS")
}

func TestAuthHandler_LoginDeactivatedAccount(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo)
	user.Deactivate()
	router := newAuthRouter(repo)

	body, _ := json.Marshal(map[string]string{"email": user.Email, "password": "correct-horse"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_ACCOUNT_DEACTIVATED")
}

func TestAuthHandler_Me(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo)
	router := newAuthRouter(repo)
	token := loginFor(t, router, user.Email, "correct-horse")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data identityapp.UserResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, user.Email, resp.Data.Email)
	assert.Equal(t, "admin", resp.Data.Role)
}

func TestAuthHandler_MeWithoutToken(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo)
	router := newAuthRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo)
	router := newAuthRouter(repo)
	token := loginFor(t, router, user.Email, "correct-horse")

	body, _ := json.Marshal(map[string]string{
		"old_password": "correct-horse",
		"new_password": "battery-staple",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/password", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, repo.byID[user.ID].VerifyPassword("battery-staple"))
	assert.False(t, repo.byID[user.ID].VerifyPassword("correct-horse"))
}

func TestAuthHandler_ChangePasswordWrongCurrent(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo)
	router := newAuthRouter(repo)
	token := loginFor(t, router, user.Email, "correct-horse")

	body, _ := json.Marshal(map[string]string{
		"old_password": "not-the-password",
		"new_password": "battery-staple",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/password", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_INVALID_CREDENTIALS")
	assert.True(t, repo.byID[user.ID].VerifyPassword("correct-horse"))
}

func TestAuthHandler_Refresh(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo)
	router := newAuthRouter(repo)

	body, _ := json.Marshal(map[string]string{"email": user.Email, "password": "correct-horse"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Data identityapp.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	body, _ = json.Marshal(map[string]string{"refresh_token": login.Data.RefreshToken})
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var refresh struct {
		Data identityapp.RefreshResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refresh))
	assert.NotEmpty(t, refresh.Data.AccessToken)
	assert.NotEmpty(t, refresh.Data.RefreshToken)
}
