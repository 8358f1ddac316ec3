package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/orderdesk/orderdesk/internal/rbac"
	"github.com/orderdesk/orderdesk/internal/shared"
	_ "github.com/orderdesk/orderdesk/testing"
)

type fakeRepo struct {
	user *User
}

func (r *fakeRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	if r.user == nil || !strings.EqualFold(r.user.Email, email) {
		return nil, shared.ErrNotFound
	}
	return r.user, nil
}

func (r *fakeRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return nil
}

func (r *fakeRepo) DeleteSession(ctx context.Context, id string) error {
	return nil
}

func newTestHandler(t *testing.T, repo Repository) (*Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(client, "orderdesk_session", time.Hour, false)
	csrf := shared.NewCSRFManager("test-secret")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, NewService(repo), sessions, csrf), sessions
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginSuccessStoresRole(t *testing.T) {
	repo := &fakeRepo{user: &User{
		ID:           7,
		Email:        "ops@example.com",
		Name:         "Ops",
		PasswordHash: hashPassword(t, "super-secret"),
		Role:         rbac.RoleDelivery,
		IsActive:     true,
	}}
	handler, manager := newTestHandler(t, repo)

	body := strings.NewReader(`{"email":"ops@example.com","password":"super-secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	sess, err := manager.Load(req.Context(), req)
	require.NoError(t, err)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	rec := httptest.NewRecorder()
	handler.handleLogin(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(7), resp.UserID)
	require.Equal(t, "Delivery", resp.Role)
	require.NotEmpty(t, resp.CSRFToken)
	require.Equal(t, "7", sess.User())
	require.Equal(t, "Delivery", sess.Get(shared.SessionRoleKey))
}

func TestLoginRejectsBadPassword(t *testing.T) {
	repo := &fakeRepo{user: &User{
		ID:           7,
		Email:        "ops@example.com",
		PasswordHash: hashPassword(t, "super-secret"),
		Role:         rbac.RoleAdmin,
		IsActive:     true,
	}}
	handler, manager := newTestHandler(t, repo)

	body := strings.NewReader(`{"email":"ops@example.com","password":"wrong-password"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	sess, err := manager.Load(req.Context(), req)
	require.NoError(t, err)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	rec := httptest.NewRecorder()
	handler.handleLogin(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, sess.User())
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	repo := &fakeRepo{user: &User{
		ID:           9,
		Email:        "former@example.com",
		PasswordHash: hashPassword(t, "super-secret"),
		Role:         rbac.RoleEmployee,
		IsActive:     false,
	}}
	handler, manager := newTestHandler(t, repo)

	body := strings.NewReader(`{"email":"former@example.com","password":"super-secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	sess, err := manager.Load(req.Context(), req)
	require.NoError(t, err)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	rec := httptest.NewRecorder()
	handler.handleLogin(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
