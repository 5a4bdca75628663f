package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "middleware-test-secret"

type stubSessions struct {
	sessions map[uuid.UUID]*entity.Session
	err      error
}

func (s *stubSessions) Create(context.Context, *entity.Session) error { return nil }

func (s *stubSessions) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.sessions[token], nil
}

func (s *stubSessions) Revoke(context.Context, uuid.UUID) error { return nil }

func (s *stubSessions) CleanExpiredSessions(context.Context) (int64, error) { return 0, nil }

func issue(t *testing.T, userID, sid uuid.UUID, role entity.UserRole) string {
	t.Helper()
	tok, err := utils.SignSessionToken(testSecret, userID, sid, string(role), time.Now().Add(time.Hour))
	require.NoError(t, err)
	return tok
}

func protected(repo *stubSessions, mws ...func(http.Handler) http.Handler) http.Handler {
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := utils.GetUserIDFromContext(r.Context())
		w.Write([]byte(userID.String()))
	})
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return AuthSession(repo, testSecret, zap.NewNop())(h)
}

func TestAuthSession(t *testing.T) {
	userID, sid := uuid.New(), uuid.New()
	repo := &stubSessions{sessions: map[uuid.UUID]*entity.Session{
		sid: {UserID: userID, Token: sid, ExpiresAt: time.Now().Add(time.Hour)},
	}}

	tests := []struct {
		name   string
		header string
		repo   *stubSessions
		want   int
	}{
		{name: "valid session", header: "Bearer " + issue(t, userID, sid, entity.RoleCustomer), repo: repo, want: http.StatusOK},
		{name: "missing header", header: "", repo: repo, want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Token abc", repo: repo, want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", repo: repo, want: http.StatusUnauthorized},
		{name: "revoked session", header: "Bearer " + issue(t, userID, uuid.New(), entity.RoleCustomer), repo: repo, want: http.StatusUnauthorized},
		{name: "subject mismatch", header: "Bearer " + issue(t, uuid.New(), sid, entity.RoleCustomer), repo: repo, want: http.StatusUnauthorized},
		{name: "store failure", header: "Bearer " + issue(t, userID, sid, entity.RoleCustomer), repo: &stubSessions{err: errors.New("db down")}, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			protected(tt.repo).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, userID.String(), rec.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	ownerID, ownerSid := uuid.New(), uuid.New()
	customerID, customerSid := uuid.New(), uuid.New()
	repo := &stubSessions{sessions: map[uuid.UUID]*entity.Session{
		ownerSid:    {UserID: ownerID, Token: ownerSid},
		customerSid: {UserID: customerID, Token: customerSid},
	}}
	handler := protected(repo, RequireRole(zap.NewNop(), entity.RoleOwner, entity.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/api/owner/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, ownerID, ownerSid, entity.RoleOwner))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/owner/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, customerID, customerSid, entity.RoleCustomer))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRecover(t *testing.T) {
	handler := Recover(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}
