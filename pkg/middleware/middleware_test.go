package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog-api/internal/data/entity"
	"catalog-api/internal/data/repository/memory"
	"catalog-api/internal/policy"
	"catalog-api/pkg/token"
	"catalog-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	actor := policy.ActorFromContext(r.Context())
	w.Header().Set("X-Actor-Role", string(actor.Role))
	w.WriteHeader(http.StatusOK)
}

func TestAuthenticate(t *testing.T) {
	store := memory.New()
	users := store.Repository().User
	tokens, err := token.NewManager(utils.JWTConfig{Secret: "secret", AccessTTL: time.Hour, RefreshTTL: time.Hour})
	require.NoError(t, err)

	user := &entity.User{Base: entity.Base{ID: uuid.New()}, Username: "mod", Email: "mod@example.com", Role: entity.RoleModerator}
	require.NoError(t, users.Create(context.Background(), user))

	// token still claims the old role; the stored role wins
	access, err := tokens.IssueAccess(user.ID, string(entity.RoleUser))
	require.NoError(t, err)
	ghost, err := tokens.IssueAccess(uuid.New(), string(entity.RoleAdmin))
	require.NoError(t, err)

	handler := Authenticate(tokens, users, zap.NewNop())(http.HandlerFunc(okHandler))

	tests := []struct {
		name   string
		header string
		status int
		role   string
	}{
		{"anonymous", "", http.StatusOK, ""},
		{"valid token", "Bearer " + access, http.StatusOK, "moderator"},
		{"bad scheme", "Token " + access, http.StatusUnauthorized, ""},
		{"bad token", "Bearer nope", http.StatusUnauthorized, ""},
		{"deleted user", "Bearer " + ghost, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.role, rec.Header().Get("X-Actor-Role"))
		})
	}
}

func TestAuthorize(t *testing.T) {
	withActor := func(req *http.Request, role entity.UserRole) *http.Request {
		ctx := utils.SetUserContext(req.Context(), uuid.New(), string(role), false)
		return req.WithContext(ctx)
	}

	catalog := Authorize(policy.Catalog, false, zap.NewNop())(http.HandlerFunc(okHandler))
	content := Authorize(policy.Content, true, zap.NewNop())(http.HandlerFunc(okHandler))

	tests := []struct {
		name    string
		handler http.Handler
		req     *http.Request
		status  int
	}{
		{"anonymous list", catalog, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK},
		{"anonymous create", catalog, httptest.NewRequest(http.MethodPost, "/", nil), http.StatusUnauthorized},
		{"user create catalog", catalog, withActor(httptest.NewRequest(http.MethodPost, "/", nil), entity.RoleUser), http.StatusForbidden},
		{"admin create catalog", catalog, withActor(httptest.NewRequest(http.MethodPost, "/", nil), entity.RoleAdmin), http.StatusOK},
		{"user patch content defers to owner check", content, withActor(httptest.NewRequest(http.MethodPatch, "/", nil), entity.RoleUser), http.StatusOK},
		{"anonymous delete content", content, httptest.NewRequest(http.MethodDelete, "/", nil), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, tt.req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRecover(t *testing.T) {
	handler := Recover(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestRateLimitByIP(t *testing.T) {
	handler := RateLimitByIP(2, time.Minute)(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/email/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestMetrics(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/titles/{id}", okHandler)

	counter := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/titles/{id}", "200")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/titles/abc", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
