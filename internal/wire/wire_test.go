package wire

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"catalog-api/internal/data/entity"
	"catalog-api/internal/data/repository"
	"catalog-api/internal/data/repository/memory"
	"catalog-api/pkg/mailer"
	"catalog-api/pkg/token"
	"catalog-api/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type outbox struct {
	mu       sync.Mutex
	messages []mailer.Message
}

func (o *outbox) Send(_ context.Context, msg mailer.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, msg)
	return nil
}

func (o *outbox) lastCode(t *testing.T) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.messages)
	body := o.messages[len(o.messages)-1].Body
	return strings.TrimSpace(body[strings.LastIndex(body, ":")+1:])
}

type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type server struct {
	t      *testing.T
	router http.Handler
	repo   *repository.Repository
	tokens *token.Manager
	outbox *outbox
}

func newServer(t *testing.T, rateLimit int) *server {
	t.Helper()

	config := &utils.Config{
		App: utils.AppConfig{Name: "catalog-api-test"},
		JWT: utils.JWTConfig{Secret: "test-secret", AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour},
		Email: utils.EmailConfig{
			From:      "noreply@catalog.test",
			Subject:   "Confirmation code",
			CodeLabel: "Your confirmation code",
		},
		Code: utils.CodeConfig{ExpiryMinutes: 60, Length: 6},
		HTTP: utils.HTTPConfig{AllowedOrigins: []string{"*"}, AuthRateLimit: rateLimit},
	}

	tokens, err := token.NewManager(config.JWT)
	require.NoError(t, err)

	repo := memory.New().Repository()
	box := &outbox{}
	app := Wiring(repo, tokens, box, config, zap.NewNop())

	return &server{t: t, router: app.Router, repo: repo, tokens: tokens, outbox: box}
}

func (s *server) do(method, path, bearer string, body any) (int, envelope) {
	s.t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&payload).Encode(body))
	}

	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func (s *server) user(username string, role entity.UserRole) string {
	s.t.Helper()
	now := time.Now()
	user := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	require.NoError(s.t, s.repo.User.Create(context.Background(), user))

	access, err := s.tokens.IssueAccess(user.ID, string(role))
	require.NoError(s.t, err)
	return access
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type idPayload struct {
	ID string `json:"id"`
}

func TestHealth(t *testing.T) {
	s := newServer(t, 0)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEmailCodeFlow(t *testing.T) {
	s := newServer(t, 0)

	// requesting twice reissues without duplicating the user
	code, _ := s.do(http.MethodPost, "/api/v1/auth/email/", "", map[string]string{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodPost, "/api/v1/auth/email/", "", map[string]string{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, code)

	total, err := s.repo.User.CountAll(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	confirmation := s.outbox.lastCode(t)

	code, env := s.do(http.MethodPost, "/api/v1/auth/token/", "", map[string]string{
		"email":             "a@x.com",
		"confirmation_code": "000000x",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Errors, "confirmation_code")
	assert.Empty(t, env.Data)

	code, env = s.do(http.MethodPost, "/api/v1/auth/token/", "", map[string]string{
		"email":             "nobody@x.com",
		"confirmation_code": confirmation,
	})
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(http.MethodPost, "/api/v1/auth/token/", "", map[string]string{
		"email":             "a@x.com",
		"confirmation_code": confirmation,
	})
	require.Equal(t, http.StatusOK, code)
	tokens := decode[struct {
		Token   string `json:"token"`
		Refresh string `json:"refresh"`
	}](t, env.Data)
	require.NotEmpty(t, tokens.Token)

	code, env = s.do(http.MethodGet, "/api/v1/users/me/", tokens.Token, nil)
	require.Equal(t, http.StatusOK, code)
	me := decode[struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}](t, env.Data)
	assert.Equal(t, "a@x.com", me.Username)
	assert.Equal(t, "user", me.Role)

	code, env = s.do(http.MethodPost, "/api/v1/auth/token/refresh/", "", map[string]string{"refresh": tokens.Refresh})
	require.Equal(t, http.StatusOK, code)
}

func TestReviewRules(t *testing.T) {
	s := newServer(t, 0)
	admin := s.user("admin", entity.RoleAdmin)
	author := s.user("author", entity.RoleUser)
	stranger := s.user("stranger", entity.RoleUser)

	code, env := s.do(http.MethodPost, "/api/v1/titles/", admin, map[string]any{"name": "Solaris", "year": 1972})
	require.Equal(t, http.StatusCreated, code)
	title := decode[idPayload](t, env.Data)
	reviews := "/api/v1/titles/" + title.ID + "/reviews/"

	code, _ = s.do(http.MethodPost, reviews, author, map[string]any{"text": "too high", "score": 11})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = s.do(http.MethodPost, reviews, author, map[string]any{"text": "masterpiece", "score": 10})
	require.Equal(t, http.StatusCreated, code)
	review := decode[idPayload](t, env.Data)

	code, env = s.do(http.MethodPost, reviews, author, map[string]any{"text": "again", "score": 5})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, strings.Join(lo.Values(env.Errors), " "), "only one review")

	code, _ = s.do(http.MethodPost, reviews, "", map[string]any{"text": "anon", "score": 5})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodPatch, reviews+review.ID+"/", stranger, map[string]any{"text": "hijack"})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodDelete, reviews+review.ID+"/", stranger, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(http.MethodGet, "/api/v1/titles/"+title.ID+"/", "", nil)
	require.Equal(t, http.StatusOK, code)
	got := decode[struct {
		Rating *float64 `json:"rating"`
	}](t, env.Data)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 10.0, *got.Rating)

	code, _ = s.do(http.MethodGet, reviews, "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestNestedScoping(t *testing.T) {
	s := newServer(t, 0)
	admin := s.user("admin", entity.RoleAdmin)
	author := s.user("author", entity.RoleUser)

	_, env := s.do(http.MethodPost, "/api/v1/titles/", admin, map[string]any{"name": "Solaris", "year": 1972})
	solaris := decode[idPayload](t, env.Data)
	_, env = s.do(http.MethodPost, "/api/v1/titles/", admin, map[string]any{"name": "Stalker", "year": 1979})
	stalker := decode[idPayload](t, env.Data)

	code, env := s.do(http.MethodPost, "/api/v1/titles/"+solaris.ID+"/reviews/", author, map[string]any{"text": "t", "score": 8})
	require.Equal(t, http.StatusCreated, code)
	review := decode[idPayload](t, env.Data)

	code, _ = s.do(http.MethodPost, "/api/v1/titles/"+solaris.ID+"/reviews/"+review.ID+"/comments/", author, map[string]any{"text": "c"})
	require.Equal(t, http.StatusCreated, code)

	code, _ = s.do(http.MethodGet, "/api/v1/titles/"+stalker.ID+"/reviews/"+review.ID+"/comments/", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodGet, "/api/v1/titles/"+uuid.NewString()+"/reviews/", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodGet, "/api/v1/titles/"+solaris.ID+"/reviews/"+review.ID+"/comments/", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestCatalogPermissionsAndCategoryDelete(t *testing.T) {
	s := newServer(t, 0)
	admin := s.user("admin", entity.RoleAdmin)
	reader := s.user("reader", entity.RoleUser)

	code, _ := s.do(http.MethodPost, "/api/v1/categories/", "", map[string]string{"name": "Film", "slug": "film"})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = s.do(http.MethodPost, "/api/v1/categories/", reader, map[string]string{"name": "Film", "slug": "film"})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodPost, "/api/v1/categories/", admin, map[string]string{"name": "Film", "slug": "film"})
	require.Equal(t, http.StatusCreated, code)

	code, env := s.do(http.MethodPost, "/api/v1/titles/", admin, map[string]any{"name": "Solaris", "year": 1972, "category": "film"})
	require.Equal(t, http.StatusCreated, code)
	title := decode[idPayload](t, env.Data)

	code, _ = s.do(http.MethodGet, "/api/v1/categories/", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodDelete, "/api/v1/categories/film/", admin, nil)
	require.Equal(t, http.StatusNoContent, code)

	code, env = s.do(http.MethodGet, "/api/v1/titles/"+title.ID+"/", "", nil)
	require.Equal(t, http.StatusOK, code)
	got := decode[map[string]any](t, env.Data)
	assert.Nil(t, got["category"])
}

func TestUserAdministration(t *testing.T) {
	s := newServer(t, 0)
	admin := s.user("admin", entity.RoleAdmin)
	reader := s.user("reader", entity.RoleUser)

	code, _ := s.do(http.MethodGet, "/api/v1/users/", reader, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodGet, "/api/v1/users/", admin, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env := s.do(http.MethodPatch, "/api/v1/users/me/", reader, map[string]string{"role": "admin", "bio": "hi"})
	require.Equal(t, http.StatusOK, code)
	me := decode[struct {
		Role string `json:"role"`
	}](t, env.Data)
	assert.Equal(t, "user", me.Role)

	code, _ = s.do(http.MethodGet, "/api/v1/users/me/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodDelete, "/api/v1/users/reader/", admin, nil)
	assert.Equal(t, http.StatusNoContent, code)

	// tokens of deleted accounts stop working
	code, _ = s.do(http.MethodGet, "/api/v1/users/me/", reader, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAuthRateLimit(t *testing.T) {
	s := newServer(t, 2)

	for i := 0; i < 2; i++ {
		code, _ := s.do(http.MethodPost, "/api/v1/auth/email/", "", map[string]string{"email": "a@x.com"})
		require.Equal(t, http.StatusOK, code)
	}
	code, _ := s.do(http.MethodPost, "/api/v1/auth/email/", "", map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusTooManyRequests, code)
}

func TestTitleCategoryClearAndFieldLimits(t *testing.T) {
	s := newServer(t, 0)
	admin := s.user("admin", entity.RoleAdmin)

	code, _ := s.do(http.MethodPost, "/api/v1/categories/", admin, map[string]string{"name": "Film", "slug": "film"})
	require.Equal(t, http.StatusCreated, code)

	code, env := s.do(http.MethodPost, "/api/v1/titles/", admin, map[string]any{"name": strings.Repeat("a", 201), "year": 2000})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Maximum length is 200", env.Errors["name"])

	code, env = s.do(http.MethodPost, "/api/v1/auth/email/", "", map[string]string{"email": strings.Repeat("a", 139) + "@example.com"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Errors, "email")

	code, env = s.do(http.MethodPost, "/api/v1/titles/", admin, map[string]any{"name": "Solaris", "year": 1972, "category": "film"})
	require.Equal(t, http.StatusCreated, code)
	title := decode[idPayload](t, env.Data)
	path := "/api/v1/titles/" + title.ID + "/"

	code, env = s.do(http.MethodPatch, path, admin, map[string]any{"year": 1971})
	require.Equal(t, http.StatusOK, code)
	assert.NotNil(t, decode[map[string]any](t, env.Data)["category"])

	code, env = s.do(http.MethodPatch, path, admin, map[string]any{"category": nil})
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, decode[map[string]any](t, env.Data)["category"])

	code, env = s.do(http.MethodGet, "/api/v1/titles/"+uuid.NewString()+"/", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Title not found", env.Message)
}
