package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"projecthub/internal/auth"
	"projecthub/internal/config"
	apperrors "projecthub/internal/errors"
	"projecthub/internal/handler"
	"projecthub/internal/model"
	"projecthub/internal/service"
	"projecthub/internal/storage"
)

type memUsers struct {
	mu    sync.Mutex
	users []*model.User
}

func (m *memUsers) Create(_ context.Context, user *model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, apperrors.ErrUserAlreadyExists
		}
	}
	cp := *user
	cp.ID = int64(len(m.users) + 1)
	m.users = append(m.users, &cp)
	return &cp, nil
}

func (m *memUsers) FindByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

type memProjects struct {
	mu       sync.Mutex
	projects []model.Project
}

func (m *memProjects) Create(_ context.Context, p *model.Project) (*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	cp.ID = int64(len(m.projects) + 1)
	m.projects = append(m.projects, cp)
	return &cp, nil
}

func (m *memProjects) FindByID(_ context.Context, id int64) (*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.projects {
		if m.projects[i].ID == id {
			p := m.projects[i]
			return &p, nil
		}
	}
	return nil, apperrors.ErrProjectNotFound
}

func (m *memProjects) Search(_ context.Context, term string) ([]model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Project
	for _, p := range m.projects {
		if strings.Contains(strings.ToLower(p.Topic), strings.ToLower(term)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProjects) ListByOwner(_ context.Context, userID int64) ([]model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Project
	for _, p := range m.projects {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProjects) ListForUser(ctx context.Context, userID int64) ([]model.Project, error) {
	return m.ListByOwner(ctx, userID)
}

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	log := zap.NewNop()
	users := &memUsers{}
	projects := &memProjects{}
	store := storage.NewLocalStore(t.TempDir())
	tokens := auth.NewTokenService("test-secret")

	authService := service.NewAuthService(users, tokens)
	projectService := service.NewProjectService(projects, users, store, log)

	e := echo.New()
	Register(e, &config.Config{}, log, auth.NewGate(tokens, users, log), store, Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Project:    handler.NewProjectHandler(projectService, log),
		Attachment: handler.NewAttachmentHandler(store),
	})
	return e
}

func call(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_AuthFlow(t *testing.T) {
	e := newServer(t)

	rec := call(e, http.MethodPost, "/api/auth/register", "", `{"username":"alice","email":"a@x.io","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var reg struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "alice", reg.User["username"])
	assert.NotContains(t, reg.User, "password")

	rec = call(e, http.MethodPost, "/api/auth/register", "", `{"username":"alice","email":"a@x.io","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Username or email already exists."}`, rec.Body.String())

	rec = call(e, http.MethodPost, "/api/auth/login", "", `{"email":"a@x.io","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials."}`, rec.Body.String())

	rec = call(e, http.MethodPost, "/api/auth/login", "", `{"email":"a@x.io","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.Contains(t, rec.Body.String(), `"user":{"id":1,"username":"alice","email":"a@x.io"}`)

	rec = call(e, http.MethodGet, "/api/auth/profile", login.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"a@x.io"`)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRouter_Projects(t *testing.T) {
	e := newServer(t)

	rec := call(e, http.MethodPost, "/api/auth/register", "", `{"username":"bob","email":"b@x.io","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var reg struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))

	rec = call(e, http.MethodPost, "/api/projects", reg.Token, `{"topic":"Demo"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Demo", created["topic"])
	assert.EqualValues(t, 1, created["user_id"])
	assert.Nil(t, created["attachments"])

	rec = call(e, http.MethodGet, "/api/projects/1", reg.Token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(e, http.MethodGet, "/api/projects/999", reg.Token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Project not found"}`, rec.Body.String())

	rec = call(e, http.MethodGet, "/api/projects?q=dem", reg.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"topic":"Demo"`)

	rec = call(e, http.MethodGet, "/api/projects?q=zzz", reg.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	rec = call(e, http.MethodPost, "/api/projects", reg.Token, `{"topic":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Unauthorized(t *testing.T) {
	e := newServer(t)

	for _, header := range []string{"", "Bearer", "Token abc", "Bearer abc def", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String(), header)
	}

	// A valid token for a user that no longer exists.
	token, err := auth.NewTokenService("test-secret").Issue(42)
	require.NoError(t, err)
	rec := call(e, http.MethodGet, "/api/projects/me", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Misc(t *testing.T) {
	e := newServer(t)

	rec := call(e, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	rec = call(e, http.MethodGet, "/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
}

func TestErrorHandler_PlainError(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop())
	e.GET("/boom", func(c echo.Context) error {
		return assert.AnError
	})

	rec := call(e, http.MethodGet, "/boom", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Server error"}`, rec.Body.String())
}

func TestRouter_CORS(t *testing.T) {
	e := newServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set(echo.HeaderOrigin, "http://portal.example")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodPost)

	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@x.io","password":"pw"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderOrigin, "http://portal.example")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
