package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vadim-3/b2-hm14/config"
	"github.com/Vadim-3/b2-hm14/internal/application"
	"github.com/Vadim-3/b2-hm14/internal/infrastructure/memory"
	"github.com/Vadim-3/b2-hm14/internal/interface/middleware"
	"github.com/Vadim-3/b2-hm14/pkg/helpers"
	"github.com/Vadim-3/b2-hm14/pkg/validation"
)

type stubImages struct{ err error }

func (s stubImages) Upload(_ context.Context, publicID, _ string, r io.Reader) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	_, _ = io.Copy(io.Discard, r)
	return "https://img.example.com/" + publicID, nil
}

type testApp struct {
	engine *gin.Engine
	mr     *miniredis.Miniredis
	deps   Deps
}

func newTestApp(t *testing.T, images application.ImageHost, opts ...func(*config.Config)) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()
	helpers.PasswordCost = 4

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		ContactsRateLimit:  10,
		ContactsRateWindow: time.Minute,
		BirthdayWindowDays: 7,
		ConfirmEmailURL:    "http://localhost/api/auth/confirmed_email",
		ConfirmTokenTTL:    time.Hour,
	}
	for _, o := range opts {
		o(cfg)
	}
	logger := helpers.NewDiscardLogger()
	jwt := helpers.NewJWTManager("a", "r", time.Minute, time.Hour)
	accounts, contacts := memory.NewAccountRepository(), memory.NewContactRepository()

	d := Deps{
		Cfg:        cfg,
		Accounts:   accounts,
		Contacts:   contacts,
		Directory:  application.NewDirectory(contacts, nil, logger),
		AccountSvc: application.NewAccountService(accounts, jwt, images, logger),
		AuthSvc:    application.NewAuthService(accounts, jwt, rdb, nil, logger, application.AuthOptions{ConfirmTTL: time.Hour}),
		Limiter:    middleware.NewRedisLimiter(rdb),
	}
	engine := gin.New()
	engine.Use(middleware.RequestID())
	reg := NewRegistry(engine)
	InitModules(reg, d)
	reg.RegisterAll()
	return &testApp{engine: engine, mr: mr, deps: d}
}

func (a *testApp) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// login signs up, confirms and logs in, returning the access token.
func (a *testApp) login(t *testing.T, email string) string {
	t.Helper()
	w := a.do(http.MethodPost, "/api/auth/signup", "", map[string]string{"username": "johnny", "email": email, "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	for _, k := range a.mr.Keys() {
		if strings.HasPrefix(k, helpers.KeyConfirmEmail("")) {
			tok := strings.TrimPrefix(k, helpers.KeyConfirmEmail(""))
			w = a.do(http.MethodGet, "/api/auth/confirmed_email/"+tok, "", nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		}
	}

	w = a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Data struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "bearer", body.Data.TokenType)
	return body.Data.AccessToken
}

type contactEnvelope struct {
	Data struct {
		ID           int64  `json:"id"`
		FirstName    string `json:"first_name"`
		BirthdayDate string `json:"birthday_date"`
	} `json:"data"`
}

type listEnvelope struct {
	Data []struct {
		ID        int64  `json:"id"`
		FirstName string `json:"first_name"`
	} `json:"data"`
}

func contactBody(first string) map[string]any {
	return map[string]any{
		"first_name":    first,
		"last_name":     "Lee",
		"birthday_date": "1990-10-26",
		"email":         strings.ToLower(first) + "@example.com",
		"phone_number":  "0501234567",
	}
}

func TestContactsRequireAuth(t *testing.T) {
	app := newTestApp(t, nil)
	for _, p := range []string{"/api/contacts", "/api/contacts/me", "/api/contacts/1", "/api/contacts/search", "/api/contacts/birthdays"} {
		w := app.do(http.MethodGet, p, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, p)
	}
	w := app.do(http.MethodGet, "/api/contacts", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestContactLifecycle(t *testing.T) {
	app := newTestApp(t, nil)
	tok := app.login(t, "john@example.com")

	w := app.do(http.MethodPost, "/api/contacts", tok, contactBody("Ann"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created contactEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "1990-10-26", created.Data.BirthdayDate)
	path := "/api/contacts/" + jsonNumber(created.Data.ID)

	w = app.do(http.MethodGet, path, tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	upd := contactBody("Anna")
	upd["birthday_date"] = "1991-01-02"
	w = app.do(http.MethodPut, path, tok, upd)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated contactEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Anna", updated.Data.FirstName)
	assert.Equal(t, "1991-01-02", updated.Data.BirthdayDate)

	w = app.do(http.MethodDelete, path, tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = app.do(http.MethodGet, path, tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = app.do(http.MethodPut, path, tok, upd)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = app.do(http.MethodDelete, path, tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContactValidation(t *testing.T) {
	app := newTestApp(t, nil)
	tok := app.login(t, "john@example.com")

	bad := contactBody("Ann")
	bad["phone_number"] = "123"
	bad["birthday_date"] = "26.10.1990"
	w := app.do(http.MethodPost, "/api/contacts", tok, bad)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "phone_number")
	assert.Contains(t, w.Body.String(), "birthday_date")

	w = app.do(http.MethodGet, "/api/contacts/abc", tok, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSearchAndBirthdaysReturnEmptyArrays(t *testing.T) {
	app := newTestApp(t, nil)
	tok := app.login(t, "john@example.com")

	w := app.do(http.MethodGet, "/api/contacts/search", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got listEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.NotNil(t, got.Data)
	assert.Empty(t, got.Data)

	w = app.do(http.MethodGet, "/api/contacts/birthdays?days=3", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestSearchUnionOverHTTP(t *testing.T) {
	app := newTestApp(t, nil)
	tok := app.login(t, "john@example.com")
	for _, n := range []string{"Ann", "Bob"} {
		require.Equal(t, http.StatusCreated, app.do(http.MethodPost, "/api/contacts", tok, contactBody(n)).Code)
	}

	w := app.do(http.MethodGet, "/api/contacts/search?firstName=Ann&lastName=Lee", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got listEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	names := []string{}
	for _, c := range got.Data {
		names = append(names, c.FirstName)
	}
	assert.Equal(t, []string{"Ann", "Ann", "Bob"}, names)
}

func TestContactsQuota(t *testing.T) {
	app := newTestApp(t, nil)
	tok := app.login(t, "john@example.com")

	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/contacts", tok, nil).Code, "request %d", i+1)
	}
	before, err := app.deps.Contacts.All(context.Background())
	require.NoError(t, err)

	w := app.do(http.MethodGet, "/api/contacts", tok, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// a rejected create never reaches the store
	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusCreated, app.do(http.MethodPost, "/api/contacts", tok, contactBody("Ann")).Code)
	}
	w = app.do(http.MethodPost, "/api/contacts", tok, contactBody("Zed"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	after, err := app.deps.Contacts.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, after, len(before)+10)

	// profile routes are not throttled
	for i := 0; i < 15; i++ {
		require.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/contacts/me", tok, nil).Code)
	}
}

func multipartFile(t *testing.T, field string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "me.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("\x89PNG"))
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (a *testApp) patchAvatar(t *testing.T, tok, field string) *httptest.ResponseRecorder {
	body, ct := multipartFile(t, field)
	req := httptest.NewRequest(http.MethodPatch, "/api/contacts/avatar", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func TestAvatarUpdate(t *testing.T) {
	app := newTestApp(t, stubImages{})
	tok := app.login(t, "john@example.com")

	w := app.patchAvatar(t, tok, "file")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "https://img.example.com/avatars/")

	w = app.patchAvatar(t, tok, "other")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAvatarUploadFailure(t *testing.T) {
	app := newTestApp(t, stubImages{err: errors.New("host down")})
	tok := app.login(t, "john@example.com")

	w := app.patchAvatar(t, tok, "file")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = app.do(http.MethodGet, "/api/contacts/me", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gravatar.com")
}

func TestAuthFlowErrors(t *testing.T) {
	app := newTestApp(t, nil)
	app.login(t, "john@example.com")

	w := app.do(http.MethodPost, "/api/auth/signup", "", map[string]string{"username": "johnny", "email": "john@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "john@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(http.MethodGet, "/api/auth/refresh_token", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(http.MethodGet, "/api/auth/confirmed_email/unknown", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t, nil)
	w := app.do(http.MethodGet, "/api/healthz", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func jsonNumber(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestContactsQuotaWhenRedisDown(t *testing.T) {
	cases := []struct {
		name     string
		failOpen bool
		want     int
	}{
		{"strict", false, http.StatusServiceUnavailable},
		{"fail open", true, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t, nil, func(c *config.Config) { c.RateLimitFailOpen = tc.failOpen })
			tok := app.login(t, "john@example.com")
			app.mr.Close()

			w := app.do(http.MethodGet, "/api/contacts", tok, nil)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestDebugMetrics(t *testing.T) {
	app := newTestApp(t, nil, func(c *config.Config) { c.DebugMetricsEnabled = true })

	require.Equal(t, http.StatusNoContent, app.do(http.MethodGet, "/api/healthz", "", nil).Code)
	require.Equal(t, http.StatusNoContent, app.do(http.MethodGet, "/api/healthz", "", nil).Code)
	require.Equal(t, http.StatusUnauthorized, app.do(http.MethodGet, "/api/contacts", "", nil).Code)

	w := app.do(http.MethodGet, "/api/debug/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `contacts_http_requests_total{code="204",method="GET",route="/api/healthz"} 2`)
	assert.Contains(t, body, `contacts_http_requests_total{code="401",method="GET",route="/api/contacts"} 1`)
	assert.Contains(t, body, `contacts_http_request_duration_seconds_count{method="GET",route="/api/healthz"} 2`)

	w = app.do(http.MethodGet, "/api/debug/vars", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "memstats")
}
