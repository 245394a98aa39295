package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/startuphub/internal/blogservice"
	"github.com/sushihentaime/startuphub/internal/common"
	"github.com/sushihentaime/startuphub/internal/faq"
	"github.com/sushihentaime/startuphub/internal/permission"
	"github.com/sushihentaime/startuphub/internal/site"
	"github.com/sushihentaime/startuphub/internal/slider"
	"github.com/sushihentaime/startuphub/internal/startupservice"
	"github.com/sushihentaime/startuphub/internal/uploadservice"
	"github.com/sushihentaime/startuphub/internal/userservice"
)

const testSecret = "test-secret"

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope envelope
	if len(responseBody) > 0 && res.Header.Get("Content-Type") == "application/json" {
		err = json.Unmarshal(responseBody, &envelope)
		if err != nil {
			t.Fatal(err)
		}
	}

	return res.StatusCode, res.Header, envelope
}

// do sends payload as JSON when it is not nil. An empty token sends no
// Authorization header.
func (ts *testServer) do(t *testing.T, method, path, token string, payload any) (int, http.Header, envelope) {
	var body io.Reader
	if payload != nil {
		js, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(js)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := ts.Client()
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	res, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) get(t *testing.T, path, token string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodGet, path, token, nil)
}

func (ts *testServer) post(t *testing.T, path, token string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPost, path, token, payload)
}

func (ts *testServer) put(t *testing.T, path, token string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPut, path, token, payload)
}

func (ts *testServer) delete(t *testing.T, path, token string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodDelete, path, token, nil)
}

func testConfig() *Config {
	return &Config{
		Port:                "0",
		Environment:         "development",
		Version:             "test",
		TrustedOrigins:      []string{"http://localhost:5173"},
		SiteURL:             "http://localhost:8080",
		JWTSecret:           testSecret,
		ContactRecipient:    "hello@startuphub.example",
		TestimonialInterval: time.Hour,
		RateLimitRPS:        2,
		RateLimitBurst:      4,
		RateLimitEnabled:    false,
	}
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, file io.Reader, filename string, opts uploadservice.Options) (*uploadservice.Result, error) {
	args := m.Called(filename, opts)
	res, _ := args.Get(0).(*uploadservice.Result)
	return res, args.Error(1)
}

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	args := m.Called(key, exchange)
	return args.Error(0)
}

// newTestApplication builds an application around db. A nil db gives an
// application for handlers that never reach Postgres; sessions then resolve
// only through users seeded with seedSession.
func newTestApplication(t *testing.T, db *sql.DB) (*application, *common.Cache) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	faqs, err := faq.Load()
	require.NoError(t, err)

	producer := new(mockProducer)
	producer.On("Publish", mock.Anything, mock.Anything).Return(nil)

	shell := site.NewShellFS(fstest.MapFS{
		"index.html":    {Data: []byte("<!doctype html><div id=root></div>")},
		"assets/app.js": {Data: []byte("console.log('hub')")},
	})

	app := &application{
		config:         testConfig(),
		logger:         logger,
		db:             db,
		userService:    userservice.NewUserService(db, cache, userservice.NewVerifier(testSecret)),
		blogService:    blogservice.NewBlogService(db, cache),
		startupService: startupservice.NewStartupService(db, cache, producer),
		uploadService:  uploadservice.NewUploadService(new(mockUploader)),
		faq:            faqs,
		shell:          shell,
		testimonials:   slider.NewRotator(0, time.Hour),
	}

	return app, cache
}

// newDBTestApplication starts a Postgres container with the migrations applied.
func newDBTestApplication(t *testing.T) (*application, *sql.DB) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	db := common.TestDB("file://../migrations", t)
	app, _ := newTestApplication(t, db)

	return app, db
}

// seedSession caches a user so the session resolves without a database and
// returns a token for it.
func seedSession(t *testing.T, cache *common.Cache, role permission.Role) (*userservice.User, string) {
	u := &userservice.User{
		ID:       uuid.New(),
		Email:    string(role) + "@startuphub.example",
		FullName: "Test " + string(role),
		Role:     role,
		Version:  1,
	}
	cache.Set(common.CacheKeyUser(u.ID.String()), u, time.Hour)

	return u, signToken(t, u.ID, u.Email)
}

func signToken(t *testing.T, id uuid.UUID, email string) string {
	token, err := userservice.NewVerifier(testSecret).Sign(id, email, time.Hour)
	require.NoError(t, err)
	return token
}

// insertUser creates a profile row directly and returns a token for it.
func insertUser(t *testing.T, db *sql.DB, email string, role permission.Role) (uuid.UUID, string) {
	id := uuid.New()

	_, err := db.Exec("INSERT INTO users (id, email, full_name, role) VALUES ($1, $2, $3, $4)", id, email, "Test User", role)
	require.NoError(t, err)

	return id, signToken(t, id, email)
}
