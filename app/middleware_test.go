package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/sushihentaime/startuphub/internal/permission"
	"github.com/sushihentaime/startuphub/internal/userservice"
)

func TestRecoverPanic(t *testing.T) {
	app, _ := newTestApplication(t, nil)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	res := httptest.NewRecorder()
	app.recoverPanic(handler).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, "close", res.Header().Get("Connection"))
}

func TestAuthenticate(t *testing.T) {
	app, cache := newTestApplication(t, nil)
	user, token := seedSession(t, cache, permission.RoleFounder)

	expired, err := userservice.NewVerifier(testSecret).Sign(user.ID, user.Email, -time.Minute)
	assert.NoError(t, err)

	forged, err := userservice.NewVerifier("other-secret").Sign(user.ID, user.Email, time.Hour)
	assert.NoError(t, err)

	testCases := []struct {
		name      string
		header    string
		cookie    string
		status    int
		anonymous bool
	}{
		{name: "no token", status: http.StatusOK, anonymous: true},
		{name: "bearer token", header: "Bearer " + token, status: http.StatusOK},
		{name: "cookie token", cookie: token, status: http.StatusOK},
		{name: "malformed header", header: "Token " + token, status: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer " + expired, status: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + forged, status: http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got *userservice.User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = app.getUserContext(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: userservice.SessionCookieName, Value: tc.cookie})
			}

			res := httptest.NewRecorder()
			app.authenticate(next).ServeHTTP(res, req)

			assert.Equal(t, tc.status, res.Code)
			if tc.status != http.StatusOK {
				assert.Equal(t, "Bearer", res.Header().Get("WWW-Authenticate"))
				return
			}

			assert.Equal(t, tc.anonymous, got.IsAnonymous())
			if !tc.anonymous {
				assert.Equal(t, user.ID, got.ID)
			}
		})
	}
}

func TestRequireAuthenticatedUser(t *testing.T) {
	app, cache := newTestApplication(t, nil)
	_, token := seedSession(t, cache, permission.RoleUser)

	ts := newTestServer(t, app.authenticate(http.HandlerFunc(app.requireAuthenticatedUser(func(w http.ResponseWriter, r *http.Request) {
		app.writeJSON(w, http.StatusOK, envelope{"ok": true}, nil)
	}))))

	code, _, _ := ts.get(t, "/", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _, body := ts.get(t, "/", token)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["ok"])
}

func TestRequireAdmin(t *testing.T) {
	app, cache := newTestApplication(t, nil)
	_, userToken := seedSession(t, cache, permission.RoleUser)
	_, adminToken := seedSession(t, cache, permission.RoleAdmin)

	ts := newTestServer(t, app.authenticate(http.HandlerFunc(app.requireAdmin(func(w http.ResponseWriter, r *http.Request) {
		app.writeJSON(w, http.StatusOK, envelope{"ok": true}, nil)
	}))))

	testCases := []struct {
		name     string
		token    string
		status   int
		redirect string
	}{
		{name: "anonymous", status: http.StatusUnauthorized, redirect: "/login"},
		{name: "user", token: userToken, status: http.StatusForbidden, redirect: "/"},
		{name: "admin", token: adminToken, status: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, body := ts.get(t, "/v1/admin/users", tc.token)
			assert.Equal(t, tc.status, code)
			if tc.redirect != "" {
				assert.Equal(t, tc.redirect, body["redirect"])
			}
		})
	}
}

func TestRequireAdminAborted(t *testing.T) {
	app, _ := newTestApplication(t, nil)

	called := false
	h := app.requireAdmin(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := httptest.NewRecorder()
	h.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil).WithContext(ctx))

	assert.False(t, called)
	assert.Empty(t, res.Body.String())
}

func TestAdminPageRedirects(t *testing.T) {
	app, cache := newTestApplication(t, nil)
	_, userToken := seedSession(t, cache, permission.RoleFounder)
	_, adminToken := seedSession(t, cache, permission.RoleAdmin)

	ts := newTestServer(t, app.routes(t.Context()))

	testCases := []struct {
		name     string
		path     string
		token    string
		status   int
		location string
	}{
		{name: "anonymous", path: "/admin", status: http.StatusSeeOther, location: "/login"},
		{name: "founder", path: "/admin", token: userToken, status: http.StatusSeeOther, location: "/"},
		{name: "founder on sub page", path: "/admin/startups", token: userToken, status: http.StatusSeeOther, location: "/"},
		{name: "admin", path: "/admin", token: adminToken, status: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, headers, _ := ts.get(t, tc.path, tc.token)
			assert.Equal(t, tc.status, code)
			assert.Equal(t, tc.location, headers.Get("Location"))
		})
	}
}

func TestEnableCORS(t *testing.T) {
	app, _ := newTestApplication(t, nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := app.enableCORS(next)

	testCases := []struct {
		name            string
		method          string
		origin          string
		requestMethod   string
		wantOrigin      string
		wantCredentials string
		wantStatus      int
	}{
		{
			name:            "trusted origin",
			method:          http.MethodGet,
			origin:          "http://localhost:5173",
			wantOrigin:      "http://localhost:5173",
			wantCredentials: "true",
			wantStatus:      http.StatusOK,
		},
		{
			name:       "untrusted origin",
			method:     http.MethodGet,
			origin:     "http://evil.example",
			wantStatus: http.StatusOK,
		},
		{
			name:            "preflight",
			method:          http.MethodOptions,
			origin:          "http://localhost:5173",
			requestMethod:   http.MethodPut,
			wantOrigin:      "http://localhost:5173",
			wantCredentials: "true",
			wantStatus:      http.StatusNoContent,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/v1/startups", nil)
			req.Header.Set("Origin", tc.origin)
			if tc.requestMethod != "" {
				req.Header.Set("Access-Control-Request-Method", tc.requestMethod)
			}

			res := httptest.NewRecorder()
			h.ServeHTTP(res, req)

			assert.Equal(t, tc.wantStatus, res.Code)
			assert.Equal(t, tc.wantOrigin, res.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tc.wantCredentials, res.Header().Get("Access-Control-Allow-Credentials"))
			if tc.requestMethod != "" {
				assert.Contains(t, res.Header().Get("Access-Control-Allow-Methods"), tc.requestMethod)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	app, _ := newTestApplication(t, nil)
	app.config.RateLimitEnabled = true
	app.config.RateLimitRPS = 1
	app.config.RateLimitBurst = 2

	h := app.rateLimit(t.Context(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.7:4242"

		res := httptest.NewRecorder()
		h.ServeHTTP(res, req)
		codes = append(codes, res.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.1:4242"
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRateLimitSweeperStops(t *testing.T) {
	app, _ := newTestApplication(t, nil)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	app.rateLimit(ctx, http.NotFoundHandler())
	cancel()
}
