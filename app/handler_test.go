package main

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/startuphub/internal/permission"
)

func TestUserHandlers(t *testing.T) {
	app, db := newDBTestApplication(t)
	ts := newTestServer(t, app.routes(t.Context()))

	userID, token := insertUser(t, db, "ada@example.com", permission.RoleUser)
	_, adminToken := insertUser(t, db, "root@example.com", permission.RoleAdmin)

	t.Run("me", func(t *testing.T) {
		code, _, body := ts.get(t, "/v1/users/me", token)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, userID.String(), body["user"].(map[string]any)["id"])

		code, _, _ = ts.get(t, "/v1/users/me", "")
		assert.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("update profile", func(t *testing.T) {
		code, _, body := ts.do(t, http.MethodPatch, "/v1/users/me", token, map[string]any{"full_name": "Ada Lovelace", "version": 1})
		require.Equal(t, http.StatusOK, code)
		user := body["user"].(map[string]any)
		assert.Equal(t, "Ada Lovelace", user["full_name"])
		assert.Equal(t, float64(2), user["version"])

		code, _, _ = ts.do(t, http.MethodPatch, "/v1/users/me", token, map[string]any{"full_name": "Stale", "version": 1})
		assert.Equal(t, http.StatusConflict, code)

		code, _, _ = ts.do(t, http.MethodPatch, "/v1/users/me", token, map[string]any{"avatar_url": "ftp://nope", "version": 2})
		assert.Equal(t, http.StatusUnprocessableEntity, code)
	})

	t.Run("public profile hides email", func(t *testing.T) {
		code, _, body := ts.get(t, "/v1/profiles/"+userID.String(), "")
		assert.Equal(t, http.StatusOK, code)
		profile := body["profile"].(map[string]any)
		assert.Equal(t, "Ada Lovelace", profile["full_name"])
		assert.NotContains(t, profile, "email")

		code, _, _ = ts.get(t, "/v1/profiles/not-a-uuid", "")
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("admin role change", func(t *testing.T) {
		path := fmt.Sprintf("/v1/admin/users/%s/role", userID)

		code, _, _ := ts.put(t, path, token, map[string]any{"role": "admin"})
		assert.Equal(t, http.StatusForbidden, code)

		code, _, _ = ts.put(t, path, adminToken, map[string]any{"role": "emperor"})
		assert.Equal(t, http.StatusUnprocessableEntity, code)

		code, _, body := ts.put(t, path, adminToken, map[string]any{"role": "founder"})
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "founder", body["user"].(map[string]any)["role"])

		code, _, body = ts.get(t, "/v1/users/me", token)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "founder", body["user"].(map[string]any)["role"])
	})

	t.Run("admin list", func(t *testing.T) {
		code, _, body := ts.get(t, "/v1/admin/users?limit=10", adminToken)
		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, body["users"], 2)

		code, _, _ = ts.get(t, "/v1/admin/users?limit=1000", adminToken)
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestSessionProvisionsProfile(t *testing.T) {
	app, db := newDBTestApplication(t)
	ts := newTestServer(t, app.routes(t.Context()))

	id := uuid.New()
	code, _, body := ts.get(t, "/v1/users/me", signToken(t, id, "new@example.com"))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "user", body["user"].(map[string]any)["role"])

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users WHERE id = $1", id).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestBlogHandlers(t *testing.T) {
	app, db := newDBTestApplication(t)
	ts := newTestServer(t, app.routes(t.Context()))

	founderID, founderToken := insertUser(t, db, "founder@example.com", permission.RoleFounder)
	_, userToken := insertUser(t, db, "reader@example.com", permission.RoleUser)
	_, adminToken := insertUser(t, db, "admin@example.com", permission.RoleAdmin)

	var categoryID float64

	t.Run("create category", func(t *testing.T) {
		code, _, _ := ts.post(t, "/v1/blog/categories", founderToken, map[string]any{"name": "Funding"})
		assert.Equal(t, http.StatusForbidden, code)

		code, _, body := ts.post(t, "/v1/blog/categories", adminToken, map[string]any{"name": "Funding", "color": "#10b981"})
		require.Equal(t, http.StatusCreated, code)
		category := body["category"].(map[string]any)
		assert.Equal(t, "funding", category["slug"])
		categoryID = category["id"].(float64)
	})

	testCases := []struct {
		name       string
		token      string
		payload    map[string]any
		wantStatus int
		wantError  map[string]any
	}{
		{
			name:       "published post",
			token:      founderToken,
			payload:    map[string]any{"title": "Hello, World!  Foo", "content": "Raising a **seed** round.", "status": "published"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "duplicate slug",
			token:      founderToken,
			payload:    map[string]any{"title": "Hello World Foo", "content": "again"},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  map[string]any{"slug": "a post with this slug already exists"},
		},
		{
			name:       "missing category",
			token:      founderToken,
			payload:    map[string]any{"title": "Lost", "content": "x", "category_id": 9999},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  map[string]any{"category_id": "category does not exist"},
		},
		{
			name:       "missing title",
			token:      founderToken,
			payload:    map[string]any{"title": "", "content": "x"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "reader cannot write",
			token:      userToken,
			payload:    map[string]any{"title": "Nope", "content": "x"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "anonymous",
			payload:    map[string]any{"title": "Nope", "content": "x"},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, body := ts.post(t, "/v1/blog/posts", tc.token, tc.payload)
			assert.Equal(t, tc.wantStatus, code)
			if tc.wantError != nil {
				assert.Equal(t, tc.wantError, body["error"])
			}
		})
	}

	t.Run("read and list", func(t *testing.T) {
		code, _, body := ts.get(t, "/v1/blog/posts/hello-world-foo", "")
		require.Equal(t, http.StatusOK, code)
		post := body["post"].(map[string]any)
		assert.Contains(t, post["content_html"], "<strong>seed</strong>")
		assert.Equal(t, founderID.String(), post["author_id"])

		code, _, body = ts.get(t, "/v1/blog/posts?q=SEED", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, body["posts"], 1)

		code, _, body = ts.get(t, "/v1/blog/posts?category=funding", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, body["posts"], 0)

		code, _, body = ts.get(t, "/v1/blog/authors/"+founderID.String()+"/posts", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, body["posts"], 1)
	})

	t.Run("update", func(t *testing.T) {
		code, _, _ := ts.put(t, "/v1/blog/posts/hello-world-foo", userToken, map[string]any{"title": "Hijacked", "version": 1})
		assert.Equal(t, http.StatusForbidden, code)

		code, _, body := ts.put(t, "/v1/blog/posts/hello-world-foo", founderToken, map[string]any{"category_id": categoryID, "version": 1})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, float64(2), body["post"].(map[string]any)["version"])

		code, _, _ = ts.put(t, "/v1/blog/posts/hello-world-foo", founderToken, map[string]any{"title": "Stale", "version": 1})
		assert.Equal(t, http.StatusConflict, code)

		code, _, body = ts.get(t, "/v1/blog/posts?category=funding", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, body["posts"], 1)
	})

	t.Run("like", func(t *testing.T) {
		code, _, body := ts.post(t, "/v1/blog/posts/hello-world-foo/like", "", nil)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, float64(1), body["likes"])

		code, _, _ = ts.post(t, "/v1/blog/posts/nothing-here/like", "", nil)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("delete", func(t *testing.T) {
		code, _, _ := ts.delete(t, "/v1/blog/posts/hello-world-foo", userToken)
		assert.Equal(t, http.StatusForbidden, code)

		code, _, _ = ts.delete(t, "/v1/blog/posts/hello-world-foo", adminToken)
		assert.Equal(t, http.StatusOK, code)

		code, _, _ = ts.get(t, "/v1/blog/posts/hello-world-foo", "")
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("pro posts", func(t *testing.T) {
		code, _, _ := ts.post(t, "/v1/blog/posts", founderToken, map[string]any{
			"title":             "Members only",
			"excerpt":           "A taste",
			"content":           "The full playbook",
			"status":            "published",
			"is_pro_membership": true,
		})
		require.Equal(t, http.StatusCreated, code)

		for _, path := range []string{"/v1/blog/posts", "/v1/blog/authors/" + founderID.String() + "/posts"} {
			code, _, body := ts.get(t, path, "")
			require.Equal(t, http.StatusOK, code, path)
			posts := body["posts"].([]any)
			require.Len(t, posts, 1, path)
			post := posts[0].(map[string]any)
			assert.Equal(t, true, post["locked"], path)
			assert.Equal(t, "A taste", post["content"], path)

			_, _, body = ts.get(t, path, userToken)
			post = body["posts"].([]any)[0].(map[string]any)
			assert.Nil(t, post["locked"], path)
			assert.Equal(t, "The full playbook", post["content"], path)
		}
	})
}

func TestStartupHandlers(t *testing.T) {
	app, db := newDBTestApplication(t)
	ts := newTestServer(t, app.routes(t.Context()))

	_, founderToken := insertUser(t, db, "founder@example.com", permission.RoleFounder)
	_, otherToken := insertUser(t, db, "other@example.com", permission.RoleFounder)
	_, adminToken := insertUser(t, db, "admin@example.com", permission.RoleAdmin)

	input := map[string]any{
		"name":     "Harvest Link",
		"tagline":  "Farm to table logistics",
		"sector":   "AgriTech",
		"stage":    "MVP",
		"location": "Nairobi",
		"website":  "https://harvest.example.com",
		"feedback": "The hub opened doors for us.",
	}

	code, headers, body := ts.post(t, "/v1/startups", founderToken, input)
	require.Equal(t, http.StatusCreated, code)
	startup := body["startup"].(map[string]any)
	id := startup["id"].(string)
	assert.Equal(t, false, startup["is_approved"])
	assert.Equal(t, "/v1/startups/"+id, headers.Get("Location"))

	t.Run("validation", func(t *testing.T) {
		bad := map[string]any{"name": "X", "sector": "Mining", "stage": "MVP"}
		code, _, body := ts.post(t, "/v1/startups", founderToken, bad)
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Contains(t, body["error"], "name")
		assert.Contains(t, body["error"], "sector")
	})

	t.Run("pending is private", func(t *testing.T) {
		code, _, body := ts.get(t, "/v1/startups", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, body["startups"], 0)

		code, _, _ = ts.get(t, "/v1/startups/"+id, "")
		assert.Equal(t, http.StatusNotFound, code)

		code, _, _ = ts.get(t, "/v1/startups/"+id, founderToken)
		assert.Equal(t, http.StatusOK, code)

		code, _, body = ts.get(t, "/v1/users/me/startups", founderToken)
		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, body["startups"], 1)
	})

	t.Run("moderation queue", func(t *testing.T) {
		code, _, _ := ts.get(t, "/v1/admin/startups", founderToken)
		assert.Equal(t, http.StatusForbidden, code)

		code, _, body := ts.get(t, "/v1/admin/startups", adminToken)
		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, body["startups"], 1)
	})

	t.Run("approve", func(t *testing.T) {
		path := "/v1/admin/startups/" + id + "/approve"

		code, _, body := ts.put(t, path, adminToken, nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, body["startup"].(map[string]any)["is_approved"])

		code, _, _ = ts.put(t, path, adminToken, nil)
		assert.Equal(t, http.StatusConflict, code)

		code, _, body = ts.get(t, "/v1/startups?sector=agritech", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, body["startups"], 0)

		code, _, body = ts.get(t, "/v1/startups?sector=AgriTech&q=TABLE", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, body["startups"], 1)

		code, _, body = ts.get(t, "/v1/testimonials", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, body["testimonials"], 1)

		code, _, body = ts.get(t, "/v1/stats/sectors", "")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, []any{map[string]any{"sector": "AgriTech", "count": float64(1)}}, body["sectors"])
	})

	t.Run("update", func(t *testing.T) {
		update := map[string]any{}
		for k, v := range input {
			update[k] = v
		}
		update["stage"] = "Growth"
		update["version"] = 2

		code, _, _ := ts.put(t, "/v1/startups/"+id, otherToken, update)
		assert.Equal(t, http.StatusForbidden, code)

		code, _, body := ts.put(t, "/v1/startups/"+id, founderToken, update)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Growth", body["startup"].(map[string]any)["stage"])

		code, _, _ = ts.put(t, "/v1/startups/"+id, founderToken, update)
		assert.Equal(t, http.StatusConflict, code)
	})

	t.Run("delete", func(t *testing.T) {
		code, _, _ := ts.delete(t, "/v1/startups/"+id, otherToken)
		assert.Equal(t, http.StatusForbidden, code)

		code, _, _ = ts.delete(t, "/v1/startups/"+id, founderToken)
		assert.Equal(t, http.StatusOK, code)

		code, _, _ = ts.get(t, "/v1/startups/"+id, founderToken)
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestConcurrentPostUpdates(t *testing.T) {
	app, db := newDBTestApplication(t)
	ts := newTestServer(t, app.routes(t.Context()))

	_, token := insertUser(t, db, "founder@example.com", permission.RoleFounder)

	code, _, _ := ts.post(t, "/v1/blog/posts", token, map[string]any{"title": "Race", "content": "x"})
	require.Equal(t, http.StatusCreated, code)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes []int
	)

	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, _, _ := ts.put(t, "/v1/blog/posts/race", token, map[string]any{"excerpt": fmt.Sprintf("writer %d", i), "version": 1})

			mu.Lock()
			codes = append(codes, code)
			mu.Unlock()
		}()
	}

	wg.Wait()

	assert.ElementsMatch(t, []int{http.StatusOK, http.StatusConflict}, codes)
}
