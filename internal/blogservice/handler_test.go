package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/startuphub/internal/common"
	"github.com/sushihentaime/startuphub/internal/permission"
)

// setupTestUser inserts a profile row and returns it as an actor.
func setupTestUser(t *testing.T, db *sql.DB, email string, role permission.Role) *permission.Actor {
	var id uuid.UUID
	err := db.QueryRow(`INSERT INTO users (email, role) VALUES ($1, $2) RETURNING id`, email, role).Scan(&id)
	require.NoError(t, err)

	return &permission.Actor{ID: id, Role: role}
}

func setupTestEnvironment(t *testing.T) (*BlogService, *sql.DB, func()) {
	db := common.TestDB("file://../../migrations", t)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	cleanup := func() {
		_, err := db.Exec("DELETE FROM blog_posts")
		require.NoError(t, err)
		cache.Flush()
	}

	return NewBlogService(db, cache), db, cleanup
}

func TestBlogService(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	s, db, cleanup := setupTestEnvironment(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	founder := setupTestUser(t, db, "founder@example.com", permission.RoleFounder)
	other := setupTestUser(t, db, "other@example.com", permission.RoleFounder)
	admin := setupTestUser(t, db, "admin@example.com", permission.RoleAdmin)
	reader := setupTestUser(t, db, "reader@example.com", permission.RoleUser)

	t.Run("create", func(t *testing.T) {
		defer cleanup()

		testCases := []struct {
			name        string
			actor       *permission.Actor
			req         CreatePostRequest
			expectedErr error
			field       string
		}{
			{
				name:  "founder draft",
				actor: founder,
				req:   CreatePostRequest{Title: "Hello, World!  Foo", Content: "some words"},
			},
			{
				name:        "anonymous",
				req:         CreatePostRequest{Title: "Nope", Content: "x"},
				expectedErr: common.ErrForbidden,
			},
			{
				name:        "plain user",
				actor:       reader,
				req:         CreatePostRequest{Title: "Nope", Content: "x"},
				expectedErr: common.ErrForbidden,
			},
			{
				name:        "duplicate slug",
				actor:       admin,
				req:         CreatePostRequest{Title: "Hello world foo", Content: "again"},
				expectedErr: ErrDuplicateSlug,
			},
			{
				name:        "unknown category",
				actor:       founder,
				req:         CreatePostRequest{Title: "Categorised", Content: "x", CategoryID: ptr(int64(999))},
				expectedErr: ErrCategoryForeignKey,
			},
			{
				name:  "missing content",
				actor: founder,
				req:   CreatePostRequest{Title: "Empty"},
				field: "content",
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				p, err := s.CreatePost(ctx, tc.actor, &tc.req)

				if tc.field != "" {
					var verr common.ValidationError
					require.True(t, errors.As(err, &verr))
					assert.Contains(t, verr.Errors, tc.field)
					return
				}

				assert.Equal(t, tc.expectedErr, err)
				if err == nil {
					assert.Equal(t, "hello-world-foo", p.Slug)
					assert.Equal(t, StatusDraft, p.Status)
					assert.Nil(t, p.PublishedAt)
					assert.Equal(t, 1, p.ReadTime)
				}
			})
		}
	})

	t.Run("visibility", func(t *testing.T) {
		defer cleanup()

		_, err := s.CreatePost(ctx, founder, &CreatePostRequest{Title: "Secret draft", Content: "wip"})
		require.NoError(t, err)

		_, err = s.GetPostBySlug(ctx, "secret-draft", nil)
		assert.Equal(t, ErrRecordNotFound, err)

		_, err = s.GetPostBySlug(ctx, "secret-draft", other)
		assert.Equal(t, ErrRecordNotFound, err)

		p, err := s.GetPostBySlug(ctx, "secret-draft", founder)
		require.NoError(t, err)
		assert.Equal(t, 0, p.Views)

		p, err = s.GetPostBySlug(ctx, "secret-draft", admin)
		require.NoError(t, err)
		assert.Contains(t, p.ContentHTML, "wip")
	})

	t.Run("pro content", func(t *testing.T) {
		defer cleanup()

		_, err := s.CreatePost(ctx, founder, &CreatePostRequest{
			Title:           "Members only",
			Excerpt:         "teaser",
			Content:         "the **full** story",
			Status:          StatusPublished,
			IsProMembership: true,
		})
		require.NoError(t, err)

		p, err := s.GetPostBySlug(ctx, "members-only", nil)
		require.NoError(t, err)
		assert.True(t, p.Locked)
		assert.Equal(t, "teaser", p.Content)
		assert.Equal(t, 1, p.Views)

		p, err = s.GetPostBySlug(ctx, "members-only", reader)
		require.NoError(t, err)
		assert.False(t, p.Locked)
		assert.Contains(t, p.ContentHTML, "<strong>full</strong>")
		assert.Equal(t, 2, p.Views)
	})

	t.Run("update", func(t *testing.T) {
		defer cleanup()

		created, err := s.CreatePost(ctx, founder, &CreatePostRequest{Title: "Draft one", Content: "text"})
		require.NoError(t, err)

		_, err = s.UpdatePost(ctx, "draft-one", other, &UpdatePostRequest{Title: ptr("Hijack"), Version: created.Version})
		assert.Equal(t, common.ErrForbidden, err)

		_, err = s.UpdatePost(ctx, "draft-one", founder, &UpdatePostRequest{Title: ptr("Stale"), Version: created.Version + 1})
		assert.Equal(t, ErrEditConflict, err)

		published := StatusPublished
		p, err := s.UpdatePost(ctx, "draft-one", founder, &UpdatePostRequest{Status: &published, Version: created.Version})
		require.NoError(t, err)
		assert.NotNil(t, p.PublishedAt)
		assert.Equal(t, created.Version+1, p.Version)
		first := *p.PublishedAt

		archived := StatusArchived
		p, err = s.UpdatePost(ctx, "draft-one", admin, &UpdatePostRequest{Status: &archived, Version: p.Version})
		require.NoError(t, err)
		assert.True(t, first.Equal(*p.PublishedAt))

		_, err = s.CreatePost(ctx, founder, &CreatePostRequest{Title: "Taken", Content: "x"})
		require.NoError(t, err)
		_, err = s.UpdatePost(ctx, "draft-one", founder, &UpdatePostRequest{Slug: ptr("taken"), Version: p.Version})
		assert.Equal(t, ErrDuplicateSlug, err)
	})

	t.Run("delete", func(t *testing.T) {
		defer cleanup()

		_, err := s.CreatePost(ctx, founder, &CreatePostRequest{Title: "Short lived", Content: "x"})
		require.NoError(t, err)

		assert.Equal(t, common.ErrForbidden, s.DeletePost(ctx, "short-lived", reader))
		assert.NoError(t, s.DeletePost(ctx, "short-lived", admin))
		assert.Equal(t, ErrRecordNotFound, s.DeletePost(ctx, "short-lived", admin))
	})

	t.Run("list and like", func(t *testing.T) {
		defer cleanup()

		cat, err := s.CreateCategory(ctx, admin, "Fund Raising", "")
		require.NoError(t, err)
		assert.Equal(t, "fund-raising", cat.Slug)
		assert.Equal(t, "#6b7280", cat.Color)

		_, err = s.CreateCategory(ctx, founder, "Other", "")
		assert.Equal(t, common.ErrForbidden, err)

		for _, req := range []CreatePostRequest{
			{Title: "Seed round tips", Content: "x", Status: StatusPublished, CategoryID: &cat.ID},
			{Title: "Hiring your first engineer", Content: "x", Status: StatusPublished},
			{Title: "Unreleased thoughts", Content: "x"},
		} {
			_, err := s.CreatePost(ctx, founder, &req)
			require.NoError(t, err)
		}

		posts, err := s.ListPosts(ctx, PostFilter{Limit: 10}, reader)
		require.NoError(t, err)
		assert.Len(t, posts, 2)

		posts, err = s.ListPosts(ctx, PostFilter{Category: "fund-raising", Limit: 10}, nil)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "seed-round-tips", posts[0].Slug)

		posts, err = s.ListPosts(ctx, PostFilter{Search: "HIRING", Category: "all", Limit: 10}, nil)
		require.NoError(t, err)
		assert.Len(t, posts, 1)

		mine, err := s.ListPostsByAuthor(ctx, founder.ID, founder)
		require.NoError(t, err)
		assert.Len(t, mine, 3)

		theirs, err := s.ListPostsByAuthor(ctx, founder.ID, other)
		require.NoError(t, err)
		assert.Len(t, theirs, 2)

		likes, err := s.LikePost(ctx, "seed-round-tips")
		require.NoError(t, err)
		assert.Equal(t, 1, likes)

		_, err = s.LikePost(ctx, "unreleased-thoughts")
		assert.Equal(t, ErrRecordNotFound, err)

		categories, err := s.ListCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, categories, 1)
	})

	t.Run("pro posts in listings", func(t *testing.T) {
		defer cleanup()

		_, err := s.CreatePost(ctx, founder, &CreatePostRequest{
			Title:           "Members only playbook",
			Excerpt:         "A taste",
			Content:         "The whole playbook",
			Status:          StatusPublished,
			IsProMembership: true,
		})
		require.NoError(t, err)

		anon, err := s.ListPosts(ctx, PostFilter{Limit: 10}, nil)
		require.NoError(t, err)
		require.Len(t, anon, 1)
		assert.True(t, anon[0].Locked)
		assert.Equal(t, "A taste", anon[0].Content)

		signedIn, err := s.ListPosts(ctx, PostFilter{Limit: 10}, reader)
		require.NoError(t, err)
		require.Len(t, signedIn, 1)
		assert.False(t, signedIn[0].Locked)
		assert.Equal(t, "The whole playbook", signedIn[0].Content)

		byAuthor, err := s.ListPostsByAuthor(ctx, founder.ID, nil)
		require.NoError(t, err)
		require.Len(t, byAuthor, 1)
		assert.True(t, byAuthor[0].Locked)
		assert.Equal(t, "A taste", byAuthor[0].Content)
	})
}

func TestWithholdPro(t *testing.T) {
	free := &Post{Slug: "free", Excerpt: "e", Content: "open"}
	pro := &Post{Slug: "pro", Excerpt: "teaser", Content: "secret", ContentHTML: "<p>secret</p>", IsProMembership: true}
	cached := []*Post{free, pro}

	out := withholdPro(cached, nil)
	require.Len(t, out, 2)
	assert.Same(t, free, out[0])
	assert.Equal(t, "teaser", out[1].Content)
	assert.Empty(t, out[1].ContentHTML)
	assert.True(t, out[1].Locked)

	assert.Equal(t, "secret", pro.Content, "cached post must not change")
	assert.False(t, pro.Locked)

	reader := &permission.Actor{ID: uuid.New(), Role: permission.RoleUser}
	assert.Equal(t, cached, withholdPro(cached, reader))
}

func ptr[T any](v T) *T {
	return &v
}
