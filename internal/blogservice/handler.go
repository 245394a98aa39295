package blogservice

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/sushihentaime/startuphub/internal/common"
	"github.com/sushihentaime/startuphub/internal/filter"
	"github.com/sushihentaime/startuphub/internal/permission"
)

func NewBlogService(db *sql.DB, c *common.Cache) *BlogService {
	return &BlogService{m: newBlogModel(db), c: c}
}

type renderedPost struct {
	version int
	html    string
}

// CreatePost stores a new post authored by actor. Only founders and admins
// may write; the slug comes from the title unless one is given.
func (s *BlogService) CreatePost(ctx context.Context, actor *permission.Actor, req *CreatePostRequest) (*Post, error) {
	if actor == nil || !permission.CanUserCreateBlog(actor.Role) {
		return nil, common.ErrForbidden
	}

	if req.Slug == "" {
		req.Slug = GenerateSlug(req.Title)
	}
	if req.Status == "" {
		req.Status = StatusDraft
	}

	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateSlug(v, req.Slug)
	validateExcerpt(v, req.Excerpt)
	validateContent(v, req.Content)
	validateStatus(v, req.Status)
	validateCoverImage(v, req.CoverImage)
	validateCategoryID(v, req.CategoryID)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	content := sanitizeMarkdown(req.Content)
	p := &Post{
		Title:           req.Title,
		Slug:            req.Slug,
		Excerpt:         req.Excerpt,
		Content:         content,
		CoverImage:      req.CoverImage,
		Status:          req.Status,
		AuthorID:        actor.ID,
		CategoryID:      req.CategoryID,
		IsProMembership: req.IsProMembership,
		ReadTime:        max(CalculateReadTime(content), 1),
	}
	if p.Status == StatusPublished {
		p.PublishedAt = now()
	}

	if err := s.m.insert(ctx, p); err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyPublishedPosts())
	return p, nil
}

// GetPostBySlug returns a post as actor may see it. Unpublished posts are
// hidden from anyone who cannot edit them, published reads count a view, and
// pro posts show only the excerpt to anonymous readers.
func (s *BlogService) GetPostBySlug(ctx context.Context, slug string, actor *permission.Actor) (*Post, error) {
	p, err := s.m.getBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	return s.present(ctx, p, actor)
}

func (s *BlogService) GetPostByID(ctx context.Context, id int64, actor *permission.Actor) (*Post, error) {
	v := common.NewValidator()
	v.Check(id > 0, "id", "must be greater than zero")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	p, err := s.m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.present(ctx, p, actor)
}

func (s *BlogService) present(ctx context.Context, p *Post, actor *permission.Actor) (*Post, error) {
	if p.Status != StatusPublished {
		if !permission.CanUserEditBlog(p, actor) {
			return nil, ErrRecordNotFound
		}
	} else {
		views, err := s.m.incrementViews(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Views = views
	}

	if p.IsProMembership && actor == nil {
		lock(p)
	}

	html, err := s.render(p)
	if err != nil {
		return nil, err
	}
	p.ContentHTML = html

	return p, nil
}

// render caches full renders per slug and version. Locked excerpts are cheap
// and never cached.
func (s *BlogService) render(p *Post) (string, error) {
	if p.Locked {
		return renderHTML(p.Content)
	}

	key := common.CacheKeyPost(p.Slug)
	if v, ok := s.c.Get(key); ok {
		if r, ok := v.(renderedPost); ok && r.version == p.Version {
			return r.html, nil
		}
	}

	html, err := renderHTML(p.Content)
	if err != nil {
		return "", err
	}

	s.c.Set(key, renderedPost{version: p.Version, html: html})
	return html, nil
}

// UpdatePost applies req to the post at slug. The caller must own the post
// or be an admin, and req.Version must match.
func (s *BlogService) UpdatePost(ctx context.Context, slug string, actor *permission.Actor, req *UpdatePostRequest) (*Post, error) {
	p, err := s.m.getBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if !permission.CanUserEditBlog(p, actor) {
		return nil, common.ErrForbidden
	}

	if req.Version != p.Version {
		return nil, ErrEditConflict
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Slug != nil {
		p.Slug = *req.Slug
	}
	if req.Excerpt != nil {
		p.Excerpt = *req.Excerpt
	}
	if req.Content != nil {
		p.Content = sanitizeMarkdown(*req.Content)
	}
	if req.CoverImage != nil {
		p.CoverImage = *req.CoverImage
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.CategoryID != nil {
		p.CategoryID = req.CategoryID
		p.Category = nil
	}
	if req.IsProMembership != nil {
		p.IsProMembership = *req.IsProMembership
	}

	v := common.NewValidator()
	validateTitle(v, p.Title)
	validateSlug(v, p.Slug)
	validateExcerpt(v, p.Excerpt)
	validateContent(v, p.Content)
	validateStatus(v, p.Status)
	validateCoverImage(v, p.CoverImage)
	validateCategoryID(v, p.CategoryID)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	p.ReadTime = max(CalculateReadTime(p.Content), 1)
	if p.Status == StatusPublished && p.PublishedAt == nil {
		p.PublishedAt = now()
	}

	if err := s.m.update(ctx, p); err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyPublishedPosts())
	s.c.Delete(common.CacheKeyPost(slug))
	return p, nil
}

func (s *BlogService) DeletePost(ctx context.Context, slug string, actor *permission.Actor) error {
	p, err := s.m.getBySlug(ctx, slug)
	if err != nil {
		return err
	}

	if !permission.CanUserEditBlog(p, actor) {
		return common.ErrForbidden
	}

	if err := s.m.delete(ctx, p.ID); err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyPublishedPosts())
	s.c.Delete(common.CacheKeyPost(slug))
	return nil
}

// ListPosts returns published posts matching f, newest first. Search matches
// title, excerpt and content; category matches a category slug or "all".
func (s *BlogService) ListPosts(ctx context.Context, f PostFilter, actor *permission.Actor) ([]*Post, error) {
	v := common.NewValidator()
	validatePage(v, f.Limit, f.Offset)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	all, err := common.GetOrLoad(s.c, common.CacheKeyPublishedPosts(), func() ([]*Post, error) {
		return s.m.listPublished(ctx)
	})
	if err != nil {
		return nil, err
	}

	matched := filter.Apply(all, func(p *Post) bool {
		category := ""
		if p.Category != nil {
			category = p.Category.Slug
		}
		return filter.ContainsFold(f.Search, p.Title, p.Excerpt, p.Content) &&
			filter.Selector(strings.ToLower(f.Category), category)
	})

	return withholdPro(page(matched, f.Limit, f.Offset), actor), nil
}

// ListPostsByAuthor includes drafts only when actor is the author or an admin.
func (s *BlogService) ListPostsByAuthor(ctx context.Context, authorID uuid.UUID, actor *permission.Actor) ([]*Post, error) {
	v := common.NewValidator()
	v.Check(authorID != uuid.Nil, "id", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	includeDrafts := permission.CanActorModify(&Post{AuthorID: authorID}, actor)
	posts, err := s.m.listByAuthor(ctx, authorID, includeDrafts)
	if err != nil {
		return nil, err
	}

	return withholdPro(posts, actor), nil
}

func (s *BlogService) LikePost(ctx context.Context, slug string) (int, error) {
	likes, err := s.m.incrementLikes(ctx, slug)
	if err != nil {
		return 0, err
	}

	return likes, nil
}

func (s *BlogService) ListCategories(ctx context.Context) ([]Category, error) {
	return common.GetOrLoad(s.c, common.CacheKeyCategories(), func() ([]Category, error) {
		return s.m.listCategories(ctx)
	})
}

func (s *BlogService) CreateCategory(ctx context.Context, actor *permission.Actor, name, color string) (*Category, error) {
	if !permission.CanModerate(actor) {
		return nil, common.ErrForbidden
	}

	name = strings.TrimSpace(name)
	v := common.NewValidator()
	validateCategory(v, name, color)
	slug := GenerateSlug(name)
	v.Check(slug != "", "name", "must contain letters or numbers")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	c := &Category{Name: name, Slug: slug, Color: color}
	if err := s.m.insertCategory(ctx, c); err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyCategories())
	return c, nil
}

// withholdPro swaps the content of pro posts for their excerpt when there is
// no signed-in reader. Locked posts are copies; posts may come from the cache.
func withholdPro(posts []*Post, actor *permission.Actor) []*Post {
	if actor != nil {
		return posts
	}

	out := make([]*Post, len(posts))
	for i, p := range posts {
		if !p.IsProMembership {
			out[i] = p
			continue
		}
		locked := *p
		lock(&locked)
		out[i] = &locked
	}

	return out
}

func lock(p *Post) {
	p.Content = p.Excerpt
	p.ContentHTML = ""
	p.Locked = true
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}

	end := min(offset+limit, len(items))
	return items[offset:end]
}
