package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sushihentaime/startuphub/internal/common"
)

var (
	ErrRecordNotFound     = common.ErrRecordNotFound
	ErrEditConflict       = common.ErrEditConflict
	ErrDuplicateSlug      = errors.New("a post with this slug already exists")
	ErrDuplicateCategory  = errors.New("a category with this name already exists")
	ErrAuthorForeignKey   = errors.New("author_id does not exist")
	ErrCategoryForeignKey = errors.New("category_id does not exist")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

const postSelect = `
	SELECT p.id, p.title, p.slug, p.excerpt, p.content, p.cover_image, p.status,
		p.author_id, u.full_name, u.avatar_url,
		p.category_id, c.name, c.slug, c.color,
		p.is_pro_membership, p.views, p.likes, p.read_time, p.published_at,
		p.created_at, p.updated_at, p.version
	FROM blog_posts p
	JOIN users u ON p.author_id = u.id
	LEFT JOIN blog_categories c ON p.category_id = c.id`

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*Post, error) {
	var (
		p                        Post
		catName, catSlug, catClr sql.NullString
		categoryID               sql.NullInt64
		publishedAt              sql.NullTime
	)

	err := s.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.CoverImage, &p.Status,
		&p.AuthorID, &p.Author.FullName, &p.Author.AvatarURL,
		&categoryID, &catName, &catSlug, &catClr,
		&p.IsProMembership, &p.Views, &p.Likes, &p.ReadTime, &publishedAt,
		&p.CreatedAt, &p.UpdatedAt, &p.Version)
	if err != nil {
		return nil, err
	}

	p.Author.ID = p.AuthorID
	if categoryID.Valid {
		p.CategoryID = &categoryID.Int64
		p.Category = &Category{ID: categoryID.Int64, Name: catName.String, Slug: catSlug.String, Color: catClr.String}
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		p.PublishedAt = &t
	}

	return &p, nil
}

func scanPosts(rows *sql.Rows) ([]*Post, error) {
	defer rows.Close()

	posts := []*Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

// writeError translates constraint violations from inserts and updates.
func writeError(err error) error {
	switch {
	case common.UniqueViolation(err, "blog_posts_slug_key"):
		return ErrDuplicateSlug
	case common.ForeignKeyError(err, "blog_posts_author_id_fkey"):
		return ErrAuthorForeignKey
	case common.ForeignKeyError(err, "blog_posts_category_id_fkey"):
		return ErrCategoryForeignKey
	default:
		return err
	}
}

func (m *BlogModel) insert(ctx context.Context, p *Post) error {
	query := `
		INSERT INTO blog_posts (title, slug, excerpt, content, cover_image, status, author_id, category_id, is_pro_membership, read_time, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at, version`

	args := []any{p.Title, p.Slug, p.Excerpt, p.Content, p.CoverImage, p.Status, p.AuthorID, p.CategoryID, p.IsProMembership, p.ReadTime, p.PublishedAt}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.Version)
	if err != nil {
		return writeError(err)
	}

	return nil
}

func (m *BlogModel) getBySlug(ctx context.Context, slug string) (*Post, error) {
	p, err := scanPost(m.db.QueryRowContext(ctx, postSelect+` WHERE p.slug = $1`, slug))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return p, nil
}

func (m *BlogModel) getByID(ctx context.Context, id int64) (*Post, error) {
	p, err := scanPost(m.db.QueryRowContext(ctx, postSelect+` WHERE p.id = $1`, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return p, nil
}

func (m *BlogModel) update(ctx context.Context, p *Post) error {
	query := `
		UPDATE blog_posts
		SET title = $1, slug = $2, excerpt = $3, content = $4, cover_image = $5, status = $6,
			category_id = $7, is_pro_membership = $8, read_time = $9, published_at = $10,
			updated_at = NOW(), version = version + 1
		WHERE id = $11 AND version = $12
		RETURNING updated_at, version`

	args := []any{p.Title, p.Slug, p.Excerpt, p.Content, p.CoverImage, p.Status, p.CategoryID, p.IsProMembership, p.ReadTime, p.PublishedAt, p.ID, p.Version}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&p.UpdatedAt, &p.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return writeError(err)
		}
	}

	return nil
}

func (m *BlogModel) delete(ctx context.Context, id int64) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

func (m *BlogModel) listPublished(ctx context.Context) ([]*Post, error) {
	query := postSelect + `
		WHERE p.status = 'published'
		ORDER BY p.published_at DESC, p.id DESC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return scanPosts(rows)
}

// listByAuthor returns every status when includeDrafts is set, otherwise only published posts.
func (m *BlogModel) listByAuthor(ctx context.Context, authorID uuid.UUID, includeDrafts bool) ([]*Post, error) {
	query := postSelect + `
		WHERE p.author_id = $1 AND ($2 OR p.status = 'published')
		ORDER BY p.created_at DESC, p.id DESC`

	rows, err := m.db.QueryContext(ctx, query, authorID, includeDrafts)
	if err != nil {
		return nil, err
	}

	return scanPosts(rows)
}

func (m *BlogModel) incrementViews(ctx context.Context, id int64) (int, error) {
	var views int
	err := m.db.QueryRowContext(ctx, `UPDATE blog_posts SET views = views + 1 WHERE id = $1 RETURNING views`, id).Scan(&views)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return 0, ErrRecordNotFound
		default:
			return 0, err
		}
	}

	return views, nil
}

func (m *BlogModel) incrementLikes(ctx context.Context, slug string) (int, error) {
	query := `
		UPDATE blog_posts
		SET likes = likes + 1
		WHERE slug = $1 AND status = 'published'
		RETURNING likes`

	var likes int
	err := m.db.QueryRowContext(ctx, query, slug).Scan(&likes)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return 0, ErrRecordNotFound
		default:
			return 0, err
		}
	}

	return likes, nil
}

func (m *BlogModel) listCategories(ctx context.Context) ([]Category, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT id, name, slug, color FROM blog_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Color); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func (m *BlogModel) insertCategory(ctx context.Context, c *Category) error {
	query := `
		INSERT INTO blog_categories (name, slug, color)
		VALUES ($1, $2, COALESCE(NULLIF($3, ''), '#6b7280'))
		RETURNING id, color`

	err := m.db.QueryRowContext(ctx, query, c.Name, c.Slug, c.Color).Scan(&c.ID, &c.Color)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "blog_categories_name_key"), common.UniqueViolation(err, "blog_categories_slug_key"):
			return ErrDuplicateCategory
		default:
			return err
		}
	}

	return nil
}

func now() *time.Time {
	t := time.Now().UTC().Truncate(time.Second)
	return &t
}
