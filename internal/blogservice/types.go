package blogservice

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sushihentaime/startuphub/internal/common"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

type Post struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Excerpt string `json:"excerpt"`
	// Content is stored in Markdown format.
	Content     string `json:"content"`
	ContentHTML string `json:"content_html,omitempty"`
	// Locked is set when Content was withheld from an anonymous reader.
	Locked          bool       `json:"locked,omitempty"`
	CoverImage      string     `json:"cover_image"`
	Status          Status     `json:"status"`
	AuthorID        uuid.UUID  `json:"author_id"`
	Author          Author     `json:"author"`
	CategoryID      *int64     `json:"category_id"`
	Category        *Category  `json:"category,omitempty"`
	IsProMembership bool       `json:"is_pro_membership"`
	Views           int        `json:"views"`
	Likes           int        `json:"likes"`
	ReadTime        int        `json:"read_time"`
	PublishedAt     *time.Time `json:"published_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Version         int        `json:"version"`
}

func (p *Post) OwnerID() uuid.UUID {
	return p.AuthorID
}

type Author struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
}

type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
}

type CreatePostRequest struct {
	Title string `json:"title"`
	// Slug is derived from Title when empty.
	Slug            string `json:"slug"`
	Excerpt         string `json:"excerpt"`
	Content         string `json:"content"`
	CoverImage      string `json:"cover_image"`
	Status          Status `json:"status"`
	CategoryID      *int64 `json:"category_id"`
	IsProMembership bool   `json:"is_pro_membership"`
}

// UpdatePostRequest is a partial update; nil fields keep their value.
type UpdatePostRequest struct {
	Title           *string `json:"title"`
	Slug            *string `json:"slug"`
	Excerpt         *string `json:"excerpt"`
	Content         *string `json:"content"`
	CoverImage      *string `json:"cover_image"`
	Status          *Status `json:"status"`
	CategoryID      *int64  `json:"category_id"`
	IsProMembership *bool   `json:"is_pro_membership"`
	Version         int     `json:"version"`
}

type PostFilter struct {
	Search   string
	Category string
	Limit    int
	Offset   int
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m *BlogModel
	c *common.Cache
}
