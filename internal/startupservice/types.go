package startupservice

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sushihentaime/startuphub/internal/common"
	"github.com/sushihentaime/startuphub/internal/filter"
)

var (
	Sectors = []string{
		"AgriTech", "FinTech", "HealthTech", "EdTech", "CleanTech", "E-commerce",
		"SaaS", "AI", "Logistics", "Tourism", "Media", "Other",
	}

	Stages = []string{"Idea", "MVP", "Early Traction", "Growth", "Scale"}
)

type Startup struct {
	ID            uuid.UUID              `json:"id"`
	UserID        uuid.UUID              `json:"user_id"`
	Name          string                 `json:"name"`
	Tagline       string                 `json:"tagline"`
	Description   string                 `json:"description"`
	Sector        string                 `json:"sector"`
	Stage         string                 `json:"stage"`
	Location      string                 `json:"location"`
	Website       string                 `json:"website"`
	LogoURL       string                 `json:"logo_url"`
	FoundedYear   int                    `json:"founded_year"`
	TeamSize      int                    `json:"team_size"`
	Valuation     int64                  `json:"valuation"`
	AmountRaised  int64                  `json:"amount_raised"`
	FundingRound  string                 `json:"funding_round"`
	Founders      JSONList[Founder]      `json:"founders"`
	Gallery       []string               `json:"gallery"`
	Documents     JSONList[Document]     `json:"documents"`
	Achievements  []string               `json:"achievements"`
	PressMentions JSONList[PressMention] `json:"press_mentions"`
	TechStack     []string               `json:"tech_stack"`
	IsApproved    bool                   `json:"is_approved"`
	Feedback      string                 `json:"feedback"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	Version       int                    `json:"version"`
}

func (s *Startup) OwnerID() uuid.UUID {
	return s.UserID
}

type Founder struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	LinkedIn string `json:"linkedin,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type Document struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

type PressMention struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source,omitempty"`
	Date   string `json:"date,omitempty"`
}

// JSONList stores a slice in a jsonb array column.
type JSONList[T any] []T

func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}

	return json.Marshal(l)
}

func (l *JSONList[T]) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*l = JSONList[T]{}
		return nil
	default:
		return errors.New("unsupported type for jsonb column")
	}

	return json.Unmarshal(data, l)
}

// StartupInput is the editable part of a startup. Updates replace every field.
type StartupInput struct {
	Name          string         `json:"name"`
	Tagline       string         `json:"tagline"`
	Description   string         `json:"description"`
	Sector        string         `json:"sector"`
	Stage         string         `json:"stage"`
	Location      string         `json:"location"`
	Website       string         `json:"website"`
	LogoURL       string         `json:"logo_url"`
	FoundedYear   int            `json:"founded_year"`
	TeamSize      int            `json:"team_size"`
	Valuation     int64          `json:"valuation"`
	AmountRaised  int64          `json:"amount_raised"`
	FundingRound  string         `json:"funding_round"`
	Founders      []Founder      `json:"founders"`
	Gallery       []string       `json:"gallery"`
	Documents     []Document     `json:"documents"`
	Achievements  []string       `json:"achievements"`
	PressMentions []PressMention `json:"press_mentions"`
	TechStack     []string       `json:"tech_stack"`
	Feedback      string         `json:"feedback"`
}

type DirectoryFilter struct {
	Search   string
	Sector   string
	Stage    string
	Location string
}

// Match reports whether st passes every criterion of f. Search looks at the
// name, tagline, description and location.
func (f DirectoryFilter) Match(st *Startup) bool {
	return filter.ContainsFold(f.Search, st.Name, st.Tagline, st.Description, st.Location) &&
		filter.Selector(f.Sector, st.Sector) &&
		filter.Selector(f.Stage, st.Stage) &&
		filter.Selector(f.Location, st.Location)
}

type Testimonial struct {
	StartupID   uuid.UUID `json:"startup_id"`
	StartupName string    `json:"startup_name"`
	LogoURL     string    `json:"logo_url"`
	Sector      string    `json:"sector"`
	Author      string    `json:"author"`
	Feedback    string    `json:"feedback"`
}

type SectorStat struct {
	Sector string `json:"sector"`
	Count  int    `json:"count"`
}

// Event is the message body published on the startup exchange.
type Event struct {
	StartupID   uuid.UUID `json:"startup_id"`
	StartupName string    `json:"startup_name"`
	OwnerEmail  string    `json:"owner_email"`
	OwnerName   string    `json:"owner_name"`
}

type StartupModel struct {
	db *sql.DB
}

type StartupService struct {
	m  *StartupModel
	c  *common.Cache
	mb common.MessageProducer
}
