package startupservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sushihentaime/startuphub/internal/common"
)

var (
	ErrOwnerForeignKey = errors.New("user_id does not exist")
	ErrAlreadyApproved = errors.New("startup is already approved")
)

func NewStartupModel(db *sql.DB) *StartupModel {
	return &StartupModel{db: db}
}

const startupColumns = `
	id, user_id, name, tagline, description, sector, stage, location, website, logo_url,
	founded_year, team_size, valuation, amount_raised, funding_round,
	founders, gallery, documents, achievements, press_mentions, tech_stack,
	is_approved, feedback, created_at, updated_at, version`

type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanStartup(s scanner) (*Startup, error) {
	var st Startup
	err := s.Scan(&st.ID, &st.UserID, &st.Name, &st.Tagline, &st.Description, &st.Sector, &st.Stage,
		&st.Location, &st.Website, &st.LogoURL,
		&st.FoundedYear, &st.TeamSize, &st.Valuation, &st.AmountRaised, &st.FundingRound,
		&st.Founders, pq.Array(&st.Gallery), &st.Documents, pq.Array(&st.Achievements), &st.PressMentions, pq.Array(&st.TechStack),
		&st.IsApproved, &st.Feedback, &st.CreatedAt, &st.UpdatedAt, &st.Version)
	if err != nil {
		return nil, err
	}

	return &st, nil
}

func scanStartups(rows *sql.Rows) ([]*Startup, error) {
	defer rows.Close()

	startups := []*Startup{}
	for rows.Next() {
		st, err := scanStartup(rows)
		if err != nil {
			return nil, err
		}
		startups = append(startups, st)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return startups, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrRecordNotFound
	}

	return err
}

func (m *StartupModel) insert(ctx context.Context, q querier, st *Startup) error {
	query := `
		INSERT INTO startups (user_id, name, tagline, description, sector, stage, location, website, logo_url,
			founded_year, team_size, valuation, amount_raised, funding_round,
			founders, gallery, documents, achievements, press_mentions, tech_stack, is_approved, feedback)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING id, created_at, updated_at, version`

	args := []any{
		st.UserID, st.Name, st.Tagline, st.Description, st.Sector, st.Stage, st.Location, st.Website, st.LogoURL,
		st.FoundedYear, st.TeamSize, st.Valuation, st.AmountRaised, st.FundingRound,
		st.Founders, pq.Array(st.Gallery), st.Documents, pq.Array(st.Achievements), st.PressMentions, pq.Array(st.TechStack),
		st.IsApproved, st.Feedback,
	}

	err := q.QueryRowContext(ctx, query, args...).Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt, &st.Version)
	if err != nil {
		switch {
		case common.ForeignKeyError(err, "startups_user_id_fkey"):
			return ErrOwnerForeignKey
		default:
			return err
		}
	}

	return nil
}

func (m *StartupModel) get(ctx context.Context, id uuid.UUID) (*Startup, error) {
	query := `SELECT ` + startupColumns + ` FROM startups WHERE id = $1`

	st, err := scanStartup(m.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}

	return st, nil
}

func (m *StartupModel) update(ctx context.Context, st *Startup) error {
	query := `
		UPDATE startups
		SET name = $1, tagline = $2, description = $3, sector = $4, stage = $5, location = $6, website = $7,
			logo_url = $8, founded_year = $9, team_size = $10, valuation = $11, amount_raised = $12,
			funding_round = $13, founders = $14, gallery = $15, documents = $16, achievements = $17,
			press_mentions = $18, tech_stack = $19, feedback = $20,
			updated_at = NOW(), version = version + 1
		WHERE id = $21 AND version = $22
		RETURNING updated_at, version`

	args := []any{
		st.Name, st.Tagline, st.Description, st.Sector, st.Stage, st.Location, st.Website,
		st.LogoURL, st.FoundedYear, st.TeamSize, st.Valuation, st.AmountRaised,
		st.FundingRound, st.Founders, pq.Array(st.Gallery), st.Documents, pq.Array(st.Achievements),
		st.PressMentions, pq.Array(st.TechStack), st.Feedback,
		st.ID, st.Version,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&st.UpdatedAt, &st.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrEditConflict
		default:
			return err
		}
	}

	return nil
}

func (m *StartupModel) delete(ctx context.Context, id uuid.UUID) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM startups WHERE id = $1`, id)
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
			return common.ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

func (m *StartupModel) listApproved(ctx context.Context) ([]*Startup, error) {
	query := `SELECT ` + startupColumns + ` FROM startups WHERE is_approved ORDER BY name`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return scanStartups(rows)
}

func (m *StartupModel) listPending(ctx context.Context) ([]*Startup, error) {
	query := `SELECT ` + startupColumns + ` FROM startups WHERE NOT is_approved ORDER BY created_at`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return scanStartups(rows)
}

func (m *StartupModel) listByOwner(ctx context.Context, userID uuid.UUID) ([]*Startup, error) {
	query := `SELECT ` + startupColumns + ` FROM startups WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := m.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}

	return scanStartups(rows)
}

// approve marks the startup approved inside tx and returns the owner's contact
// details for the notification.
func (m *StartupModel) approve(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*Startup, *Event, error) {
	query := `
		UPDATE startups
		SET is_approved = true, updated_at = NOW(), version = version + 1
		WHERE id = $1 AND NOT is_approved
		RETURNING ` + startupColumns

	st, err := scanStartup(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, nil, err
		}

		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM startups WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, nil, err
		}
		if exists {
			return nil, nil, ErrAlreadyApproved
		}
		return nil, nil, common.ErrRecordNotFound
	}

	ev := &Event{StartupID: st.ID, StartupName: st.Name}
	err = tx.QueryRowContext(ctx, `SELECT email, full_name FROM users WHERE id = $1`, st.UserID).Scan(&ev.OwnerEmail, &ev.OwnerName)
	if err != nil {
		return nil, nil, err
	}

	return st, ev, nil
}

func (m *StartupModel) ownerContact(ctx context.Context, q querier, userID uuid.UUID) (string, string, error) {
	var email, name string
	err := q.QueryRowContext(ctx, `SELECT email, full_name FROM users WHERE id = $1`, userID).Scan(&email, &name)
	if err != nil {
		return "", "", notFound(err)
	}

	return email, name, nil
}

func (m *StartupModel) listTestimonials(ctx context.Context) ([]Testimonial, error) {
	query := `
		SELECT s.id, s.name, s.logo_url, s.sector, u.full_name, s.feedback
		FROM startups s
		JOIN users u ON s.user_id = u.id
		WHERE s.is_approved AND s.feedback <> ''
		ORDER BY s.updated_at DESC`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	testimonials := []Testimonial{}
	for rows.Next() {
		var t Testimonial
		if err := rows.Scan(&t.StartupID, &t.StartupName, &t.LogoURL, &t.Sector, &t.Author, &t.Feedback); err != nil {
			return nil, err
		}
		testimonials = append(testimonials, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return testimonials, nil
}

func (m *StartupModel) sectorStats(ctx context.Context) ([]SectorStat, error) {
	query := `
		SELECT sector, COUNT(*)
		FROM startups
		WHERE is_approved
		GROUP BY sector
		ORDER BY COUNT(*) DESC, sector`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []SectorStat{}
	for rows.Next() {
		var s SectorStat
		if err := rows.Scan(&s.Sector, &s.Count); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
