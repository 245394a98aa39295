package startupservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sushihentaime/startuphub/internal/common"
	"github.com/sushihentaime/startuphub/internal/filter"
	"github.com/sushihentaime/startuphub/internal/permission"
)

func NewStartupService(db *sql.DB, c *common.Cache, mb common.MessageProducer) *StartupService {
	return &StartupService{
		m:  NewStartupModel(db),
		c:  c,
		mb: mb,
	}
}

// CreateStartup registers a startup owned by actor. Listings created by an
// admin are approved immediately; everyone else waits for moderation, and the
// submission is only kept once the moderators' notice is published.
func (s *StartupService) CreateStartup(ctx context.Context, actor *permission.Actor, in *StartupInput) (*Startup, error) {
	if actor == nil || !permission.CanCreateStartup(actor.Role) {
		return nil, common.ErrForbidden
	}

	v := common.NewValidator()
	validateStartup(v, in)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	st := &Startup{UserID: actor.ID, IsApproved: actor.IsAdmin()}
	apply(st, in)

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	if err := s.m.insert(ctx, tx, st); err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if !st.IsApproved {
		if err := s.publish(ctx, tx, st, common.StartupSubmittedKey); err != nil {
			_ = tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.invalidate()
	return st, nil
}

// GetStartup hides unapproved listings from everyone but the owner and admins.
func (s *StartupService) GetStartup(ctx context.Context, id uuid.UUID, actor *permission.Actor) (*Startup, error) {
	st, err := s.m.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !st.IsApproved && !permission.CanEditStartup(st, actor) {
		return nil, common.ErrRecordNotFound
	}

	return st, nil
}

func (s *StartupService) UpdateStartup(ctx context.Context, id uuid.UUID, version int, actor *permission.Actor, in *StartupInput) (*Startup, error) {
	st, err := s.m.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !permission.CanEditStartup(st, actor) {
		return nil, common.ErrForbidden
	}

	if st.Version != version {
		return nil, common.ErrEditConflict
	}

	v := common.NewValidator()
	validateStartup(v, in)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	apply(st, in)
	if err := s.m.update(ctx, st); err != nil {
		return nil, err
	}

	s.invalidate()
	return st, nil
}

func (s *StartupService) DeleteStartup(ctx context.Context, id uuid.UUID, actor *permission.Actor) error {
	st, err := s.m.get(ctx, id)
	if err != nil {
		return err
	}

	if !permission.CanEditStartup(st, actor) {
		return common.ErrForbidden
	}

	if err := s.m.delete(ctx, id); err != nil {
		return err
	}

	s.invalidate()
	return nil
}

// ListDirectory returns approved startups matching f. The unfiltered list is
// cached until the next write.
func (s *StartupService) ListDirectory(ctx context.Context, f DirectoryFilter) ([]*Startup, error) {
	all, err := common.GetOrLoad(s.c, common.CacheKeyStartupDirectory(), func() ([]*Startup, error) {
		return s.m.listApproved(ctx)
	})
	if err != nil {
		return nil, err
	}

	return filter.Apply(all, f.Match), nil
}

func (s *StartupService) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*Startup, error) {
	v := common.NewValidator()
	v.Check(userID != uuid.Nil, "user_id", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.listByOwner(ctx, userID)
}

func (s *StartupService) ListPending(ctx context.Context, actor *permission.Actor) ([]*Startup, error) {
	if !permission.CanModerate(actor) {
		return nil, common.ErrForbidden
	}

	return s.m.listPending(ctx)
}

// ApproveStartup publishes the startup.approved event in the same transaction
// as the update; if publishing fails the approval is rolled back.
func (s *StartupService) ApproveStartup(ctx context.Context, id uuid.UUID, actor *permission.Actor) (*Startup, error) {
	if !permission.CanModerate(actor) {
		return nil, common.ErrForbidden
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	st, ev, err := s.m.approve(ctx, tx, id)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	msg, err := json.Marshal(ev)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := s.mb.Publish(ctx, msg, common.StartupApprovedKey, common.StartupExchange); err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.invalidate()
	return st, nil
}

func (s *StartupService) ListTestimonials(ctx context.Context) ([]Testimonial, error) {
	return common.GetOrLoad(s.c, common.CacheKeyTestimonials(), func() ([]Testimonial, error) {
		return s.m.listTestimonials(ctx)
	})
}

func (s *StartupService) SectorStats(ctx context.Context) ([]SectorStat, error) {
	return s.m.sectorStats(ctx)
}

func (s *StartupService) publish(ctx context.Context, tx *sql.Tx, st *Startup, key common.BindingKey) error {
	email, name, err := s.m.ownerContact(ctx, tx, st.UserID)
	if err != nil {
		return err
	}

	msg, err := json.Marshal(Event{StartupID: st.ID, StartupName: st.Name, OwnerEmail: email, OwnerName: name})
	if err != nil {
		return err
	}

	if err := s.mb.Publish(ctx, msg, key, common.StartupExchange); err != nil {
		return fmt.Errorf("publish %s event: %w", key, err)
	}

	return nil
}

func (s *StartupService) invalidate() {
	s.c.Delete(common.CacheKeyStartupDirectory())
	s.c.Delete(common.CacheKeyTestimonials())
}

func apply(st *Startup, in *StartupInput) {
	st.Name = in.Name
	st.Tagline = in.Tagline
	st.Description = in.Description
	st.Sector = in.Sector
	st.Stage = in.Stage
	st.Location = in.Location
	st.Website = in.Website
	st.LogoURL = in.LogoURL
	st.FoundedYear = in.FoundedYear
	st.TeamSize = in.TeamSize
	st.Valuation = in.Valuation
	st.AmountRaised = in.AmountRaised
	st.FundingRound = in.FundingRound
	st.Founders = JSONList[Founder](nonNil(in.Founders))
	st.Gallery = nonNil(in.Gallery)
	st.Documents = JSONList[Document](nonNil(in.Documents))
	st.Achievements = nonNil(in.Achievements)
	st.PressMentions = JSONList[PressMention](nonNil(in.PressMentions))
	st.TechStack = nonNil(in.TechStack)
	st.Feedback = in.Feedback
}

// nonNil keeps NOT NULL array columns from receiving NULL.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
