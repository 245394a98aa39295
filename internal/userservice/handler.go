package userservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sushihentaime/startuphub/internal/common"
	"github.com/sushihentaime/startuphub/internal/permission"
)

var (
	ErrAuthenticationFailure = fmt.Errorf("unauthorized access")
)

func NewUserService(db *sql.DB, c *common.Cache, v *Verifier) *UserService {
	return &UserService{
		m: NewUserModel(db),
		c: c,
		v: v,
	}
}

// GetUserBySession resolves a session token to its profile. A valid token for
// a user with no profile row yet gets one created from the email claim.
func (s *UserService) GetUserBySession(ctx context.Context, token string) (*User, error) {
	claims, id, err := s.v.Verify(token)
	if err != nil {
		return nil, err
	}

	u, err := s.GetUserByID(ctx, id)
	switch {
	case err == nil:
		return u, nil
	case errors.Is(err, common.ErrRecordNotFound) && claims.Email != "":
		return s.CreateUser(ctx, id, claims.Email, "")
	case errors.Is(err, common.ErrRecordNotFound):
		return nil, ErrAuthenticationFailure
	default:
		return nil, err
	}
}

// CreateUser inserts the profile row for an auth subject with the default role.
func (s *UserService) CreateUser(ctx context.Context, id uuid.UUID, email, fullName string) (*User, error) {
	v := common.NewValidator()
	v.Check(id != uuid.Nil, "id", "must be provided")
	validateEmail(v, email)
	v.Check(v.CheckStringLength(fullName, 0, 100), "full_name", "must not be more than 100 characters long")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := &User{
		ID:       id,
		Email:    email,
		FullName: fullName,
		Role:     permission.RoleUser,
	}

	if err := s.m.insert(ctx, u); err != nil {
		return nil, err
	}

	s.c.Set(common.CacheKeyUser(id.String()), u, UserCacheTime)
	return u, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	key := common.CacheKeyUser(id.String())
	if v, ok := s.c.Get(key); ok {
		if u, ok := v.(*User); ok {
			return u, nil
		}
	}

	u, err := s.m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.c.Set(key, u, UserCacheTime)
	return u, nil
}

// UpdateProfile applies in to the user if version still matches the stored row.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, version int, in ProfileInput) (*User, error) {
	v := common.NewValidator()
	v.Check(version > 0, "version", "must be greater than zero")
	validateProfile(v, in)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	cur, err := s.m.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cur.Version != version {
		return nil, common.ErrEditConflict
	}

	if in.FullName != nil {
		cur.FullName = *in.FullName
	}
	if in.Bio != nil {
		cur.Bio = *in.Bio
	}
	if in.AvatarURL != nil {
		cur.AvatarURL = *in.AvatarURL
	}

	if err := s.m.updateProfile(ctx, cur); err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyUser(id.String()))
	return cur, nil
}

// UpdateRole changes a user's role. Callers must check the actor can moderate.
func (s *UserService) UpdateRole(ctx context.Context, id uuid.UUID, role permission.Role) (*User, error) {
	v := common.NewValidator()
	validateRole(v, role)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u, err := s.m.updateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyUser(id.String()))
	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]*User, error) {
	v := common.NewValidator()
	v.Check(limit > 0 && limit <= 100, "limit", "must be between 1 and 100")
	v.Check(offset >= 0, "offset", "must not be negative")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.list(ctx, limit, offset)
}
