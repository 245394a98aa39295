package userservice

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sushihentaime/startuphub/internal/common"
	"github.com/sushihentaime/startuphub/internal/permission"
)

const (
	// UserCacheTime bounds how stale a cached profile can be after a change
	// made directly on the hosted platform.
	UserCacheTime time.Duration = time.Minute

	SessionCookieName = "access_token"
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m *UserModel
	c *common.Cache
	v *Verifier
}

type UserModel struct {
	db *sql.DB
}

type User struct {
	ID        uuid.UUID       `json:"id"`
	Email     string          `json:"email"`
	FullName  string          `json:"full_name"`
	Role      permission.Role `json:"role"`
	Bio       string          `json:"bio"`
	AvatarURL string          `json:"avatar_url"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Version   int             `json:"version"`
}

// PublicUser is the profile shown to other visitors.
type PublicUser struct {
	ID        uuid.UUID       `json:"id"`
	FullName  string          `json:"full_name"`
	Role      permission.Role `json:"role"`
	Bio       string          `json:"bio"`
	AvatarURL string          `json:"avatar_url"`
}

// ProfileInput carries a partial profile update. Nil fields are left alone.
type ProfileInput struct {
	FullName  *string `json:"full_name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}

// Actor returns nil for the anonymous user.
func (u *User) Actor() *permission.Actor {
	if u == nil || u.IsAnonymous() {
		return nil
	}

	return &permission.Actor{ID: u.ID, Role: u.Role}
}

func (u *User) OwnerID() uuid.UUID {
	return u.ID
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FullName:  u.FullName,
		Role:      u.Role,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
	}
}
