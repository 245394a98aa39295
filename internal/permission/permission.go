// Package permission answers "can this actor perform this action on this
// record". Every check is pure and fails closed: a nil actor, a nil record or
// a missing id is a denial, never an error.
package permission

import (
	"reflect"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleFounder Role = "founder"
	RoleUser    Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFounder, RoleUser:
		return true
	}
	return false
}

// Actor is the identity a request acts as. A nil *Actor is anonymous.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// Owned is implemented by records that carry an owner, e.g. a blog post's
// author_id or a startup's user_id.
type Owned interface {
	OwnerID() uuid.UUID
}

// CanActorModify reports whether actor may edit or delete resource. Admins
// may modify anything; everyone else only what they own.
func CanActorModify(resource Owned, actor *Actor) bool {
	if actor == nil || isNil(resource) {
		return false
	}

	if actor.Role == RoleAdmin {
		return true
	}

	owner := resource.OwnerID()
	if owner == uuid.Nil || actor.ID == uuid.Nil {
		return false
	}

	return owner == actor.ID
}

func CanUserCreateBlog(role Role) bool {
	return role == RoleAdmin || role == RoleFounder
}

func CanUserEditBlog(post Owned, actor *Actor) bool {
	return CanActorModify(post, actor)
}

func CanCreateStartup(role Role) bool {
	return role == RoleAdmin || role == RoleFounder
}

func CanEditStartup(startup Owned, actor *Actor) bool {
	return CanActorModify(startup, actor)
}

// CanModerate covers approving startups, managing categories and roles.
func CanModerate(actor *Actor) bool {
	return actor.IsAdmin()
}

// isNil also catches typed nil pointers hidden inside the interface.
func isNil(o Owned) bool {
	if o == nil {
		return true
	}

	v := reflect.ValueOf(o)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
