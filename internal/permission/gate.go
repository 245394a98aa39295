package permission

import "context"

type GateDecision int

const (
	GateAllow GateDecision = iota
	GateRedirectLogin
	GateRedirectHome
	// GateAborted means the request went away before the check resolved;
	// callers must not redirect or render.
	GateAborted
)

func (d GateDecision) String() string {
	switch d {
	case GateAllow:
		return "allow"
	case GateRedirectLogin:
		return "redirect_login"
	case GateRedirectHome:
		return "redirect_home"
	case GateAborted:
		return "aborted"
	}
	return "unknown"
}

// Redirect returns the path a denied visitor is sent to, or "" when the
// decision carries no redirect.
func (d GateDecision) Redirect() string {
	switch d {
	case GateRedirectLogin:
		return "/login"
	case GateRedirectHome:
		return "/"
	}
	return ""
}

// ActorLookup resolves the current session to an actor. It returns a nil
// actor and nil error when there is no session.
type ActorLookup func(ctx context.Context) (*Actor, error)

// EvaluateAdminGate decides whether the current visitor may see admin
// content: no session goes to login, a non-admin goes home. A lookup error is
// treated as no session. The decision is bound to ctx, so a cancelled request
// yields GateAborted instead of a redirect.
func EvaluateAdminGate(ctx context.Context, lookup ActorLookup) GateDecision {
	if ctx.Err() != nil {
		return GateAborted
	}

	actor, err := lookup(ctx)

	if ctx.Err() != nil {
		return GateAborted
	}

	if err != nil || actor == nil {
		return GateRedirectLogin
	}

	if !actor.IsAdmin() {
		return GateRedirectHome
	}

	return GateAllow
}
