// Package consent stores the visitor's cookie-consent decision in a
// first-party cookie and decides whether the consent banner is shown.
package consent

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

const (
	CookieName = "cookie_consent"
	MaxAge     = 365 * 24 * time.Hour
)

var ErrInvalidCookie = errors.New("invalid consent cookie")

type Preferences struct {
	Necessary  bool      `json:"necessary"`
	Analytics  bool      `json:"analytics"`
	Marketing  bool      `json:"marketing"`
	Functional bool      `json:"functional"`
	DecidedAt  time.Time `json:"decided_at"`
}

func AcceptAll(now time.Time) Preferences {
	return Preferences{Necessary: true, Analytics: true, Marketing: true, Functional: true, DecidedAt: now}
}

func RejectOptional(now time.Time) Preferences {
	return Preferences{Necessary: true, DecidedAt: now}
}

// Read returns the stored decision. ok is false when none was made or the
// cookie cannot be decoded.
func Read(r *http.Request) (Preferences, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return Preferences{}, false
	}

	p, err := decode(c.Value)
	if err != nil {
		return Preferences{}, false
	}

	return p, true
}

// Write stores prefs. Necessary cookies cannot be declined.
func Write(w http.ResponseWriter, prefs Preferences, secure bool) error {
	prefs.Necessary = true
	if prefs.DecidedAt.IsZero() {
		prefs.DecidedAt = time.Now().UTC()
	}

	value, err := encode(prefs)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(MaxAge.Seconds()),
		HttpOnly: false,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// ShowBanner reports whether the visitor still has to make a decision.
func ShowBanner(r *http.Request) bool {
	_, ok := Read(r)
	return !ok
}

func encode(p Preferences) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

func decode(value string) (Preferences, error) {
	b, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return Preferences{}, ErrInvalidCookie
	}

	var p Preferences
	if err := json.Unmarshal(b, &p); err != nil {
		return Preferences{}, ErrInvalidCookie
	}

	return p, nil
}
