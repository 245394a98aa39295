package main

import (
	"context"
	"net/http"

	"github.com/sushihentaime/startuphub/internal/permission"
	"github.com/sushihentaime/startuphub/internal/userservice"
)

type contextKey string

const userContextKey = contextKey("user")

func (app *application) createUserContext(r *http.Request, user *userservice.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

// getUserContext never returns nil; requests that skipped authenticate are anonymous.
func (app *application) getUserContext(r *http.Request) *userservice.User {
	user, ok := r.Context().Value(userContextKey).(*userservice.User)
	if !ok {
		return &userservice.AnonymousUser
	}
	return user
}

func (app *application) actor(r *http.Request) *permission.Actor {
	return app.getUserContext(r).Actor()
}
