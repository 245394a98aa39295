package main

import (
	"context"
	"net/http"
	"time"
)

// healthCheckHandler reports the build and whether the database answers.
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	status, code := "available", http.StatusOK
	database := "up"

	if app.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := app.db.PingContext(ctx); err != nil {
			app.logError(r, err)
			status, code, database = "degraded", http.StatusServiceUnavailable, "down"
		}
	}

	env := envelope{
		"status": status,
		"system_info": map[string]string{
			"environment": app.config.Environment,
			"version":     app.config.Version,
			"database":    database,
		},
	}

	err := app.writeJSON(w, code, env, nil)
	if err != nil {
		app.logger.Error(err.Error())
		http.Error(w, "the server encountered a problem and could not process your request", http.StatusInternalServerError)
	}
}
