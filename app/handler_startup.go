package main

import (
	"errors"
	"net/http"

	"github.com/sushihentaime/startuphub/internal/startupservice"
)

func (app *application) startupErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, startupservice.ErrAlreadyApproved):
		app.conflictResponse(w, r, err)
	case errors.Is(err, startupservice.ErrOwnerForeignKey):
		app.failedValidationErrorResponse(w, r, map[string]string{"user_id": "owner does not exist"})
	default:
		app.serviceErrorResponse(w, r, err)
	}
}

func (app *application) listStartupsHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	f := startupservice.DirectoryFilter{
		Search:   qs.Get("q"),
		Sector:   qs.Get("sector"),
		Stage:    qs.Get("stage"),
		Location: qs.Get("location"),
	}

	startups, err := app.startupService.ListDirectory(r.Context(), f)
	if err != nil {
		app.startupErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"startups": startups}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createStartupHandler(w http.ResponseWriter, r *http.Request) {
	var input startupservice.StartupInput

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	startup, err := app.startupService.CreateStartup(r.Context(), app.actor(r), &input)
	if err != nil {
		app.startupErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/v1/startups/"+startup.ID.String())

	err = app.writeJSON(w, http.StatusCreated, envelope{"startup": startup}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getStartupHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readUUIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	startup, err := app.startupService.GetStartup(r.Context(), id, app.actor(r))
	if err != nil {
		app.startupErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"startup": startup}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type updateStartupRequest struct {
	startupservice.StartupInput
	Version int `json:"version"`
}

func (app *application) updateStartupHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readUUIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	var input updateStartupRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	startup, err := app.startupService.UpdateStartup(r.Context(), id, input.Version, app.actor(r), &input.StartupInput)
	if err != nil {
		app.startupErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"startup": startup}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteStartupHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readUUIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	err = app.startupService.DeleteStartup(r.Context(), id, app.actor(r))
	if err != nil {
		app.startupErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "startup successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listMyStartupsHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	startups, err := app.startupService.ListByOwner(r.Context(), user.ID)
	if err != nil {
		app.startupErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"startups": startups}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listPendingStartupsHandler(w http.ResponseWriter, r *http.Request) {
	startups, err := app.startupService.ListPending(r.Context(), app.actor(r))
	if err != nil {
		app.startupErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"startups": startups}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) approveStartupHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readUUIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	startup, err := app.startupService.ApproveStartup(r.Context(), id, app.actor(r))
	if err != nil {
		app.startupErrorResponse(w, r, err)
		return
	}

	// The spotlight picks up the new testimonial on its next tick.
	if testimonials, err := app.startupService.ListTestimonials(r.Context()); err == nil {
		app.testimonials.SetLen(len(testimonials))
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"startup": startup}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) sectorStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := app.startupService.SectorStats(r.Context())
	if err != nil {
		app.startupErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"sectors": stats}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
