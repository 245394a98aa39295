package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sushihentaime/startuphub/internal/consent"
	"github.com/sushihentaime/startuphub/internal/contact"
	"github.com/sushihentaime/startuphub/internal/editor"
	"github.com/sushihentaime/startuphub/internal/faq"
	"github.com/sushihentaime/startuphub/internal/permission"
	"github.com/sushihentaime/startuphub/internal/site"
	"github.com/sushihentaime/startuphub/internal/slider"
	"github.com/sushihentaime/startuphub/internal/uploadservice"
)

func (app *application) listFAQHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	entries := app.faq.List(faq.Filter{Search: qs.Get("q"), Category: qs.Get("category")})

	err := app.writeJSON(w, http.StatusOK, envelope{"faq": entries, "categories": app.faq.Categories()}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) contactHandler(w http.ResponseWriter, r *http.Request) {
	var form contact.Form

	err := app.parseJSON(w, r, &form)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = form.Validate()
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"mailto": contact.MailtoURI(app.config.ContactRecipient, form)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getConsentHandler(w http.ResponseWriter, r *http.Request) {
	prefs, ok := consent.Read(r)

	env := envelope{"show_banner": !ok, "preferences": nil}
	if ok {
		env["preferences"] = prefs
	}

	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type consentRequest struct {
	// Choice is "accept_all", "reject_optional" or "custom".
	Choice     string `json:"choice"`
	Analytics  bool   `json:"analytics"`
	Marketing  bool   `json:"marketing"`
	Functional bool   `json:"functional"`
}

func (app *application) updateConsentHandler(w http.ResponseWriter, r *http.Request) {
	var input consentRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	now := time.Now().UTC()

	var prefs consent.Preferences
	switch input.Choice {
	case "accept_all":
		prefs = consent.AcceptAll(now)
	case "reject_optional":
		prefs = consent.RejectOptional(now)
	case "custom":
		prefs = consent.Preferences{
			Analytics:  input.Analytics,
			Marketing:  input.Marketing,
			Functional: input.Functional,
			DecidedAt:  now,
		}
	default:
		app.failedValidationErrorResponse(w, r, map[string]string{"choice": "must be accept_all, reject_optional or custom"})
		return
	}

	err = consent.Write(w, prefs, app.config.Environment == "production")
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	prefs.Necessary = true

	err = app.writeJSON(w, http.StatusOK, envelope{"show_banner": false, "preferences": prefs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type formatRequest struct {
	Text           string         `json:"text"`
	SelectionStart int            `json:"selection_start"`
	SelectionEnd   int            `json:"selection_end"`
	Command        editor.Command `json:"command"`
}

func (app *application) formatTextHandler(w http.ResponseWriter, r *http.Request) {
	var input formatRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	res, err := editor.Apply(input.Text, input.SelectionStart, input.SelectionEnd, input.Command)
	if err != nil {
		if errors.Is(err, editor.ErrUnknownCommand) {
			app.badRequestErrorResponse(w, r, err)
			return
		}
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"result": res}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) uploadHandler(w http.ResponseWriter, r *http.Request) {
	kind := uploadservice.Kind(app.readStringParam(r, "kind"))

	v := app.uploadService.Validator(kind)
	if v == nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	// Room for the multipart framing around the largest allowed file.
	r.Body = http.MaxBytesReader(w, r.Body, v.MaxBytes+uploadservice.MB)

	err := r.ParseMultipartForm(v.MaxBytes)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			app.tooLargeResponse(w, r, v.MaxBytes)
			return
		}
		app.badRequestErrorResponse(w, r, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		app.failedValidationErrorResponse(w, r, map[string]string{"file": "must be provided"})
		return
	}
	defer file.Close()

	opts := uploadservice.Options{
		Transformation: r.FormValue("transformation"),
	}
	if tags := strings.TrimSpace(r.FormValue("tags")); tags != "" {
		opts.Tags = strings.Split(tags, ",")
	}

	res, err := app.uploadService.Upload(r.Context(), kind, header.Filename, header.Header.Get("Content-Type"), file, opts)
	if err != nil {
		switch {
		case errors.Is(err, uploadservice.ErrFileTooLarge):
			app.tooLargeResponse(w, r, v.MaxBytes)
		case errors.Is(err, uploadservice.ErrEmptyFile),
			errors.Is(err, uploadservice.ErrExtensionNotAllowed),
			errors.Is(err, uploadservice.ErrTypeNotAllowed):
			app.failedValidationErrorResponse(w, r, map[string]string{"file": err.Error()})
		case errors.Is(err, uploadservice.ErrUploadFailed):
			app.logError(r, err)
			app.writeErrorResponse(w, r, http.StatusBadGateway, uploadservice.ErrUploadFailed.Error())
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"upload": res}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listTestimonialsHandler(w http.ResponseWriter, r *http.Request) {
	testimonials, err := app.startupService.ListTestimonials(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"testimonials": testimonials}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// spotlightHandler computes the slide a client moves to from its current
// index. It keeps no per-visitor state.
func (app *application) spotlightHandler(w http.ResponseWriter, r *http.Request) {
	index, err := app.readIntQuery(r, "index", 0)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	viewport, err := app.readIntQuery(r, "viewport", 0)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	testimonials, err := app.startupService.ListTestimonials(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	state := slider.New(index, len(testimonials))

	switch action := r.URL.Query().Get("action"); action {
	case "":
	case "next":
		state = state.Next()
	case "prev":
		state = state.Prev()
	case "swipe":
		startX, err := app.readFloatQuery(r, "start_x")
		if err != nil {
			app.badRequestErrorResponse(w, r, err)
			return
		}
		endX, err := app.readFloatQuery(r, "end_x")
		if err != nil {
			app.badRequestErrorResponse(w, r, err)
			return
		}
		state = state.Swipe(startX, endX)
	default:
		app.badRequestErrorResponse(w, r, errors.New("action must be next, prev or swipe"))
		return
	}

	env := envelope{
		"state":        state,
		"auto_advance": slider.ShouldAutoAdvance(viewport),
		"testimonial":  nil,
	}
	if state.Len > 0 {
		env["testimonial"] = testimonials[state.Index]
	}

	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) currentTestimonialHandler(w http.ResponseWriter, r *http.Request) {
	testimonials, err := app.startupService.ListTestimonials(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	state := app.testimonials.Current()
	if state.Len != len(testimonials) {
		app.testimonials.SetLen(len(testimonials))
		state = app.testimonials.Current()
	}
	// The rotator may have been resized by another request in between.
	state = slider.New(state.Index, len(testimonials))

	env := envelope{"state": state, "testimonial": nil}
	if state.Len > 0 {
		env["testimonial"] = testimonials[state.Index]
	}

	err = app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// pageHandler serves the web shell for known page paths. It backs the
// router's not-found fallback so unknown paths still get a JSON 404.
func (app *application) pageHandler(w http.ResponseWriter, r *http.Request) {
	page, ok := site.Lookup(r.URL.Path)
	if !ok || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
		app.notFoundErrorResponse(w, r)
		return
	}

	if page.AdminOnly {
		app.requireAdminPage(app.shell.ServePage)(w, r)
		return
	}

	if page.Auth {
		actor := app.actor(r)
		if actor == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if page.Writer && !permission.CanUserCreateBlog(actor.Role) {
			http.Redirect(w, r, "/blog", http.StatusSeeOther)
			return
		}
	}

	app.shell.ServePage(w, r)
}
