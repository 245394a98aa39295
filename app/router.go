package main

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes(ctx context.Context) http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.pageHandler)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// users
	router.HandlerFunc(http.MethodGet, "/v1/users/me", app.requireAuthenticatedUser(app.getCurrentUserHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/users/me", app.requireAuthenticatedUser(app.updateCurrentUserHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/me/startups", app.requireAuthenticatedUser(app.listMyStartupsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/profiles/:id", app.getProfileHandler)

	// blog
	router.HandlerFunc(http.MethodGet, "/v1/blog/posts", app.listPostsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/blog/posts", app.requireAuthenticatedUser(app.createPostHandler))
	router.HandlerFunc(http.MethodGet, "/v1/blog/posts/:slug", app.getPostHandler)
	router.HandlerFunc(http.MethodPut, "/v1/blog/posts/:slug", app.requireAuthenticatedUser(app.updatePostHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/blog/posts/:slug", app.requireAuthenticatedUser(app.deletePostHandler))
	router.HandlerFunc(http.MethodPost, "/v1/blog/posts/:slug/like", app.likePostHandler)
	router.HandlerFunc(http.MethodGet, "/v1/blog/authors/:id/posts", app.listAuthorPostsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/blog/categories", app.listCategoriesHandler)
	router.HandlerFunc(http.MethodPost, "/v1/blog/categories", app.requireAdmin(app.createCategoryHandler))

	// startups
	router.HandlerFunc(http.MethodGet, "/v1/startups", app.listStartupsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/startups", app.requireAuthenticatedUser(app.createStartupHandler))
	router.HandlerFunc(http.MethodGet, "/v1/startups/:id", app.getStartupHandler)
	router.HandlerFunc(http.MethodPut, "/v1/startups/:id", app.requireAuthenticatedUser(app.updateStartupHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/startups/:id", app.requireAuthenticatedUser(app.deleteStartupHandler))
	router.HandlerFunc(http.MethodGet, "/v1/stats/sectors", app.sectorStatsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/testimonials", app.listTestimonialsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/testimonials/spotlight", app.spotlightHandler)
	router.HandlerFunc(http.MethodGet, "/v1/testimonials/current", app.currentTestimonialHandler)

	// admin
	router.HandlerFunc(http.MethodGet, "/v1/admin/users", app.requireAdmin(app.listUsersHandler))
	router.HandlerFunc(http.MethodPut, "/v1/admin/users/:id/role", app.requireAdmin(app.updateUserRoleHandler))
	router.HandlerFunc(http.MethodGet, "/v1/admin/startups", app.requireAdmin(app.listPendingStartupsHandler))
	router.HandlerFunc(http.MethodPut, "/v1/admin/startups/:id/approve", app.requireAdmin(app.approveStartupHandler))

	// site utilities
	router.HandlerFunc(http.MethodGet, "/v1/faq", app.listFAQHandler)
	router.HandlerFunc(http.MethodPost, "/v1/contact", app.contactHandler)
	router.HandlerFunc(http.MethodGet, "/v1/consent", app.getConsentHandler)
	router.HandlerFunc(http.MethodPut, "/v1/consent", app.updateConsentHandler)
	router.HandlerFunc(http.MethodPost, "/v1/editor/format", app.formatTextHandler)
	router.HandlerFunc(http.MethodPost, "/v1/uploads/:kind", app.requireAuthenticatedUser(app.uploadHandler))

	router.Handler(http.MethodGet, "/assets/*filepath", http.StripPrefix("/assets", app.shell.Assets()))

	return app.recoverPanic(app.logRequest(app.enableCORS(app.rateLimit(ctx, app.authenticate(router)))))
}
