package main

import (
	"errors"
	"net/http"

	"github.com/sushihentaime/startuphub/internal/blogservice"
)

// blogErrorResponse handles the blog's own conflicts before falling back to
// the shared mapping.
func (app *application) blogErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, blogservice.ErrDuplicateSlug):
		app.failedValidationErrorResponse(w, r, map[string]string{"slug": err.Error()})
	case errors.Is(err, blogservice.ErrDuplicateCategory):
		app.failedValidationErrorResponse(w, r, map[string]string{"name": err.Error()})
	case errors.Is(err, blogservice.ErrCategoryForeignKey):
		app.failedValidationErrorResponse(w, r, map[string]string{"category_id": "category does not exist"})
	case errors.Is(err, blogservice.ErrAuthorForeignKey):
		app.failedValidationErrorResponse(w, r, map[string]string{"author_id": "author does not exist"})
	default:
		app.serviceErrorResponse(w, r, err)
	}
}

func (app *application) listPostsHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := app.readLimitOffsetParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	qs := r.URL.Query()
	f := blogservice.PostFilter{
		Search:   qs.Get("q"),
		Category: qs.Get("category"),
		Limit:    limit,
		Offset:   offset,
	}

	posts, err := app.blogService.ListPosts(r.Context(), f, app.actor(r))
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": posts}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	var input blogservice.CreatePostRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.blogService.CreatePost(r.Context(), app.actor(r), &input)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/v1/blog/posts/"+post.Slug)

	err = app.writeJSON(w, http.StatusCreated, envelope{"post": post}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getPostHandler(w http.ResponseWriter, r *http.Request) {
	slug := app.readStringParam(r, "slug")

	post, err := app.blogService.GetPostBySlug(r.Context(), slug, app.actor(r))
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	slug := app.readStringParam(r, "slug")

	var input blogservice.UpdatePostRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.blogService.UpdatePost(r.Context(), slug, app.actor(r), &input)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	slug := app.readStringParam(r, "slug")

	err := app.blogService.DeletePost(r.Context(), slug, app.actor(r))
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "post successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) likePostHandler(w http.ResponseWriter, r *http.Request) {
	slug := app.readStringParam(r, "slug")

	likes, err := app.blogService.LikePost(r.Context(), slug)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"likes": likes}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listAuthorPostsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readUUIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	posts, err := app.blogService.ListPostsByAuthor(r.Context(), id, app.actor(r))
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": posts}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := app.blogService.ListCategories(r.Context())
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"categories": categories}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type createCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (app *application) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var input createCategoryRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	category, err := app.blogService.CreateCategory(r.Context(), app.actor(r), input.Name, input.Color)
	if err != nil {
		app.blogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"category": category}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
