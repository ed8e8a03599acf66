package blog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/navidved/storefront/internal/resource"
)

// Handler serves the blog endpoints on top of the shared resource handler.
type Handler struct {
	crud *resource.Handler[*Blog]
}

func NewHandler(svc *resource.Service[*Blog], debug bool) *Handler {
	return &Handler{crud: resource.NewHandler[*Blog](svc, Codec{}, debug)}
}

// Routes returns the blog router, mounted at /blogs.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

// List godoc
//
//	@Summary		List blog posts
//	@Description	Paginated blog posts, newest first. category=all disables the filter.
//	@Tags			blogs
//	@Produce		json
//	@Param			category	query		string	false	"Category filter"
//	@Param			page		query		int		false	"Page number (default 1)"
//	@Param			limit		query		int		false	"Page size (default 10, max 100)"
//	@Success		200			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/blogs [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) { h.crud.List(w, r) }

// Get godoc
//
//	@Summary	Get blog post
//	@Tags		blogs
//	@Produce	json
//	@Param		id	path		string	true	"Blog post ID"
//	@Success	200	{object}	response.Envelope
//	@Failure	400	{object}	response.Envelope
//	@Failure	404	{object}	response.Envelope
//	@Router		/blogs/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) { h.crud.Get(w, r) }

// Create godoc
//
//	@Summary		Create blog post
//	@Description	Creates a blog post. Images are uploaded under the images field.
//	@Tags			blogs
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			title		formData	string	true	"Title"
//	@Param			content		formData	string	true	"Content"
//	@Param			excerpt		formData	string	false	"Excerpt"
//	@Param			author		formData	string	false	"Author"
//	@Param			category	formData	string	false	"Category"
//	@Param			readTime	formData	string	false	"Read time"
//	@Param			tags		formData	string	false	"JSON array or repeated field"
//	@Param			images		formData	file	false	"Images"
//	@Success		201			{object}	response.Envelope
//	@Failure		400			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Failure		504			{object}	response.Envelope
//	@Router			/blogs [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) { h.crud.Create(w, r) }

// Update godoc
//
//	@Summary		Update blog post
//	@Description	Updates a blog post. existingImages lists the images to keep; removeImages lists images to drop; new files are appended.
//	@Tags			blogs
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id				path		string	true	"Blog post ID"
//	@Param			existingImages	formData	string	false	"Images to keep"
//	@Param			removeImages	formData	string	false	"Images to drop"
//	@Param			images			formData	file	false	"New images"
//	@Success		200				{object}	response.Envelope
//	@Failure		400				{object}	response.Envelope
//	@Failure		404				{object}	response.Envelope
//	@Failure		500				{object}	response.Envelope
//	@Router			/blogs/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) { h.crud.Update(w, r) }

// Delete godoc
//
//	@Summary	Delete blog post
//	@Tags		blogs
//	@Produce	json
//	@Param		id	path		string	true	"Blog post ID"
//	@Success	200	{object}	response.Envelope
//	@Failure	400	{object}	response.Envelope
//	@Failure	404	{object}	response.Envelope
//	@Router		/blogs/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) { h.crud.Delete(w, r) }
