package product

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/navidved/storefront/internal/resource"
)

// Handler serves the product endpoints on top of the shared resource handler.
type Handler struct {
	crud *resource.Handler[*Product]
}

// NewHandler creates a product Handler. With debug set, error responses carry internal detail.
func NewHandler(svc *resource.Service[*Product], debug bool) *Handler {
	return &Handler{crud: resource.NewHandler[*Product](svc, Codec{}, debug)}
}

// Routes returns the product router, mounted at /products.
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
//	@Summary		List products
//	@Description	Paginated products, newest first. category=all disables the filter.
//	@Tags			products
//	@Produce		json
//	@Param			category	query		string	false	"Category filter"
//	@Param			page		query		int		false	"Page number (default 1)"
//	@Param			limit		query		int		false	"Page size (default 10, max 100)"
//	@Success		200			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/products [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) { h.crud.List(w, r) }

// Get godoc
//
//	@Summary	Get product
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"Product ID"
//	@Success	200	{object}	response.Envelope
//	@Failure	400	{object}	response.Envelope
//	@Failure	404	{object}	response.Envelope
//	@Router		/products/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) { h.crud.Get(w, r) }

// Create godoc
//
//	@Summary		Create product
//	@Description	Creates a product. Images are uploaded under the images field.
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			title		formData	string	true	"Title"
//	@Param			description	formData	string	true	"Description"
//	@Param			price		formData	number	true	"Price"
//	@Param			category	formData	string	true	"Category"
//	@Param			inStock		formData	boolean	false	"In stock"
//	@Param			features	formData	string	false	"JSON array or repeated field"
//	@Param			tags		formData	string	false	"JSON array or repeated field"
//	@Param			images		formData	file	false	"Images"
//	@Success		201			{object}	response.Envelope
//	@Failure		400			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Failure		504			{object}	response.Envelope
//	@Router			/products [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) { h.crud.Create(w, r) }

// Update godoc
//
//	@Summary		Update product
//	@Description	Updates a product. existingImages lists the images to keep; removeImages lists images to drop; new files are appended.
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id				path		string	true	"Product ID"
//	@Param			existingImages	formData	string	false	"Images to keep"
//	@Param			removeImages	formData	string	false	"Images to drop"
//	@Param			images			formData	file	false	"New images"
//	@Success		200				{object}	response.Envelope
//	@Failure		400				{object}	response.Envelope
//	@Failure		404				{object}	response.Envelope
//	@Failure		500				{object}	response.Envelope
//	@Router			/products/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) { h.crud.Update(w, r) }

// Delete godoc
//
//	@Summary	Delete product
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"Product ID"
//	@Success	200	{object}	response.Envelope
//	@Failure	400	{object}	response.Envelope
//	@Failure	404	{object}	response.Envelope
//	@Router		/products/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) { h.crud.Delete(w, r) }
