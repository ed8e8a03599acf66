package resource

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/navidved/storefront/internal/apperror"
	"github.com/navidved/storefront/internal/response"
	"github.com/navidved/storefront/internal/upload"
)

// Form field names controlling existing images on update.
const (
	FieldKeepImages   = "existingImages"
	FieldRemoveImages = "removeImages"
)

// FormCodec maps submitted form values onto records of type T.
type FormCodec[T Record] interface {
	// Decode builds a new record from a create form.
	Decode(values url.Values) (T, error)
	// Patch applies the fields present in an update form to rec.
	Patch(rec T, values url.Values) error
}

// Handler exposes a Service over HTTP. Routes expect an "id" URL parameter.
type Handler[T Record] struct {
	svc    *Service[T]
	codec  FormCodec[T]
	limits upload.Limits
	debug  bool
}

// NewHandler creates a Handler. With debug set, error responses carry internal detail.
func NewHandler[T Record](svc *Service[T], codec FormCodec[T], debug bool) *Handler[T] {
	return &Handler[T]{svc: svc, codec: codec, limits: upload.DefaultLimits(), debug: debug}
}

// Routes returns a router serving the five CRUD endpoints.
func (h *Handler[T]) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

// List handles GET /?category=&page=&limit=.
func (h *Handler[T]) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.List(r.Context(), ParsePageRequest(r.URL.Query()))
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}
	response.OK(w, page)
}

// Get handles GET /{id}.
func (h *Handler[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	rec, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}
	response.OK(w, rec)
}

// Create handles POST / with a multipart form.
func (h *Handler[T]) Create(w http.ResponseWriter, r *http.Request) {
	form, err := upload.Parse(w, r, h.limits)
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}
	rec, err := h.codec.Decode(form.Values)
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}
	created, err := h.svc.Create(r.Context(), rec, form.Files)
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}
	response.Created(w, created)
}

// Update handles PUT /{id} with a multipart form. existingImages (full list to keep)
// and removeImages (explicit removals) control what happens to current images.
func (h *Handler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	form, err := upload.Parse(w, r, h.limits)
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	var changes ImageChanges
	if keep, sent := upload.List(form.Values, FieldKeepImages); sent {
		changes.Keep = &keep
	}
	changes.Remove, _ = upload.List(form.Values, FieldRemoveImages)

	patch := func(rec T) error { return h.codec.Patch(rec, form.Values) }
	updated, err := h.svc.Update(r.Context(), id, patch, changes, form.Files)
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}
	response.OK(w, updated)
}

// Delete handles DELETE /{id}.
func (h *Handler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		response.FromError(w, err, h.debug)
		return
	}
	response.OK(w, map[string]interface{}{"id": id, "deleted": true})
}

// id extracts and validates the {id} URL parameter, writing a 400 when malformed.
func (h *Handler[T]) id(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.FromError(w, apperror.Validation("invalid %s id", h.svc.Noun()), h.debug)
		return "", false
	}
	return id.String(), true
}
