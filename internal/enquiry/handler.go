package enquiry

import (
	"encoding/json"
	"net/http"

	"github.com/navidved/storefront/internal/response"
)

// Handler holds the HTTP handler for the enquiry endpoint.
type Handler struct {
	svc   *Service
	debug bool
}

// NewHandler creates a new enquiry Handler.
func NewHandler(svc *Service, debug bool) *Handler {
	return &Handler{svc: svc, debug: debug}
}

type sentData struct {
	Sent bool `json:"sent" example:"true"`
}

// Submit godoc
//
//	@Summary		Send a contact or product enquiry
//	@Description	Validates the form and relays it to the shop owner by e-mail. Mail failures carry code MAIL_AUTH_FAILED, MAIL_NETWORK_ERROR or MAIL_SMTP_ERROR.
//	@Tags			enquiry
//	@Accept			json
//	@Produce		json
//	@Param			request	body		Request	true	"Form"
//	@Success		200		{object}	response.Envelope{data=sentData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/enquiry [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := h.svc.Submit(r.Context(), req); err != nil {
		response.FromError(w, err, h.debug)
		return
	}
	response.OK(w, sentData{Sent: true})
}
