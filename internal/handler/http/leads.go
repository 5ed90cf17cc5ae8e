package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/michaelpizzardello/outsider-site-sub000/internal/domain"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/service"
	apperrors "github.com/michaelpizzardello/outsider-site-sub000/pkg/errors"
	"github.com/michaelpizzardello/outsider-site-sub000/pkg/httputil"
	"github.com/michaelpizzardello/outsider-site-sub000/pkg/validator"
)

// LeadHandler exposes the three capture forms.
type LeadHandler struct {
	service *service.LeadService
	logger  *slog.Logger
}

// NewLeadHandler creates the lead-capture handler.
func NewLeadHandler(svc *service.LeadService, logger *slog.Logger) *LeadHandler {
	return &LeadHandler{service: svc, logger: logger}
}

// leadResponse is the browser-facing capture result.
type leadResponse struct {
	Message string `json:"message"`
	Partial bool   `json:"partial,omitempty"`
}

// ContactRequest is the POST /api/contact body.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Message string `json:"message" validate:"required,min=1,max=5000"`
	OptIn   bool   `json:"optIn"`
}

// EnquiryRequest is the POST /api/enquiry body.
type EnquiryRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"max=50"`
	Message   string `json:"message" validate:"required,min=1,max=5000"`
	ArtworkID string `json:"artworkId" validate:"max=200"`
	Artwork   string `json:"artwork" validate:"max=500"`
	OptIn     bool   `json:"optIn"`
}

// SubscribeRequest is the POST /api/subscribe body.
type SubscribeRequest struct {
	Name  string `json:"name" validate:"max=200"`
	Email string `json:"email" validate:"required,email"`
}

// Contact handles POST /api/contact.
func (h *LeadHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.capture(w, r, domain.Lead{
		Kind:    domain.LeadKindContact,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
		OptIn:   req.OptIn,
	}, "Thanks for getting in touch. We'll come back to you shortly.")
}

// Enquiry handles POST /api/enquiry.
func (h *LeadHandler) Enquiry(w http.ResponseWriter, r *http.Request) {
	var req EnquiryRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.capture(w, r, domain.Lead{
		Kind:      domain.LeadKindEnquiry,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		ArtworkID: req.ArtworkID,
		Artwork:   req.Artwork,
		OptIn:     req.OptIn,
	}, "Thanks for your enquiry. We'll come back to you shortly.")
}

// Subscribe handles POST /api/subscribe.
func (h *LeadHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.capture(w, r, domain.Lead{
		Kind:  domain.LeadKindSubscribe,
		Name:  req.Name,
		Email: req.Email,
		OptIn: true,
	}, "You're on the list.")
}

func (h *LeadHandler) capture(w http.ResponseWriter, r *http.Request, lead domain.Lead, success string) {
	report, err := h.service.Capture(r.Context(), lead)
	if err != nil {
		status := apperrors.HTTPStatus(err)
		message := "something went wrong, please try again"
		if errors.Is(err, apperrors.ErrUpstream) {
			message = "we couldn't save your details, please try again"
		}
		if status >= http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), "lead capture failed",
				slog.String("kind", string(lead.Kind)),
				slog.String("error", err.Error()),
			)
		}
		httputil.WriteJSON(w, status, leadResponse{Message: message})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, leadResponse{
		Message: report.Message(success),
		Partial: report.Partial(),
	})
}

// decode reads and validates the JSON body, writing the 400 response itself
// when the body is malformed or fails validation. Capture endpoints keep the
// {message, partial?} shape on every status, so failures use leadResponse
// rather than the API error envelope.
func (h *LeadHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, leadResponse{Message: "invalid request body"})
		return false
	}
	if err := validator.Validate(dst); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, leadResponse{Message: err.Error()})
		return false
	}
	return true
}
