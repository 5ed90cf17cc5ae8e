package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/michaelpizzardello/outsider-site-sub000/internal/domain"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/service"
	"github.com/michaelpizzardello/outsider-site-sub000/pkg/httputil"
)

// CheckoutHandler redirects direct purchases to the commerce platform's
// cart-permalink checkout.
type CheckoutHandler struct {
	shopDomain string
	logger     *slog.Logger
}

// NewCheckoutHandler creates the checkout redirect handler.
func NewCheckoutHandler(shopDomain string, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{shopDomain: shopDomain, logger: logger}
}

// CheckoutRequest is the POST /api/checkout body.
type CheckoutRequest struct {
	Lines    []domain.CheckoutLine `json:"lines"`
	Discount string                `json:"discount,omitempty"`
}

// Checkout handles POST /api/checkout with a 302 to the permalink.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, cartErrorEnvelope{Error: "invalid request body"})
		return
	}

	link, err := service.CheckoutPermalink(h.shopDomain, req.Lines, req.Discount)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, cartErrorEnvelope{Error: err.Error()})
		return
	}

	http.Redirect(w, r, link, http.StatusFound)
}
