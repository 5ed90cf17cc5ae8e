package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/michaelpizzardello/outsider-site-sub000/internal/domain"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/service"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/shopify"
	apperrors "github.com/michaelpizzardello/outsider-site-sub000/pkg/errors"
	"github.com/michaelpizzardello/outsider-site-sub000/pkg/httputil"
)

// CartHandler is the cookie-keyed cart proxy. The browser only ever sees
// {cart} envelopes; the remote cart ID lives in an http-only cookie.
type CartHandler struct {
	service       *service.CartService
	logger        *slog.Logger
	secureCookies bool
}

// NewCartHandler creates the cart proxy handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger, secureCookies bool) *CartHandler {
	return &CartHandler{service: svc, logger: logger, secureCookies: secureCookies}
}

// cartEnvelope is the browser-facing response shape.
type cartEnvelope struct {
	Cart *domain.Cart `json:"cart"`
}

type cartErrorEnvelope struct {
	Error string `json:"error"`
}

// CartActionRequest is the POST /api/cart command body.
type CartActionRequest struct {
	Action  string       `json:"action"`
	Lines   []actionLine `json:"lines,omitempty"`
	Updates []actionLine `json:"updates,omitempty"`
	LineIDs []string     `json:"lineIds,omitempty"`
}

type actionLine struct {
	ID            string `json:"id,omitempty"`
	MerchandiseID string `json:"merchandiseId,omitempty"`
	Quantity      int    `json:"quantity"`
}

// GetCart handles GET /api/cart. No cookie or an expired remote cart both
// resolve to {cart: null}; the stale cookie is dropped on the way out.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cartID := cartIDFromRequest(r)
	if cartID == "" {
		httputil.WriteJSON(w, http.StatusOK, cartEnvelope{})
		return
	}

	cart, err := h.service.Fetch(r.Context(), cartID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			clearCartCookie(w, h.secureCookies)
			httputil.WriteJSON(w, http.StatusOK, cartEnvelope{})
			return
		}
		h.writeCartError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, cartEnvelope{Cart: cart})
}

// PostCart handles POST /api/cart, dispatching on the action field.
func (h *CartHandler) PostCart(w http.ResponseWriter, r *http.Request) {
	var req CartActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, cartErrorEnvelope{Error: "invalid request body"})
		return
	}

	switch req.Action {
	case "get":
		h.GetCart(w, r)
	case "create":
		h.createCart(w, r)
	case "add":
		h.addLines(w, r, req)
	case "update":
		h.updateLines(w, r, req)
	case "remove":
		h.removeLines(w, r, req)
	case "clear":
		clearCartCookie(w, h.secureCookies)
		httputil.WriteJSON(w, http.StatusOK, cartEnvelope{})
	default:
		httputil.WriteJSON(w, http.StatusBadRequest, cartErrorEnvelope{Error: "unknown cart action"})
	}
}

func (h *CartHandler) createCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.Create(r.Context())
	if err != nil {
		h.writeCartError(w, r, err)
		return
	}
	setCartCookie(w, cart.ID, h.secureCookies)
	httputil.WriteJSON(w, http.StatusOK, cartEnvelope{Cart: cart})
}

func (h *CartHandler) addLines(w http.ResponseWriter, r *http.Request, req CartActionRequest) {
	if len(req.Lines) == 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, cartErrorEnvelope{Error: "add requires lines"})
		return
	}
	lines := make([]shopify.CartLineInput, 0, len(req.Lines))
	for _, line := range req.Lines {
		if line.MerchandiseID == "" {
			httputil.WriteJSON(w, http.StatusBadRequest, cartErrorEnvelope{Error: "each line requires merchandiseId"})
			return
		}
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		lines = append(lines, shopify.CartLineInput{MerchandiseID: line.MerchandiseID, Quantity: qty})
	}

	cart, err := h.service.AddLines(r.Context(), cartIDFromRequest(r), lines)
	if err != nil {
		h.writeCartError(w, r, err)
		return
	}
	setCartCookie(w, cart.ID, h.secureCookies)
	httputil.WriteJSON(w, http.StatusOK, cartEnvelope{Cart: cart})
}

func (h *CartHandler) updateLines(w http.ResponseWriter, r *http.Request, req CartActionRequest) {
	if len(req.Updates) == 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, cartErrorEnvelope{Error: "update requires updates"})
		return
	}
	cartID := cartIDFromRequest(r)
	if cartID == "" {
		httputil.WriteJSON(w, http.StatusNotFound, cartErrorEnvelope{Error: "no cart"})
		return
	}

	updates := make([]shopify.CartLineUpdate, 0, len(req.Updates))
	for _, u := range req.Updates {
		if u.ID == "" {
			httputil.WriteJSON(w, http.StatusBadRequest, cartErrorEnvelope{Error: "each update requires id"})
			return
		}
		updates = append(updates, shopify.CartLineUpdate{ID: u.ID, Quantity: u.Quantity})
	}

	cart, err := h.service.UpdateLines(r.Context(), cartID, updates)
	if err != nil {
		h.writeCartError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, cartEnvelope{Cart: cart})
}

func (h *CartHandler) removeLines(w http.ResponseWriter, r *http.Request, req CartActionRequest) {
	if len(req.LineIDs) == 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, cartErrorEnvelope{Error: "remove requires lineIds"})
		return
	}
	cartID := cartIDFromRequest(r)
	if cartID == "" {
		httputil.WriteJSON(w, http.StatusNotFound, cartErrorEnvelope{Error: "no cart"})
		return
	}

	cart, err := h.service.RemoveLines(r.Context(), cartID, req.LineIDs)
	if err != nil {
		h.writeCartError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, cartEnvelope{Cart: cart})
}

// writeCartError maps cart failures to the browser contract: a missing cart
// is 404, everything else from the remote side is a generic 500. Remote
// error details stay in the logs.
func (h *CartHandler) writeCartError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		httputil.WriteJSON(w, http.StatusNotFound, cartErrorEnvelope{Error: "cart not found"})
		return
	}

	h.logger.ErrorContext(r.Context(), "cart operation failed",
		slog.String("component", "cart"),
		slog.String("error", err.Error()),
	)
	httputil.WriteJSON(w, http.StatusInternalServerError, cartErrorEnvelope{Error: "cart operation failed"})
}
