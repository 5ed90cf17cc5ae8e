package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/michaelpizzardello/outsider-site-sub000/internal/service"
	"github.com/michaelpizzardello/outsider-site-sub000/pkg/httputil"
	"github.com/michaelpizzardello/outsider-site-sub000/pkg/pagination"
)

// CatalogHandler serves the JSON catalog endpoints backing the storefront
// pages.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates the catalog handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{service: svc, logger: logger}
}

// ListExhibitions handles GET /api/exhibitions. ?current=true filters to
// shows running today.
func (h *CatalogHandler) ListExhibitions(w http.ResponseWriter, r *http.Request) {
	var (
		cards any
		err   error
	)
	if r.URL.Query().Get("current") == "true" {
		cards, err = h.service.CurrentExhibitions(r.Context(), time.Now())
	} else {
		cards, err = h.service.Exhibitions(r.Context())
	}
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cards})
}

// GetExhibition handles GET /api/exhibitions/{handle}.
func (h *CatalogHandler) GetExhibition(w http.ResponseWriter, r *http.Request) {
	exhibition, err := h.service.ExhibitionByHandle(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: exhibition})
}

// ListArtists handles GET /api/artists.
func (h *CatalogHandler) ListArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := h.service.Artists(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: artists})
}

// GetArtist handles GET /api/artists/{handle}.
func (h *CatalogHandler) GetArtist(w http.ResponseWriter, r *http.Request) {
	artist, err := h.service.ArtistByHandle(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: artist})
}

// ListCollect handles GET /api/collect.
func (h *CatalogHandler) ListCollect(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.CollectArtworks(r.Context(), pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// ListStockroom handles GET /api/stockroom.
func (h *CatalogHandler) ListStockroom(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.StockroomArtworks(r.Context(), pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// GetArtwork handles GET /api/artworks/{handle}.
func (h *CatalogHandler) GetArtwork(w http.ResponseWriter, r *http.Request) {
	artwork, err := h.service.ArtworkByHandle(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: artwork})
}

// GetAbout handles GET /api/about.
func (h *CatalogHandler) GetAbout(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.AboutPage(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: page})
}
