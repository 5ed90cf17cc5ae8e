package http

import (
	"encoding/xml"
	"log/slog"
	"net/http"

	"github.com/michaelpizzardello/outsider-site-sub000/internal/service"
)

// SitemapHandler serves /sitemap.xml.
type SitemapHandler struct {
	service *service.SitemapService
	logger  *slog.Logger
}

// NewSitemapHandler creates the sitemap handler.
func NewSitemapHandler(svc *service.SitemapService, logger *slog.Logger) *SitemapHandler {
	return &SitemapHandler{service: svc, logger: logger}
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap handles GET /sitemap.xml.
func (h *SitemapHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Entries(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "sitemap generation failed", slog.String("error", err.Error()))
		http.Error(w, "sitemap unavailable", http.StatusInternalServerError)
		return
	}

	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]urlEntry, 0, len(entries)),
	}
	for _, e := range entries {
		set.URLs = append(set.URLs, urlEntry{Loc: e.Loc, LastMod: e.LastMod})
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(set); err != nil {
		h.logger.ErrorContext(r.Context(), "sitemap encode failed", slog.String("error", err.Error()))
	}
}
