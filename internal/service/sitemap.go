package service

import (
	"context"
	"log/slog"
	"time"
)

// SitemapEntry is one URL of the sitemap.
type SitemapEntry struct {
	Loc     string
	LastMod string
}

// SitemapService assembles the public URL set: static pages, exhibitions,
// artists, and active artwork products. Draft content never appears.
type SitemapService struct {
	catalog *CatalogService
	baseURL string
	logger  *slog.Logger
}

// NewSitemapService creates the sitemap service. baseURL is the public site
// origin without a trailing slash.
func NewSitemapService(catalog *CatalogService, baseURL string, logger *slog.Logger) *SitemapService {
	return &SitemapService{catalog: catalog, baseURL: baseURL, logger: logger}
}

// staticPaths are always present regardless of content.
var staticPaths = []string{"/", "/exhibitions", "/artists", "/collect", "/stockroom", "/about", "/contact"}

// Entries builds the full entry list. Sections degrade independently: a
// failed content query drops its section and is logged, the rest of the
// sitemap still renders.
func (s *SitemapService) Entries(ctx context.Context) ([]SitemapEntry, error) {
	entries := make([]SitemapEntry, 0, 64)
	for _, path := range staticPaths {
		entries = append(entries, SitemapEntry{Loc: s.baseURL + path})
	}

	exhibitions, err := s.catalog.Exhibitions(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "sitemap exhibitions query failed", slog.String("error", err.Error()))
	}
	for _, ex := range exhibitions {
		entry := SitemapEntry{Loc: s.baseURL + "/exhibitions/" + ex.Handle}
		if ex.EndDate != nil {
			entry.LastMod = ex.EndDate.Format("2006-01-02")
		}
		entries = append(entries, entry)
	}

	artists, err := s.catalog.Artists(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "sitemap artists query failed", slog.String("error", err.Error()))
	}
	for _, artist := range artists {
		entries = append(entries, SitemapEntry{Loc: s.baseURL + "/artists/" + artist.Handle})
	}

	products, err := s.catalog.ActiveArtworks(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "sitemap products query failed", slog.String("error", err.Error()))
	}
	for _, artwork := range products {
		entries = append(entries, SitemapEntry{
			Loc:     s.baseURL + "/artworks/" + artwork.Handle,
			LastMod: lastModOf(artwork.UpdatedAt),
		})
	}

	return entries, nil
}

// lastModOf formats a product timestamp for the sitemap, tolerating the
// backend's RFC3339 values.
func lastModOf(value string) string {
	if value == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.Format("2006-01-02")
	}
	return ""
}
