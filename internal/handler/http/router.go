package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/michaelpizzardello/outsider-site-sub000/internal/service"
	"github.com/michaelpizzardello/outsider-site-sub000/pkg/health"
	"github.com/michaelpizzardello/outsider-site-sub000/pkg/middleware"
)

// RouterConfig carries the handler-level settings the router needs.
type RouterConfig struct {
	ShopDomain     string
	SecureCookies  bool
	AllowedOrigins []string
	Environment    string
	PprofCIDRs     []string
	SitemapMaxAge  int
}

// NewRouter creates the storefront API router with all routes registered.
func NewRouter(
	catalog *service.CatalogService,
	cart *service.CartService,
	leads *service.LeadService,
	sitemap *service.SitemapService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	catalogHandler := NewCatalogHandler(catalog, logger)
	cartHandler := NewCartHandler(cart, logger, cfg.SecureCookies)
	checkoutHandler := NewCheckoutHandler(cfg.ShopDomain, logger)
	leadHandler := NewLeadHandler(leads, logger)
	sitemapHandler := NewSitemapHandler(sitemap, logger)

	maxAge := cfg.SitemapMaxAge
	if maxAge <= 0 {
		maxAge = 3600
	}
	r.With(middleware.CacheControl(maxAge)).Get("/sitemap.xml", sitemapHandler.Sitemap)

	r.Route("/api", func(r chi.Router) {
		// The cart cookie crosses origins from the rendering tier, so
		// credentials must be allowed and origins echoed rather than
		// wildcarded.
		r.Use(middleware.CORS(middleware.CORSConfig{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowCredentials: true,
			Environment:      cfg.Environment,
		}))

		r.Get("/exhibitions", catalogHandler.ListExhibitions)
		r.Get("/exhibitions/{handle}", catalogHandler.GetExhibition)
		r.Get("/artists", catalogHandler.ListArtists)
		r.Get("/artists/{handle}", catalogHandler.GetArtist)
		r.Get("/collect", catalogHandler.ListCollect)
		r.Get("/stockroom", catalogHandler.ListStockroom)
		r.Get("/artworks/{handle}", catalogHandler.GetArtwork)
		r.Get("/about", catalogHandler.GetAbout)

		r.Get("/cart", cartHandler.GetCart)
		r.Post("/cart", cartHandler.PostCart)
		r.Post("/checkout", checkoutHandler.Checkout)

		r.Post("/contact", leadHandler.Contact)
		r.Post("/enquiry", leadHandler.Enquiry)
		r.Post("/subscribe", leadHandler.Subscribe)
	})

	return r
}
