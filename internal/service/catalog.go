package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/michaelpizzardello/outsider-site-sub000/internal/domain"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/repository"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/shopify"
	apperrors "github.com/michaelpizzardello/outsider-site-sub000/pkg/errors"
	"github.com/michaelpizzardello/outsider-site-sub000/pkg/pagination"
)

// Content object types and collection handles as authored in the commerce
// backend.
const (
	typeExhibition  = "exhibition"
	typeArtist      = "artist"
	typeInformation = "information"

	collectionCollect   = "collect"
	collectionStockroom = "stockroom"

	maxContentObjects = 100
	maxProducts       = 250
)

// ContentClient is the storefront API surface the catalog reads from.
type ContentClient interface {
	Metaobjects(ctx context.Context, objectType string, first int) ([]shopify.Metaobject, error)
	MetaobjectByHandle(ctx context.Context, objectType, handle string) (*shopify.Metaobject, error)
	CollectionProducts(ctx context.Context, collectionHandle string, first int) ([]shopify.Product, error)
	ProductByHandle(ctx context.Context, handle string) (*shopify.Product, error)
	Products(ctx context.Context, first int) ([]shopify.Product, error)
}

// CatalogService builds page view models from the content backend, with a
// read-through cache in front of the list queries.
type CatalogService struct {
	content  ContentClient
	cache    repository.ContentCache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewCatalogService creates the catalog service. cache may be nil to bypass
// caching entirely.
func NewCatalogService(content ContentClient, cache repository.ContentCache, cacheTTL time.Duration, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		content:  content,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// cached runs fetch through the read-through cache. Cache failures other
// than a miss are logged and treated as a miss.
func cached[T any](ctx context.Context, s *CatalogService, key string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if s.cache != nil {
		var out T
		err := s.cache.Get(ctx, key, &out)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "content cache read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}

	out, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out, s.cacheTTL); err != nil {
			s.logger.WarnContext(ctx, "content cache write failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}
	return out, nil
}

// --- Exhibitions ---

// Exhibitions lists all public exhibitions, newest first.
func (s *CatalogService) Exhibitions(ctx context.Context) ([]domain.ExhibitionCard, error) {
	return cached(ctx, s, "exhibitions", func(ctx context.Context) ([]domain.ExhibitionCard, error) {
		objects, err := s.content.Metaobjects(ctx, typeExhibition, maxContentObjects)
		if err != nil {
			return nil, err
		}

		cards := make([]domain.ExhibitionCard, 0, len(objects))
		for i := range objects {
			fs := objects[i].FieldSet()
			if isDraft(fs) {
				continue
			}
			cards = append(cards, exhibitionCard(objects[i].Handle, fs))
		}

		sort.SliceStable(cards, func(i, j int) bool {
			return laterStart(cards[i]) > laterStart(cards[j])
		})
		return cards, nil
	})
}

// ExhibitionByHandle loads one exhibition with its long-form content.
func (s *CatalogService) ExhibitionByHandle(ctx context.Context, handle string) (*domain.Exhibition, error) {
	object, err := s.content.MetaobjectByHandle(ctx, typeExhibition, handle)
	if err != nil {
		return nil, err
	}
	if object == nil {
		return nil, apperrors.NotFound("exhibition", handle)
	}

	fs := object.FieldSet()
	if isDraft(fs) {
		return nil, apperrors.NotFound("exhibition", handle)
	}

	ex := &domain.Exhibition{ExhibitionCard: exhibitionCard(object.Handle, fs)}
	if html, ok := fs.HTML("body", "description", "text"); ok {
		ex.BodyHTML = html
	}
	if f, ok := fs.Get("pressrelease", "press_release"); ok && f.Reference != nil && f.Reference.FileURL != "" {
		ex.PressRelease = f.Reference.FileURL
	}
	return ex, nil
}

// CurrentExhibitions filters the public list to shows running now.
func (s *CatalogService) CurrentExhibitions(ctx context.Context, now time.Time) ([]domain.ExhibitionCard, error) {
	cards, err := s.Exhibitions(ctx)
	if err != nil {
		return nil, err
	}
	current := make([]domain.ExhibitionCard, 0, len(cards))
	for _, c := range cards {
		if c.IsCurrent(now) {
			current = append(current, c)
		}
	}
	return current, nil
}

func exhibitionCard(handle string, fs domain.FieldSet) domain.ExhibitionCard {
	card := domain.ExhibitionCard{
		Handle: handle,
		Title:  fs.TextOr("", "title", "name"),
	}
	card.Artist = fs.TextOr("", "artist", "artists")
	card.Location = fs.TextOr("", "location", "venue")
	card.Summary = fs.TextOr("", "summary", "excerpt", "shorttext")
	if img, ok := fs.Image("hero", "heroimage", "cover", "image"); ok {
		card.HeroImage = img
		card.HeroAspect = fs.ImageAspect("hero", "heroimage", "cover", "image")
	}

	if v, ok := fs.Text("startdate", "start_date", "start"); ok {
		card.StartDate = domain.ParseContentDate(v)
	}
	if v, ok := fs.Text("enddate", "end_date", "end"); ok {
		card.EndDate = domain.ParseContentDate(v)
	}
	card.DateLabel = domain.FormatDateRange(card.StartDate, card.EndDate)

	if v, ok := fs.Text("groupshow", "group_show", "group"); ok {
		card.IsGroupShow = isTruthy(v)
	} else if strings.Contains(strings.ToLower(card.Artist), ",") {
		card.IsGroupShow = true
	}
	return card
}

func laterStart(c domain.ExhibitionCard) int64 {
	if c.StartDate != nil {
		return c.StartDate.Unix()
	}
	if c.EndDate != nil {
		return c.EndDate.Unix()
	}
	return 0
}

// --- Artists ---

// Artists lists all public artists, alphabetically.
func (s *CatalogService) Artists(ctx context.Context) ([]domain.Artist, error) {
	return cached(ctx, s, "artists", func(ctx context.Context) ([]domain.Artist, error) {
		objects, err := s.content.Metaobjects(ctx, typeArtist, maxContentObjects)
		if err != nil {
			return nil, err
		}

		artists := make([]domain.Artist, 0, len(objects))
		for i := range objects {
			fs := objects[i].FieldSet()
			if isDraft(fs) {
				continue
			}
			artists = append(artists, artistModel(objects[i].Handle, fs))
		}

		sort.SliceStable(artists, func(i, j int) bool {
			return sortName(artists[i].Name) < sortName(artists[j].Name)
		})
		return artists, nil
	})
}

// ArtistByHandle loads one artist profile.
func (s *CatalogService) ArtistByHandle(ctx context.Context, handle string) (*domain.Artist, error) {
	object, err := s.content.MetaobjectByHandle(ctx, typeArtist, handle)
	if err != nil {
		return nil, err
	}
	if object == nil {
		return nil, apperrors.NotFound("artist", handle)
	}

	fs := object.FieldSet()
	if isDraft(fs) {
		return nil, apperrors.NotFound("artist", handle)
	}
	artist := artistModel(object.Handle, fs)
	return &artist, nil
}

func artistModel(handle string, fs domain.FieldSet) domain.Artist {
	a := domain.Artist{
		Handle: handle,
		Name:   fs.TextOr("", "name", "title"),
	}
	if img, ok := fs.Image("portrait", "image", "photo"); ok {
		a.Portrait = img
	}
	if html, ok := fs.HTML("biography", "bio", "text"); ok {
		a.BiographyHTML = html
	}
	a.ShortBio = fs.TextOr("", "shortbio", "short_bio", "summary")
	return a
}

// sortName orders artists by surname where one exists.
func sortName(name string) string {
	parts := strings.Fields(strings.ToLower(name))
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// --- Artworks ---

// CollectArtworks is the paginated "collect" listing.
func (s *CatalogService) CollectArtworks(ctx context.Context, params pagination.Params) (pagination.Result[domain.ArtworkPayload], error) {
	return s.collectionArtworks(ctx, collectionCollect, params)
}

// StockroomArtworks is the paginated "stockroom" listing.
func (s *CatalogService) StockroomArtworks(ctx context.Context, params pagination.Params) (pagination.Result[domain.ArtworkPayload], error) {
	return s.collectionArtworks(ctx, collectionStockroom, params)
}

func (s *CatalogService) collectionArtworks(ctx context.Context, collection string, params pagination.Params) (pagination.Result[domain.ArtworkPayload], error) {
	all, err := cached(ctx, s, "collection:"+collection, func(ctx context.Context) ([]domain.ArtworkPayload, error) {
		products, err := s.content.CollectionProducts(ctx, collection, maxProducts)
		if err != nil {
			return nil, err
		}
		return buildArtworks(products), nil
	})
	if err != nil {
		return pagination.Result[domain.ArtworkPayload]{}, err
	}

	return pageSlice(all, params), nil
}

// ArtworkByHandle loads one artwork product.
func (s *CatalogService) ArtworkByHandle(ctx context.Context, handle string) (*domain.ArtworkPayload, error) {
	product, err := s.content.ProductByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NotFound("artwork", handle)
	}

	payload := buildArtwork(product)
	if payload == nil {
		return nil, apperrors.NotFound("artwork", handle)
	}
	return payload, nil
}

func buildArtworks(products []shopify.Product) []domain.ArtworkPayload {
	payloads := make([]domain.ArtworkPayload, 0, len(products))
	for i := range products {
		if p := buildArtwork(&products[i]); p != nil {
			payloads = append(payloads, *p)
		}
	}
	return payloads
}

// buildArtwork maps a product and its metafields into the artwork view
// model. Draft-status products map to nil.
func buildArtwork(product *shopify.Product) *domain.ArtworkPayload {
	fs := product.FieldSet()

	status := fs.TextOr("", "status")
	if domain.IsDraftStatus(status) {
		return nil
	}

	payload := &domain.ArtworkPayload{
		ID:     product.ID,
		Handle: product.Handle,
		Title:  product.Title,
		Artist: fs.TextOr("", "artist"),
		Year:   fs.TextOr("", "year"),
		Medium: fs.TextOr("", "medium"),
	}

	payload.Dimensions = domain.FormatDimensionsCm(
		dimensionField(fs, "width"),
		dimensionField(fs, "height"),
		dimensionField(fs, "depth"),
	)

	sig := domain.CommerceSignals{
		SoldFlag:         fs.TextOr("", "sold"),
		Status:           status,
		AvailableForSale: product.AvailableForSale,
		PublishedOnline:  product.OnlineStoreURL != nil && *product.OnlineStoreURL != "",
		Price:            product.PriceRange.MinVariantPrice.Float(),
		Currency:         product.PriceRange.MinVariantPrice.CurrencyCode,
	}
	if variant := product.PrimaryVariant(); variant != nil {
		payload.VariantID = variant.ID
		sig.VariantAvailable = variant.AvailableForSale
		if price := variant.Price.Float(); price > 0 {
			sig.Price = price
			sig.Currency = variant.Price.CurrencyCode
		}
	}

	state := domain.ResolveCommerceState(sig)
	payload.IsSold = state.IsSold
	payload.CanPurchase = state.CanPurchase
	payload.PriceLabel = state.PriceLabel

	if product.FeaturedImage != nil {
		payload.ImageURL = product.FeaturedImage.URL
		payload.Aspect = domain.ClassifyAspect(product.FeaturedImage.Width, product.FeaturedImage.Height)
	}
	return payload
}

// dimensionField parses one numeric dimension metafield, tolerating the
// backend's JSON measurement shape and plain numeric strings.
func dimensionField(fs domain.FieldSet, key string) *float64 {
	f, ok := fs.Get(key)
	if !ok {
		return nil
	}
	raw := strings.TrimSpace(f.Value)
	if raw == "" {
		return nil
	}

	// Dimension metafields may arrive as {"value":40.0,"unit":"CENTIMETERS"}.
	if strings.HasPrefix(raw, "{") {
		var measurement struct {
			Value float64 `json:"value"`
		}
		if err := json.Unmarshal([]byte(raw), &measurement); err == nil && measurement.Value > 0 {
			return &measurement.Value
		}
		return nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

// ArtworkRef is the minimal product identity the sitemap needs.
type ArtworkRef struct {
	Handle    string `json:"handle"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// ActiveArtworks lists every non-draft product, for sitemap generation.
func (s *CatalogService) ActiveArtworks(ctx context.Context) ([]ArtworkRef, error) {
	return cached(ctx, s, "products:active", func(ctx context.Context) ([]ArtworkRef, error) {
		products, err := s.content.Products(ctx, maxProducts)
		if err != nil {
			return nil, err
		}

		refs := make([]ArtworkRef, 0, len(products))
		for i := range products {
			fs := products[i].FieldSet()
			if domain.IsDraftStatus(fs.TextOr("", "status")) {
				continue
			}
			refs = append(refs, ArtworkRef{
				Handle:    products[i].Handle,
				UpdatedAt: products[i].UpdatedAt,
			})
		}
		return refs, nil
	})
}

// --- About page ---

// AboutPage resolves the gallery's information page: the object titled
// "About Us Page" when present, otherwise the first information object.
// The short-text key order is an accommodation for inconsistent content
// authoring and must stay as-is.
func (s *CatalogService) AboutPage(ctx context.Context) (*domain.AboutPage, error) {
	objects, err := s.content.Metaobjects(ctx, typeInformation, maxContentObjects)
	if err != nil {
		return nil, err
	}
	if len(objects) == 0 {
		return nil, apperrors.NotFound("information page", "about")
	}

	selected := &objects[0]
	for i := range objects {
		if strings.EqualFold(objects[i].FieldSet().TextOr("", "title"), "About Us Page") {
			selected = &objects[i]
			break
		}
	}

	fs := selected.FieldSet()
	page := &domain.AboutPage{
		Title:     fs.TextOr("", "title"),
		ShortText: fs.TextOr("", "aboutshort", "aboutusshort", "short", "shorttext"),
	}
	if html, ok := fs.HTML("body", "about", "text"); ok {
		page.BodyHTML = html
	}
	if img, ok := fs.Image("image", "cover"); ok {
		page.Image = img
	}
	return page, nil
}

// --- Helpers ---

func isDraft(fs domain.FieldSet) bool {
	return domain.IsDraftStatus(fs.TextOr("", "status"))
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func pageSlice[T any](all []T, params pagination.Params) pagination.Result[T] {
	start := params.Offset
	if start > len(all) {
		start = len(all)
	}
	end := start + params.PerPage
	if end > len(all) {
		end = len(all)
	}
	return pagination.NewResult(all[start:end], len(all), params)
}
