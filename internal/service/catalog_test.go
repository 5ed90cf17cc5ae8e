package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/michaelpizzardello/outsider-site-sub000/internal/domain"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/repository"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/shopify"
	apperrors "github.com/michaelpizzardello/outsider-site-sub000/pkg/errors"
	"github.com/michaelpizzardello/outsider-site-sub000/pkg/pagination"
)

type mockContentClient struct {
	mock.Mock
}

func (m *mockContentClient) Metaobjects(ctx context.Context, objectType string, first int) ([]shopify.Metaobject, error) {
	args := m.Called(ctx, objectType, first)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shopify.Metaobject), args.Error(1)
}

func (m *mockContentClient) MetaobjectByHandle(ctx context.Context, objectType, handle string) (*shopify.Metaobject, error) {
	args := m.Called(ctx, objectType, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopify.Metaobject), args.Error(1)
}

func (m *mockContentClient) CollectionProducts(ctx context.Context, collectionHandle string, first int) ([]shopify.Product, error) {
	args := m.Called(ctx, collectionHandle, first)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shopify.Product), args.Error(1)
}

func (m *mockContentClient) ProductByHandle(ctx context.Context, handle string) (*shopify.Product, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopify.Product), args.Error(1)
}

func (m *mockContentClient) Products(ctx context.Context, first int) ([]shopify.Product, error) {
	args := m.Called(ctx, first)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shopify.Product), args.Error(1)
}

// memoryCache is a map-backed ContentCache for exercising the read-through
// path without Redis.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	if !ok {
		return repository.ErrCacheMiss
	}
	return json.Unmarshal(data, out)
}

func (c *memoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func strPtr(s string) *string { return &s }

func metaobject(handle string, fields map[string]string) shopify.Metaobject {
	mo := shopify.Metaobject{Handle: handle, Type: "test"}
	for key, value := range fields {
		v := value
		mo.Fields = append(mo.Fields, shopify.MetaobjectField{
			Key:   key,
			Type:  "single_line_text_field",
			Value: &v,
		})
	}
	return mo
}

func TestExhibitionsExcludesDraftsAndSortsNewestFirst(t *testing.T) {
	content := new(mockContentClient)
	content.On("Metaobjects", mock.Anything, "exhibition", mock.Anything).Return([]shopify.Metaobject{
		metaobject("older-show", map[string]string{"title": "Older Show", "startdate": "2024-02-01", "enddate": "2024-03-01"}),
		metaobject("hidden-show", map[string]string{"title": "Hidden", "status": "Draft", "startdate": "2025-01-01"}),
		metaobject("newer-show", map[string]string{"title": "Newer Show", "startdate": "2025-06-03", "enddate": "2025-06-28"}),
	}, nil)

	svc := NewCatalogService(content, nil, 0, testLogger())
	cards, err := svc.Exhibitions(context.Background())
	require.NoError(t, err)

	require.Len(t, cards, 2)
	assert.Equal(t, "newer-show", cards[0].Handle)
	assert.Equal(t, "older-show", cards[1].Handle)
	assert.Equal(t, "3 – 28 June 2025", cards[0].DateLabel)
}

func TestExhibitionsCacheHitSkipsOrigin(t *testing.T) {
	content := new(mockContentClient)
	content.On("Metaobjects", mock.Anything, "exhibition", mock.Anything).Return([]shopify.Metaobject{
		metaobject("one-show", map[string]string{"title": "One"}),
	}, nil).Once()

	svc := NewCatalogService(content, newMemoryCache(), time.Minute, testLogger())

	first, err := svc.Exhibitions(context.Background())
	require.NoError(t, err)
	second, err := svc.Exhibitions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	content.AssertNumberOfCalls(t, "Metaobjects", 1)
}

func TestExhibitionByHandleNotFound(t *testing.T) {
	content := new(mockContentClient)
	content.On("MetaobjectByHandle", mock.Anything, "exhibition", "nope").Return(nil, nil)

	svc := NewCatalogService(content, nil, 0, testLogger())
	_, err := svc.ExhibitionByHandle(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestExhibitionByHandleDraftIsNotFound(t *testing.T) {
	draft := metaobject("secret", map[string]string{"title": "Secret", "status": "unpublished"})
	content := new(mockContentClient)
	content.On("MetaobjectByHandle", mock.Anything, "exhibition", "secret").Return(&draft, nil)

	svc := NewCatalogService(content, nil, 0, testLogger())
	_, err := svc.ExhibitionByHandle(context.Background(), "secret")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestArtistsSortedBySurname(t *testing.T) {
	content := new(mockContentClient)
	content.On("Metaobjects", mock.Anything, "artist", mock.Anything).Return([]shopify.Metaobject{
		metaobject("zoe-adams", map[string]string{"name": "Zoe Adams"}),
		metaobject("amy-walker", map[string]string{"name": "Amy Walker"}),
	}, nil)

	svc := NewCatalogService(content, nil, 0, testLogger())
	artists, err := svc.Artists(context.Background())
	require.NoError(t, err)

	require.Len(t, artists, 2)
	assert.Equal(t, "Zoe Adams", artists[0].Name)
	assert.Equal(t, "Amy Walker", artists[1].Name)
}

func artworkProduct() *shopify.Product {
	return &shopify.Product{
		ID:               "gid://shopify/Product/1",
		Handle:           "dusk-study",
		Title:            "Dusk Study",
		AvailableForSale: true,
		OnlineStoreURL:   strPtr("https://outsider.example/products/dusk-study"),
		FeaturedImage:    &shopify.Image{URL: "https://img.example/dusk.jpg", Width: 800, Height: 1200},
		PriceRange: shopify.PriceRange{
			MinVariantPrice: shopify.Money{Amount: "1200.0", CurrencyCode: "AUD"},
		},
		Variants: shopify.VariantPage{Nodes: []shopify.Variant{{
			ID:               "gid://shopify/ProductVariant/11",
			AvailableForSale: true,
			Price:            shopify.Money{Amount: "1200.0", CurrencyCode: "AUD"},
		}}},
		Metafields: []*shopify.Metafield{
			{Key: "artist", Type: "single_line_text_field", Value: "Amy Walker"},
			{Key: "year", Type: "single_line_text_field", Value: "2024"},
			{Key: "width", Type: "dimension", Value: `{"value":40.5,"unit":"CENTIMETERS"}`},
			{Key: "height", Type: "dimension", Value: `{"value":60,"unit":"CENTIMETERS"}`},
			nil,
		},
	}
}

func TestArtworkByHandleBuildsPayload(t *testing.T) {
	content := new(mockContentClient)
	content.On("ProductByHandle", mock.Anything, "dusk-study").Return(artworkProduct(), nil)

	svc := NewCatalogService(content, nil, 0, testLogger())
	payload, err := svc.ArtworkByHandle(context.Background(), "dusk-study")
	require.NoError(t, err)

	assert.Equal(t, "Amy Walker", payload.Artist)
	assert.Equal(t, "2024", payload.Year)
	assert.Equal(t, "40.5 x 60 cm", payload.Dimensions)
	assert.Equal(t, "$1,200", payload.PriceLabel)
	assert.True(t, payload.CanPurchase)
	assert.False(t, payload.IsSold)
	assert.Equal(t, "gid://shopify/ProductVariant/11", payload.VariantID)
	assert.Equal(t, domain.AspectPortrait, payload.Aspect)
}

func TestArtworkByHandleSoldProduct(t *testing.T) {
	product := artworkProduct()
	product.Metafields = append(product.Metafields, &shopify.Metafield{
		Key: "sold", Type: "boolean", Value: "true",
	})

	content := new(mockContentClient)
	content.On("ProductByHandle", mock.Anything, "dusk-study").Return(product, nil)

	svc := NewCatalogService(content, nil, 0, testLogger())
	payload, err := svc.ArtworkByHandle(context.Background(), "dusk-study")
	require.NoError(t, err)

	assert.True(t, payload.IsSold)
	assert.False(t, payload.CanPurchase)
	assert.Empty(t, payload.PriceLabel)
}

func TestArtworkByHandleDraftIsNotFound(t *testing.T) {
	product := artworkProduct()
	product.Metafields = append(product.Metafields, &shopify.Metafield{
		Key: "status", Type: "single_line_text_field", Value: "draft-2024",
	})

	content := new(mockContentClient)
	content.On("ProductByHandle", mock.Anything, "dusk-study").Return(product, nil)

	svc := NewCatalogService(content, nil, 0, testLogger())
	_, err := svc.ArtworkByHandle(context.Background(), "dusk-study")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCollectArtworksPaginates(t *testing.T) {
	products := make([]shopify.Product, 30)
	for i := range products {
		p := artworkProduct()
		products[i] = *p
	}

	content := new(mockContentClient)
	content.On("CollectionProducts", mock.Anything, "collect", mock.Anything).Return(products, nil)

	svc := NewCatalogService(content, nil, 0, testLogger())
	result, err := svc.CollectArtworks(context.Background(), pagination.Params{Page: 2, PerPage: 24, Offset: 24})
	require.NoError(t, err)

	assert.Equal(t, 30, result.TotalCount)
	assert.Len(t, result.Data, 6)
	assert.Equal(t, 2, result.TotalPages)
	assert.False(t, result.HasNext)
	assert.True(t, result.HasPrev)
}

func TestExhibitionCardClassifiesHeroAspect(t *testing.T) {
	fs := domain.FieldSet{
		{Key: "title", Value: "Tall Show"},
		{Key: "hero", Type: domain.FieldTypeFileReference, Reference: &domain.Reference{
			ImageURL:    "https://cdn.example.com/hero.jpg",
			ImageWidth:  900,
			ImageHeight: 1600,
		}},
	}

	card := exhibitionCard("tall-show", fs)
	assert.Equal(t, "https://cdn.example.com/hero.jpg", card.HeroImage)
	assert.Equal(t, domain.AspectPortrait, card.HeroAspect)
}

func TestAboutPagePrefersAboutUsPageTitle(t *testing.T) {
	content := new(mockContentClient)
	content.On("Metaobjects", mock.Anything, "information", mock.Anything).Return([]shopify.Metaobject{
		metaobject("visiting", map[string]string{"title": "Visiting"}),
		metaobject("about-us", map[string]string{"title": "About Us Page", "aboutusshort": "A gallery for outsiders."}),
	}, nil)

	svc := NewCatalogService(content, nil, 0, testLogger())
	page, err := svc.AboutPage(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "About Us Page", page.Title)
	assert.Equal(t, "A gallery for outsiders.", page.ShortText)
}

func TestAboutPageFallsBackToFirstInformationObject(t *testing.T) {
	content := new(mockContentClient)
	content.On("Metaobjects", mock.Anything, "information", mock.Anything).Return([]shopify.Metaobject{
		metaobject("general", map[string]string{"title": "General", "shorttext": "Short fallback text."}),
	}, nil)

	svc := NewCatalogService(content, nil, 0, testLogger())
	page, err := svc.AboutPage(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "General", page.Title)
	assert.Equal(t, "Short fallback text.", page.ShortText)
}

func TestAboutPageShortTextKeyPriority(t *testing.T) {
	content := new(mockContentClient)
	content.On("Metaobjects", mock.Anything, "information", mock.Anything).Return([]shopify.Metaobject{
		metaobject("about", map[string]string{
			"title":      "About Us Page",
			"shorttext":  "lowest priority",
			"aboutshort": "highest priority",
		}),
	}, nil)

	svc := NewCatalogService(content, nil, 0, testLogger())
	page, err := svc.AboutPage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "highest priority", page.ShortText)
}

func TestActiveArtworksExcludesDrafts(t *testing.T) {
	live := *artworkProduct()
	draft := *artworkProduct()
	draft.Handle = "hidden-work"
	draft.Metafields = append(draft.Metafields, &shopify.Metafield{
		Key: "status", Type: "single_line_text_field", Value: "archived",
	})

	content := new(mockContentClient)
	content.On("Products", mock.Anything, mock.Anything).Return([]shopify.Product{live, draft}, nil)

	svc := NewCatalogService(content, nil, 0, testLogger())
	refs, err := svc.ActiveArtworks(context.Background())
	require.NoError(t, err)

	require.Len(t, refs, 1)
	assert.Equal(t, "dusk-study", refs[0].Handle)
}
