package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/michaelpizzardello/outsider-site-sub000/internal/service"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/shopify"
)

func TestSitemapXML(t *testing.T) {
	content := new(mockContentClient)
	content.On("Metaobjects", mock.Anything, "exhibition", mock.Anything).Return([]shopify.Metaobject{
		{Handle: "summer-light", Type: "exhibition", Fields: []shopify.MetaobjectField{
			textField("title", "Summer Light"),
		}},
		{Handle: "secret", Type: "exhibition", Fields: []shopify.MetaobjectField{
			textField("title", "Secret"),
			textField("status", "draft"),
		}},
	}, nil)
	content.On("Metaobjects", mock.Anything, "artist", mock.Anything).Return([]shopify.Metaobject{}, nil)
	content.On("Products", mock.Anything, mock.Anything).Return([]shopify.Product{}, nil)

	logger := testLogger()
	catalog := service.NewCatalogService(content, nil, 0, logger)
	handler := NewSitemapHandler(service.NewSitemapService(catalog, "https://outsider.gallery", logger), logger)

	rec := httptest.NewRecorder()
	handler.Sitemap(rec, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, body, "<loc>https://outsider.gallery/exhibitions/summer-light</loc>")
	assert.NotContains(t, body, "secret")
}
