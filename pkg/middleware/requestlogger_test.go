package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelpizzardello/outsider-site-sub000/pkg/logger"
)

func TestRequestLogger_StoresEnrichedLogger(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter("test", "info", "production", &buf)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/exhibitions", nil)
	ctx := logger.WithCorrelationID(req.Context(), "corr-7")

	RequestLogger(base)(handler).ServeHTTP(rec, req.WithContext(ctx))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "corr-7", out["correlation_id"])
}

func TestRequestLogger_NoCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter("test", "info", "production", &buf)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("plain")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/artists", nil)

	RequestLogger(base)(handler).ServeHTTP(rec, req)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	_, present := out["correlation_id"]
	assert.False(t, present)
}

func TestCacheControl_SetsHeaderOnGet(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)

	CacheControl(3600)(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
}

func TestCacheControl_SkipsNonGet(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cart", nil)

	CacheControl(3600)(okHandler()).ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Cache-Control"))
}
