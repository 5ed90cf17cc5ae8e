package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCheckoutHandler() *CheckoutHandler {
	return NewCheckoutHandler("outsider.myshopify.com", testLogger())
}

func TestCheckoutRedirects(t *testing.T) {
	handler := testCheckoutHandler()
	rec := postJSON(t, handler.Checkout, "/api/checkout",
		`{"lines":[{"variantGid":"gid://shopify/ProductVariant/123456","quantity":1}]}`)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://outsider.myshopify.com/cart/123456:1", rec.Header().Get("Location"))
}

func TestCheckoutWithDiscount(t *testing.T) {
	handler := testCheckoutHandler()
	rec := postJSON(t, handler.Checkout, "/api/checkout",
		`{"lines":[{"variantGid":"gid://shopify/ProductVariant/123456","quantity":2}],"discount":"OPENING"}`)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://outsider.myshopify.com/cart/123456:2?discount=OPENING", rec.Header().Get("Location"))
}

func TestCheckoutRejectsEmptyLines(t *testing.T) {
	handler := testCheckoutHandler()
	rec := postJSON(t, handler.Checkout, "/api/checkout", `{"lines":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutRejectsInvalidBody(t *testing.T) {
	handler := testCheckoutHandler()
	rec := postJSON(t, handler.Checkout, "/api/checkout", `{broken`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
