package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/michaelpizzardello/outsider-site-sub000/internal/domain"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/shopify"
	apperrors "github.com/michaelpizzardello/outsider-site-sub000/pkg/errors"
)

type mockCartClient struct {
	mock.Mock
}

func (m *mockCartClient) CartCreate(ctx context.Context) (*shopify.Cart, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopify.Cart), args.Error(1)
}

func (m *mockCartClient) CartFetch(ctx context.Context, cartID string) (*shopify.Cart, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopify.Cart), args.Error(1)
}

func (m *mockCartClient) CartLinesAdd(ctx context.Context, cartID string, lines []shopify.CartLineInput) (*shopify.Cart, error) {
	args := m.Called(ctx, cartID, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopify.Cart), args.Error(1)
}

func (m *mockCartClient) CartLinesUpdate(ctx context.Context, cartID string, lines []shopify.CartLineUpdate) (*shopify.Cart, error) {
	args := m.Called(ctx, cartID, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopify.Cart), args.Error(1)
}

func (m *mockCartClient) CartLinesRemove(ctx context.Context, cartID string, lineIDs []string) (*shopify.Cart, error) {
	args := m.Called(ctx, cartID, lineIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shopify.Cart), args.Error(1)
}

func remoteCart() *shopify.Cart {
	return &shopify.Cart{
		ID:            "gid://shopify/Cart/abc",
		CheckoutURL:   "https://outsider.myshopify.com/checkout/abc",
		TotalQuantity: 1,
		Cost: shopify.CartCost{
			SubtotalAmount: shopify.Money{Amount: "1200.0", CurrencyCode: "AUD"},
		},
		Lines: shopify.LinePage{Nodes: []shopify.Line{{
			ID:       "gid://shopify/CartLine/1",
			Quantity: 1,
			Merchandise: shopify.Merchandise{
				ID:    "gid://shopify/ProductVariant/11",
				Title: "Default",
				Price: shopify.Money{Amount: "1200.0", CurrencyCode: "AUD"},
				Image: &shopify.Image{URL: "https://img.example/dusk.jpg"},
				Product: shopify.LineProduct{
					Title:  "Dusk Study",
					Handle: "dusk-study",
					Metafields: []*shopify.Metafield{
						{Key: "artist", Type: "single_line_text_field", Value: "Amy Walker"},
					},
				},
			},
		}}},
	}
}

func TestCartFetchMapsRemoteCart(t *testing.T) {
	client := new(mockCartClient)
	client.On("CartFetch", mock.Anything, "gid://shopify/Cart/abc").Return(remoteCart(), nil)

	svc := NewCartService(client, testLogger())
	cart, err := svc.Fetch(context.Background(), "gid://shopify/Cart/abc")
	require.NoError(t, err)

	assert.Equal(t, "gid://shopify/Cart/abc", cart.ID)
	assert.Equal(t, "$1,200", cart.Subtotal)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "Dusk Study", cart.Lines[0].Title)
	assert.Equal(t, "Amy Walker", cart.Lines[0].Artist)
	assert.Equal(t, "$1,200", cart.Lines[0].PriceLabel)
	assert.Equal(t, "https://img.example/dusk.jpg", cart.Lines[0].ImageURL)
}

func TestCartFetchNotFoundPassesThrough(t *testing.T) {
	client := new(mockCartClient)
	client.On("CartFetch", mock.Anything, "gid://shopify/Cart/gone").
		Return(nil, apperrors.NotFound("cart", "gid://shopify/Cart/gone"))

	svc := NewCartService(client, testLogger())
	_, err := svc.Fetch(context.Background(), "gid://shopify/Cart/gone")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAddLinesCreatesCartWhenMissing(t *testing.T) {
	client := new(mockCartClient)
	created := remoteCart()
	lines := []shopify.CartLineInput{{MerchandiseID: "gid://shopify/ProductVariant/11", Quantity: 1}}

	client.On("CartCreate", mock.Anything).Return(created, nil)
	client.On("CartLinesAdd", mock.Anything, created.ID, lines).Return(created, nil)

	svc := NewCartService(client, testLogger())
	cart, err := svc.AddLines(context.Background(), "", lines)
	require.NoError(t, err)

	assert.Equal(t, created.ID, cart.ID)
	client.AssertExpectations(t)
}

func TestAddLinesReusesExistingCart(t *testing.T) {
	client := new(mockCartClient)
	lines := []shopify.CartLineInput{{MerchandiseID: "gid://shopify/ProductVariant/11", Quantity: 1}}
	client.On("CartLinesAdd", mock.Anything, "gid://shopify/Cart/abc", lines).Return(remoteCart(), nil)

	svc := NewCartService(client, testLogger())
	_, err := svc.AddLines(context.Background(), "gid://shopify/Cart/abc", lines)
	require.NoError(t, err)

	client.AssertNotCalled(t, "CartCreate", mock.Anything)
}

func TestAddLinesNilCartFromClientIsError(t *testing.T) {
	client := new(mockCartClient)
	lines := []shopify.CartLineInput{{MerchandiseID: "gid://shopify/ProductVariant/11", Quantity: 1}}
	client.On("CartLinesAdd", mock.Anything, "gid://shopify/Cart/abc", lines).Return(nil, nil)

	svc := NewCartService(client, testLogger())
	cart, err := svc.AddLines(context.Background(), "gid://shopify/Cart/abc", lines)
	require.Error(t, err)
	assert.Nil(t, cart)
	assert.Contains(t, err.Error(), "empty result")
}

func TestLineArtistDereferencesLinkedObject(t *testing.T) {
	cart := remoteCart()
	cart.Lines.Nodes[0].Merchandise.Product.Metafields = []*shopify.Metafield{{
		Key:   "artist",
		Type:  "metaobject_reference",
		Value: "gid://shopify/Metaobject/9",
		Reference: &shopify.FieldReference{
			Typename: "Metaobject",
			Handle:   "amy-walker",
			Fields: []shopify.MetaobjectField{
				{Key: "name", Type: "single_line_text_field", Value: strPtr("Amy Walker")},
			},
		},
	}}

	mapped := mapCart(cart)
	require.Len(t, mapped.Lines, 1)
	assert.Equal(t, "Amy Walker", mapped.Lines[0].Artist)
}

func TestCheckoutPermalink(t *testing.T) {
	link, err := CheckoutPermalink("outsider.myshopify.com", []domain.CheckoutLine{
		{VariantGID: "gid://shopify/ProductVariant/123456", Quantity: 1},
		{VariantGID: "789", Quantity: 2},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "https://outsider.myshopify.com/cart/123456:1,789:2", link)
}

func TestCheckoutPermalinkWithDiscount(t *testing.T) {
	link, err := CheckoutPermalink("outsider.myshopify.com", []domain.CheckoutLine{
		{VariantGID: "gid://shopify/ProductVariant/123456", Quantity: 1},
	}, "OPENING NIGHT")
	require.NoError(t, err)
	assert.Equal(t, "https://outsider.myshopify.com/cart/123456:1?discount=OPENING+NIGHT", link)
}

func TestCheckoutPermalinkRejectsBadVariant(t *testing.T) {
	_, err := CheckoutPermalink("outsider.myshopify.com", []domain.CheckoutLine{
		{VariantGID: "not-a-gid", Quantity: 1},
	}, "")
	assert.Error(t, err)

	_, err = CheckoutPermalink("outsider.myshopify.com", nil, "")
	assert.Error(t, err)
}
