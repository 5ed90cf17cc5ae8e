package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/michaelpizzardello/outsider-site-sub000/internal/domain"
	"github.com/michaelpizzardello/outsider-site-sub000/internal/shopify"
)

// CartClient is the remote cart API surface.
type CartClient interface {
	CartCreate(ctx context.Context) (*shopify.Cart, error)
	CartFetch(ctx context.Context, cartID string) (*shopify.Cart, error)
	CartLinesAdd(ctx context.Context, cartID string, lines []shopify.CartLineInput) (*shopify.Cart, error)
	CartLinesUpdate(ctx context.Context, cartID string, lines []shopify.CartLineUpdate) (*shopify.Cart, error)
	CartLinesRemove(ctx context.Context, cartID string, lineIDs []string) (*shopify.Cart, error)
}

// CartService proxies cart operations to the remote cart API. It owns no
// state: the cart ID travels in the caller's cookie and everything else is
// read through per request.
type CartService struct {
	client CartClient
	logger *slog.Logger
}

// NewCartService creates the cart proxy service.
func NewCartService(client CartClient, logger *slog.Logger) *CartService {
	return &CartService{client: client, logger: logger}
}

// Create makes a new empty remote cart.
func (s *CartService) Create(ctx context.Context) (*domain.Cart, error) {
	cart, err := s.client.CartCreate(ctx)
	if err != nil {
		return nil, err
	}
	return mutationCart("create", cart)
}

// Fetch loads the remote cart. Callers translate a not-found into clearing
// the cookie.
func (s *CartService) Fetch(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.client.CartFetch(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return mapCart(cart), nil
}

// AddLines adds lines, creating a cart first when cartID is empty. The
// returned cart carries the ID the caller must persist in the cookie.
func (s *CartService) AddLines(ctx context.Context, cartID string, lines []shopify.CartLineInput) (*domain.Cart, error) {
	if cartID == "" {
		created, err := s.client.CartCreate(ctx)
		if err != nil {
			return nil, err
		}
		cartID = created.ID
	}

	cart, err := s.client.CartLinesAdd(ctx, cartID, lines)
	if err != nil {
		return nil, err
	}
	return mutationCart("add", cart)
}

// UpdateLines changes quantities on existing lines.
func (s *CartService) UpdateLines(ctx context.Context, cartID string, lines []shopify.CartLineUpdate) (*domain.Cart, error) {
	cart, err := s.client.CartLinesUpdate(ctx, cartID, lines)
	if err != nil {
		return nil, err
	}
	return mutationCart("update", cart)
}

// RemoveLines deletes lines from the cart.
func (s *CartService) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	cart, err := s.client.CartLinesRemove(ctx, cartID, lineIDs)
	if err != nil {
		return nil, err
	}
	return mutationCart("remove", cart)
}

// mutationCart rejects a nil cart from a mutation so handlers never see a
// nil cart paired with a nil error.
func mutationCart(op string, cart *shopify.Cart) (*domain.Cart, error) {
	if cart == nil {
		return nil, fmt.Errorf("%s cart: empty result from remote", op)
	}
	return mapCart(cart), nil
}

func mapCart(cart *shopify.Cart) *domain.Cart {
	if cart == nil {
		return nil
	}

	out := &domain.Cart{
		ID:            cart.ID,
		CheckoutURL:   cart.CheckoutURL,
		TotalQuantity: cart.TotalQuantity,
		Lines:         make([]domain.CartLine, 0, len(cart.Lines.Nodes)),
	}
	if subtotal := cart.Cost.SubtotalAmount.Float(); subtotal > 0 {
		out.Subtotal = domain.FormatCurrency(subtotal, cart.Cost.SubtotalAmount.CurrencyCode)
	}

	for _, line := range cart.Lines.Nodes {
		mapped := domain.CartLine{
			ID:        line.ID,
			VariantID: line.Merchandise.ID,
			Title:     line.Merchandise.Product.Title,
			Handle:    line.Merchandise.Product.Handle,
			Quantity:  line.Quantity,
		}
		if price := line.Merchandise.Price.Float(); price > 0 {
			mapped.PriceLabel = domain.FormatCurrency(price, line.Merchandise.Price.CurrencyCode)
		}
		if line.Merchandise.Image != nil {
			mapped.ImageURL = line.Merchandise.Image.URL
		}
		mapped.Artist = lineArtist(line.Merchandise.Product.Metafields)
		out.Lines = append(out.Lines, mapped)
	}
	return out
}

func lineArtist(metafields []*shopify.Metafield) string {
	for _, mf := range metafields {
		if mf == nil || !strings.EqualFold(mf.Key, "artist") {
			continue
		}
		fs := domain.FieldSet{{
			Key:   mf.Key,
			Type:  mf.Type,
			Value: mf.Value,
		}}
		if mf.Reference != nil && len(mf.Reference.Fields) > 0 {
			ref := &domain.Reference{}
			for _, rf := range mf.Reference.Fields {
				field := domain.Field{Key: rf.Key, Type: rf.Type}
				if rf.Value != nil {
					field.Value = *rf.Value
				}
				ref.Fields = append(ref.Fields, field)
			}
			fs[0].Reference = ref
		}
		return fs.TextOr("", "artist")
	}
	return ""
}

// CheckoutPermalink builds the storefront cart-permalink URL for a direct
// checkout: /cart/<variantID>:<qty>,... with an optional discount code.
func CheckoutPermalink(shopDomain string, lines []domain.CheckoutLine, discount string) (string, error) {
	if len(lines) == 0 {
		return "", fmt.Errorf("checkout requires at least one line")
	}

	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		id := numericVariantID(line.VariantGID)
		if id == "" {
			return "", fmt.Errorf("invalid variant id %q", line.VariantGID)
		}
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		parts = append(parts, fmt.Sprintf("%s:%d", id, qty))
	}

	permalink := fmt.Sprintf("https://%s/cart/%s", shopDomain, strings.Join(parts, ","))
	if discount != "" {
		permalink += "?discount=" + url.QueryEscape(discount)
	}
	return permalink, nil
}

// numericVariantID extracts the trailing numeric ID from a variant global
// ID like gid://shopify/ProductVariant/123456, accepting bare numeric IDs.
func numericVariantID(gid string) string {
	gid = strings.TrimSpace(gid)
	if idx := strings.LastIndex(gid, "/"); idx >= 0 {
		gid = gid[idx+1:]
	}
	if gid == "" {
		return ""
	}
	for _, r := range gid {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return gid
}
