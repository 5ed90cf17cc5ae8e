package shopify

import (
	"strconv"

	"github.com/michaelpizzardello/outsider-site-sub000/internal/domain"
)

// Money is the storefront API's money shape. Amount is a decimal string.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// Float parses the decimal amount, returning 0 for an empty or malformed value.
func (m Money) Float() float64 {
	v, err := strconv.ParseFloat(m.Amount, 64)
	if err != nil {
		return 0
	}
	return v
}

// Image is a media image node.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Alt    string `json:"altText"`
}

// UserError is the storefront API's mutation error shape.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// PageInfo carries cursor pagination state.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// --- Metaobjects (content objects) ---

// Metaobject is a structured content record (exhibition, artist, information
// page) with flexible typed fields.
type Metaobject struct {
	ID     string            `json:"id"`
	Handle string            `json:"handle"`
	Type   string            `json:"type"`
	Fields []MetaobjectField `json:"fields"`
}

// MetaobjectField is one key/value entry on a metaobject. Value is null for
// pure reference fields.
type MetaobjectField struct {
	Key       string          `json:"key"`
	Type      string          `json:"type"`
	Value     *string         `json:"value"`
	Reference *FieldReference `json:"reference"`
}

// FieldReference is the typed target of a reference field.
type FieldReference struct {
	Typename string            `json:"__typename"`
	Image    *Image            `json:"image,omitempty"`
	URL      string            `json:"url,omitempty"`
	Handle   string            `json:"handle,omitempty"`
	Fields   []MetaobjectField `json:"fields,omitempty"`
}

// MetaobjectConnection is a paged metaobject result.
type MetaobjectConnection struct {
	Nodes    []Metaobject `json:"nodes"`
	PageInfo PageInfo     `json:"pageInfo"`
}

// FieldSet flattens a metaobject's fields into the domain representation
// used by the normalization helpers.
func (m *Metaobject) FieldSet() domain.FieldSet {
	return toFieldSet(m.Fields)
}

func toFieldSet(fields []MetaobjectField) domain.FieldSet {
	fs := make(domain.FieldSet, 0, len(fields))
	for _, f := range fields {
		df := domain.Field{
			Key:  f.Key,
			Type: f.Type,
		}
		if f.Value != nil {
			df.Value = *f.Value
		}
		if f.Reference != nil {
			ref := &domain.Reference{
				FileURL: f.Reference.URL,
			}
			if f.Reference.Image != nil {
				ref.ImageURL = f.Reference.Image.URL
				ref.ImageWidth = f.Reference.Image.Width
				ref.ImageHeight = f.Reference.Image.Height
			}
			if len(f.Reference.Fields) > 0 {
				ref.Fields = toFieldSet(f.Reference.Fields)
			}
			df.Reference = ref
		}
		fs = append(fs, df)
	}
	return fs
}

// --- Products ---

// Product is an artwork product with the metafields the storefront reads.
type Product struct {
	ID               string       `json:"id"`
	Handle           string       `json:"handle"`
	Title            string       `json:"title"`
	AvailableForSale bool         `json:"availableForSale"`
	OnlineStoreURL   *string      `json:"onlineStoreUrl"`
	FeaturedImage    *Image       `json:"featuredImage"`
	PriceRange       PriceRange   `json:"priceRange"`
	Variants         VariantPage  `json:"variants"`
	Metafields       []*Metafield `json:"metafields"`
	UpdatedAt        string       `json:"updatedAt"`
}

// PriceRange holds the product's minimum variant price.
type PriceRange struct {
	MinVariantPrice Money `json:"minVariantPrice"`
}

// VariantPage is the first page of a product's variants. Artworks are
// one-of-one, so only the primary variant is ever read.
type VariantPage struct {
	Nodes []Variant `json:"nodes"`
}

// Variant is a purchasable SKU.
type Variant struct {
	ID               string `json:"id"`
	AvailableForSale bool   `json:"availableForSale"`
	Price            Money  `json:"price"`
}

// Metafield is a typed custom field attached to a product. Entries in the
// metafields array are null when the product lacks that identifier.
type Metafield struct {
	Key       string          `json:"key"`
	Type      string          `json:"type"`
	Value     string          `json:"value"`
	Reference *FieldReference `json:"reference"`
}

// ProductConnection is a paged product result.
type ProductConnection struct {
	Nodes    []Product `json:"nodes"`
	PageInfo PageInfo  `json:"pageInfo"`
}

// FieldSet flattens the product's metafields into the domain representation.
// Null metafield entries are skipped.
func (p *Product) FieldSet() domain.FieldSet {
	fs := make(domain.FieldSet, 0, len(p.Metafields))
	for _, mf := range p.Metafields {
		if mf == nil {
			continue
		}
		df := domain.Field{
			Key:   mf.Key,
			Type:  mf.Type,
			Value: mf.Value,
		}
		if mf.Reference != nil {
			ref := &domain.Reference{FileURL: mf.Reference.URL}
			if mf.Reference.Image != nil {
				ref.ImageURL = mf.Reference.Image.URL
				ref.ImageWidth = mf.Reference.Image.Width
				ref.ImageHeight = mf.Reference.Image.Height
			}
			if len(mf.Reference.Fields) > 0 {
				ref.Fields = toFieldSet(mf.Reference.Fields)
			}
			df.Reference = ref
		}
		fs = append(fs, df)
	}
	return fs
}

// PrimaryVariant returns the product's first variant, or nil.
func (p *Product) PrimaryVariant() *Variant {
	if len(p.Variants.Nodes) == 0 {
		return nil
	}
	return &p.Variants.Nodes[0]
}

// --- Cart ---

// Cart is the remote cart shape.
type Cart struct {
	ID            string   `json:"id"`
	CheckoutURL   string   `json:"checkoutUrl"`
	TotalQuantity int      `json:"totalQuantity"`
	Cost          CartCost `json:"cost"`
	Lines         LinePage `json:"lines"`
}

// CartCost holds the cart's subtotal.
type CartCost struct {
	SubtotalAmount Money `json:"subtotalAmount"`
}

// LinePage is the first page of cart lines.
type LinePage struct {
	Nodes []Line `json:"nodes"`
}

// Line is one remote cart line.
type Line struct {
	ID          string      `json:"id"`
	Quantity    int         `json:"quantity"`
	Merchandise Merchandise `json:"merchandise"`
}

// Merchandise is the variant a cart line points at.
type Merchandise struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Price   Money       `json:"price"`
	Image   *Image      `json:"image"`
	Product LineProduct `json:"product"`
}

// LineProduct is the product summary embedded in a cart line.
type LineProduct struct {
	Title      string       `json:"title"`
	Handle     string       `json:"handle"`
	Metafields []*Metafield `json:"metafields"`
}

// CartLineInput is a line to add to the cart.
type CartLineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// CartLineUpdate changes the quantity of an existing line.
type CartLineUpdate struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}
