package domain

import "strings"

// Aspect classification of an artwork image, used by the grid layout.
const (
	AspectPortrait  = "portrait"
	AspectLandscape = "landscape"
	AspectSquare    = "square"
)

// ArtworkPayload is the per-request view model for one artwork product.
type ArtworkPayload struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Artist      string `json:"artist,omitempty"`
	Year        string `json:"year,omitempty"`
	Medium      string `json:"medium,omitempty"`
	Dimensions  string `json:"dimensions,omitempty"`
	PriceLabel  string `json:"priceLabel,omitempty"`
	IsSold      bool   `json:"isSold"`
	CanPurchase bool   `json:"canPurchase"`
	VariantID   string `json:"variantId,omitempty"`
	ImageURL    string `json:"image,omitempty"`
	Aspect      string `json:"aspect,omitempty"`
}

// CommerceSignals are the raw status inputs read off a product and its
// metafields. Status and SoldFlag are free-text and author-controlled; the
// rest come from the commerce platform's own flags.
type CommerceSignals struct {
	SoldFlag         string  // explicit sold metafield, e.g. "true"
	Status           string  // free-text or metaobject-referenced status label
	AvailableForSale bool    // product-level availability
	VariantAvailable bool    // primary variant availability
	PublishedOnline  bool    // product is published to the online channel
	Price            float64 // listed price, 0 when absent
	Currency         string  // ISO currency code of the listed price
}

// CommerceState is the resolved purchase state driving the buy/enquire UI.
type CommerceState struct {
	IsSold       bool
	ForceEnquire bool
	CanPurchase  bool
	PriceLabel   string
}

// enquireStatuses are the status labels that force the enquire flow
// regardless of price or availability. Matching is case-insensitive with
// underscores and spaces interchangeable.
var enquireStatuses = map[string]struct{}{
	"enquire":          {},
	"enquiry":          {},
	"reserved":         {},
	"poa":              {},
	"price on request": {},
	"on hold":          {},
}

// truthySoldFlags are the accepted representations of an explicit sold flag.
var truthySoldFlags = map[string]struct{}{
	"true": {},
	"1":    {},
	"yes":  {},
}

// ResolveCommerceState computes the purchase state for a product from its
// status signals. The precedence is fixed: an explicit sold flag, a "sold"
// status, or platform unavailability each mark the work sold; enquire-like
// statuses suppress purchase without marking it sold; purchase additionally
// requires the variant, the online channel, and a positive listed price.
func ResolveCommerceState(sig CommerceSignals) CommerceState {
	status := normalizeStatus(sig.Status)

	var st CommerceState

	if _, ok := truthySoldFlags[normalizeStatus(sig.SoldFlag)]; ok {
		st.IsSold = true
	}
	if status == "sold" {
		st.IsSold = true
	}
	if !sig.AvailableForSale {
		st.IsSold = true
	}

	if _, ok := enquireStatuses[status]; ok {
		st.ForceEnquire = true
	}

	st.CanPurchase = !st.IsSold &&
		sig.AvailableForSale &&
		sig.VariantAvailable &&
		sig.PublishedOnline &&
		sig.Price > 0 &&
		!st.ForceEnquire

	switch {
	case st.IsSold:
		st.PriceLabel = ""
	case sig.Price > 0:
		st.PriceLabel = FormatCurrency(sig.Price, sig.Currency)
	default:
		st.PriceLabel = "Price on request"
	}

	return st
}

// normalizeStatus lowercases a status label and folds underscores into
// spaces so "Price_On_Request" and "price on request" compare equal.
func normalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

// draftStatuses are content statuses excluded from public listings and the
// sitemap.
var draftStatuses = map[string]struct{}{
	"draft":       {},
	"inactive":    {},
	"hidden":      {},
	"internal":    {},
	"unpublished": {},
	"preview":     {},
	"archived":    {},
}

// IsDraftStatus reports whether a content status hides the object from
// public pages. Any status beginning with "draft" is treated as draft.
func IsDraftStatus(status string) bool {
	s := normalizeStatus(status)
	if s == "" {
		return false
	}
	if _, ok := draftStatuses[s]; ok {
		return true
	}
	return strings.HasPrefix(s, "draft")
}

// ClassifyAspect buckets an image into portrait, landscape, or square by its
// pixel dimensions. Near-square images (within 2%) are treated as square.
func ClassifyAspect(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	ratio := float64(width) / float64(height)
	switch {
	case ratio > 1.02:
		return AspectLandscape
	case ratio < 0.98:
		return AspectPortrait
	default:
		return AspectSquare
	}
}
