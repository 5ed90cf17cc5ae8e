package domain

// Cart is the denormalized read-through of the remote cart. The service
// holds no cart state of its own: every field reflects the remote response
// as of the current request.
type Cart struct {
	ID            string     `json:"id"`
	CheckoutURL   string     `json:"checkoutUrl,omitempty"`
	TotalQuantity int        `json:"totalQuantity"`
	Subtotal      string     `json:"subtotal,omitempty"`
	Lines         []CartLine `json:"lines"`
}

// CartLine is one line of the remote cart mapped into the local view model.
type CartLine struct {
	ID         string `json:"id"`
	VariantID  string `json:"merchandiseId"`
	Title      string `json:"title"`
	Artist     string `json:"artist,omitempty"`
	Handle     string `json:"handle,omitempty"`
	Quantity   int    `json:"quantity"`
	PriceLabel string `json:"priceLabel,omitempty"`
	ImageURL   string `json:"image,omitempty"`
}

// CheckoutLine is one line of a direct-checkout request.
type CheckoutLine struct {
	VariantGID string `json:"variantGid"`
	Quantity   int    `json:"quantity"`
}

// LineCount returns the number of distinct lines in the cart.
func (c *Cart) LineCount() int {
	return len(c.Lines)
}

// FindLine returns the line with the given remote line ID, or nil.
func (c *Cart) FindLine(lineID string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			return &c.Lines[i]
		}
	}
	return nil
}
