package shopify

import (
	"context"
	"fmt"

	apperrors "github.com/michaelpizzardello/outsider-site-sub000/pkg/errors"
)

// cartMutationData is the shared {cart, userErrors} payload of every cart
// mutation.
type cartMutationData struct {
	Cart       *Cart       `json:"cart"`
	UserErrors []UserError `json:"userErrors"`
}

// CartCreate creates an empty remote cart.
func (c *Client) CartCreate(ctx context.Context) (*Cart, error) {
	var data struct {
		CartCreate cartMutationData `json:"cartCreate"`
	}
	if err := c.query(ctx, mutationCartCreate, nil, &data); err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	if err := joinUserErrors(data.CartCreate.UserErrors); err != nil {
		return nil, err
	}
	if data.CartCreate.Cart == nil {
		return nil, fmt.Errorf("create cart: empty mutation result")
	}
	return data.CartCreate.Cart, nil
}

// CartFetch loads a cart by ID. A nil remote cart means the cart expired or
// never existed and is reported as not found.
func (c *Client) CartFetch(ctx context.Context, cartID string) (*Cart, error) {
	var data struct {
		Cart *Cart `json:"cart"`
	}
	if err := c.query(ctx, queryCart, map[string]any{"id": cartID}, &data); err != nil {
		return nil, fmt.Errorf("fetch cart: %w", err)
	}
	if data.Cart == nil {
		return nil, apperrors.NotFound("cart", cartID)
	}
	return data.Cart, nil
}

// CartLinesAdd adds lines to an existing cart.
func (c *Client) CartLinesAdd(ctx context.Context, cartID string, lines []CartLineInput) (*Cart, error) {
	var data struct {
		CartLinesAdd cartMutationData `json:"cartLinesAdd"`
	}
	err := c.query(ctx, mutationCartLinesAdd, map[string]any{
		"cartId": cartID,
		"lines":  lines,
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("add cart lines: %w", err)
	}
	if err := joinUserErrors(data.CartLinesAdd.UserErrors); err != nil {
		return nil, err
	}
	if data.CartLinesAdd.Cart == nil {
		return nil, fmt.Errorf("add cart lines: empty mutation result")
	}
	return data.CartLinesAdd.Cart, nil
}

// CartLinesUpdate changes quantities of existing lines. A zero quantity
// removes the line on the remote side.
func (c *Client) CartLinesUpdate(ctx context.Context, cartID string, lines []CartLineUpdate) (*Cart, error) {
	var data struct {
		CartLinesUpdate cartMutationData `json:"cartLinesUpdate"`
	}
	err := c.query(ctx, mutationCartLinesUpdate, map[string]any{
		"cartId": cartID,
		"lines":  lines,
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("update cart lines: %w", err)
	}
	if err := joinUserErrors(data.CartLinesUpdate.UserErrors); err != nil {
		return nil, err
	}
	// A null cart with no user errors means the cart disappeared remotely.
	if data.CartLinesUpdate.Cart == nil {
		return nil, apperrors.NotFound("cart", cartID)
	}
	return data.CartLinesUpdate.Cart, nil
}

// CartLinesRemove deletes lines from the cart by line ID.
func (c *Client) CartLinesRemove(ctx context.Context, cartID string, lineIDs []string) (*Cart, error) {
	var data struct {
		CartLinesRemove cartMutationData `json:"cartLinesRemove"`
	}
	err := c.query(ctx, mutationCartLinesRemove, map[string]any{
		"cartId":  cartID,
		"lineIds": lineIDs,
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("remove cart lines: %w", err)
	}
	if err := joinUserErrors(data.CartLinesRemove.UserErrors); err != nil {
		return nil, err
	}
	if data.CartLinesRemove.Cart == nil {
		return nil, apperrors.NotFound("cart", cartID)
	}
	return data.CartLinesRemove.Cart, nil
}
