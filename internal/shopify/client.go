package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/michaelpizzardello/outsider-site-sub000/pkg/httpclient"
)

// Doer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy this.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client is the storefront GraphQL API client. It issues fixed queries
// against a single endpoint and decodes the {data, errors} envelope.
type Client struct {
	http     Doer
	endpoint string
	token    string
	logger   *slog.Logger
}

// NewClient creates a storefront client for the given shop domain and API
// version, e.g. NewClient("outsider.myshopify.com", "2024-07", token, ...).
func NewClient(shopDomain, apiVersion, token string, doer Doer, logger *slog.Logger) *Client {
	return &Client{
		http:     doer,
		endpoint: fmt.Sprintf("https://%s/api/%s/graphql.json", shopDomain, apiVersion),
		token:    token,
		logger:   logger,
	}
}

// graphqlRequest is the storefront API's request envelope.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphqlError is one entry of the top-level errors array.
type graphqlError struct {
	Message string `json:"message"`
}

// graphqlResponse is the {data, errors} envelope.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// query executes one GraphQL operation and decodes the data payload into out.
// Top-level GraphQL errors are joined into a single error.
func (c *Client) query(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)
	req.GetBody = func() (rc io.ReadCloser, err error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call storefront api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, "storefront")
	}

	var envelope graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode storefront response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		msgs := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			msgs[i] = e.Message
		}
		return fmt.Errorf("storefront query failed: %s", strings.Join(msgs, "; "))
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode storefront data: %w", err)
		}
	}

	return nil
}

// joinUserErrors collapses a mutation's userErrors list into a single error,
// or nil when the list is empty.
func joinUserErrors(errs []UserError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return fmt.Errorf("storefront mutation rejected: %s", strings.Join(msgs, "; "))
}

// --- Content objects ---

// Metaobjects fetches up to first content objects of the given type.
func (c *Client) Metaobjects(ctx context.Context, objectType string, first int) ([]Metaobject, error) {
	var data struct {
		Metaobjects MetaobjectConnection `json:"metaobjects"`
	}
	err := c.query(ctx, queryMetaobjects, map[string]any{
		"type":  objectType,
		"first": first,
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("fetch %s metaobjects: %w", objectType, err)
	}
	return data.Metaobjects.Nodes, nil
}

// MetaobjectByHandle fetches a single content object by type and handle.
// Returns nil when the backend reports no such object.
func (c *Client) MetaobjectByHandle(ctx context.Context, objectType, handle string) (*Metaobject, error) {
	var data struct {
		Metaobject *Metaobject `json:"metaobject"`
	}
	err := c.query(ctx, queryMetaobjectByHandle, map[string]any{
		"handle": map[string]any{"type": objectType, "handle": handle},
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("fetch %s metaobject %q: %w", objectType, handle, err)
	}
	return data.Metaobject, nil
}

// --- Products ---

// CollectionProducts fetches the products of a collection by handle. The
// result is nil (not an error) when the collection does not exist.
func (c *Client) CollectionProducts(ctx context.Context, collectionHandle string, first int) ([]Product, error) {
	var data struct {
		Collection *struct {
			Products ProductConnection `json:"products"`
		} `json:"collection"`
	}
	err := c.query(ctx, queryCollectionProducts, map[string]any{
		"handle": collectionHandle,
		"first":  first,
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("fetch collection %q: %w", collectionHandle, err)
	}
	if data.Collection == nil {
		return nil, nil
	}
	return data.Collection.Products.Nodes, nil
}

// ProductByHandle fetches one product with its artwork metafields. Returns
// nil when the product does not exist.
func (c *Client) ProductByHandle(ctx context.Context, handle string) (*Product, error) {
	var data struct {
		Product *Product `json:"product"`
	}
	err := c.query(ctx, queryProductByHandle, map[string]any{"handle": handle}, &data)
	if err != nil {
		return nil, fmt.Errorf("fetch product %q: %w", handle, err)
	}
	return data.Product, nil
}

// Products fetches up to first products across the shop, used by the
// sitemap. Paging follows the cursor until exhausted or the cap is reached.
func (c *Client) Products(ctx context.Context, first int) ([]Product, error) {
	var all []Product
	var after *string

	for {
		var data struct {
			Products ProductConnection `json:"products"`
		}
		vars := map[string]any{"first": min(first-len(all), 250)}
		if after != nil {
			vars["after"] = *after
		}
		if err := c.query(ctx, queryProducts, vars, &data); err != nil {
			return nil, fmt.Errorf("fetch products: %w", err)
		}

		all = append(all, data.Products.Nodes...)
		if !data.Products.PageInfo.HasNextPage || len(all) >= first {
			return all, nil
		}
		cursor := data.Products.PageInfo.EndCursor
		after = &cursor
	}
}
