package crm

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

// Doer executes HTTP requests.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Contact is the CRM contact shape sent on upsert.
type Contact struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Source    string `json:"source,omitempty"`
}

// Client talks to the CRM REST API.
type Client struct {
	http    Doer
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

// NewClient creates a CRM client. baseURL is the API root without a
// trailing slash.
func NewClient(baseURL, apiKey string, doer Doer, logger *slog.Logger) *Client {
	return &Client{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger,
	}
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal crm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create crm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call crm: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, "crm")
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode crm response: %w", err)
		}
	}
	return nil
}

// UpsertContact creates or updates a contact keyed by email and returns the
// contact's CRM identifier.
func (c *Client) UpsertContact(ctx context.Context, contact Contact) (string, error) {
	var result struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/contacts/upsert", contact, &result); err != nil {
		return "", fmt.Errorf("upsert contact: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("upsert contact: empty contact id in response")
	}
	return result.ID, nil
}

// CreateNote attaches a timeline note to an existing contact.
func (c *Client) CreateNote(ctx context.Context, contactID, body string) error {
	payload := struct {
		ContactID string `json:"contactId"`
		Body      string `json:"body"`
	}{ContactID: contactID, Body: body}

	if err := c.post(ctx, "/notes", payload, nil); err != nil {
		return fmt.Errorf("create note for contact %s: %w", contactID, err)
	}
	return nil
}
