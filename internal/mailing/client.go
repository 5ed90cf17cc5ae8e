package mailing

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
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

// Client upserts subscribers into a mailing-list provider. Members are
// addressed by the lowercase MD5 of their email, so the same call serves
// both subscribe and re-subscribe.
type Client struct {
	http    Doer
	baseURL string
	apiKey  string
	listID  string
	logger  *slog.Logger
}

// NewClient creates a mailing-list client for one audience list.
func NewClient(baseURL, apiKey, listID string, doer Doer, logger *slog.Logger) *Client {
	return &Client{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		listID:  listID,
		logger:  logger,
	}
}

// memberHash is the provider's member key: lowercase MD5 of the lowercase
// email address.
func memberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

// Subscribe upserts a list member with subscribed status.
func (c *Client) Subscribe(ctx context.Context, email, firstName, lastName string) error {
	payload := struct {
		EmailAddress string            `json:"email_address"`
		Status       string            `json:"status_if_new"`
		MergeFields  map[string]string `json:"merge_fields,omitempty"`
	}{
		EmailAddress: email,
		Status:       "subscribed",
	}
	if firstName != "" || lastName != "" {
		payload.MergeFields = map[string]string{}
		if firstName != "" {
			payload.MergeFields["FNAME"] = firstName
		}
		if lastName != "" {
			payload.MergeFields["LNAME"] = lastName
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal subscriber: %w", err)
	}

	url := fmt.Sprintf("%s/lists/%s/members/%s", c.baseURL, c.listID, memberHash(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create subscribe request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call mailing list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, "mailing-list")
	}
	return nil
}
