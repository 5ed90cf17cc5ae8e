package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/michaelpizzardello/outsider-site-sub000/pkg/errors"
)

// upstreamErrorBody covers the common JSON error shapes returned by the
// REST collaborators (CRM, mailing list, transactional email). Each provider
// uses a slightly different envelope; all carry a human-readable message in
// one of these fields.
type upstreamErrorBody struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// ParseResponseError reads the body of a non-2xx HTTP response from a named
// upstream and translates it into an appropriate AppError. Structured error
// bodies keep their message; anything else falls back to the raw body. The
// response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, component string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", component, resp.StatusCode, err)
	}

	message := string(bodyBytes)
	var parsed upstreamErrorBody
	if json.Unmarshal(bodyBytes, &parsed) == nil {
		switch {
		case parsed.Error != nil && parsed.Error.Message != "":
			message = parsed.Error.Message
		case parsed.Message != "":
			message = parsed.Message
		case parsed.Detail != "":
			message = parsed.Detail
		}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFound(component, message)
	case resp.StatusCode == http.StatusBadRequest ||
		resp.StatusCode == http.StatusUnprocessableEntity:
		return apperrors.InvalidInput(fmt.Sprintf("%s: %s", component, message))
	case resp.StatusCode == http.StatusConflict:
		return apperrors.Conflict(fmt.Sprintf("%s: %s", component, message))
	case resp.StatusCode >= 500:
		return apperrors.Upstream(component, fmt.Sprintf("status %d: %s", resp.StatusCode, message))
	default:
		return &apperrors.AppError{
			Code:    "UPSTREAM_ERROR",
			Message: fmt.Sprintf("%s: %s", component, message),
			Status:  resp.StatusCode,
			Err:     apperrors.ErrUpstream,
		}
	}
}
