package scratchsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody caps how much of an unexpected response is kept for errors.
const maxErrorBody = 512

// doRequest performs an HTTP request with the client's HTTP client, waiting
// on the limiter first when one is configured. headers is used as-is and
// must not be shared with other requests.
func (c *Client) doRequest(
	ctx context.Context,
	method, rawURL string,
	body io.Reader,
	headers http.Header,
) (*http.Response, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if headers != nil {
		req.Header = headers
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

// doAuthRequest sends a body-less request with the session's cached
// headers. It fails fast with ErrNotAuthenticated when the session holds no
// cookie.
func (s *Session) doAuthRequest(ctx context.Context, op, method, rawURL string) (*http.Response, error) {
	s.mu.RLock()
	hasSession := s.creds.HasSession()
	headers := s.headers.Clone()
	s.mu.RUnlock()

	if !hasSession {
		return nil, newSessionError(op, ErrNotAuthenticated, nil)
	}

	resp, err := s.client.doRequest(ctx, method, rawURL, nil, headers)
	if err != nil {
		return nil, newSessionError(op, ErrNetworkFailure, err)
	}
	return resp, nil
}

// decodeJSON decodes a JSON response into target. A status other than
// expectedStatus yields a *StatusError carrying the start of the body.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return statusError(resp.StatusCode, bodyBytes)
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// drain discards the rest of the body so the connection can be reused.
func drain(resp *http.Response) []byte {
	defer resp.Body.Close()
	head, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_, _ = io.Copy(io.Discard, resp.Body)
	return head
}

func statusError(code int, body []byte) *StatusError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &StatusError{StatusCode: code, Body: string(body)}
}
