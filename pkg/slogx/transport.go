package slogx

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/scratchcloud/pkg/idx"
)

// Transport is an http.RoundTripper that tags outgoing requests with an
// X-Request-ID and logs them at debug level with the logger found in the
// request context.
type Transport struct {
	Base http.RoundTripper
}

// NewTransport wraps base, or http.DefaultTransport when base is nil.
func NewTransport(base http.RoundTripper) *Transport {
	return &Transport{Base: base}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	// RoundTrippers must not modify the caller's request
	if req.Header.Get(HeaderRequestID) == "" {
		req = req.Clone(req.Context())
		req.Header.Set(HeaderRequestID, idx.New().String())
	}

	logger := FromContext(req.Context()).With(
		"req_id", req.Header.Get(HeaderRequestID),
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
	)

	start := time.Now()
	resp, err := base.RoundTrip(req)
	if err != nil {
		logger.Debug("http_client_request", "duration_ms", time.Since(start).Milliseconds(), "error", err)
		return nil, err
	}

	logger.Debug("http_client_request", "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
	return resp, nil
}
