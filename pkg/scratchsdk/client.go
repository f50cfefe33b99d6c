package scratchsdk

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/scratchcloud/pkg/slogx"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the site host serving login, session and logout.
	DefaultBaseURL = "https://scratch.mit.edu"

	// DefaultAPIURL is the public API host serving profiles.
	DefaultAPIURL = "https://api.scratch.mit.edu"

	// DefaultUserAgent is sent on every request; the service rejects
	// requests that do not look like they come from a browser.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/75.0.3770.142 Safari/537.36"

	// DefaultCSRFToken is used for the login call and whenever SessionLogin
	// is given no token. The service only checks that cookie and header agree.
	DefaultCSRFToken = "a"

	// DefaultLoginWaitTimeout bounds how long Login waits for the extended token.
	DefaultLoginWaitTimeout = 10 * time.Second

	// DefaultAcquireTimeout bounds a single background extended token fetch.
	DefaultAcquireTimeout = 30 * time.Second
)

// Client talks to the service. It holds no credentials itself; those live
// in the Sessions it creates, so one Client can back many Sessions.
type Client struct {
	BaseURL    string
	APIURL     string
	HTTPClient *http.Client

	// UserAgent overrides DefaultUserAgent when set.
	UserAgent string

	// CSRFToken overrides DefaultCSRFToken when set.
	CSRFToken string

	// LoginWaitTimeout is how long Login and Reacquire wait for the
	// extended token. Zero means DefaultLoginWaitTimeout.
	LoginWaitTimeout time.Duration

	// AcquireTimeout bounds each background fetch of the extended token.
	// Zero means DefaultAcquireTimeout.
	AcquireTimeout time.Duration

	// Limiter, when set, throttles every outgoing request. Useful for bulk
	// scripts since the service rate limits aggressively.
	Limiter *rate.Limiter

	// Logger receives diagnostics for failures nobody is waiting on.
	// Nil means slog.Default().
	Logger *slog.Logger
}

// NewClient creates a client for the given site and API hosts. Empty values
// fall back to DefaultBaseURL and DefaultAPIURL.
func NewClient(baseURL, apiURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIURL:  strings.TrimSuffix(apiURL, "/"),
		HTTPClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: slogx.NewTransport(nil),
		},
	}
}

// NewSession returns an unauthenticated session bound to c.
func (c *Client) NewSession() *Session {
	return newSession(c)
}

// Login creates a session and logs it in with a username and password,
// waiting for the extended token. On a wait failure the session is still
// returned alongside the error: it holds a valid session cookie and can be
// retried with Reacquire.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	s := c.NewSession()
	if err := s.Login(ctx, username, password); err != nil {
		if s.Credentials().HasSession() {
			return s, err
		}
		return nil, err
	}
	return s, nil
}

func (c *Client) userAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return DefaultUserAgent
}

func (c *Client) csrfToken() string {
	if c.CSRFToken != "" {
		return c.CSRFToken
	}
	return DefaultCSRFToken
}

func (c *Client) loginWaitTimeout() time.Duration {
	if c.LoginWaitTimeout > 0 {
		return c.LoginWaitTimeout
	}
	return DefaultLoginWaitTimeout
}

func (c *Client) acquireTimeout() time.Duration {
	if c.AcquireTimeout > 0 {
		return c.AcquireTimeout
	}
	return DefaultAcquireTimeout
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// headers derives request headers for creds using this client's profile.
func (c *Client) headers(creds Credentials) http.Header {
	return creds.Headers(c.userAgent(), c.BaseURL)
}
