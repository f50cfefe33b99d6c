package scratchsdk

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCookieHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		creds Credentials
		want  string
	}{
		{"empty", Credentials{}, ""},
		{"csrf only", Credentials{CSRFToken: "a"}, "scratchcsrftoken=a;scratchlanguage=en;"},
		{
			"session and csrf",
			Credentials{SessionCookie: `"abc:def"`, CSRFToken: "tok"},
			`scratchsessionsid="abc:def";scratchcsrftoken=tok;scratchlanguage=en;`,
		},
		{
			"xtoken is not a cookie",
			Credentials{SessionCookie: "s", CSRFToken: "c", XToken: "x"},
			"scratchsessionsid=s;scratchcsrftoken=c;scratchlanguage=en;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.creds.CookieHeader())
		})
	}
}

func TestHeaders(t *testing.T) {
	t.Parallel()

	const ua, referer = "test-agent", "https://scratch.mit.edu"

	t.Run("unauthenticated", func(t *testing.T) {
		h := Credentials{CSRFToken: "a"}.Headers(ua, referer)
		require.Equal(t, ua, h.Get("User-Agent"))
		require.Equal(t, "XMLHttpRequest", h.Get("X-Requested-With"))
		require.Equal(t, referer, h.Get("Referer"))
		require.Equal(t, "a", h.Get("X-CSRFToken"))
		require.Equal(t, "scratchcsrftoken=a;scratchlanguage=en;", h.Get("Cookie"))
		require.Empty(t, h.Get("X-Token"))
	})

	t.Run("authenticated without xtoken", func(t *testing.T) {
		h := Credentials{SessionCookie: "s", CSRFToken: "c"}.Headers(ua, referer)
		require.Equal(t, "scratchsessionsid=s;scratchcsrftoken=c;scratchlanguage=en;", h.Get("Cookie"))
		require.Empty(t, h.Get("X-Token"))
	})

	t.Run("authenticated with xtoken", func(t *testing.T) {
		h := Credentials{SessionCookie: "s", CSRFToken: "c", XToken: "x"}.Headers(ua, referer)
		require.Equal(t, "x", h.Get("X-Token"))
	})

	t.Run("xtoken without session is dropped", func(t *testing.T) {
		h := Credentials{XToken: "x"}.Headers(ua, referer)
		require.Empty(t, h.Get("X-Token"))
		require.Empty(t, h.Values("Cookie"))
	})

	t.Run("deterministic and unshared", func(t *testing.T) {
		c := Credentials{SessionCookie: "s", CSRFToken: "c", XToken: "x"}
		a, b := c.Headers(ua, referer), c.Headers(ua, referer)
		require.Equal(t, a, b)

		a.Del("Cookie")
		require.NotEmpty(t, b.Get("Cookie"))
	})
}

func TestWithoutSession(t *testing.T) {
	t.Parallel()

	c := Credentials{SessionCookie: "s", CSRFToken: "c", XToken: "x"}
	cleared := c.WithoutSession()
	require.Equal(t, Credentials{CSRFToken: "c"}, cleared)
	require.False(t, cleared.HasSession())

	// clearing again is a no-op
	require.Equal(t, cleared, cleared.WithoutSession())
	require.Equal(t, Credentials{}, Credentials{}.WithoutSession())
}

func TestParseLoginCookies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		setCookies  []string
		wantSession string
		wantCSRF    string
	}{
		{
			name: "quoted session cookie",
			setCookies: []string{
				"scratchcsrftoken=tok123; expires=Thu, 01 Oct 2026 00:00:00 GMT; Path=/",
				`scratchsessionsid=".eJxVj:1uM4AD:Zo3"; httponly; Path=/`,
			},
			wantSession: `".eJxVj:1uM4AD:Zo3"`,
			wantCSRF:    "tok123",
		},
		{
			name:        "bare session cookie",
			setCookies:  []string{"scratchsessionsid=plainvalue; Path=/"},
			wantSession: "plainvalue",
		},
		{
			name:       "csrf only",
			setCookies: []string{"scratchcsrftoken=tok; Path=/"},
			wantCSRF:   "tok",
		},
		{
			name:       "unrelated cookies",
			setCookies: []string{"scratchlanguage=en; Path=/"},
		},
		{
			name: "no cookies",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for _, c := range tt.setCookies {
				h.Add("Set-Cookie", c)
			}

			session, csrf := parseLoginCookies(h)
			require.Equal(t, tt.wantSession, session)
			require.Equal(t, tt.wantCSRF, csrf)
		})
	}
}
