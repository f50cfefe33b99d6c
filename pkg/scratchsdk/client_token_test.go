package scratchsdk

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestPasswordLogin(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)

	creds, err := fake.client.PasswordLogin(t.Context(), testUsername, testPassword)
	require.NoError(t, err)
	require.Equal(t, Credentials{SessionCookie: testCookie, CSRFToken: testCSRF}, creds)
}

func TestPasswordLogin_SendsUnauthenticatedHeaders(t *testing.T) {
	t.Parallel()

	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		// only a session cookie, no CSRF cookie
		w.Header().Add("Set-Cookie", `scratchsessionsid="abc:def"; Path=/`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.URL)
	creds, err := client.PasswordLogin(t.Context(), "u", "p")
	require.NoError(t, err)

	require.Equal(t, `"abc:def"`, creds.SessionCookie)
	require.Equal(t, DefaultCSRFToken, creds.CSRFToken, "request token is reused when none is set")

	require.Equal(t, "application/json", got.Get("Content-Type"))
	require.Equal(t, DefaultCSRFToken, got.Get("X-CSRFToken"))
	require.Equal(t, "scratchcsrftoken=a;scratchlanguage=en;", got.Get("Cookie"))
	require.Equal(t, srv.URL, got.Get("Referer"))
	require.Equal(t, DefaultUserAgent, got.Get("User-Agent"))
}

func TestPasswordLogin_Rejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("blocked"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.URL).PasswordLogin(t.Context(), "u", "p")
	require.ErrorIs(t, err, ErrCredentialRejected)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	require.Equal(t, "blocked", statusErr.Body)
}

func TestPasswordLogin_NetworkFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := NewClient(srv.URL, srv.URL).PasswordLogin(t.Context(), "u", "p")
	require.ErrorIs(t, err, ErrNetworkFailure)
	require.Contains(t, err.Error(), "session error: password login: network failure")
}

func TestFetchExtendedToken_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"empty object", http.StatusOK, `{}`, `"user"`},
		{"missing token", http.StatusOK, `{"user":{"id":1}}`, `"user.token"`},
		{"empty token", http.StatusOK, `{"user":{"id":1,"token":""}}`, `"user.token"`},
		{"missing id", http.StatusOK, `{"user":{"token":"t"}}`, `"user.id"`},
		{"not json", http.StatusOK, `<html>`, "failed to decode response"},
		{"server error", http.StatusInternalServerError, `oops`, "unexpected status 500: oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, srv.URL).FetchExtendedToken(t.Context(), Credentials{SessionCookie: "s", CSRFToken: "c"})
			require.ErrorIs(t, err, ErrMalformedResponse)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFetchExtendedToken_RequiresSession(t *testing.T) {
	t.Parallel()

	_, err := NewClient("http://127.0.0.1:0", "").FetchExtendedToken(t.Context(), Credentials{CSRFToken: "c"})
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestFetchExtendedToken_IgnoresStaleXToken(t *testing.T) {
	t.Parallel()

	var sent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sent = r.Header.Get("X-Token")
		_, _ = w.Write([]byte(`{"user":{"id":5,"token":"new","username":"u"}}`))
	}))
	defer srv.Close()

	info, err := NewClient(srv.URL, srv.URL).FetchExtendedToken(t.Context(), Credentials{SessionCookie: "s", CSRFToken: "c", XToken: "old"})
	require.NoError(t, err)
	require.Empty(t, sent)
	require.Equal(t, "new", info.XToken)
	require.Equal(t, int64(5), info.Identity.ID)
	require.Nil(t, info.Identity.MuteStatus)
}

func TestGetUserProfile(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)

	profile, err := fake.client.GetUserProfile(t.Context(), testUsername)
	require.NoError(t, err)
	require.Equal(t, int64(1882674), profile.ID)
	require.False(t, profile.ScratchTeam)
	require.Equal(t, "Making games", profile.Profile.Status)
	require.Equal(t, "Hi!", profile.Profile.Bio)
	require.Equal(t, "United Kingdom", profile.Profile.Country)

	_, err = fake.client.GetUserProfile(t.Context(), "nobody")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestClientLimiter(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)
	fake.client.Limiter = rate.NewLimiter(rate.Inf, 1)

	_, err := fake.client.GetUserProfile(t.Context(), testUsername)
	require.NoError(t, err)

	// a limiter that can never admit the request fails without sending it
	fake.client.Limiter = rate.NewLimiter(0, 0)
	_, err = fake.client.GetUserProfile(t.Context(), testUsername)
	require.ErrorIs(t, err, ErrNetworkFailure)
	require.Contains(t, err.Error(), "rate limiter")
}
