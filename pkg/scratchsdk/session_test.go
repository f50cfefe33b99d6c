package scratchsdk

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLogin_ValidCredentials(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)
	fake.holdSessions()

	s := fake.client.NewSession()
	require.Equal(t, AcquisitionIdle, s.AcquisitionState())

	done := make(chan error, 1)
	go func() { done <- s.Login(t.Context(), testUsername, testPassword) }()

	fake.awaitSessionRequest(t)
	require.Equal(t, AcquisitionPending, s.AcquisitionState())
	require.Equal(t, StateAuthenticating, s.State())
	require.Empty(t, s.XToken())
	require.Zero(t, s.Identity().ID)

	fake.release()
	require.NoError(t, <-done)

	require.Equal(t, AcquisitionComplete, s.AcquisitionState())
	require.Equal(t, StateAuthenticated, s.State())
	require.Equal(t, testXToken, s.XToken())
	require.Nil(t, s.LastError())

	id := s.Identity()
	require.Equal(t, int64(1882674), id.ID)
	require.Equal(t, testUsername, id.Username)
	require.Equal(t, "2014-02-27T14:18:13", id.DateJoined)
	require.Equal(t, "cdn2.scratch.mit.edu/get_image/user/1882674_32x32.png", id.ThumbnailURL)
	require.False(t, id.Banned)
	require.Equal(t, Roles{VerifiedMember: true}, id.Roles)
	require.JSONEq(t, `{"offenses": [], "showWarning": false}`, string(id.MuteStatus))

	creds := s.Credentials()
	require.Equal(t, testCookie, creds.SessionCookie)
	require.Equal(t, testCSRF, creds.CSRFToken)

	h := s.Headers()
	require.Equal(t, testXToken, h.Get("X-Token"))
	require.Equal(t, "scratchsessionsid="+testCookie+";scratchcsrftoken="+testCSRF+";scratchlanguage=en;", h.Get("Cookie"))
}

func TestClientLogin(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)

	s, err := fake.client.Login(t.Context(), testUsername, testPassword)
	require.NoError(t, err)
	require.Equal(t, StateAuthenticated, s.State())

	s, err = fake.client.Login(t.Context(), testUsername, "nope")
	require.ErrorIs(t, err, ErrCredentialRejected)
	require.Nil(t, s)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)
	s := fake.client.NewSession()

	err := s.Login(t.Context(), testUsername, "wrong")
	require.ErrorIs(t, err, ErrCredentialRejected)

	var serr *SessionError
	require.True(t, errors.As(err, &serr))
	require.Equal(t, "password login", serr.Op)

	require.Empty(t, s.Credentials().SessionCookie)
	require.Equal(t, StateUnauthenticated, s.State())
	require.Equal(t, freshState(fake.client), s.Snapshot())

	sessionHits, _, _ := fake.stats()
	require.Zero(t, sessionHits)
}

func TestSessionLogin_TokenEndpointTimesOut(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)
	fake.client.AcquireTimeout = 100 * time.Millisecond
	fake.holdSessions()

	s := fake.client.NewSession()
	require.NoError(t, s.SessionLogin(t.Context(), testCookie, testUsername, testCSRF))

	err := s.Wait(t.Context(), 5*time.Second)
	require.ErrorIs(t, err, ErrAcquisitionFailed)
	require.ErrorIs(t, err, ErrNetworkFailure)

	require.Equal(t, StateDegraded, s.State())
	require.Equal(t, AcquisitionFailed, s.AcquisitionState())
	require.Empty(t, s.XToken())
	require.Empty(t, s.Headers().Get("X-Token"))
	require.ErrorIs(t, s.LastError(), ErrNetworkFailure)

	// cookie-only calls still work while degraded
	items, err := s.GetMyStuffProjects(t.Context(), MyStuffQuery{Filter: "all"})
	require.NoError(t, err)
	require.Len(t, items, 2)

	// a manual retry can still complete
	fake.release()
	require.NoError(t, s.Reacquire(t.Context()))
	require.Equal(t, StateAuthenticated, s.State())
	require.Equal(t, testXToken, s.XToken())
	require.Nil(t, s.LastError())
}

func TestSessionLogin_MalformedResponse(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)
	fake.set(func(f *fakeService) { f.sessionBody = `{"user":{"id":1,"username":"x"}}` })

	s := fake.client.NewSession()
	require.NoError(t, s.SessionLogin(t.Context(), testCookie, testUsername, testCSRF))

	err := s.Wait(t.Context(), 5*time.Second)
	require.ErrorIs(t, err, ErrAcquisitionFailed)
	require.ErrorIs(t, err, ErrMalformedResponse)
	require.Contains(t, err.Error(), "user.token")
	require.Equal(t, StateDegraded, s.State())
	require.Zero(t, s.Identity().ID)
}

func TestSessionLogin_Validation(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)
	s := fake.client.NewSession()

	err := s.SessionLogin(t.Context(), "  ", testUsername, testCSRF)
	require.ErrorIs(t, err, ErrCredentialRejected)
	require.Equal(t, freshState(fake.client), s.Snapshot())

	// no CSRF token given: the client default is used, and the stub rejects it
	require.NoError(t, s.SessionLogin(t.Context(), testCookie, testUsername, ""))
	require.Equal(t, DefaultCSRFToken, s.Credentials().CSRFToken)
	require.Equal(t, DefaultCSRFToken, s.Headers().Get("X-CSRFToken"))
	require.ErrorIs(t, s.Wait(t.Context(), 5*time.Second), ErrMalformedResponse)
}

func TestSessionLogin_ReplacesPreviousLogin(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)
	s := fake.client.NewSession()
	require.NoError(t, s.Login(t.Context(), testUsername, testPassword))

	fake.holdSessions()
	require.NoError(t, s.SessionLogin(t.Context(), `"other:cookie"`, "someone", "csrf2"))

	snap := s.Snapshot()
	require.Equal(t, AcquisitionPending, snap.Acquisition)
	require.Empty(t, snap.Credentials.XToken)
	require.Zero(t, snap.Identity)
	require.Equal(t, "someone", snap.Username)
	require.Equal(t, `scratchsessionsid="other:cookie";scratchcsrftoken=csrf2;scratchlanguage=en;`, snap.Headers.Get("Cookie"))
	require.Empty(t, snap.Headers.Get("X-Token"))
}

func TestLogout_ResetsSession(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)
	s := fake.client.NewSession()
	require.NoError(t, s.Login(t.Context(), testUsername, testPassword))

	require.True(t, s.Logout(t.Context(), false))
	require.Equal(t, freshState(fake.client), s.Snapshot())

	fake.mu.Lock()
	sent := fake.logoutHeaders
	fake.mu.Unlock()
	require.Equal(t, testXToken, sent.Get("X-Token"))
	require.Equal(t, testCSRF, sent.Get("X-CSRFToken"))
	require.Contains(t, sent.Get("Cookie"), testCookie)

	// stale headers are never sent after logout
	_, _, projectHits := fake.stats()
	_, err := s.GetMyStuffProjects(t.Context(), MyStuffQuery{})
	require.ErrorIs(t, err, ErrNotAuthenticated)
	_, _, after := fake.stats()
	require.Equal(t, projectHits, after)

	// and the session can be logged in again
	require.NoError(t, s.Login(t.Context(), testUsername, testPassword))
	require.Equal(t, StateAuthenticated, s.State())
}

func TestLogout_KeepIdentity(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)
	s := fake.client.NewSession()
	require.NoError(t, s.Login(t.Context(), testUsername, testPassword))
	identity := s.Identity()

	require.True(t, s.Logout(t.Context(), true))

	snap := s.Snapshot()
	require.Equal(t, identity, snap.Identity)
	require.Equal(t, testUsername, s.Username())
	require.Equal(t, Credentials{}, snap.Credentials)
	require.Equal(t, StateLoggedOutKeepData, snap.State)
	require.Equal(t, AcquisitionIdle, snap.Acquisition)
	require.Empty(t, snap.Headers.Get("Cookie"))
	require.Empty(t, snap.Headers.Get("X-Token"))

	_, err := s.GetMyStuffProjects(t.Context(), MyStuffQuery{})
	require.ErrorIs(t, err, ErrNotAuthenticated)
	require.ErrorIs(t, s.Reacquire(t.Context()), ErrNotAuthenticated)

	// a second logout has nothing to send
	require.False(t, s.Logout(t.Context(), true))
	_, logoutHits, _ := fake.stats()
	require.Equal(t, 1, logoutHits)
}

func TestLogout_NotConfirmed(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)
	fake.set(func(f *fakeService) { f.logoutStatus = http.StatusForbidden })

	s := fake.client.NewSession()
	require.NoError(t, s.Login(t.Context(), testUsername, testPassword))

	require.False(t, s.Logout(t.Context(), false))
	require.Equal(t, freshState(fake.client), s.Snapshot())
}

func TestLogout_NetworkFailure(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)
	s := fake.client.NewSession()
	require.NoError(t, s.Login(t.Context(), testUsername, testPassword))

	fake.srv.Close()
	require.False(t, s.Logout(t.Context(), false))
	require.Equal(t, freshState(fake.client), s.Snapshot())
}

func TestLogout_Unauthenticated(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)
	s := fake.client.NewSession()

	require.False(t, s.Logout(t.Context(), false))
	require.False(t, s.Logout(t.Context(), true))
	require.Equal(t, freshState(fake.client), s.Snapshot())

	_, logoutHits, _ := fake.stats()
	require.Zero(t, logoutHits)
}

func TestReset(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)
	fresh := freshState(fake.client)

	t.Run("fresh session", func(t *testing.T) {
		s := fake.client.NewSession()
		s.Reset()
		require.Equal(t, fresh, s.Snapshot())
	})

	t.Run("idempotent", func(t *testing.T) {
		s := fake.client.NewSession()
		require.NoError(t, s.Login(t.Context(), testUsername, testPassword))

		s.Reset()
		once := s.Snapshot()
		s.Reset()
		require.Equal(t, once, s.Snapshot())
		require.Equal(t, fresh, once)
	})

	t.Run("degraded session", func(t *testing.T) {
		s := fake.client.NewSession()
		require.NoError(t, s.SessionLogin(t.Context(), `"bogus"`, "x", ""))
		require.Error(t, s.Wait(t.Context(), 5*time.Second))
		require.Equal(t, StateDegraded, s.State())

		s.Reset()
		require.Equal(t, fresh, s.Snapshot())
	})
}

func TestReset_DiscardsInFlightAcquisition(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)
	fake.holdSessions()

	s := fake.client.NewSession()
	require.NoError(t, s.SessionLogin(t.Context(), testCookie, testUsername, testCSRF))
	fake.awaitSessionRequest(t)

	s.Reset()
	fake.release()

	// the abandoned fetch must not resurrect the session
	err := s.Wait(t.Context(), 200*time.Millisecond)
	require.ErrorIs(t, err, ErrAcquisitionTimeout)
	require.Equal(t, freshState(fake.client), s.Snapshot())
}

func TestLogin_AbandonedByLogoutReturnsEarly(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)
	fake.holdSessions()
	fake.client.LoginWaitTimeout = 10 * time.Second

	s := fake.client.NewSession()
	done := make(chan error, 1)
	go func() {
		done <- s.Login(t.Context(), testUsername, testPassword)
	}()
	fake.awaitSessionRequest(t)

	s.Logout(t.Context(), false)

	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrNotAuthenticated)
	case <-time.After(time.Second):
		t.Fatal("Login still waiting after Logout")
	}
	require.Equal(t, StateUnauthenticated, s.State())
}

func TestWait_AbandonedByReset(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)
	fake.holdSessions()

	s := fake.client.NewSession()
	require.NoError(t, s.SessionLogin(t.Context(), testCookie, testUsername, testCSRF))
	fake.awaitSessionRequest(t)
	require.Equal(t, AcquisitionPending, s.AcquisitionState())

	done := make(chan error, 1)
	go func() {
		done <- s.Wait(t.Context(), 10*time.Second)
	}()

	// give the waiter time to observe the pending fetch
	time.Sleep(50 * time.Millisecond)
	s.Reset()

	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrNotAuthenticated)
	case <-time.After(time.Second):
		t.Fatal("Wait still blocked after Reset")
	}
}

func TestLogin_FailedPasswordKeepsExistingSession(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)
	s := fake.client.NewSession()
	require.NoError(t, s.Login(t.Context(), testUsername, testPassword))
	before := s.Snapshot()

	err := s.Login(t.Context(), testUsername, "wrong")
	require.ErrorIs(t, err, ErrCredentialRejected)

	require.Equal(t, StateAuthenticated, s.State())
	require.Equal(t, before, s.Snapshot())
	require.Equal(t, testXToken, s.XToken())
}

func TestSessions_DoNotShareHeaders(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)

	a := fake.client.NewSession()
	b := fake.client.NewSession()
	require.NoError(t, a.Login(t.Context(), testUsername, testPassword))

	require.NotEmpty(t, a.Headers().Get("Cookie"))
	require.Empty(t, b.Headers().Get("X-Token"))
	require.Equal(t, freshState(fake.client), b.Snapshot())

	// mutating a returned copy does not reach the session
	h := a.Headers()
	h.Set("X-Token", "tampered")
	require.Equal(t, testXToken, a.Headers().Get("X-Token"))
}

func TestGetMyStuffProjects(t *testing.T) {
	t.Parallel()

	fake := newFakeService(t)
	s := fake.client.NewSession()
	require.NoError(t, s.Login(t.Context(), testUsername, testPassword))

	items, err := s.GetMyStuffProjects(t.Context(), MyStuffQuery{Page: 1, SortBy: "love_count", Filter: "shared", Descending: true})
	require.NoError(t, err)
	require.Len(t, items, 2)

	var first struct {
		PK int64 `json:"pk"`
	}
	require.NoError(t, json.Unmarshal(items[0], &first))
	require.Equal(t, int64(10128407), first.PK)

	fake.mu.Lock()
	q, filter := fake.projectsQuery, fake.projectsFilter
	fake.mu.Unlock()
	require.Equal(t, "shared", filter)
	require.Equal(t, "1", q.Get("page"))
	require.Equal(t, "love_count", q.Get("descsort"))
	require.Equal(t, "", q.Get("ascsort"))

	_, err = s.GetMyStuffProjects(t.Context(), MyStuffQuery{SortBy: "title"})
	require.NoError(t, err)

	fake.mu.Lock()
	q, filter = fake.projectsQuery, fake.projectsFilter
	fake.mu.Unlock()
	require.Equal(t, "all", filter)
	require.Equal(t, "1", q.Get("page"))
	require.Equal(t, "title", q.Get("ascsort"))
}

func TestStateStrings(t *testing.T) {
	require.Equal(t, "logged_out_keep_data", StateLoggedOutKeepData.String())
	require.Equal(t, "degraded", StateDegraded.String())
	require.Equal(t, "pending", AcquisitionPending.String())
	require.Equal(t, "unknown", AcquisitionState(99).String())
}
