/*
Package scratchsdk provides a client SDK for logging in to Scratch and keeping
the resulting credentials usable.

# Overview

Scratch authenticates in two layers. A password login hands out a session
cookie and a CSRF token; presenting those to the session endpoint returns an
extended token (the "xtoken") together with the user's identity. Most
authenticated calls need all three.

The package is organized around two types:

  - Client: holds the service URLs and HTTP settings, performs the raw
    exchanges and creates sessions
  - Session: owns one user's credential chain, its derived headers and the
    state of the extended token acquisition

Creating a logged in session:

	client := scratchsdk.NewClient("", "")

	session, err := client.Login(ctx, "griffpatch", password)
	if err != nil {
		// session may still be non-nil and Degraded, see below
	}

	fmt.Println(session.Identity().ID)

# Acquisition and Waiting

SessionLogin stores the cookie and starts fetching the extended token in the
background, then returns. The acquisition moves from Idle to Pending and ends
in Complete or Failed. Wait blocks until then, bounded by a timeout:

	if err := session.SessionLogin(ctx, cachedCookie, "griffpatch", csrf); err != nil {
		return err
	}
	switch err := session.Wait(ctx, 5*time.Second); {
	case errors.Is(err, scratchsdk.ErrAcquisitionTimeout):
		// still pending; the fetch keeps running and may complete later
	case errors.Is(err, scratchsdk.ErrAcquisitionFailed):
		// session is Degraded; session.LastError() has the cause
	}

Wait does not poll: every acquisition transition wakes all waiters. A wait
that times out does not cancel the fetch. Login is SessionLogin followed by
Wait with Client.LoginWaitTimeout.

# Lifecycle

A Session is in one of these states:

  - Unauthenticated: new, or after Reset
  - Authenticating: cookie held, extended token pending
  - Authenticated: extended token and identity known
  - Degraded: cookie held, extended token fetch failed; Reacquire retries
  - LoggedOutKeepData: after Logout(ctx, true); identity stays readable

Logout always clears the local credentials, whether or not the service
confirmed it. Reset returns the session to its initial state and can be
called any number of times. A session can be logged in again after either.

# Headers

Every session derives its own request headers from its credentials and
rebuilds them on each credential change:

	Cookie: scratchsessionsid="<cookie>";scratchcsrftoken=<csrf>;scratchlanguage=en;
	X-CSRFToken: <csrf>
	X-Token: <xtoken>

Calls that need a session fail with ErrNotAuthenticated, without sending a
request, once the cookie has been cleared.

# Errors

Failures are *SessionError values whose Kind is one of ErrCredentialRejected,
ErrNetworkFailure, ErrMalformedResponse, ErrAcquisitionTimeout,
ErrAcquisitionFailed or ErrNotAuthenticated, matched with errors.Is.

# Thread Safety

Client and Session are safe for concurrent use. Sessions never share state
with one another.
*/
package scratchsdk
