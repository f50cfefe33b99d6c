package scratchsdk

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	testUsername = "griffpatch"
	testPassword = "hunter2"
	testCookie   = `".eJxVjMsKwjAQRf9l1hYmTZMmXboX_IcSk4kNtZ0QFRTx34241u_sacsmmLXkPP-pbRTeKu:1uM4AD:Zo3yQ"`
	testCSRF     = "Xq2FjZ8bE0bkDcbh"
	testXToken   = "7c4e2a4b1b9d4f6e8a3f:xtok"
)

const testSessionBody = `{
	"user": {
		"id": 1882674,
		"banned": false,
		"username": "griffpatch",
		"token": "` + testXToken + `",
		"thumbnailUrl": "//cdn2.scratch.mit.edu/get_image/user/1882674_32x32.png",
		"dateJoined": "2014-02-27T14:18:13",
		"email": ""
	},
	"permissions": {
		"admin": false,
		"scratcher": true,
		"new_scratcher": false,
		"social": true,
		"educator": false,
		"student": false,
		"mute_status": {"offenses": [], "showWarning": false}
	},
	"flags": {}
}`

// fakeService imitates the parts of the site the SDK talks to.
type fakeService struct {
	srv    *httptest.Server
	client *Client

	mu            sync.Mutex
	sessionBody   string
	sessionStatus int
	logoutStatus  int
	hold          chan struct{} // /session/ blocks while this is open
	holdOnce      *sync.Once
	started       chan struct{}

	sessionHits    int
	logoutHits     int
	projectHits    int
	logoutHeaders  http.Header
	projectsQuery  url.Values
	projectsFilter string
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()

	f := &fakeService{
		sessionBody:   testSessionBody,
		sessionStatus: http.StatusOK,
		logoutStatus:  http.StatusOK,
		started:       make(chan struct{}, 16),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login/", f.handleLogin)
	mux.HandleFunc("POST /session/", f.handleSession)
	mux.HandleFunc("POST /accounts/logout/", f.handleLogout)
	mux.HandleFunc("GET /users/{username}", f.handleProfile)
	mux.HandleFunc("GET /site-api/projects/{filter}/", f.handleProjects)

	f.srv = httptest.NewServer(mux)
	t.Cleanup(func() {
		f.release()
		f.srv.Close()
	})

	f.client = NewClient(f.srv.URL, f.srv.URL)
	f.client.LoginWaitTimeout = 5 * time.Second
	return f
}

// holdSessions makes /session/ block until release is called or the
// request is cancelled.
func (f *fakeService) holdSessions() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hold = make(chan struct{})
	f.holdOnce = &sync.Once{}
}

func (f *fakeService) release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hold != nil {
		hold, once := f.hold, f.holdOnce
		once.Do(func() { close(hold) })
		f.hold = nil
	}
}

// awaitSessionRequest blocks until /session/ has been hit.
func (f *fakeService) awaitSessionRequest(t *testing.T) {
	t.Helper()
	select {
	case <-f.started:
	case <-time.After(5 * time.Second):
		t.Fatal("session endpoint was never called")
	}
}

func (f *fakeService) set(fn func(f *fakeService)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeService) stats() (sessionHits, logoutHits, projectHits int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessionHits, f.logoutHits, f.projectHits
}

func authenticated(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Cookie"), cookieSession+"="+testCookie+";") &&
		r.Header.Get(headerCSRFToken) == testCSRF
}

func (f *fakeService) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if body.Username != testUsername || body.Password != testPassword {
		_, _ = w.Write([]byte(`[{"username":"` + body.Username + `","num_tries":1,"success":0,"msg":"Incorrect username or password."}]`))
		return
	}

	w.Header().Add("Set-Cookie", cookieCSRF+"="+testCSRF+"; expires=Thu, 01 Oct 2026 00:00:00 GMT; Max-Age=31449600; Path=/; SameSite=Lax")
	w.Header().Add("Set-Cookie", cookieSession+"="+testCookie+"; expires=Thu, 02 Oct 2025 00:00:00 GMT; httponly; Max-Age=1209600; Path=/; SameSite=Lax")
	_, _ = w.Write([]byte(`[{"username":"griffpatch","token":"","num_tries":0,"success":1,"msg":"","messages":[],"id":1882674}]`))
}

func (f *fakeService) handleSession(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.sessionHits++
	hold := f.hold
	body, status := f.sessionBody, f.sessionStatus
	f.mu.Unlock()

	select {
	case f.started <- struct{}{}:
	default:
	}

	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if !authenticated(r) {
		_, _ = w.Write([]byte(`{}`))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (f *fakeService) handleLogout(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.logoutHits++
	f.logoutHeaders = r.Header.Clone()
	status := f.logoutStatus
	f.mu.Unlock()

	w.WriteHeader(status)
}

func (f *fakeService) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("username") != testUsername {
		http.Error(w, `{"code":"NotFound","message":""}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"id":1882674,"username":"griffpatch","scratchteam":false,
		"history":{"joined":"2014-02-27T14:18:13.000Z"},
		"profile":{"id":1434597,"status":"Making games","bio":"Hi!","country":"United Kingdom"}}`))
}

func (f *fakeService) handleProjects(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.projectHits++
	f.projectsQuery = r.URL.Query()
	f.projectsFilter = r.PathValue("filter")
	f.mu.Unlock()

	if !authenticated(r) {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`[{"pk":10128407,"fields":{"title":"Paper Minecraft","love_count":9001}},{"pk":2,"fields":{"title":"b"}}]`))
}

// freshState is what a newly constructed session reports.
func freshState(c *Client) SessionState {
	return c.NewSession().Snapshot()
}
