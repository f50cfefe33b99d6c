package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/scratchcloud/internal/scratchstub/service"
	"github.com/aussiebroadwan/scratchcloud/pkg/httpx"
	"github.com/aussiebroadwan/scratchcloud/pkg/jwtx"
	"github.com/aussiebroadwan/scratchcloud/pkg/slogx"

	_ "github.com/aussiebroadwan/scratchcloud/api/scratchstub" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier      jwtx.Verifier
	buildVersion  string
	startTime     time.Time
	secureCookies bool

	SessionService *service.SessionService
	UserService    *service.UserService
}

func NewRouter(verifier jwtx.Verifier, buildVersion string, secureCookies bool, logger *slog.Logger) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		verifier:      verifier,
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		secureCookies: secureCookies,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Scratch Stub Service API
//	@version		0.1.0
//	@description	In-memory stand-in for the parts of the Scratch website used by the session SDK.
//	@description	Sessions are cookie based with a double-submit CSRF check; extended tokens are HS256 JWTs.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/scratchcloud
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						scratchsessionsid
//	@description				Session cookie set by POST /login/, sent with a matching scratchcsrftoken cookie and X-CSRFToken header.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// resolveSession adapts the session service to the cookie middleware.
func (r *Router) resolveSession(ctx context.Context, sessionID string) (httpx.Principal, bool) {
	sess, err := r.SessionService.Resolve(ctx, sessionID)
	if err != nil {
		return httpx.Principal{}, false
	}
	return httpx.Principal{
		SessionID: sess.TokenHash,
		UserID:    sess.UserID,
		Username:  sess.Username,
	}, true
}

func (r *Router) cookieAuth() httpx.Middleware {
	return httpx.CookieAuthMiddleware(httpx.CookieAuthConfig{
		SessionCookie: CookieSession,
		CSRFCookie:    CookieCSRF,
		CSRFHeader:    HeaderCSRF,
	}, r.resolveSession)
}

// sessionRateLimit keys on client IP plus session cookie.
func sessionRateLimit() httpx.Middleware {
	return httpx.RateLimitMiddleware(httpx.SessionLimit,
		httpx.CompositeKeyExtractor("|", httpx.IPKeyExtractor, httpx.CookieKeyExtractor(CookieSession)),
	)
}

func (r *Router) registerSession() {
	// POST /login/ - strict rate limit by IP (password guessing)
	r.Mux.Handle("POST /login/",
		httpx.Chain(&LoginHandler{SessionService: r.SessionService, SecureCookies: r.secureCookies},
			httpx.RateLimitByIP(httpx.LoginLimit),
		),
	)

	r.Mux.Handle("POST /session/",
		httpx.Chain(&SessionHandler{SessionService: r.SessionService},
			sessionRateLimit(),
			r.cookieAuth(),
		),
	)

	// The extended token is optional on logout but must match when sent
	r.Mux.Handle("POST /accounts/logout/",
		httpx.Chain(&LogoutHandler{SessionService: r.SessionService},
			sessionRateLimit(),
			r.cookieAuth(),
			httpx.XTokenMiddleware(r.verifier, HeaderXToken, false),
		),
	)
}

func (r *Router) registerUsers() {
	r.Mux.Handle("GET /users/{username}",
		httpx.Chain(&ProfileHandler{UserService: r.UserService},
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("GET /site-api/projects/{filter}/",
		httpx.Chain(&ProjectsHandler{UserService: r.UserService},
			sessionRateLimit(),
			r.cookieAuth(),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
