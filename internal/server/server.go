// Package server is the HTTP shell over the gallery core: a chi router with
// PIN login, folder/image browsing, thumbnail serving, and raw downloads.
// Every gallery route runs the auth gate first; login and logout are the
// only open endpoints.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nmurali/pixvault/internal/auth"
	"github.com/nmurali/pixvault/internal/gallery"
	"github.com/nmurali/pixvault/internal/logger"
	"github.com/nmurali/pixvault/internal/storage"
)

const sessionCookie = "pixvault_session"

// Page-size bounds for the client-tunable grid density.
const (
	minPerPage = 6
	maxPerPage = 24
)

// Config holds the server tunables.
type Config struct {
	// Bucket is the bucket the gallery serves.
	Bucket string

	// ImagesPerPage is the default page size when the client does not
	// ask for one.
	ImagesPerPage int

	// Clock supplies "now" for gate checks. nil means time.Now.
	Clock func() time.Time
}

// Server wires the gate, the gallery service, and the gateway behind HTTP
// handlers. Sessions are kept server-side; the cookie carries only an
// opaque token.
type Server struct {
	gate     *auth.Gate
	svc      *gallery.Service
	store    storage.Store
	sessions SessionStore
	log      *logger.Logger
	cfg      Config
	clock    func() time.Time
}

// New builds a Server. nil log means a default logger; the session store
// is in-memory.
func New(gate *auth.Gate, svc *gallery.Service, store storage.Store, cfg Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.New(nil)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	if cfg.ImagesPerPage <= 0 {
		cfg.ImagesPerPage = 8
	}
	return &Server{
		gate:     gate,
		svc:      svc,
		store:    store,
		sessions: newMemoryStore(),
		log:      log,
		cfg:      cfg,
		clock:    clock,
	}
}

// Router returns the chi handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Post("/api/login", s.handleLogin)
	r.Post("/api/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/api/browse", s.handleBrowse)
		r.Get("/api/thumb", s.handleThumb)
		r.Get("/api/download", s.handleDownload)
	})

	return r
}

// requestLogger emits one structured event per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.clock()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.HTTPEvent().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", s.clock().Sub(start)).
			Msg("request")
	})
}

// session resolves the request's session record, minting a token when the
// request carries none.
func (s *Server) session(r *http.Request) (string, auth.Session) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return newToken(), auth.Session{}
	}
	sess, ok := s.sessions.Get(c.Value)
	if !ok {
		return c.Value, auth.Session{}
	}
	return c.Value, sess
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// requireAuth runs a pinless gate check before any gallery handler. The
// updated session is persisted so lockout clearing and expiry resets stick.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, sess := s.session(r)
		sess, decision := s.gate.Check(sess, s.clock(), nil)
		s.sessions.Put(token, sess)
		s.setSessionCookie(w, token)

		if !decision.Allow() {
			writeDecision(w, decision)
			return
		}
		next.ServeHTTP(w, r)
	})
}
