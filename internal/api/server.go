// Package api serves the bazaar resources over HTTP. Reads go through the
// repcache resolver; writes go to the store and then invalidate every key
// the write touched before the response is sent.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/unkn0wn-root/repcache"
	"github.com/unkn0wn-root/repcache/internal/store"
)

const defaultMaxBody = 1 << 20

type Options struct {
	Cache *repcache.Cache
	Store store.Store
	// Stats, when set, is reported by /v1/status.
	Stats  *repcache.Stats
	Logger repcache.Logger
	// Host prefixes Location headers, e.g. https://bazaar.example.com.
	Host         string
	MaxBodyBytes int
}

type Server struct {
	cache   *repcache.Cache
	store   store.Store
	stats   *repcache.Stats
	log     repcache.Logger
	host    string
	maxBody int
	started time.Time
}

func New(opts Options) *Server {
	s := &Server{
		cache:   opts.Cache,
		store:   opts.Store,
		stats:   opts.Stats,
		log:     opts.Logger,
		host:    strings.TrimRight(opts.Host, "/"),
		maxBody: opts.MaxBodyBytes,
		started: time.Now(),
	}
	if s.log == nil {
		s.log = repcache.NopLogger{}
	}
	if s.maxBody <= 0 {
		s.maxBody = defaultMaxBody
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.accessLog)
	r.Use(chimw.Recoverer)
	r.Use(weakenEncoded)
	r.Use(chimw.Compress(5))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.problem(w, r, errRoute)
	})
	r.Route("/v1", s.routes)
	return r
}

// accessLog writes one line per request through the cache logger.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request", repcache.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"cache":      ww.Header().Get("X-Cache"),
			"took":       time.Since(start).String(),
			"request_id": chimw.GetReqID(r.Context()),
		})
	})
}
