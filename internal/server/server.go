package server

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/getsentry/raven-go"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sabbirba10/exam-server/internal/config"
	"github.com/sabbirba10/exam-server/internal/middleware"
	"github.com/sabbirba10/exam-server/internal/template"
)

type Server struct {
	cfg      config.Config
	router   *mux.Router
	tmpl     *template.Template
	logger   zerolog.Logger
	bigCache *bigcache.BigCache
}

func NewServer(
	cfg config.Config,
	r *mux.Router,
	t *template.Template,
	logger zerolog.Logger,
) Server {
	if cfg.SentryDSN != "" {
		if err := raven.SetDSN(cfg.SentryDSN); err != nil {
			logger.Error().Err(err).Msg("unable to configure sentry")
		}
	}

	cacheCfg := bigcache.DefaultConfig(24 * time.Hour)
	cacheCfg.Shards = 64
	cacheCfg.MaxEntriesInWindow = 10000
	cacheCfg.MaxEntrySize = 64
	bigCache, err := bigcache.NewBigCache(cacheCfg)
	svr := Server{
		cfg:      cfg,
		router:   r,
		tmpl:     t,
		logger:   logger,
		bigCache: bigCache,
	}
	if err != nil {
		svr.Log(err, "unable to initialise big cache")
	}

	return svr
}

func (s Server) RegisterRoute(path string, handler func(w http.ResponseWriter, r *http.Request), methods []string) {
	s.router.Handle(path, middleware.InstrumentRoute(path, http.HandlerFunc(handler))).Methods(methods...)
}

func (s Server) GetConfig() config.Config {
	return s.cfg
}

func (s Server) Render(w http.ResponseWriter, status int, htmlView string, data map[string]interface{}) error {
	dataMap := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		dataMap[k] = v
	}
	dataMap["SiteName"] = s.cfg.SiteName

	return s.tmpl.Render(w, status, htmlView, dataMap)
}

func (s Server) TEXT(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	w.Write([]byte(text))
}

func (s Server) NotFound(w http.ResponseWriter) {
	s.TEXT(w, http.StatusNotFound, "404 page not found")
}

func (s Server) InternalError(w http.ResponseWriter) {
	s.TEXT(w, http.StatusInternalServerError, "500 internal server error")
}

func (s Server) Log(err error, msg string) {
	if s.cfg.SentryDSN != "" {
		raven.CaptureErrorAndWait(err, map[string]string{"ctx": msg})
	}
	s.logger.Error().Err(err).Msg(msg)
}

// Handler returns the router wrapped in the public middleware chain.
func (s Server) Handler() http.Handler {
	return middleware.ProxyMiddleware(
		middleware.RequestIDMiddleware(
			middleware.LoggingMiddleware(
				middleware.HTTPSMiddleware(
					middleware.HeadersMiddleware(s.router, s.cfg.Env),
					s.cfg.Env,
				),
				s.logger,
			),
		),
	)
}

// MetricsHandler exposes the prometheus registry, it is served on its own
// listener so the public router keeps only the site routes.
func (s Server) MetricsHandler() http.Handler {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	return metricsMux
}

func (s Server) Run() error {
	if s.cfg.MetricsAddress != "" {
		go func() {
			s.logger.Info().Str("addr", s.cfg.MetricsAddress).Msg("serving metrics")
			if err := http.ListenAndServe(s.cfg.MetricsAddress, s.MetricsHandler()); err != nil {
				s.Log(err, "metrics listener stopped")
			}
		}()
	}
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	if s.cfg.Env == "dev" {
		s.logger.Info().Msgf("local env http://localhost:%s", s.cfg.Port)
		addr = fmt.Sprintf("localhost:%s", s.cfg.Port)
	}
	return http.ListenAndServe(addr, s.Handler())
}

// SeenSince reports whether the client behind r already hit the same path
// within timeAgo, and records the visit when it did not.
func (s Server) SeenSince(r *http.Request, timeAgo time.Duration) bool {
	if s.bigCache == nil {
		return false
	}
	key := r.URL.Path + "|" + remoteHost(r)
	now := []byte(time.Now().Format(time.RFC3339))
	lastSeen, err := s.bigCache.Get(key)
	if err == bigcache.ErrEntryNotFound {
		s.bigCache.Set(key, now)
		return false
	}
	if err != nil {
		return false
	}
	lastSeenTime, err := time.Parse(time.RFC3339, string(lastSeen))
	if err != nil || !lastSeenTime.After(time.Now().Add(-timeAgo)) {
		s.bigCache.Set(key, now)
		return false
	}

	return true
}

// remoteHost drops the ephemeral port, ProxyMiddleware has already
// replaced RemoteAddr with the forwarded client address when present.
func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
