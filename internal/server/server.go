package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/streamvp/streamvp/internal/api"
	"github.com/streamvp/streamvp/internal/database"
	"github.com/streamvp/streamvp/internal/geoip"
	"github.com/streamvp/streamvp/internal/notify"
	"github.com/streamvp/streamvp/internal/player"
	"github.com/streamvp/streamvp/internal/ratelimit"
	"github.com/streamvp/streamvp/internal/session"
	"github.com/streamvp/streamvp/internal/views"
	"github.com/streamvp/streamvp/internal/web"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	DB              database.DBTX
	Pinger          Pinger
	Backend         *api.Client
	BaseURL         string
	TelegramBotName string
	Notifier        *notify.Notifier
	GeoIP           *geoip.Resolver
}

type Server struct {
	router   chi.Router
	pinger   Pinger
	sessions *session.Handler
	web      *web.Handler
}

func New(cfg Config) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(slogMiddleware)
	r.Use(securityHeaders(cfg.BaseURL))

	s := &Server{router: r, pinger: cfg.Pinger}

	if cfg.DB != nil && cfg.Backend != nil {
		secureCookies := strings.HasPrefix(cfg.BaseURL, "https://")
		store := session.NewStore(cfg.DB, cfg.Backend, secureCookies)
		s.sessions = session.NewHandler(store)
		s.web = web.NewHandler(web.Config{
			Backend:         cfg.Backend,
			Sessions:        store,
			Recorder:        views.NewRecorder(cfg.DB, cfg.GeoIP),
			Players:         player.NewManager(),
			Notifier:        cfg.Notifier,
			TelegramBotName: cfg.TelegramBotName,
		})
	}

	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)

	if s.sessions != nil {
		loginLimiter := ratelimit.NewLimiter(0.5, 5)
		s.router.Route("/api/auth", func(r chi.Router) {
			r.With(loginLimiter.Middleware).Post("/telegram", s.sessions.LoginTelegram)
			r.Post("/logout", s.sessions.Logout)
		})
	}

	if s.web != nil {
		s.router.Get("/", s.web.Catalog)
		s.router.Get("/watch/{id}", s.web.Watch)
		s.router.Get("/admin", s.web.Admin)
		s.router.Get("/admin/upload", s.web.UploadPage)

		s.router.Post("/api/videos", s.web.CreateVideo)
		s.router.Delete("/api/videos/{id}", s.web.DeleteVideo)
		s.router.Post("/api/playback/{id}", s.web.Playback)

		s.router.Get("/media/stream/{id}", s.web.Stream)
		s.router.Get("/media/thumbnail/{id}", s.web.Thumbnail)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unhealthy","error":"database unreachable"}`))
			return
		}
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
