// Package httpapi exposes the diary services as a JSON API over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/diary/internal/logging"
	"github.com/dmitrijs2005/diary/internal/server/auth"
	"github.com/dmitrijs2005/diary/internal/server/models"
	"github.com/dmitrijs2005/diary/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type UserService interface {
	Signup(ctx context.Context, in services.SignupInput) (*models.User, error)
	Login(ctx context.Context, in services.LoginInput) (*services.LoginResult, error)
	Get(ctx context.Context, scope models.Scope, id int64) (*models.PublicUser, error)
	Update(ctx context.Context, scope models.Scope, id int64, in services.UpdateUserInput) (*models.PublicUser, error)
	Delete(ctx context.Context, scope models.Scope, id int64) error
}

type DiaryService interface {
	Create(ctx context.Context, scope models.Scope, in services.CreateDiaryInput) (*models.DiaryEntry, error)
	List(ctx context.Context, scope models.Scope) ([]models.DiaryEntry, error)
	Get(ctx context.Context, scope models.Scope, id int64) (*models.DiaryEntry, error)
	Update(ctx context.Context, scope models.Scope, id int64, in services.UpdateDiaryInput) (*models.DiaryEntry, error)
	Delete(ctx context.Context, scope models.Scope, id int64) error
}

type FavoriteService interface {
	Add(ctx context.Context, scope models.Scope, diaryID int64) (*models.FavoriteDay, error)
	List(ctx context.Context, scope models.Scope) ([]models.FavoriteWithDiary, error)
	Get(ctx context.Context, scope models.Scope, id int64) (*models.FavoriteWithDiary, error)
	Update(ctx context.Context, scope models.Scope, id, diaryID int64) (*models.FavoriteDay, error)
	Remove(ctx context.Context, scope models.Scope, id int64) error
	Toggle(ctx context.Context, scope models.Scope, diaryID int64) (*services.ToggleResult, error)
}

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Pinger reports database liveness for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	Address            string
	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
}

type Deps struct {
	Users     UserService
	Diaries   DiaryService
	Favorites FavoriteService
	Tokens    TokenVerifier
	DB        Pinger
}

type HTTPServer struct {
	opts      Options
	logger    logging.Logger
	users     UserService
	diaries   DiaryService
	favorites FavoriteService
	tokens    TokenVerifier
	db        Pinger
	router    chi.Router
}

func NewHTTPServer(opts Options, l logging.Logger, d Deps) *HTTPServer {
	s := &HTTPServer{
		opts:      opts,
		logger:    l.With("module", "http_server"),
		users:     d.Users,
		diaries:   d.Diaries,
		favorites: d.Favorites,
		tokens:    d.Tokens,
		db:        d.DB,
	}
	s.router = s.routes()
	return s
}

// Handler returns the configured router.
func (s *HTTPServer) Handler() http.Handler { return s.router }

func (s *HTTPServer) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)
	if s.opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.opts.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", s.welcome)
	r.Get("/healthz", s.healthz)

	r.Post("/signup", s.signup)
	r.Post("/login", s.login)
	r.Route("/profile", s.profileRoutes)
	r.Route("/diary", s.diaryRoutes)
	r.Route("/favorites", s.favoriteRoutes)

	// Paths of the first public version of the API.
	r.Route("/api/users", func(r chi.Router) {
		r.Post("/signup", s.signup)
		r.Post("/login", s.login)
		r.Route("/profile", func(r chi.Router) {
			r.Use(s.authenticate)
			r.Get("/", s.getOwnProfile)
			r.Put("/", s.updateOwnProfile)
			r.Delete("/", s.deleteOwnProfile)
			s.profileItemRoutes(r)
		})
	})
	r.Route("/api/diaries", func(r chi.Router) {
		r.Route("/favorites", func(r chi.Router) {
			r.Use(s.authenticate)
			r.Post("/add_favorite", s.addFavorite)
			r.Get("/get_favorite", s.listFavorites)
			s.favoriteItemRoutes(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Post("/create", s.createDiary)
			r.Get("/all", s.listDiaries)
			s.diaryCollectionRoutes(r)
		})
	})

	return r
}

func (s *HTTPServer) profileRoutes(r chi.Router) {
	r.Use(s.authenticate)
	s.profileItemRoutes(r)
}

func (s *HTTPServer) profileItemRoutes(r chi.Router) {
	r.Get("/{id}", s.getProfile)
	r.Put("/{id}", s.updateProfile)
	r.Delete("/{id}", s.deleteProfile)
}

func (s *HTTPServer) diaryRoutes(r chi.Router) {
	r.Use(s.authenticate)
	s.diaryCollectionRoutes(r)
}

func (s *HTTPServer) diaryCollectionRoutes(r chi.Router) {
	r.Post("/", s.createDiary)
	r.Get("/", s.listDiaries)
	r.Get("/{id}", s.getDiary)
	r.Put("/{id}", s.updateDiary)
	r.Delete("/{id}", s.deleteDiary)
}

func (s *HTTPServer) favoriteRoutes(r chi.Router) {
	r.Use(s.authenticate)
	r.Post("/", s.addFavorite)
	r.Get("/", s.listFavorites)
	s.favoriteItemRoutes(r)
}

func (s *HTTPServer) favoriteItemRoutes(r chi.Router) {
	r.Get("/{id}", s.getFavorite)
	r.Put("/{id}", s.updateFavorite)
	r.Delete("/{id}", s.removeFavorite)
	// {id} of the toggle route is a diary entry id.
	r.Put("/{id}/toggle", s.toggleFavorite)
}

func (s *HTTPServer) welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Welcome to the Digital Diary API"))
}

func (s *HTTPServer) healthz(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			s.logger.Warn(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to ShutdownTimeout.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Address,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  s.opts.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.opts.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
