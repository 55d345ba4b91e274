package api

import (
	"net/http"
	"strings"
	"time"

	"codetrek/internal/api/handler"
	"codetrek/internal/api/middleware"
	"codetrek/internal/app/service"
	"codetrek/internal/common"
	"codetrek/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

type Services struct {
	Auth       *service.AuthService
	Problem    *service.ProblemService
	Chat       *service.ChatService
	Evaluation *service.EvaluationService
	Profile    *service.ProfileService
	Upload     *service.UploadService
}

type Options struct {
	TokenAuth      *jwtauth.JWTAuth
	RequestTimeout time.Duration
	// MediaURL and Media serve locally stored uploads; Media is nil for remote storage.
	MediaURL string
	Media    http.Handler
	Logger   *logger.Logger
}

func NewRouter(svc Services, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(timeout))
	r.Use(chiMiddleware.StripSlashes)

	// Verifies the bearer token when present; Authenticator enforces it per group.
	r.Use(jwtauth.Verifier(opts.TokenAuth))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithError(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	if opts.Media != nil && opts.MediaURL != "" {
		prefix := "/" + strings.Trim(opts.MediaURL, "/")
		r.Handle(prefix+"/*", opts.Media)
	}

	authHandler := handler.NewAuthHandler(svc.Auth)
	r.Route("/api", func(api chi.Router) {
		api.Group(authHandler.RegisterPublicRoutes)

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.Authenticator(svc.Auth))
			authHandler.RegisterRoutes(protected)
			handler.NewProblemHandler(svc.Problem).RegisterRoutes(protected)
			handler.NewChatHandler(svc.Chat).RegisterRoutes(protected)
			handler.NewEvaluationHandler(svc.Evaluation).RegisterRoutes(protected)
			handler.NewProfileHandler(svc.Profile).RegisterRoutes(protected)
			handler.NewUploadHandler(svc.Upload).RegisterRoutes(protected)
		})
	})

	return r
}
