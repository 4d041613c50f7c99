package api

import (
	"net/http"
	"strings"
	"time"

	"retohub/internal/api/handler"
	"retohub/internal/api/middleware"
	"retohub/internal/app/service"
	"retohub/internal/common/security"
	"retohub/internal/domain/repository"
	"retohub/internal/platform/config"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/rs/cors"
)

func NewRouter(
	authService *service.AuthService,
	personService *service.PersonService,
	challengeService *service.ChallengeService,
	submissionService *service.SubmissionService,
	socialService *service.SocialService,
	personRepo repository.PersonRepository,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   strings.Split(config.AppConfig.CORSAllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	// Verifies the bearer token when present and puts claims in context.
	// Enforcement happens per-route via middleware.Authenticator.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	activeAccount := middleware.ActiveAccount(personRepo)

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		// Person routes (public CRUD)
		personHandler := handler.NewPersonHandler(personService)
		v1.Route("/persons", personHandler.RegisterRoutes)

		// Profile (authenticated self-lookup)
		v1.Route("/profile", func(pr chi.Router) {
			pr.Use(middleware.Authenticator)
			pr.Use(activeAccount)
			personHandler.RegisterProfileRoutes(pr)
		})

		// Ranking (authenticated, account must still be active)
		v1.Route("/ranking", func(rk chi.Router) {
			rk.Use(middleware.Authenticator)
			rk.Use(activeAccount)
			personHandler.RegisterRankingRoutes(rk)
		})

		// Challenge and submission routes (authenticated, active account)
		challengeHandler := handler.NewChallengeHandler(challengeService)
		submissionHandler := handler.NewSubmissionHandler(submissionService)
		v1.Route("/challenges", func(ch chi.Router) {
			ch.Use(middleware.Authenticator)
			ch.Use(activeAccount)
			challengeHandler.RegisterRoutes(ch)
			submissionHandler.RegisterRoutes(ch)
		})

		// Post routes (authenticated)
		socialHandler := handler.NewSocialHandler(socialService)
		v1.Route("/posts", func(p chi.Router) {
			p.Use(middleware.Authenticator)
			socialHandler.RegisterRoutes(p)
		})

		// Judge simulation endpoint (authenticated)
		v1.Route("/_dev", func(dev chi.Router) {
			dev.Use(middleware.Authenticator)
			personHandler.RegisterDevRoutes(dev)
		})
	})

	return r
}
