package api

import (
	"net/http"
	"time"

	"messagely/internal/api/handler"
	"messagely/internal/api/middleware"
	"messagely/internal/app/service"
	"messagely/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	tokens *security.TokenService,
	authService *service.AuthService,
	userService *service.UserService,
	messageService *service.MessageService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the "Authorization: Bearer T" token and puts it in context.
	// Rejection happens later, in middleware.Authenticator, so public
	// routes pass through untouched.
	r.Use(jwtauth.Verifier(tokens.JWTAuth()))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(authService)
	r.Route("/auth", authHandler.RegisterRoutes)

	// Everything below requires a valid token.
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticator)

		userHandler := handler.NewUserHandler(userService)
		protected.Route("/users", userHandler.RegisterRoutes)

		messageHandler := handler.NewMessageHandler(messageService)
		protected.Route("/messages", messageHandler.RegisterRoutes)
	})

	return r
}
