package api

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/wsquared-be/internal/api/handlers"
	"github.com/isdelr/wsquared-be/internal/auth"
	"github.com/isdelr/wsquared-be/internal/config"
	"github.com/isdelr/wsquared-be/internal/services"
	"github.com/isdelr/wsquared-be/internal/web"
	"github.com/isdelr/wsquared-be/internal/websocket"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Config   *config.Config
	DB       *sql.DB // nil with in-memory storage
	Hub      *websocket.Hub
	Tokens   *auth.TokenManager
	Renderer *web.Renderer
	Auth     services.AuthServiceProvider
	Sessions services.SessionServiceProvider
	Payments services.PaymentServiceProvider
	Events   services.EventServiceProvider
}

// NewRouter creates and configures a new Chi router.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	// Initialize handlers
	pageHandler := handlers.NewPageHandler(d.Renderer, d.Auth, d.Sessions, d.Payments, d.Events)
	authHandler := handlers.NewAuthHandler(d.Auth, d.Sessions)
	sessionHandler := handlers.NewSessionHandler(d.Sessions)
	paymentHandler := handlers.NewPaymentHandler(d.Payments, d.Sessions)
	eventHandler := handlers.NewEventHandler(d.Events)
	wsHandler := handlers.NewWebSocketHandler(d.Hub, d.Sessions, d.Config.AllowedOrigins)
	healthHandler := handlers.NewHealthHandler(d.DB)

	r.Get("/api/v1/health", healthHandler.Check)

	// Everything below belongs to a client (browser).
	r.Group(func(r chi.Router) {
		r.Use(auth.ClientMiddleware(d.Tokens, d.Config.IsProduction()))

		// HTML application shell
		r.Get("/", pageHandler.Home)
		r.Get("/dashboard", pageHandler.Dashboard)
		r.Post("/login", pageHandler.Login)
		r.Post("/register", pageHandler.Register)
		r.Post("/logout", pageHandler.Logout)
		r.Post("/payment/verify", pageHandler.VerifyPayment)
		r.Post("/payment/close", pageHandler.ClosePayment)

		// API versioning
		r.Route("/api/v1", func(r chi.Router) {
			// CORS configuration for a separately hosted frontend
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   d.Config.AllowedOrigins,
				AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
				ExposedHeaders:   []string{"Link"},
				AllowCredentials: true,
				MaxAge:           300,
			}))

			// WebSocket connection endpoint
			r.Get("/ws", wsHandler.Serve)

			r.Get("/session", sessionHandler.Get)
			r.Get("/events", eventHandler.GetRecent)

			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", authHandler.Login)
				r.Post("/register", authHandler.Register)
				r.Post("/logout", authHandler.Logout)
			})

			r.Route("/payment", func(r chi.Router) {
				r.Get("/instructions", paymentHandler.Instructions)
				r.Post("/verify", paymentHandler.Verify)
				r.Post("/dismiss", paymentHandler.Dismiss)
			})
		})
	})

	return r
}
