package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/bookworm-api/internal/application/auth"
	"github.com/bookworm-api/internal/application/book"
	"github.com/bookworm-api/internal/config"
	"github.com/bookworm-api/internal/transport/http/handler"
	appmiddleware "github.com/bookworm-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to the OTP endpoints so a
	// single client cannot hammer the SMS gateway.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		OTPStore:      deps.OTPStore,
		UserRepo:      deps.UserRepo,
		SMSSender:     deps.SMSSender,
		TokenSigner:   deps.JWTProvider,
		OTPTTL:        cfg.OTPTTL,
		Reserved:      cfg.ReservedIdentities,
		AvatarBaseURL: cfg.AvatarBaseURL,
	})
	bookSvc := book.NewService(deps.BookRepo, deps.UserRepo, deps.S3Store)

	authH := handler.NewAuthHandler(authSvc)
	bookH := handler.NewBookHandler(bookSvc)

	r.Route("/api", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health", handler.Health)
		r.With(sensitiveRL.Limit).Post("/auth/request-otp", authH.RequestOTP)
		r.With(sensitiveRL.Limit).Post("/auth/verify-otp", authH.VerifyOTP)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.JWTProvider, deps.UserRepo))

			r.Get("/books", bookH.List)
			r.Post("/books", bookH.Create)
			r.Get("/books/user", bookH.ListMine)
			r.Delete("/books/{id}", bookH.Delete)
		})
	})

	return r
}
