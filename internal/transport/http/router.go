package http

import (
	"net/http"

	"github.com/Happy-Franck/Eventio-sub001/internal/application/emailauth"
	"github.com/Happy-Franck/Eventio-sub001/internal/application/notify"
	"github.com/Happy-Franck/Eventio-sub001/internal/application/ratelimit"
	"github.com/Happy-Franck/Eventio-sub001/internal/application/token"
	"github.com/Happy-Franck/Eventio-sub001/internal/config"
	"github.com/Happy-Franck/Eventio-sub001/internal/domain"
	jwtinfra "github.com/Happy-Franck/Eventio-sub001/internal/infrastructure/jwt"
	"github.com/Happy-Franck/Eventio-sub001/internal/transport/http/handler"
	appmiddleware "github.com/Happy-Franck/Eventio-sub001/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"error":"authentication unavailable"}`, http.StatusServiceUnavailable)
			})
		}
	}

	// 5 requests/second, burst of 10 — applied to the public auth endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	tokens := token.NewManager(deps.Cache, cfg.CacheKeyPrefix, map[domain.Purpose]token.Settings{
		domain.PurposeEmailVerification: {Length: cfg.Verification.TokenLength, TTL: cfg.Verification.TTL},
		domain.PurposeOTPLogin:          {Digits: cfg.OTP.CodeDigits, TTL: cfg.OTP.TTL, MaxAttempts: cfg.OTP.MaxAttempts},
		domain.PurposeMagicLink:         {Length: cfg.MagicLink.TokenLength, TTL: cfg.MagicLink.TTL},
	})
	limiter := ratelimit.NewLimiter(deps.Cache, cfg.CacheKeyPrefix, map[domain.Purpose]ratelimit.Quota{
		domain.PurposeEmailVerification: {MaxRequests: cfg.Verification.MaxRequests, Decay: cfg.Verification.Decay},
		domain.PurposeOTPLogin:          {MaxRequests: cfg.OTP.MaxRequests, Decay: cfg.OTP.Decay},
		domain.PurposeMagicLink:         {MaxRequests: cfg.MagicLink.MaxRequests, Decay: cfg.MagicLink.Decay},
	})
	sender := notify.NewEmailSender(deps.Mailer, deps.SMSSender, cfg.FrontendURL, cfg.OTPSMSEnabled)

	var signer emailauth.TokenSigner
	if deps.JWTProvider != nil {
		signer = deps.JWTProvider
	}
	authSvc := emailauth.NewService(emailauth.ServiceDeps{
		Users:   deps.UserRepo,
		Tokens:  tokens,
		Limiter: limiter,
		Sender:  sender,
		Signer:  signer,
	})

	healthH := handler.NewHealthHandler()
	verifyH := handler.NewVerifyEmailHandler(authSvc)
	otpH := handler.NewOTPHandler(authSvc)
	magicH := handler.NewMagicLinkHandler(authSvc)
	resetH := handler.NewPasswordResetHandler(authSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)

		r.Group(func(r chi.Router) {
			r.Use(sensitiveRL.Limit)

			r.Post("/auth/email/verify", verifyH.Verify)
			r.Post("/auth/otp/send", otpH.Send)
			r.Post("/auth/otp/verify", otpH.Verify)
			r.Post("/auth/otp/resend", otpH.Resend)
			r.Post("/auth/magic-link/send", magicH.Send)
			r.Post("/auth/magic-link/verify", magicH.Verify)
			r.Post("/auth/magic-link/resend", magicH.Resend)
		})

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.With(appmiddleware.RequireScope(jwtinfra.ScopeAccess)).
				Post("/auth/email/resend", verifyH.Resend)
			r.With(appmiddleware.RequireScope(jwtinfra.ScopePasswordReset)).
				Post("/auth/password/reset", resetH.Reset)
		})
	})

	return r
}
