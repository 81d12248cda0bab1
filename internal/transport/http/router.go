package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/go-registration-api/internal/application/notification"
	"github.com/go-registration-api/internal/application/profile"
	"github.com/go-registration-api/internal/application/verification"
	"github.com/go-registration-api/internal/config"
	"github.com/go-registration-api/internal/pkg/otp"
	"github.com/go-registration-api/internal/transport/http/handler"
	appmiddleware "github.com/go-registration-api/internal/transport/http/middleware"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	ProfileRepo ProfileRepository
	Mailer      Mailer
	Logger      logrus.FieldLogger
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.AccessLog(deps.Logger))
	r.Use(appmiddleware.Recoverer(deps.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	codes := otp.NewGenerator()
	notifSvc := notification.NewService(deps.Mailer)
	profileSvc := profile.NewService(profile.ServiceDeps{
		ProfileRepo:          deps.ProfileRepo,
		Notifier:             notifSvc,
		Codes:                codes,
		ReregisterUnverified: cfg.ReregisterUnverified,
	})
	verificationSvc := verification.NewService(verification.ServiceDeps{
		ProfileRepo: deps.ProfileRepo,
		Notifier:    notifSvc,
		Codes:       codes,
	})

	healthH := handler.NewHealthHandler()
	registrationH := handler.NewRegistrationHandler(profileSvc, verificationSvc, deps.Logger)

	r.Get("/", healthH.Root)
	r.Post("/register", registrationH.Register)
	r.Post("/verify", registrationH.Verify)
	r.Post("/resend-otp", registrationH.ResendOTP)

	return r
}
