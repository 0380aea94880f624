package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"

	"github.com/stillpoint/studio/internal/config"
	"github.com/stillpoint/studio/internal/handlers"
)

func Router(h *handlers.H, cfg config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Use(csrf.Protect(
		[]byte(cfg.CSRFKey),
		csrf.Secure(strings.HasPrefix(cfg.BaseURL, "https")),
		csrf.Path("/"),
	))
	r.Use(h.WithUser)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Public pages
	r.Get("/", h.Home)
	r.Get("/healthz", h.Health)
	r.Get("/classes/{id}", h.ClassShow)
	r.Get("/waiver", h.WaiverShow)
	r.Get("/payment/qr/{method}.png", h.PaymentQR)

	// Auth
	r.Get("/signup", h.SignupForm)
	r.Post("/signup", h.SignupSubmit)
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.LoginSubmit)
	r.Post("/logout", h.Logout)

	// Logged-in flows
	r.Group(func(ur chi.Router) {
		ur.Use(h.RequireUser)
		ur.Post("/classes/{id}/register", h.RegisterSubmit)
		ur.Post("/classes/{id}/unregister", h.UnregisterSubmit)
		ur.Get("/classes/{id}/payment", h.PaymentPage)
		ur.Post("/classes/{id}/payment/{method}", h.PaymentClick)
		ur.Get("/profile", h.ProfileForm)
		ur.Post("/profile", h.ProfileSubmit)
	})

	// Admin console
	r.Route("/admin", func(ar chi.Router) {
		ar.Use(h.RequireAdmin)

		ar.Get("/classes", h.AdminClasses)
		ar.Get("/classes/new", h.AdminNewClass)
		ar.Post("/classes", h.AdminCreateClass)
		ar.Get("/classes/{id}/edit", h.AdminEditClass)
		ar.Post("/classes/{id}", h.AdminUpdateClass)
		ar.Post("/classes/{id}/cancel", h.AdminCancelClass)
		ar.Post("/classes/{id}/delete", h.AdminDeleteClass)
		ar.Get("/classes/{id}/enrolled", h.AdminEnrolled)

		ar.Post("/registrations/{id}/status", h.AdminRegStatus)
		ar.Post("/registrations/{id}/delete", h.AdminRegDelete)

		ar.Get("/users", h.AdminUsers)
		ar.Post("/users/{id}/admin", h.AdminUserToggleAdmin)

		ar.Get("/waivers", h.AdminWaivers)
		ar.Get("/waivers/new", h.AdminNewWaiver)
		ar.Post("/waivers", h.AdminCreateWaiver)
		ar.Get("/waivers/{id}/edit", h.AdminEditWaiver)
		ar.Post("/waivers/{id}", h.AdminUpdateWaiver)
		ar.Post("/waivers/{id}/activate", h.AdminActivateWaiver)
		ar.Post("/waivers/{id}/delete", h.AdminDeleteWaiver)
	})

	return r
}
