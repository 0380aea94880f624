package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"
	"gorm.io/gorm"

	"github.com/stillpoint/studio/internal/booking"
	"github.com/stillpoint/studio/internal/config"
	"github.com/stillpoint/studio/internal/email"
)

// H bundles the dependencies every handler needs. Everything is injected
// from cmd/server so tests can substitute a temp database and a noop
// mail sender.
type H struct {
	DB       *gorm.DB
	Tmpl     Renderer
	Cfg      config.Config
	Booking  *booking.Service
	Mail     email.Sender
	Validate *validator.Validate
}

func New(db *gorm.DB, tmpl Renderer, cfg config.Config, svc *booking.Service, mail email.Sender) *H {
	return &H{
		DB:       db,
		Tmpl:     tmpl,
		Cfg:      cfg,
		Booking:  svc,
		Mail:     mail,
		Validate: validator.New(),
	}
}

// Renderer parses and executes a page template into w. Satisfied by
// web.Templates; a stub suffices in handler tests that never render.
type Renderer interface {
	Render(w http.ResponseWriter, name string, data map[string]any) error
}

// render executes the named page, stamping in the bits every page wants:
// the logged-in user, the flash banner, and the CSRF field.
func (h *H) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["User"]; !ok {
		data["User"] = CurrentUser(r)
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = MakeFlash(r, "", "")
	}
	data["CSRFField"] = csrf.TemplateField(r)
	if err := h.Tmpl.Render(w, name, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *H) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
