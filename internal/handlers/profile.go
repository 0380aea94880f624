package handlers

import (
	"net/http"
	"strings"

	"github.com/stillpoint/studio/internal/models"
)

// GET /profile
func (h *H) ProfileForm(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)

	var regs []models.Registration
	_ = h.DB.Preload("Class").
		Where("user_id = ?", u.ID).
		Order("created_at desc").
		Find(&regs).Error

	h.render(w, r, "profile.tmpl", map[string]any{
		"Title":         "Profile",
		"Registrations": regs,
	})
}

type profileForm struct {
	Username  string `validate:"required"`
	Phone     string `validate:"omitempty,min=7"`
	AvatarURL string `validate:"omitempty,url"`
}

// POST /profile
func (h *H) ProfileSubmit(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	form := profileForm{
		Username:  strings.TrimSpace(r.FormValue("username")),
		Phone:     strings.TrimSpace(r.FormValue("phone")),
		AvatarURL: strings.TrimSpace(r.FormValue("avatar_url")),
	}
	if err := h.Validate.Struct(form); err != nil {
		http.Redirect(w, r, "/profile?error=missing", http.StatusSeeOther)
		return
	}

	u.Username = form.Username
	u.Phone = form.Phone
	u.AvatarURL = form.AvatarURL
	if err := h.DB.Save(u).Error; err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/profile?ok=saved", http.StatusSeeOther)
}
