package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/stillpoint/studio/internal/models"
)

// GET /admin/waivers
func (h *H) AdminWaivers(w http.ResponseWriter, r *http.Request) {
	var waivers []models.Waiver
	if err := h.DB.Order("version desc").Find(&waivers).Error; err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "admin/waivers.tmpl", map[string]any{
		"Title":   "Admin • Waivers",
		"Waivers": waivers,
	})
}

// GET /admin/waivers/new
func (h *H) AdminNewWaiver(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin/waivers_edit.tmpl", map[string]any{
		"Title": "Admin • New Waiver",
	})
}

// POST /admin/waivers — each new waiver gets the next version number.
func (h *H) AdminCreateWaiver(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	title := strings.TrimSpace(r.FormValue("title"))
	body := r.FormValue("body")
	if title == "" || strings.TrimSpace(body) == "" {
		http.Redirect(w, r, "/admin/waivers/new?error=missing", http.StatusSeeOther)
		return
	}

	var maxVersion int
	_ = h.DB.Model(&models.Waiver{}).
		Select("COALESCE(MAX(version), 0)").
		Scan(&maxVersion).Error

	waiver := models.Waiver{
		Title:   title,
		Body:    body,
		Version: maxVersion + 1,
	}
	if err := h.DB.Create(&waiver).Error; err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/waivers?ok=waiver_saved", http.StatusSeeOther)
}

// GET /admin/waivers/{id}/edit — includes a rendered markdown preview.
func (h *H) AdminEditWaiver(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var waiver models.Waiver
	if err := h.DB.First(&waiver, id).Error; err != nil {
		http.NotFound(w, r)
		return
	}
	preview, err := renderMarkdown(waiver.Body)
	if err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "admin/waivers_edit.tmpl", map[string]any{
		"Title":   "Admin • Edit Waiver",
		"Waiver":  waiver,
		"Preview": preview,
	})
}

// POST /admin/waivers/{id}
func (h *H) AdminUpdateWaiver(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var waiver models.Waiver
	if err := h.DB.First(&waiver, id).Error; err != nil {
		http.NotFound(w, r)
		return
	}
	waiver.Title = strings.TrimSpace(r.FormValue("title"))
	waiver.Body = r.FormValue("body")
	if waiver.Title == "" || strings.TrimSpace(waiver.Body) == "" {
		http.Redirect(w, r, "/admin/waivers/"+strconv.Itoa(id)+"/edit?error=missing", http.StatusSeeOther)
		return
	}
	if err := h.DB.Save(&waiver).Error; err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/waivers?ok=waiver_saved", http.StatusSeeOther)
}

// POST /admin/waivers/{id}/activate — exactly one waiver is active at a
// time; activating one deactivates the rest.
func (h *H) AdminActivateWaiver(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var waiver models.Waiver
		if err := tx.First(&waiver, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Waiver{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&waiver).Update("is_active", true).Error
	})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/waivers?ok=waiver_saved", http.StatusSeeOther)
}

// POST /admin/waivers/{id}/delete
func (h *H) AdminDeleteWaiver(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	if err := h.DB.Delete(&models.Waiver{}, id).Error; err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/waivers?ok=deleted", http.StatusSeeOther)
}
