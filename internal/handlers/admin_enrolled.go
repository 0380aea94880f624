package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stillpoint/studio/internal/models"
)

// GET /admin/classes/{id}/enrolled — everyone registered for a class,
// with profile details for contact/refund workflows. Cancelled classes
// keep their registrants, which is the point.
func (h *H) AdminEnrolled(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var class models.Class
	if err := h.DB.First(&class, id).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	var regs []models.Registration
	if err := h.DB.Preload("User").
		Where("class_id = ?", id).
		Order("created_at desc").
		Find(&regs).Error; err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	var total float64
	clicked := 0
	for _, reg := range regs {
		total += reg.PaymentAmount
		if reg.PaymentLinkClicked {
			clicked++
		}
	}

	h.render(w, r, "admin/enrolled.tmpl", map[string]any{
		"Title":         "Admin • Enrolled",
		"Class":         class,
		"Registrations": regs,
		"Total":         total,
		"Clicked":       clicked,
	})
}

// POST /admin/registrations/{id}/status — admin override of the payment
// status after reconciling the studio's payment accounts.
func (h *H) AdminRegStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	status := r.FormValue("status")
	if status != "pending" && status != "completed" && status != "failed" {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	var reg models.Registration
	if err := h.DB.First(&reg, id).Error; err != nil {
		http.NotFound(w, r)
		return
	}
	reg.PaymentStatus = status
	if ref := r.FormValue("payment_ref"); ref != "" {
		reg.PaymentRef = ref
	}
	if err := h.DB.Save(&reg).Error; err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/classes/"+strconv.Itoa(int(reg.ClassID))+"/enrolled?ok=saved", http.StatusSeeOther)
}

// POST /admin/registrations/{id}/delete — admin-side unregister.
func (h *H) AdminRegDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var reg models.Registration
	if err := h.DB.First(&reg, id).Error; err != nil {
		// Already gone; treat as done.
		http.Redirect(w, r, "/admin/classes?ok=deleted", http.StatusSeeOther)
		return
	}
	if err := h.Booking.Unregister(r.Context(), reg.ID); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/classes/"+strconv.Itoa(int(reg.ClassID))+"/enrolled?ok=deleted", http.StatusSeeOther)
}
