package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stillpoint/studio/internal/models"
)

// GET /admin/users
func (h *H) AdminUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.DB.Order("LOWER(email) asc").Find(&users).Error; err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	// Registration counts in one round-trip.
	type regCount struct {
		UserID uint
		N      int64
	}
	var counts []regCount
	_ = h.DB.Table("registrations").
		Select("user_id, COUNT(*) as n").
		Group("user_id").
		Scan(&counts).Error
	countBy := make(map[uint]int64, len(counts))
	for _, c := range counts {
		countBy[c.UserID] = c.N
	}

	h.render(w, r, "admin/users.tmpl", map[string]any{
		"Title":  "Admin • Users",
		"Users":  users,
		"Counts": countBy,
	})
}

// POST /admin/users/{id}/admin — toggle the admin flag.
func (h *H) AdminUserToggleAdmin(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		http.NotFound(w, r)
		return
	}
	// Don't let an admin strip their own flag; that locks everyone out.
	if me := CurrentUser(r); me != nil && me.ID == user.ID {
		http.Redirect(w, r, "/admin/users?error=missing", http.StatusSeeOther)
		return
	}
	user.IsAdmin = !user.IsAdmin
	if err := h.DB.Save(&user).Error; err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/users?ok=saved", http.StatusSeeOther)
}
