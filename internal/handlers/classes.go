package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/stillpoint/studio/internal/booking"
	"github.com/stillpoint/studio/internal/models"
)

// GET / — public class listing with per-class booked state for the
// logged-in user.
func (h *H) Home(w http.ResponseWriter, r *http.Request) {
	var classes []models.Class
	if err := h.DB.Find(&classes).Error; err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	upcoming := booking.UpcomingClasses(classes, time.Now().In(h.Cfg.Location))

	booked := map[uint]bool{}
	clicked := map[uint]bool{}
	regIDs := map[uint]uint{}
	if u := CurrentUser(r); u != nil {
		var regs []models.Registration
		if err := h.DB.Where("user_id = ?", u.ID).Order("created_at desc").Find(&regs).Error; err == nil {
			booked = booking.BookedClassIDs(regs)
			for _, c := range upcoming {
				if reg, ok := booking.RegistrationForClass(regs, c.ID); ok {
					regIDs[c.ID] = reg.ID
					clicked[c.ID] = reg.PaymentLinkClicked
				}
			}
		}
	}

	h.render(w, r, "home.tmpl", map[string]any{
		"Title":   "Classes",
		"Classes": upcoming,
		"Booked":  booked,
		"Clicked": clicked,
		"RegIDs":  regIDs,
	})
}

// GET /classes/{id} — class detail and registration page.
func (h *H) ClassShow(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var class models.Class
	if err := h.DB.First(&class, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	var reg models.Registration
	isBooked := false
	if u := CurrentUser(r); u != nil {
		var regs []models.Registration
		if err := h.DB.Where("user_id = ?", u.ID).Find(&regs).Error; err == nil {
			reg, isBooked = booking.RegistrationForClass(regs, class.ID)
		}
	}

	h.render(w, r, "class.tmpl", map[string]any{
		"Title":    class.Name,
		"Class":    class,
		"IsBooked": isBooked,
		"Reg":      reg,
	})
}
