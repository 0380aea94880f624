package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stillpoint/studio/internal/booking"
	"github.com/stillpoint/studio/internal/models"
	"github.com/stillpoint/studio/internal/schedule"
)

// sortClasses orders classes in place by one of the admin table's sort
// keys. Unknown keys fall back to date.
func sortClasses(classes []models.Class, key, dir string) {
	less := func(a, b models.Class) bool { return a.StartTime.Before(b.StartTime) }
	switch key {
	case "name":
		less = func(a, b models.Class) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case "instructor":
		less = func(a, b models.Class) bool {
			return strings.ToLower(a.Instructor) < strings.ToLower(b.Instructor)
		}
	case "price":
		less = func(a, b models.Class) bool { return a.Price < b.Price }
	}
	sort.SliceStable(classes, func(i, j int) bool {
		if dir == "desc" {
			return less(classes[j], classes[i])
		}
		return less(classes[i], classes[j])
	})
}

// filterClasses keeps classes matching the free-text query (name or
// instructor, case-insensitive) and the cancelled-state filter
// ("all", "active", "cancelled").
func filterClasses(classes []models.Class, query, show string) []models.Class {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Class, 0, len(classes))
	for _, c := range classes {
		if q != "" &&
			!strings.Contains(strings.ToLower(c.Name), q) &&
			!strings.Contains(strings.ToLower(c.Instructor), q) {
			continue
		}
		switch show {
		case "active":
			if c.IsCancelled {
				continue
			}
		case "cancelled":
			if !c.IsCancelled {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// GET /admin/classes
func (h *H) AdminClasses(w http.ResponseWriter, r *http.Request) {
	var classes []models.Class
	if err := h.DB.Find(&classes).Error; err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	sortKey := q.Get("sort")
	if sortKey == "" {
		sortKey = "date"
	}
	dir := q.Get("dir")
	if dir != "desc" {
		dir = "asc"
	}
	show := q.Get("show")
	if show == "" {
		show = "all"
	}

	classes = filterClasses(classes, q.Get("q"), show)
	sortClasses(classes, sortKey, dir)

	h.render(w, r, "admin/classes.tmpl", map[string]any{
		"Title":   "Admin • Classes",
		"Classes": classes,
		"Sort":    sortKey,
		"Dir":     dir,
		"Show":    show,
		"Query":   q.Get("q"),
	})
}

// GET /admin/classes/new
func (h *H) AdminNewClass(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin/classes_new.tmpl", map[string]any{
		"Title":    "Admin • New Class",
		"MaxWeeks": schedule.MaxWeeks,
	})
}

type classForm struct {
	Name             string  `validate:"required"`
	BriefDescription string  `validate:"required"`
	FullDescription  string  `validate:"required"`
	Instructor       string  `validate:"required"`
	Price            float64 `validate:"gte=0"`
}

// POST /admin/classes — creates one class, or a weekly run when
// weekly_repeat > 0. The repeat count is consumed here; stored rows
// always carry weekly_repeat = 0.
func (h *H) AdminCreateClass(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		http.Redirect(w, r, "/admin/classes/new?error=missing", http.StatusSeeOther)
		return
	}
	form := classForm{
		Name:             strings.TrimSpace(r.FormValue("name")),
		BriefDescription: strings.TrimSpace(r.FormValue("brief_description")),
		FullDescription:  strings.TrimSpace(r.FormValue("full_description")),
		Instructor:       strings.TrimSpace(r.FormValue("instructor")),
		Price:            price,
	}
	if err := h.Validate.Struct(form); err != nil {
		http.Redirect(w, r, "/admin/classes/new?error=missing", http.StatusSeeOther)
		return
	}

	dateStr := r.FormValue("date")
	timeStr := r.FormValue("time")
	start, err := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+timeStr, h.Cfg.Location)
	if err != nil {
		http.Redirect(w, r, "/admin/classes/new?error=invalid_time", http.StatusSeeOther)
		return
	}

	weeks := 0
	if v := r.FormValue("weekly_repeat"); v != "" {
		weeks, err = strconv.Atoi(v)
		if err != nil || weeks < 0 || weeks > schedule.MaxWeeks {
			http.Redirect(w, r, "/admin/classes/new?error=invalid_weeks", http.StatusSeeOther)
			return
		}
	}

	if weeks > 0 {
		// Weekly run anchored to the chosen date's weekday unless the
		// form picks a different day; then the run starts on the first
		// such day on or after the chosen date.
		day := start.Weekday()
		if v := r.FormValue("day_of_week"); v != "" {
			day, err = schedule.ParseDay(v)
			if err != nil {
				http.Redirect(w, r, "/admin/classes/new?error=invalid_weeks", http.StatusSeeOther)
				return
			}
		}
		_, err := h.Booking.CreateWeekly(r.Context(), schedule.Template{
			Name:             form.Name,
			BriefDescription: form.BriefDescription,
			FullDescription:  form.FullDescription,
			Instructor:       form.Instructor,
			Price:            form.Price,
		}, schedule.Options{
			StartDate: start,
			Weeks:     weeks,
			DayOfWeek: day,
			TimeOfDay: timeStr,
		})
		var batchErr *booking.PartialBatchError
		if errors.As(err, &batchErr) {
			h.render(w, r, "admin/classes_new.tmpl", map[string]any{
				"Title":    "Admin • New Class",
				"MaxWeeks": schedule.MaxWeeks,
				"Flash": &Flash{Kind: "error", Text: "Only " +
					strconv.Itoa(len(batchErr.Created)) + " of " + strconv.Itoa(weeks) +
					" classes were created. Review the list before retrying."},
			})
			return
		}
		if err != nil {
			http.Redirect(w, r, "/admin/classes/new?error=invalid_weeks", http.StatusSeeOther)
			return
		}
	} else {
		class := models.Class{
			Name:             form.Name,
			BriefDescription: form.BriefDescription,
			FullDescription:  form.FullDescription,
			Instructor:       form.Instructor,
			Price:            form.Price,
			StartTime:        start,
			EndTime:          start.Add(schedule.Duration),
		}
		if err := h.DB.Create(&class).Error; err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
	}

	http.Redirect(w, r, "/admin/classes?ok=created", http.StatusSeeOther)
}

// GET /admin/classes/{id}/edit
func (h *H) AdminEditClass(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	var class models.Class
	if err := h.DB.First(&class, id).Error; err != nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, "admin/classes_edit.tmpl", map[string]any{
		"Title":   "Admin • Edit Class",
		"Class":   class,
		"DateVal": class.StartTime.In(h.Cfg.Location).Format("2006-01-02"),
		"TimeVal": class.StartTime.In(h.Cfg.Location).Format("15:04"),
	})
}

// POST /admin/classes/{id} — end time is recomputed from the new start,
// never edited on its own.
func (h *H) AdminUpdateClass(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var class models.Class
	if err := h.DB.First(&class, id).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	start, err := time.ParseInLocation("2006-01-02 15:04",
		r.FormValue("date")+" "+r.FormValue("time"), h.Cfg.Location)
	if err != nil {
		http.Error(w, "invalid date/time", http.StatusBadRequest)
		return
	}
	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil || price < 0 {
		http.Error(w, "invalid price", http.StatusBadRequest)
		return
	}

	class.Name = strings.TrimSpace(r.FormValue("name"))
	class.BriefDescription = strings.TrimSpace(r.FormValue("brief_description"))
	class.FullDescription = strings.TrimSpace(r.FormValue("full_description"))
	class.Instructor = strings.TrimSpace(r.FormValue("instructor"))
	class.Price = price
	class.StartTime = start
	class.EndTime = start.Add(schedule.Duration)
	if err := h.DB.Save(&class).Error; err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/classes?ok=saved", http.StatusSeeOther)
}

// POST /admin/classes/{id}/cancel — one-way; registrants are notified
// and their registrations kept.
func (h *H) AdminCancelClass(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	if _, err := h.Booking.CancelClass(r.Context(), uint(id)); err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/classes?ok=cancelled", http.StatusSeeOther)
}

// POST /admin/classes/{id}/delete
func (h *H) AdminDeleteClass(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	if err := h.DB.Delete(&models.Class{}, id).Error; err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/classes?ok=deleted", http.StatusSeeOther)
}
