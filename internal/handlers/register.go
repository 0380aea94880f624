package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/stillpoint/studio/internal/booking"
	"github.com/stillpoint/studio/internal/models"
)

// POST /classes/{id}/register
func (h *H) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	amount, err := strconv.ParseFloat(r.FormValue("amount"), 64)
	if err != nil || amount < 0 {
		http.Redirect(w, r, classPath(id)+"?error=invalid_amount", http.StatusSeeOther)
		return
	}

	_, err = h.Booking.Register(r.Context(), u.ID, uint(id), amount)
	switch {
	case errors.Is(err, booking.ErrNotFound):
		http.Redirect(w, r, "/?error=class_not_found", http.StatusSeeOther)
	case errors.Is(err, booking.ErrClassCancelled):
		http.Redirect(w, r, classPath(id)+"?error=class_cancelled", http.StatusSeeOther)
	case errors.Is(err, booking.ErrAlreadyRegistered):
		http.Redirect(w, r, classPath(id)+"?error=already_registered", http.StatusSeeOther)
	case err != nil:
		http.Error(w, "db error", http.StatusInternalServerError)
	default:
		http.Redirect(w, r, classPath(id)+"/payment?ok=registered", http.StatusSeeOther)
	}
}

// POST /classes/{id}/unregister
func (h *H) UnregisterSubmit(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var class models.Class
	if err := h.DB.First(&class, id).Error; err != nil {
		http.Redirect(w, r, "/?error=class_not_found", http.StatusSeeOther)
		return
	}
	// A cancelled class stays on the books for refund workflows; the
	// normal unregister flow is closed for it.
	if class.IsCancelled {
		http.Redirect(w, r, "/?error=class_cancelled", http.StatusSeeOther)
		return
	}

	var regs []models.Registration
	if err := h.DB.Where("user_id = ?", u.ID).Find(&regs).Error; err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	reg, ok := booking.RegistrationForClass(regs, uint(id))
	if !ok {
		// Nothing to do: already in the desired state.
		http.Redirect(w, r, "/?ok=unregistered", http.StatusSeeOther)
		return
	}
	if err := h.Booking.Unregister(r.Context(), reg.ID); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/?ok=unregistered", http.StatusSeeOther)
}

// GET /classes/{id}/payment — donation links and QR codes, shown after
// registering.
func (h *H) PaymentPage(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var class models.Class
	if err := h.DB.First(&class, id).Error; err != nil {
		http.NotFound(w, r)
		return
	}
	var regs []models.Registration
	if err := h.DB.Where("user_id = ?", u.ID).Find(&regs).Error; err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	reg, ok := booking.RegistrationForClass(regs, uint(id))
	if !ok {
		http.Redirect(w, r, classPath(id), http.StatusSeeOther)
		return
	}

	methods := []map[string]string{}
	for _, m := range []string{"venmo", "paypal", "zelle", "square"} {
		if h.Cfg.Payment.Link(m) != "" {
			methods = append(methods, map[string]string{"Name": m})
		}
	}

	h.render(w, r, "payment.tmpl", map[string]any{
		"Title":   "Payment",
		"Class":   class,
		"Reg":     reg,
		"Methods": methods,
	})
}

// POST /classes/{id}/payment/{method} — records the click, then sends
// the user on to the external payment page. Advisory bookkeeping only.
func (h *H) PaymentClick(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	method := chi.URLParam(r, "method")

	link := h.Cfg.Payment.Link(method)
	if link == "" {
		http.Redirect(w, r, classPath(id)+"/payment?error=link_not_configured", http.StatusSeeOther)
		return
	}

	var regs []models.Registration
	if err := h.DB.Where("user_id = ?", u.ID).Find(&regs).Error; err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	reg, ok := booking.RegistrationForClass(regs, uint(id))
	if !ok {
		http.Redirect(w, r, classPath(id), http.StatusSeeOther)
		return
	}
	if err := h.Booking.MarkPaymentClicked(r.Context(), reg.ID, method); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, link, http.StatusSeeOther)
}

// GET /payment/qr/{method}.png — QR image for a payment link, so phones
// can scan from the studio's front-desk screen.
func (h *H) PaymentQR(w http.ResponseWriter, r *http.Request) {
	method := chi.URLParam(r, "method")
	link := h.Cfg.Payment.Link(method)
	if link == "" {
		http.NotFound(w, r)
		return
	}
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "failed to generate qr", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func classPath(id int) string {
	return "/classes/" + strconv.Itoa(id)
}
