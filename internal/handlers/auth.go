package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/stillpoint/studio/internal/email"
	"github.com/stillpoint/studio/internal/models"
)

const (
	sessionCookie = "session"
	sessionTTL    = 7 * 24 * time.Hour
)

type ctxKey int

const userCtxKey ctxKey = iota

// CurrentUser returns the logged-in user placed in the request context
// by WithUser, or nil.
func CurrentUser(r *http.Request) *models.User {
	u, _ := r.Context().Value(userCtxKey).(*models.User)
	return u
}

// WithUser resolves the session cookie to a user and stores it in the
// request context. Pages that work logged-out still see the user when
// there is one.
func (h *H) WithUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}
		var sess models.Session
		err = h.DB.Preload("User").Where("token = ?", c.Value).First(&sess).Error
		if err != nil || time.Now().After(sess.ExpiresAt) {
			next.ServeHTTP(w, r)
			return
		}
		ctx := context.WithValue(r.Context(), userCtxKey, &sess.User)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser blocks access unless logged in.
func (h *H) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r) == nil {
			http.Redirect(w, r, "/login?next="+r.URL.RequestURI(), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin blocks access unless the logged-in user carries the admin
// flag. The flag lives on the users table, not in a hardcoded list.
func (h *H) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := CurrentUser(r)
		if u == nil {
			http.Redirect(w, r, "/login?next="+r.URL.RequestURI(), http.StatusSeeOther)
			return
		}
		if !u.IsAdmin {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type signupForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Username string `validate:"required"`
	Phone    string `validate:"omitempty,min=7"`
}

// GET /signup
func (h *H) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "signup.tmpl", map[string]any{"Title": "Sign Up"})
}

// POST /signup
func (h *H) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	form := signupForm{
		Email:    strings.ToLower(strings.TrimSpace(r.FormValue("email"))),
		Password: r.FormValue("password"),
		Username: strings.TrimSpace(r.FormValue("username")),
		Phone:    strings.TrimSpace(r.FormValue("phone")),
	}
	if err := h.Validate.Struct(form); err != nil {
		http.Redirect(w, r, "/signup?error=missing", http.StatusSeeOther)
		return
	}
	if r.FormValue("accept_waiver") == "" {
		http.Redirect(w, r, "/signup?error=waiver_required", http.StatusSeeOther)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "hash error", http.StatusInternalServerError)
		return
	}
	user := models.User{
		Email:        form.Email,
		Username:     form.Username,
		Phone:        form.Phone,
		PasswordHash: string(hash),
		IsAdmin:      h.Cfg.AdminEmail != "" && form.Email == strings.ToLower(h.Cfg.AdminEmail),
	}
	if err := h.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			http.Redirect(w, r, "/signup?error=email_in_use", http.StatusSeeOther)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	h.sendWaiverAgreement(r, user)
	h.startSession(w, user)
	http.Redirect(w, r, "/?ok=signed_up", http.StatusSeeOther)
}

// GET /login
func (h *H) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.tmpl", map[string]any{
		"Title": "Login",
		"Next":  r.URL.Query().Get("next"),
	})
}

// POST /login
func (h *H) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	emailAddr := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")
	next := r.FormValue("next")
	if next == "" {
		next = "/"
	}

	var user models.User
	if err := h.DB.Where("email = ?", emailAddr).First(&user).Error; err != nil {
		http.Redirect(w, r, "/login?error=invalid_login", http.StatusSeeOther)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		http.Redirect(w, r, "/login?error=invalid_login", http.StatusSeeOther)
		return
	}

	h.startSession(w, user)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// POST /logout
func (h *H) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		h.DB.Where("token = ?", c.Value).Delete(&models.Session{})
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *H) startSession(w http.ResponseWriter, user models.User) {
	sess := models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if err := h.DB.Create(&sess).Error; err != nil {
		log.Printf("auth: create session for user %d: %v", user.ID, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  sess.ExpiresAt,
	})
}

// sendWaiverAgreement emails the active waiver to a fresh account.
// Best-effort: a mail failure never blocks signup.
func (h *H) sendWaiverAgreement(r *http.Request, user models.User) {
	var waiver models.Waiver
	if err := h.DB.Where("is_active = ?", true).First(&waiver).Error; err != nil {
		return // no active waiver, nothing to send
	}
	html, err := renderMarkdown(waiver.Body)
	if err != nil {
		log.Printf("auth: render waiver %d: %v", waiver.ID, err)
		return
	}
	msg := email.WaiverAgreement{
		UserName:      user.Username,
		AgreementDate: time.Now().In(h.Cfg.Location).Format("January 2, 2006"),
		WaiverHTML:    html,
	}
	if _, err := h.Mail.Send(r.Context(), email.SendRequest{
		To:      []string{user.Email},
		Subject: msg.Subject(),
		HTML:    msg.HTML(),
	}); err != nil {
		log.Printf("auth: waiver email to %s: %v", user.Email, err)
	}
}
