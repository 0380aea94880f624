package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stillpoint/studio/internal/booking"
	"github.com/stillpoint/studio/internal/config"
	"github.com/stillpoint/studio/internal/db"
	"github.com/stillpoint/studio/internal/email"
	"github.com/stillpoint/studio/internal/models"
)

// stubTmpl satisfies Renderer for handlers that redirect and never
// render a page body.
type stubTmpl struct{}

func (stubTmpl) Render(w http.ResponseWriter, name string, data map[string]any) error { return nil }

func newTestH(t *testing.T) *H {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	cfg := config.Config{
		Location:   time.UTC,
		AdminEmail: "owner@example.com",
	}
	sender := email.NewNoopSender()
	return New(conn, stubTmpl{}, cfg, booking.NewService(conn, sender, time.UTC), sender)
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestSignupCreatesUserAndSession(t *testing.T) {
	h := newTestH(t)

	rec := httptest.NewRecorder()
	h.SignupSubmit(rec, postForm("/signup", url.Values{
		"email":         {"Jo@Example.com"},
		"password":      {"hunter2hunter2"},
		"username":      {"Jo"},
		"accept_waiver": {"on"},
	}))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status %d, want 303", rec.Code)
	}

	var user models.User
	if err := h.DB.Where("email = ?", "jo@example.com").First(&user).Error; err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if user.IsAdmin {
		t.Error("ordinary signup must not get the admin flag")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2hunter2")); err != nil {
		t.Error("stored hash does not match password")
	}

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("no session cookie set after signup")
	}
}

func TestSignupAdminBootstrap(t *testing.T) {
	h := newTestH(t)

	rec := httptest.NewRecorder()
	h.SignupSubmit(rec, postForm("/signup", url.Values{
		"email":         {"owner@example.com"},
		"password":      {"hunter2hunter2"},
		"username":      {"Owner"},
		"accept_waiver": {"on"},
	}))

	var user models.User
	if err := h.DB.Where("email = ?", "owner@example.com").First(&user).Error; err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if !user.IsAdmin {
		t.Error("configured admin email did not get the admin flag")
	}
}

func TestSignupRequiresWaiver(t *testing.T) {
	h := newTestH(t)

	rec := httptest.NewRecorder()
	h.SignupSubmit(rec, postForm("/signup", url.Values{
		"email":    {"jo@example.com"},
		"password": {"hunter2hunter2"},
		"username": {"Jo"},
	}))
	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, "waiver_required") {
		t.Errorf("redirect %q, want waiver_required error", loc)
	}
	var count int64
	h.DB.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Error("user created despite missing waiver acceptance")
	}
}

func TestLogin(t *testing.T) {
	h := newTestH(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.DefaultCost)
	h.DB.Create(&models.User{Email: "jo@example.com", PasswordHash: string(hash)})

	rec := httptest.NewRecorder()
	h.LoginSubmit(rec, postForm("/login", url.Values{
		"email":    {"jo@example.com"},
		"password": {"correct horse"},
	}))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Errorf("good login: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	h.LoginSubmit(rec, postForm("/login", url.Values{
		"email":    {"jo@example.com"},
		"password": {"wrong"},
	}))
	if !strings.Contains(rec.Header().Get("Location"), "invalid_login") {
		t.Errorf("bad login: redirect %q, want invalid_login", rec.Header().Get("Location"))
	}
}

func TestWithUserAndRequireAdmin(t *testing.T) {
	h := newTestH(t)
	user := models.User{Email: "jo@example.com"}
	h.DB.Create(&user)
	sess := models.Session{Token: "tok123", UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}
	h.DB.Create(&sess)

	seen := h.WithUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := CurrentUser(r); u == nil || u.Email != "jo@example.com" {
			t.Errorf("CurrentUser = %+v", CurrentUser(r))
		}
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "tok123"})
	seen.ServeHTTP(httptest.NewRecorder(), req)

	// Non-admin hitting an admin route gets 403.
	guard := h.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("admin handler reached by non-admin")
	}))
	req = httptest.NewRequest(http.MethodGet, "/admin/classes", nil)
	req = req.WithContext(context.WithValue(req.Context(), userCtxKey, &user))
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status %d, want 403", rec.Code)
	}

	// Logged out: redirect to login.
	rec = httptest.NewRecorder()
	guard.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/classes", nil))
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status %d, want 303", rec.Code)
	}
}

func TestExpiredSessionIgnored(t *testing.T) {
	h := newTestH(t)
	user := models.User{Email: "jo@example.com"}
	h.DB.Create(&user)
	h.DB.Create(&models.Session{Token: "old", UserID: user.ID, ExpiresAt: time.Now().Add(-time.Hour)})

	next := h.WithUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r) != nil {
			t.Error("expired session resolved to a user")
		}
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "old"})
	next.ServeHTTP(httptest.NewRecorder(), req)
}
