package handlers

import (
	"net/http"
	"strings"
)

type Flash struct {
	Kind string // "ok" or "error"
	Text string
}

var okText = map[string]string{
	"saved":        "Saved.",
	"registered":   "You're registered. See you on the mat!",
	"unregistered": "Registration cancelled.",
	"cancelled":    "Class cancelled. Registrants have been notified.",
	"deleted":      "Deleted.",
	"created":      "Class created.",
	"waiver_saved": "Waiver saved.",
	"signed_up":    "Welcome! Your account is ready.",
}

var errText = map[string]string{
	"invalid_login":       "Invalid email or password.",
	"email_in_use":        "That email is already in use.",
	"missing":             "Please fill in all required fields.",
	"class_not_found":     "Class not found.",
	"class_cancelled":     "This class has been cancelled.",
	"already_registered":  "You are already registered for this class.",
	"invalid_amount":      "Invalid payment amount.",
	"invalid_time":        "Time must be in HH:MM 24-hour format.",
	"invalid_weeks":       "Weekly repeat must be between 0 and 26 weeks.",
	"link_not_configured": "That payment method is not set up yet.",
	"waiver_required":     "You must accept the waiver to sign up.",
}

// MakeFlash builds a banner from ?ok= / ?error= query params, falling
// back to explicit strings from the handler.
func MakeFlash(r *http.Request, errStr, msgStr string) *Flash {
	q := r.URL.Query()

	if raw := strings.TrimSpace(q.Get("error")); raw != "" {
		if t, ok := errText[strings.ToLower(raw)]; ok {
			return &Flash{Kind: "error", Text: t}
		}
		return &Flash{Kind: "error", Text: raw}
	}
	if raw := strings.TrimSpace(q.Get("ok")); raw != "" {
		if t, ok := okText[strings.ToLower(raw)]; ok {
			return &Flash{Kind: "ok", Text: t}
		}
		return &Flash{Kind: "ok", Text: raw}
	}

	if errStr != "" {
		return &Flash{Kind: "error", Text: errStr}
	}
	if msgStr != "" {
		return &Flash{Kind: "ok", Text: msgStr}
	}
	return nil
}
