package handlers

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"

	"github.com/stillpoint/studio/internal/models"
)

var markdown = goldmark.New()

// renderMarkdown converts waiver markdown to HTML for pages and emails.
func renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// GET /waiver — the currently active waiver, rendered from markdown.
func (h *H) WaiverShow(w http.ResponseWriter, r *http.Request) {
	var waiver models.Waiver
	if err := h.DB.Where("is_active = ?", true).First(&waiver).Error; err != nil {
		h.render(w, r, "waiver.tmpl", map[string]any{
			"Title": "Waiver",
			"None":  true,
		})
		return
	}
	body, err := renderMarkdown(waiver.Body)
	if err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "waiver.tmpl", map[string]any{
		"Title":   waiver.Title,
		"Waiver":  waiver,
		"Body":    body,
		"Version": waiver.Version,
	})
}
