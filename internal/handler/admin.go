package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"menuboard/internal/auth"
	"menuboard/internal/editor"
	"menuboard/internal/qr"
)

// AdminHandler renders the operator console: the live preview frame, the
// display link and QR code, and the fullscreen control.
type AdminHandler struct {
	editors   *editor.Manager
	baseURL   string
	templates *template.Template
	logger    *slog.Logger
}

func NewAdminHandler(editors *editor.Manager, baseURL string, logger *slog.Logger) *AdminHandler {
	tmpl := template.Must(template.ParseGlob("web/templates/admin.html"))
	return &AdminHandler{
		editors:   editors,
		baseURL:   baseURL,
		templates: tmpl,
		logger:    logger,
	}
}

func (h *AdminHandler) Page(w http.ResponseWriter, r *http.Request) {
	sess := h.editors.Session(auth.UserID(r.Context()))
	menu, err := sess.Menu()
	if err != nil {
		h.logger.Error("load admin menu", "error", err)
		http.Error(w, "failed to load menu", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Menu":       menu,
		"DisplayURL": qr.DisplayURL(h.baseURL, menu.Slug),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "admin.html", data); err != nil {
		h.logger.Error("render admin", "error", err)
	}
}
