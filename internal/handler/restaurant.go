package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"menuboard/internal/auth"
	"menuboard/internal/editor"
	"menuboard/internal/qr"
	"menuboard/internal/storage"
	ws "menuboard/internal/websocket"
)

const maxLogoSize = 5 << 20 // 5 MiB

// RestaurantHandler serves the operator's own menu plus the restaurant-level
// settings: logo, theme, QR code, and the display fullscreen command.
type RestaurantHandler struct {
	editors *editor.Manager
	logos   *storage.LogoStore
	hub     *ws.Hub
	baseURL string
	logger  *slog.Logger
}

func NewRestaurantHandler(editors *editor.Manager, logos *storage.LogoStore, hub *ws.Hub, baseURL string, logger *slog.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		editors: editors,
		logos:   logos,
		hub:     hub,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Menu returns the operator's composite menu, all sections and items
// regardless of visibility.
func (h *RestaurantHandler) Menu(w http.ResponseWriter, r *http.Request) {
	sess := h.editors.Session(auth.UserID(r.Context()))
	menu, err := sess.Menu()
	if err != nil {
		h.writeSessionError(w, "load menu", err)
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

type themeRequest struct {
	Mode            string `json:"mode"`
	BrandBackground string `json:"brand_background"`
	BrandText       string `json:"brand_text"`
}

func (h *RestaurantHandler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	sess := h.editors.Session(auth.UserID(r.Context()))
	if err := sess.SetTheme(req.Mode, req.BrandBackground, req.BrandText); err != nil {
		h.writeSessionError(w, "update theme", err)
		return
	}

	menu, err := sess.Menu()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load menu")
		return
	}

	h.hub.Publish(ws.NewMessage(
		ws.Topic("restaurants", "slug", menu.Slug),
		"restaurant", "theme_updated", menu.ID,
	))

	writeJSON(w, http.StatusOK, menu.Restaurant)
}

// UploadLogo stores the uploaded file in object storage and patches the
// restaurant's logo URL.
func (h *RestaurantHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	if h.logos == nil {
		writeError(w, http.StatusServiceUnavailable, "logo storage not configured")
		return
	}

	if err := r.ParseMultipartForm(maxLogoSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid upload")
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "logo file is required")
		return
	}
	defer file.Close()

	sess := h.editors.Session(auth.UserID(r.Context()))
	menu, err := sess.Menu()
	if err != nil {
		h.writeSessionError(w, "load menu", err)
		return
	}

	url, err := h.logos.Upload(r.Context(), menu.ID, header.Filename, file, header.Size)
	if err != nil {
		h.logger.Error("logo upload", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to upload logo")
		return
	}

	if err := sess.SetLogo(url); err != nil {
		h.writeSessionError(w, "update logo", err)
		return
	}

	h.hub.Publish(ws.NewMessage(
		ws.Topic("restaurants", "slug", menu.Slug),
		"restaurant", "logo_updated", menu.ID,
	))

	writeJSON(w, http.StatusOK, map[string]string{"logo_path": url})
}

// QRCode renders the public display URL as a PNG QR code.
func (h *RestaurantHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	sess := h.editors.Session(auth.UserID(r.Context()))
	menu, err := sess.Menu()
	if err != nil {
		h.writeSessionError(w, "load menu", err)
		return
	}

	png, err := qr.PNG(h.baseURL, menu.Slug, 0)
	if err != nil {
		h.logger.Error("qr encode", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render qr code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// Fullscreen publishes the one-way fullscreen command to every display
// surface of the restaurant. Fire-and-forget: no acknowledgment exists.
func (h *RestaurantHandler) Fullscreen(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	h.hub.Publish(ws.NewMessage(ws.ControlTopic(slug), "display", "fullscreen", 0))

	w.WriteHeader(http.StatusAccepted)
}

func (h *RestaurantHandler) writeSessionError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, editor.ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, editor.ErrNoMenu):
		writeError(w, http.StatusNotFound, "no menu for operator")
	default:
		h.logger.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to "+op)
	}
}
