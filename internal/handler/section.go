package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"menuboard/internal/auth"
	"menuboard/internal/editor"
	ws "menuboard/internal/websocket"
)

type SectionHandler struct {
	editors *editor.Manager
	hub     *ws.Hub
	logger  *slog.Logger
}

func NewSectionHandler(editors *editor.Manager, hub *ws.Hub, logger *slog.Logger) *SectionHandler {
	return &SectionHandler{editors: editors, hub: hub, logger: logger}
}

type sectionRequest struct {
	Title    string `json:"title"`
	Position int    `json:"position"`
	Visible  bool   `json:"visible"`
}

func (h *SectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	sess := h.editors.Session(auth.UserID(r.Context()))
	sec, err := sess.AddSection(req.Title)
	if err != nil {
		h.writeSessionError(w, "create section", err)
		return
	}

	h.hub.Publish(ws.NewMessage(
		ws.Topic("menu_sections", "restaurant_id", sec.RestaurantID),
		"section", "created", sec.ID,
	))

	writeJSON(w, http.StatusCreated, sec)
}

func (h *SectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req sectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	sess := h.editors.Session(auth.UserID(r.Context()))
	if err := sess.UpdateSection(id, req.Title, req.Position, req.Visible); err != nil {
		h.writeSessionError(w, "update section", err)
		return
	}

	menu, err := sess.Menu()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load menu")
		return
	}

	h.hub.Publish(ws.NewMessage(
		ws.Topic("menu_sections", "restaurant_id", menu.ID),
		"section", "updated", id,
	))

	writeJSON(w, http.StatusOK, menu)
}

func (h *SectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	sess := h.editors.Session(auth.UserID(r.Context()))
	if err := sess.DeleteSection(id); err != nil {
		h.writeSessionError(w, "delete section", err)
		return
	}

	menu, err := sess.Menu()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load menu")
		return
	}

	h.hub.Publish(ws.NewMessage(
		ws.Topic("menu_sections", "restaurant_id", menu.ID),
		"section", "deleted", id,
	))

	w.WriteHeader(http.StatusNoContent)
}

func (h *SectionHandler) writeSessionError(w http.ResponseWriter, op string, err error) {
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
