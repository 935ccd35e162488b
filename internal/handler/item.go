package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"menuboard/internal/auth"
	"menuboard/internal/editor"
	"menuboard/internal/store"
	ws "menuboard/internal/websocket"
)

type ItemHandler struct {
	editors *editor.Manager
	items   *store.ItemStore
	hub     *ws.Hub
	logger  *slog.Logger
}

func NewItemHandler(editors *editor.Manager, items *store.ItemStore, hub *ws.Hub, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{editors: editors, items: items, hub: hub, logger: logger}
}

// itemRequest mirrors the edit form: price arrives as text or number and
// tags as one comma-joined string.
type itemRequest struct {
	Name        string      `json:"name"`
	Price       json.Number `json:"price"`
	Description string      `json:"description"`
	Tags        string      `json:"tags"`
	IsFeatured  bool        `json:"is_featured"`
	IsTrending  bool        `json:"is_trending"`
	Visible     bool        `json:"visible"`
}

func (r itemRequest) input() editor.ItemInput {
	return editor.ItemInput{
		Name:        r.Name,
		Price:       r.Price.String(),
		Description: r.Description,
		Tags:        r.Tags,
		IsFeatured:  r.IsFeatured,
		IsTrending:  r.IsTrending,
		Visible:     r.Visible,
	}
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	sectionID, err := parseIDParam(r, "section_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid section id")
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	sess := h.editors.Session(auth.UserID(r.Context()))
	item, err := sess.AddItem(sectionID, req.input())
	if err != nil {
		h.writeSessionError(w, "create item", err)
		return
	}

	h.hub.Publish(ws.NewMessage(
		ws.Topic("menu_items", "section_id", sectionID),
		"item", "created", item.ID,
	))

	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.items.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	sess := h.editors.Session(auth.UserID(r.Context()))
	if err := sess.UpdateItem(id, req.input()); err != nil {
		h.writeSessionError(w, "update item", err)
		return
	}

	h.hub.Publish(ws.NewMessage(
		ws.Topic("menu_items", "section_id", existing.SectionID),
		"item", "updated", id,
	))

	menu, err := sess.Menu()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load menu")
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.items.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	sess := h.editors.Session(auth.UserID(r.Context()))
	if err := sess.DeleteItem(id); err != nil {
		h.writeSessionError(w, "delete item", err)
		return
	}

	h.hub.Publish(ws.NewMessage(
		ws.Topic("menu_items", "section_id", existing.SectionID),
		"item", "deleted", id,
	))

	w.WriteHeader(http.StatusNoContent)
}

func (h *ItemHandler) writeSessionError(w http.ResponseWriter, op string, err error) {
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
