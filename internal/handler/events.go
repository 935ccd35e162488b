package handler

import (
	"log/slog"
	"net/http"

	wsconn "github.com/coder/websocket"

	"menuboard/internal/auth"
	"menuboard/internal/editor"
	ws "menuboard/internal/websocket"
)

// EventsHandler streams raw change notifications for the operator's own
// restaurant, so admin views can refetch without polling.
type EventsHandler struct {
	editors *editor.Manager
	hub     *ws.Hub
	logger  *slog.Logger
}

func NewEventsHandler(editors *editor.Manager, hub *ws.Hub, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{editors: editors, hub: hub, logger: logger}
}

func (h *EventsHandler) Socket(w http.ResponseWriter, r *http.Request) {
	sess := h.editors.Session(auth.UserID(r.Context()))
	menu, err := sess.Menu()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load menu")
		return
	}

	conn, err := wsconn.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket accept", "error", err)
		return
	}
	defer conn.Close(wsconn.StatusNormalClosure, "")

	topics := []string{
		ws.Topic("restaurants", "slug", menu.Slug),
		ws.Topic("menu_sections", "restaurant_id", menu.ID),
	}
	for _, id := range menu.SectionIDs() {
		topics = append(topics, ws.Topic("menu_items", "section_id", id))
	}

	client := ws.NewClient(h.hub, conn, topics...)
	client.Run(r.Context())
}
