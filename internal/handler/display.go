package handler

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"sync"

	wsconn "github.com/coder/websocket"

	"menuboard/internal/display"
	"menuboard/internal/model"
	"menuboard/internal/refresh"
	"menuboard/internal/store"
	ws "menuboard/internal/websocket"
)

// DisplayHandler serves the public, read-only display surfaces: the
// server-rendered page, the composite menu JSON, and the display socket.
type DisplayHandler struct {
	gateway   *store.Gateway
	hub       *ws.Hub
	templates *template.Template
	logger    *slog.Logger
}

func NewDisplayHandler(gateway *store.Gateway, hub *ws.Hub, logger *slog.Logger) *DisplayHandler {
	tmpl := template.Must(template.ParseGlob("web/templates/display.html"))
	return &DisplayHandler{gateway: gateway, hub: hub, templates: tmpl, logger: logger}
}

// Menu returns the composite menu for a slug, unfiltered; visibility is a
// render concern and the admin preview needs the full snapshot.
func (h *DisplayHandler) Menu(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	menu, err := h.gateway.MenuBySlug(slug)
	if err != nil {
		h.logger.Error("fetch menu", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch menu")
		return
	}
	if menu == nil {
		writeError(w, http.StatusNotFound, "menu not found")
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

// Page renders the public display page for a slug.
func (h *DisplayHandler) Page(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	menu, err := h.gateway.MenuBySlug(slug)
	if err != nil {
		h.logger.Error("fetch menu", "slug", slug, "error", err)
		http.Error(w, "failed to fetch menu", http.StatusInternalServerError)
		return
	}
	if menu == nil {
		http.Error(w, "Menu not found", http.StatusNotFound)
		return
	}

	data := map[string]any{
		"View":     display.BuildView(menu),
		"Slug":     slug,
		"Kiosk":    r.URL.Query().Get("kiosk") == "1",
		"Strategy": r.URL.Query().Get("strategy"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "display.html", data); err != nil {
		h.logger.Error("render display", "slug", slug, "error", err)
	}
}

// Socket is the display's live channel. The server runs the chosen refresh
// strategy (?strategy=poll|subscribe, poll by default) and pushes view
// snapshots; with ?kiosk=1 it also drives the fullscreen/autoscroll
// choreography for the surface.
func (h *DisplayHandler) Socket(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	strategy := r.URL.Query().Get("strategy")
	kiosk := r.URL.Query().Get("kiosk") == "1"

	conn, err := wsconn.Accept(w, r, &wsconn.AcceptOptions{
		// The admin embeds the display in a preview frame; no origin
		// restriction is applied to the display socket.
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Warn("websocket accept", "error", err)
		return
	}
	defer conn.Close(wsconn.StatusNormalClosure, "")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// coder/websocket permits one concurrent writer; snapshots, scroll
	// frames, and commands all funnel through this.
	var writeMu sync.Mutex
	send := func(v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.Write(ctx, wsconn.MessageText, data)
	}

	fetcher := refresh.FetchFunc(func(context.Context) (*model.Menu, error) {
		return h.gateway.MenuBySlug(slug)
	})
	logger := h.logger.With("slug", slug, "strategy", strategy)

	// Every display surface, embedded previews included, listens on the
	// restaurant's control topic so the fullscreen command reaches it.
	// Close here covers the paths where no session loop ever runs.
	controls := h.hub.Subscribe(ws.ControlTopic(slug))
	defer controls.Close()

	var kioskSess *display.KioskSession
	onMenu := func(menu *model.Menu) {
		if err := send(map[string]any{"kind": "menu", "menu": display.BuildView(menu)}); err != nil {
			logger.Debug("push menu failed", "error", err)
		}
	}
	if kiosk {
		scroller := display.NewAutoScroller()
		kioskSess = display.NewKioskSession(scroller, controls, send, logger)
		onMenu = kioskSess.OnMenu
	}

	var watcher refresh.Watcher
	if strategy == "subscribe" {
		watcher = refresh.NewSubscriber(fetcher, h.hub, slug, logger, refresh.WithSubscriberOnChange(onMenu))
	} else {
		watcher = refresh.NewPoller(fetcher, logger, refresh.WithPollerOnChange(onMenu))
	}

	if err := watcher.Start(ctx); err != nil {
		send(map[string]string{"kind": "error", "error": "menu not found"})
		return
	}
	defer watcher.Stop()

	if kioskSess != nil {
		go kioskSess.Run(ctx)
	} else {
		go h.relayControls(ctx, controls, send, logger)
	}

	// Read pump: kiosk surfaces report extents and fullscreen state;
	// anything else is discarded.
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if kioskSess != nil {
			kioskSess.HandleClientData(data)
		}
	}
}

// relayControls forwards fullscreen commands to non-kiosk surfaces; kiosk
// sessions consume the control subscription themselves.
func (h *DisplayHandler) relayControls(ctx context.Context, controls *ws.Subscription, send func(v any) error, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-controls.C:
			if !ok {
				return
			}
			if msg.Action != "fullscreen" {
				continue
			}
			if err := send(map[string]string{"kind": "fullscreen", "action": "fullscreen"}); err != nil {
				logger.Debug("push fullscreen failed", "error", err)
			}
		}
	}
}
