package display

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"menuboard/internal/model"
	ws "menuboard/internal/websocket"
)

// SendFunc delivers one message to the display surface. Implementations
// wrap the websocket connection.
type SendFunc func(v any) error

// Outbound message kinds pushed to a kiosk surface.
type menuMessage struct {
	Kind string `json:"kind"`
	Menu View   `json:"menu"`
}

type scrollMessage struct {
	Kind   string  `json:"kind"`
	Offset float64 `json:"offset"`
}

type fullscreenMessage struct {
	Kind   string `json:"kind"`
	Action string `json:"action"`
}

// clientMessage is what a kiosk surface reports back: its scroll extents
// and its fullscreen state.
type clientMessage struct {
	Kind     string  `json:"kind"`
	Viewport float64 `json:"viewport"`
	Content  float64 `json:"content"`
	Active   bool    `json:"active"`
}

// KioskSession drives one unattended display surface: it pushes menu
// snapshots, runs the autoscroll cycle, and relays fullscreen commands from
// the control channel. The surface itself is passive.
type KioskSession struct {
	scroller *AutoScroller
	controls *ws.Subscription
	send     SendFunc
	logger   *slog.Logger

	mu         sync.Mutex
	fullscreen bool
}

// NewKioskSession binds a scroller, the restaurant's control-topic
// subscription, and an outbound sender.
func NewKioskSession(scroller *AutoScroller, controls *ws.Subscription, send SendFunc, logger *slog.Logger) *KioskSession {
	return &KioskSession{
		scroller: scroller,
		controls: controls,
		send:     send,
		logger:   logger,
	}
}

// OnMenu pushes a fresh snapshot to the surface and restarts the scroll
// cycle, since content changes move the scroll extents.
func (k *KioskSession) OnMenu(menu *model.Menu) {
	if err := k.send(menuMessage{Kind: "menu", Menu: BuildView(menu)}); err != nil {
		k.logger.Warn("push menu failed", "error", err)
		return
	}
	k.scroller.Restart()
}

// HandleClientData processes one message reported by the surface.
func (k *KioskSession) HandleClientData(data []byte) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		k.logger.Debug("bad client message", "error", err)
		return
	}

	switch msg.Kind {
	case "extents":
		k.scroller.SetExtents(msg.Viewport, msg.Content)
	case "fullscreen_state":
		k.mu.Lock()
		changed := k.fullscreen != msg.Active
		k.fullscreen = msg.Active
		k.mu.Unlock()
		if changed {
			k.scroller.Restart()
		}
	}
}

// Run enters fullscreen autonomously, starts the scroll loop, and relays
// control commands until the context ends. It blocks.
func (k *KioskSession) Run(ctx context.Context) {
	defer k.scroller.Stop()
	defer k.controls.Close()

	// Kiosks request fullscreen on mount. Denial is the surface's call;
	// there is no retry.
	k.requestFullscreen()

	k.scroller.Start(ctx, func(offset float64) {
		if err := k.send(scrollMessage{Kind: "scroll", Offset: offset}); err != nil {
			k.logger.Debug("push scroll failed", "error", err)
		}
	})

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-k.controls.C:
			if !ok {
				return
			}
			if msg.Action == "fullscreen" {
				k.requestFullscreen()
			}
		}
	}
}

// requestFullscreen makes exactly one request attempt. Failures are logged
// and swallowed; some embedding contexts forbid fullscreen.
func (k *KioskSession) requestFullscreen() {
	if err := k.send(fullscreenMessage{Kind: "fullscreen", Action: "fullscreen"}); err != nil {
		k.logger.Warn("fullscreen request failed", "error", err)
	}
}
