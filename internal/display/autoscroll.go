package display

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultScrollPause is how long the display rests at the top and at
	// the bottom before reversing.
	DefaultScrollPause = 2 * time.Second
	// DefaultFrameInterval approximates one animation frame.
	DefaultFrameInterval = 16 * time.Millisecond
	// DefaultScrollStep is how many pixels the content moves per frame.
	DefaultScrollStep = 2.0
)

type scrollPhase int

const (
	phasePauseTop scrollPhase = iota
	phaseScrollDown
	phasePauseBottom
	phaseScrollUp
)

// AutoScroller is the kiosk scroll cycle: pause at the top, scroll smoothly
// to the bottom, pause, scroll back up, repeat. The stepping is a plain
// state machine so tests drive it with synthetic time; Start runs it off a
// real frame ticker. At most one loop is ever outstanding: Start cancels a
// running loop before launching the next.
type AutoScroller struct {
	Pause         time.Duration
	FrameInterval time.Duration
	Step          float64

	mu       sync.Mutex
	viewport float64
	content  float64
	offset   float64
	phase    scrollPhase
	waited   time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// NewAutoScroller creates a scroller with the default cycle timing.
func NewAutoScroller() *AutoScroller {
	return &AutoScroller{
		Pause:         DefaultScrollPause,
		FrameInterval: DefaultFrameInterval,
		Step:          DefaultScrollStep,
	}
}

// SetExtents records the viewport and content heights reported by the
// display surface and restarts the cycle so scroll bounds stay correct
// after content size changes.
func (a *AutoScroller) SetExtents(viewport, content float64) {
	a.mu.Lock()
	a.viewport = viewport
	a.content = content
	a.resetLocked()
	a.mu.Unlock()
}

// Restart resets the cycle to the top pause. Called when fullscreen state
// or menu content changes.
func (a *AutoScroller) Restart() {
	a.mu.Lock()
	a.resetLocked()
	a.mu.Unlock()
}

func (a *AutoScroller) resetLocked() {
	a.phase = phasePauseTop
	a.waited = 0
	a.offset = 0
}

// Offset returns the current scroll offset.
func (a *AutoScroller) Offset() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.offset
}

func (a *AutoScroller) maxOffsetLocked() float64 {
	if a.content <= a.viewport {
		return 0
	}
	return a.content - a.viewport
}

// Advance moves the cycle forward by elapsed time and returns the offset
// plus whether it changed. With nothing to scroll the cycle idles at 0.
func (a *AutoScroller) Advance(elapsed time.Duration) (float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	max := a.maxOffsetLocked()
	if max == 0 {
		changed := a.offset != 0
		a.resetLocked()
		return 0, changed
	}

	before := a.offset
	switch a.phase {
	case phasePauseTop, phasePauseBottom:
		a.waited += elapsed
		if a.waited >= a.Pause {
			a.waited = 0
			if a.phase == phasePauseTop {
				a.phase = phaseScrollDown
			} else {
				a.phase = phaseScrollUp
			}
		}
	case phaseScrollDown:
		a.offset += a.stepFor(elapsed)
		if a.offset >= max {
			a.offset = max
			a.phase = phasePauseBottom
			a.waited = 0
		}
	case phaseScrollUp:
		a.offset -= a.stepFor(elapsed)
		if a.offset <= 0 {
			a.offset = 0
			a.phase = phasePauseTop
			a.waited = 0
		}
	}
	return a.offset, a.offset != before
}

func (a *AutoScroller) stepFor(elapsed time.Duration) float64 {
	frames := float64(elapsed) / float64(a.FrameInterval)
	return a.Step * frames
}

// Start launches the frame loop, emitting each offset change. A running
// loop is cancelled first, so restarts never leave two loops scrolling the
// same surface.
func (a *AutoScroller) Start(ctx context.Context, emit func(offset float64)) {
	a.Stop()

	a.mu.Lock()
	ctx, a.cancel = context.WithCancel(ctx)
	a.done = make(chan struct{})
	done := a.done
	interval := a.FrameInterval
	a.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if offset, changed := a.Advance(interval); changed {
					emit(offset)
				}
			}
		}
	}()
}

// Stop cancels the frame loop and waits for it to exit, leaving no
// scheduled callback behind. Idempotent.
func (a *AutoScroller) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel = nil
	a.done = nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
