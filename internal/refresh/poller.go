package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"menuboard/internal/model"
)

// DefaultPollInterval matches the display's refresh cadence: the rendered
// snapshot is at most one interval stale.
const DefaultPollInterval = 5 * time.Second

// Poller refetches the full menu on a fixed interval. No jitter, no backoff:
// a failed fetch keeps the previous snapshot and retries on the next tick.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	snap     *snapshot
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	refresh chan struct{}
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithInterval overrides the default poll interval.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) { p.interval = d }
}

// WithPollerOnChange registers a callback invoked after each applied snapshot.
func WithPollerOnChange(fn func(menu *model.Menu)) PollerOption {
	return func(p *Poller) { p.snap.onChange = fn }
}

// NewPoller creates a polling watcher over the given fetcher.
func NewPoller(fetcher Fetcher, logger *slog.Logger, opts ...PollerOption) *Poller {
	p := &Poller{
		fetcher:  fetcher,
		interval: DefaultPollInterval,
		snap:     newSnapshot(nil),
		logger:   logger,
		refresh:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start performs the initial fetch and begins the tick loop. The initial
// fetch error is returned so callers can render a not-found state; the loop
// runs regardless and keeps retrying. A Poller is single-use: calling Start
// on one that is running or stopped is a no-op returning nil.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.done != nil {
		p.mu.Unlock()
		return nil
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	p.mu.Unlock()

	err := fetchInto(ctx, p.fetcher, p.snap)
	if err != nil {
		p.logger.Warn("initial fetch failed", "error", err)
	}

	go p.loop(ctx)
	return err
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := fetchInto(ctx, p.fetcher, p.snap); err != nil && ctx.Err() == nil {
				p.logger.Warn("poll fetch failed", "error", err)
			}
		case <-p.refresh:
			if err := fetchInto(ctx, p.fetcher, p.snap); err != nil && ctx.Err() == nil {
				p.logger.Warn("manual fetch failed", "error", err)
			}
		}
	}
}

// Refresh triggers one out-of-band refetch on the poll loop.
func (p *Poller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Stop cancels the tick loop and waits for it to exit. No fetch is issued
// after Stop returns. Idempotent.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (p *Poller) Snapshot() (*model.Menu, uint64) { return p.snap.get() }
func (p *Poller) Status() Status                 { return p.snap.currentStatus() }
func (p *Poller) LastError() error               { return p.snap.err() }
