package refresh

import (
	"context"
	"log/slog"
	"sync"

	"menuboard/internal/model"
	ws "menuboard/internal/websocket"
)

// Notifier is the change-notification boundary, satisfied by the hub.
type Notifier interface {
	Subscribe(topics ...string) *ws.Subscription
}

// Subscriber fetches the menu once, then holds a standing subscription to
// change notifications and refetches the full menu on every event.
//
// Item topics are registered only for section ids known at subscribe time:
// a section created later produces section-topic events (which do trigger
// refetches), but its items get no topic of their own until the subscriber
// restarts. That matches the observed behavior; the Resubscribe option is
// the corrected alternate mode, off by default.
type Subscriber struct {
	fetcher     Fetcher
	notifier    Notifier
	slug        string
	resubscribe bool
	snap        *snapshot
	logger      *slog.Logger
	refresh     chan struct{}

	mu     sync.Mutex
	sub    *ws.Subscription
	cancel context.CancelFunc
	done   chan struct{}
}

// SubscriberOption configures a Subscriber.
type SubscriberOption func(*Subscriber)

// WithResubscribe rebuilds the topic set whenever a refetch changes the set
// of known section ids, closing the staleness gap for late-created sections.
func WithResubscribe() SubscriberOption {
	return func(s *Subscriber) { s.resubscribe = true }
}

// WithSubscriberOnChange registers a callback invoked after each applied snapshot.
func WithSubscriberOnChange(fn func(menu *model.Menu)) SubscriberOption {
	return func(s *Subscriber) { s.snap.onChange = fn }
}

// NewSubscriber creates a notification-driven watcher for the given slug.
func NewSubscriber(fetcher Fetcher, notifier Notifier, slug string, logger *slog.Logger, opts ...SubscriberOption) *Subscriber {
	s := &Subscriber{
		fetcher:  fetcher,
		notifier: notifier,
		slug:     slug,
		snap:     newSnapshot(nil),
		logger:   logger,
		refresh:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// topics derives the subscription topic set from a fetched menu.
func (s *Subscriber) topics(menu *model.Menu) []string {
	out := []string{
		ws.Topic("restaurants", "slug", s.slug),
		ws.Topic("menu_sections", "restaurant_id", menu.ID),
	}
	for _, id := range menu.SectionIDs() {
		out = append(out, ws.Topic("menu_items", "section_id", id))
	}
	return out
}

// Start performs the initial fetch, opens the subscription, and begins the
// event loop. If the initial fetch fails no subscription is opened and the
// error is returned; a failed Start may be retried. Once the loop has run
// and Stop was called the subscriber is spent: Start becomes a no-op
// returning nil.
func (s *Subscriber) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.done != nil {
		s.mu.Unlock()
		return nil
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	if err := fetchInto(ctx, s.fetcher, s.snap); err != nil {
		s.teardown()
		return err
	}

	menu, _ := s.snap.get()
	s.mu.Lock()
	s.sub = s.notifier.Subscribe(s.topics(menu)...)
	sub := s.sub
	s.mu.Unlock()

	go s.loop(ctx, sub, menu.SectionIDs())
	return nil
}

func (s *Subscriber) loop(ctx context.Context, sub *ws.Subscription, sectionIDs []int64) {
	defer close(s.done)
	defer func() { sub.Close() }()

	known := make(map[int64]struct{}, len(sectionIDs))
	for _, id := range sectionIDs {
		known[id] = struct{}{}
	}

	refetch := func() {
		if err := fetchInto(ctx, s.fetcher, s.snap); err != nil {
			if ctx.Err() == nil {
				s.logger.Warn("refetch failed", "error", err)
			}
			return
		}

		if !s.resubscribe {
			return
		}
		menu, _ := s.snap.get()
		if sameSections(known, menu.SectionIDs()) {
			return
		}
		// Section set changed: swap in a subscription covering the new
		// item topics before releasing the old one.
		next := s.notifier.Subscribe(s.topics(menu)...)
		s.mu.Lock()
		s.sub = next
		s.mu.Unlock()
		sub.Close()
		sub = next

		known = make(map[int64]struct{})
		for _, id := range menu.SectionIDs() {
			known[id] = struct{}{}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.C:
			if !ok {
				return
			}
			s.logger.Debug("change notification", "topic", msg.Topic, "type", msg.Type)
			refetch()
		case <-s.refresh:
			refetch()
		}
	}
}

func sameSections(known map[int64]struct{}, ids []int64) bool {
	if len(known) != len(ids) {
		return false
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return false
		}
	}
	return true
}

// Refresh triggers one out-of-band refetch on the event loop.
func (s *Subscriber) Refresh() {
	select {
	case s.refresh <- struct{}{}:
	default:
	}
}

// Stop tears the subscription down exactly once and waits for the loop to
// exit. Idempotent; teardown never fails loudly.
func (s *Subscriber) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if done != nil {
		<-done
	}
}

func (s *Subscriber) teardown() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	s.mu.Unlock()
}

func (s *Subscriber) Snapshot() (*model.Menu, uint64) { return s.snap.get() }
func (s *Subscriber) Status() Status                  { return s.snap.currentStatus() }
func (s *Subscriber) LastError() error                { return s.snap.err() }
