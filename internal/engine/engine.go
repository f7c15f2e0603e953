package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"cloudtalk/internal/blob"
	"cloudtalk/internal/events"
	"cloudtalk/internal/models"
	"cloudtalk/internal/observability"
	"cloudtalk/internal/store"
	"cloudtalk/internal/telemetry"
)

// DefaultPollInterval is the background re-fetch period when none is
// configured.
const DefaultPollInterval = 10 * time.Second

var (
	ErrNotLoaded      = errors.New("document not loaded")
	ErrAlreadyPolling = errors.New("poll scheduler already running")
)

// Options configures an Engine.
type Options struct {
	// PollInterval is the poll scheduler tick period. Zero means
	// DefaultPollInterval.
	PollInterval time.Duration
	// Emitter, when set, publishes each notification to the event bus.
	Emitter *telemetry.NotificationEmitter
}

// Engine turns a whole-document GET/PUT store into a live chat backend: it
// holds the last-known-good document, applies optimistic mutations, polls
// for remote changes and surfaces the ones another client authored.
type Engine struct {
	client blob.Client
	store  *store.Store
	hub    *events.Hub

	emitter      *telemetry.NotificationEmitter
	pollInterval time.Duration

	mu         sync.Mutex
	currentUID string
	openChatID string
	cancelPoll context.CancelFunc
	pollDone   chan struct{}
}

// New constructs an Engine around a document client. Polling does not start
// until Start is called after a successful Load.
func New(client blob.Client, opts Options) *Engine {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Engine{
		client:       client,
		store:        store.New(),
		hub:          events.NewHub(),
		emitter:      opts.Emitter,
		pollInterval: interval,
	}
}

// Hub exposes the notification fan-out for subscribers.
func (e *Engine) Hub() *events.Hub {
	return e.hub
}

// Document returns a copy of the latest known document, false before the
// initial load.
func (e *Engine) Document() (models.Document, bool) {
	return e.store.Current()
}

// SetCurrentUser records the logged-in uid used for diff attribution.
func (e *Engine) SetCurrentUser(uid string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.currentUID = uid
}

// CurrentUser returns the logged-in uid, empty when logged out.
func (e *Engine) CurrentUser() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentUID
}

// SetOpenChat records which conversation the UI has open; notifications for
// that chat are suppressed. Pass the empty string when none is open.
func (e *Engine) SetOpenChat(chatID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.openChatID = chatID
}

// OpenChat returns the currently open chat id.
func (e *Engine) OpenChat() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.openChatID
}

// Load performs the initial fetch. Failures here are blocking: there is
// nothing to show and no optimistic fallback.
func (e *Engine) Load(ctx context.Context) error {
	doc, err := e.client.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("initial load: %w", err)
	}
	e.store.Replace(doc)
	return nil
}

// Apply runs an optimistic mutation: the transformed document is visible to
// all readers immediately, then persisted. If the put fails the local change
// is discarded, the authoritative remote document is restored, and the
// error is returned so the caller can tell the user the action did not
// stick. Callers that do not care run it in a goroutine; the recovery path
// executes either way.
//
// Two back-to-back Applies are safe for append-style transforms because each
// reads from the store, which already reflects the prior optimistic write.
// Against concurrent writers from other processes the policy stays
// last-writer-wins.
func (e *Engine) Apply(ctx context.Context, transform func(models.Document) models.Document) error {
	current, ok := e.store.Current()
	if !ok {
		return ErrNotLoaded
	}

	next := transform(current)
	e.store.Replace(next)

	if err := e.client.Put(ctx, next); err != nil {
		observability.IncOptimisticRollback()
		log.Printf("engine: put failed, discarding optimistic state: %v", err)
		if remote, ferr := e.client.Fetch(ctx); ferr != nil {
			log.Printf("engine: recovery fetch failed: %v", ferr)
		} else {
			e.store.Replace(remote)
		}
		return fmt.Errorf("could not save changes: %w", err)
	}
	return nil
}

// Start launches the poll scheduler. It refuses to run before the initial
// load and at most one scheduler runs per engine.
func (e *Engine) Start(ctx context.Context) error {
	if !e.store.Loaded() {
		return ErrNotLoaded
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancelPoll != nil {
		return ErrAlreadyPolling
	}

	pollCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	e.cancelPoll = cancel
	e.pollDone = done

	go e.pollLoop(pollCtx, done)
	return nil
}

// Stop tears the poll timer down deterministically and waits for any
// in-flight tick to finish. Safe to call when not running.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel := e.cancelPoll
	done := e.pollDone
	e.cancelPoll = nil
	e.pollDone = nil
	e.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (e *Engine) pollLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	t := time.NewTicker(e.pollInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			// Ticks are not re-entrant: the next one is not read
			// from the ticker until this call returns.
			e.pollOnce(ctx)
		}
	}
}

// pollOnce runs one fetch-and-diff cycle. Fetch failures are logged and
// swallowed; transient network errors must never interrupt the user.
func (e *Engine) pollOnce(ctx context.Context) {
	observability.IncPollTick()

	previous, hasPrevious := e.store.Current()

	fresh, err := e.client.Fetch(ctx)
	if err != nil {
		log.Printf("engine: poll fetch failed: %v", err)
		return
	}
	e.store.Replace(fresh)

	if !hasPrevious {
		return
	}

	e.mu.Lock()
	uid := e.currentUID
	open := e.openChatID
	e.mu.Unlock()
	if uid == "" {
		return
	}

	for _, n := range diff(previous, fresh, uid, open) {
		observability.IncNotification(string(n.Kind))
		e.hub.Broadcast(n)
		if e.emitter != nil {
			e.emitter.Emit(ctx, uid, n)
		}
	}
}
