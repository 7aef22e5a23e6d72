// Package notify keeps the pending-request badge current. The watcher
// is the canonical example of a mounted view: it performs its own
// initial load (a subscriber that mounts after a publish has missed
// it), then tracks updates from the contacts-updated signal.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"cardlink/internal/bus"
	"cardlink/internal/domain"
	"cardlink/internal/service"
)

type Watcher struct {
	contacts *service.ContactsService
	logger   *slog.Logger
	release  func()

	mu      sync.Mutex
	count   int
	primed  bool
	loadErr error
}

func NewWatcher(contacts *service.ContactsService, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{contacts: contacts, logger: logger}
}

// Mount subscribes to the signal and performs the initial load. The
// load failing is not fatal: the badge reports unprimed until either a
// retried Mount or the first signal delivers a count.
func (w *Watcher) Mount(ctx context.Context, b *bus.Bus) {
	w.release = b.Subscribe(domain.EventContactsUpdated, w.onUpdate)

	pending, err := w.contacts.PendingRequests(ctx)
	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.loadErr = err
		w.logger.Warn("pending badge initial load failed", "err", err)
		return
	}
	w.count = len(pending)
	w.primed = true
	w.loadErr = nil
}

// Unmount releases the subscription. Safe to call more than once.
func (w *Watcher) Unmount() {
	if w.release != nil {
		w.release()
		w.release = nil
	}
}

func (w *Watcher) onUpdate(payload any) {
	update, ok := payload.(domain.ContactsUpdated)
	if !ok {
		return
	}
	w.mu.Lock()
	w.count = update.PendingCount
	w.primed = true
	w.loadErr = nil
	w.mu.Unlock()
}

// PendingCount reports the latest known badge value and whether any
// value has been established yet.
func (w *Watcher) PendingCount() (int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count, w.primed
}
