package discovery

import (
	"context"
	"sync"
	"time"
)

const defaultReconcileInterval = 10 * time.Second

// StatusNotification is the batched outcome of one reconcile pass. At most
// one is emitted per pass regardless of how many notes changed.
type StatusNotification struct {
	Approved int
	Rejected int
}

// Reconciler polls the caller's own notes and reports moderation outcomes.
// External moderators change statuses out of band; polling is the only
// channel by which those decisions reach the client.
type Reconciler struct {
	client   *Client
	session  *Session
	interval time.Duration
	cfg      GateConfig
	notify   func(StatusNotification)

	mu       sync.Mutex
	statuses map[string]string
	primed   bool
}

func NewReconciler(client *Client, session *Session, interval time.Duration, cfg GateConfig, notify func(StatusNotification)) *Reconciler {
	if interval <= 0 {
		interval = defaultReconcileInterval
	}
	return &Reconciler{
		client:   client,
		session:  session,
		interval: interval,
		cfg:      cfg,
		notify:   notify,
		statuses: make(map[string]string),
	}
}

// Run polls until ctx is cancelled. A failed pass is skipped; the held map
// keeps its last good state and the next tick tries again.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.pass(ctx)
		}
	}
}

// Refresh runs one pass immediately, sharing the apply path with the ticker
// loop. Concurrent passes are last-write-wins; the map is replaced
// wholesale either way, so order cannot corrupt it.
func (r *Reconciler) Refresh(ctx context.Context) error {
	return r.pass(ctx)
}

// Statuses returns a copy of the held status map.
func (r *Reconciler) Statuses() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.statuses))
	for id, status := range r.statuses {
		out[id] = status
	}
	return out
}

func (r *Reconciler) pass(ctx context.Context) error {
	if !r.session.Authenticated() {
		return nil
	}

	notes, err := r.client.MyNotes(ctx)
	if err != nil {
		return err
	}
	// A completion that lands after cancellation must not apply.
	if ctx.Err() != nil {
		return ctx.Err()
	}

	fresh := make(map[string]string, len(notes))
	uploads := 0
	for _, n := range notes {
		fresh[n.ID] = n.Status
		if r.cfg.CountPending || n.Status == "approved" {
			uploads++
		}
	}

	r.mu.Lock()
	var notification StatusNotification
	if r.primed {
		for id, status := range fresh {
			if r.statuses[id] != "pending" {
				continue
			}
			switch status {
			case "approved":
				notification.Approved++
			case "rejected":
				notification.Rejected++
			}
		}
	}
	r.statuses = fresh
	r.primed = true
	r.mu.Unlock()

	r.session.SetUploadCount(uploads)

	if r.notify != nil && (notification.Approved > 0 || notification.Rejected > 0) {
		r.notify(notification)
	}
	return nil
}
