package discovery

import (
	"context"
	"fmt"
)

// ReciprocityThreshold is the number of uploads that unlocks downloading.
const ReciprocityThreshold = 2

// Reason says why the gate refused.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNotAuthenticated
	ReasonInsufficientContribution
)

// Decision is the gate's verdict. Needed carries how many more uploads the
// caller must contribute before downloads unlock.
type Decision struct {
	Allowed bool
	Reason  Reason
	Needed  int
}

func (d Decision) Message() string {
	switch d.Reason {
	case ReasonNotAuthenticated:
		return "login to download notes"
	case ReasonInsufficientContribution:
		return fmt.Sprintf("upload at least %d notes to download", ReciprocityThreshold)
	}
	return ""
}

// GateConfig controls which uploads count toward the threshold. Counting
// pending uploads matches the server default; flip it when the service is
// configured to count approved notes only.
type GateConfig struct {
	CountPending bool
}

// Gate enforces give-to-get locally before any download request leaves the
// machine. The server holds the authoritative copy of the same rule, so a
// stale local count still cannot leak a file.
type Gate struct {
	session *Session
	overlay *CounterOverlay
	client  *Client
}

func NewGate(session *Session, overlay *CounterOverlay, client *Client) *Gate {
	return &Gate{
		session: session,
		overlay: overlay,
		client:  client,
	}
}

// Check is pure over the session snapshot: not logged in beats not enough
// uploads, and the two refusals are distinct.
func (g *Gate) Check() Decision {
	if !g.session.Authenticated() {
		return Decision{Reason: ReasonNotAuthenticated, Needed: ReciprocityThreshold}
	}
	uploads := g.session.UploadCount()
	if uploads < ReciprocityThreshold {
		return Decision{
			Reason: ReasonInsufficientContribution,
			Needed: ReciprocityThreshold - uploads,
		}
	}
	return Decision{Allowed: true}
}

// Download runs the gate, then the request. A local refusal never touches
// the network; a server-side 403 comes back as the same denial kind. On
// success the note's download counter is bumped in the overlay so the UI
// reflects it before the next refetch.
func (g *Gate) Download(ctx context.Context, noteID string) ([]byte, error) {
	if decision := g.Check(); !decision.Allowed {
		return nil, newError(KindAuthorizationDenied, decision.Message(), 0, nil)
	}

	data, err := g.client.DownloadNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if g.overlay != nil {
		g.overlay.BumpDownloads(noteID)
	}
	return data, nil
}
