package discovery

import "sync"

type counterDelta struct {
	views     int64
	downloads int64
}

// CounterOverlay layers optimistic view/download bumps over fetched notes.
// The fetched snapshot stays immutable; deltas are merged at read time and
// survive refetches until Reset.
type CounterOverlay struct {
	mu     sync.Mutex
	deltas map[string]counterDelta
}

func NewCounterOverlay() *CounterOverlay {
	return &CounterOverlay{
		deltas: make(map[string]counterDelta),
	}
}

func (o *CounterOverlay) BumpViews(noteID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	d := o.deltas[noteID]
	d.views++
	o.deltas[noteID] = d
}

func (o *CounterOverlay) BumpDownloads(noteID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	d := o.deltas[noteID]
	d.downloads++
	o.deltas[noteID] = d
}

// Apply returns copies of the notes with deltas merged in. The input slice
// is never mutated.
func (o *CounterOverlay) Apply(notes []Note) []Note {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]Note, len(notes))
	copy(out, notes)
	for i := range out {
		if d, ok := o.deltas[out[i].ID]; ok {
			out[i].Views += d.views
			out[i].Downloads += d.downloads
		}
	}
	return out
}

// Reset drops all deltas, typically after a refetch that already includes
// the server-side counts.
func (o *CounterOverlay) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deltas = make(map[string]counterDelta)
}
