package discovery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mineServer serves /api/notes/mine from a swappable note list.
type mineServer struct {
	mu    sync.Mutex
	notes []Note
	srv   *httptest.Server
}

func newMineServer(t *testing.T, notes []Note) *mineServer {
	t.Helper()
	ms := &mineServer{notes: notes}
	ms.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/notes/mine" {
			http.NotFound(w, r)
			return
		}
		ms.mu.Lock()
		defer ms.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "ok",
			"data":    ms.notes,
		})
	}))
	t.Cleanup(ms.srv.Close)
	return ms
}

func (ms *mineServer) set(notes []Note) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.notes = notes
}

func authedSession(t *testing.T) *Session {
	t.Helper()
	session, err := NewSession(nil)
	require.NoError(t, err)
	require.NoError(t, session.SetToken("tok", "u1", "User"))
	return session
}

func TestReconcilerBatchesApprovalsPerPass(t *testing.T) {
	ms := newMineServer(t, []Note{
		{ID: "n1", Status: "pending"},
		{ID: "n2", Status: "pending"},
		{ID: "n3", Status: "approved"},
	})
	session := authedSession(t)
	client := NewClient(ms.srv.URL, session, nil)

	var mu sync.Mutex
	var notifications []StatusNotification
	r := NewReconciler(client, session, time.Second, GateConfig{CountPending: true}, func(n StatusNotification) {
		mu.Lock()
		defer mu.Unlock()
		notifications = append(notifications, n)
	})

	// First pass primes the map; pre-existing statuses are not news.
	require.NoError(t, r.Refresh(context.Background()))
	mu.Lock()
	assert.Empty(t, notifications)
	mu.Unlock()

	// Two approvals and one rejection land between polls.
	ms.set([]Note{
		{ID: "n1", Status: "approved"},
		{ID: "n2", Status: "rejected"},
		{ID: "n3", Status: "approved"},
	})
	require.NoError(t, r.Refresh(context.Background()))

	mu.Lock()
	require.Len(t, notifications, 1)
	assert.Equal(t, 1, notifications[0].Approved)
	assert.Equal(t, 1, notifications[0].Rejected)
	mu.Unlock()

	// A repeat pass with no changes stays quiet.
	require.NoError(t, r.Refresh(context.Background()))
	mu.Lock()
	assert.Len(t, notifications, 1)
	mu.Unlock()
}

func TestReconcilerReplacesStatusMapWholesale(t *testing.T) {
	ms := newMineServer(t, []Note{
		{ID: "n1", Status: "pending"},
		{ID: "n2", Status: "pending"},
	})
	session := authedSession(t)
	r := NewReconciler(NewClient(ms.srv.URL, session, nil), session, time.Second, GateConfig{CountPending: true}, nil)

	require.NoError(t, r.Refresh(context.Background()))
	assert.Len(t, r.Statuses(), 2)

	// n2 was deleted server-side; the held map must not retain it.
	ms.set([]Note{{ID: "n1", Status: "approved"}})
	require.NoError(t, r.Refresh(context.Background()))

	statuses := r.Statuses()
	assert.Len(t, statuses, 1)
	assert.Equal(t, "approved", statuses["n1"])
}

func TestReconcilerRecomputesUploadCount(t *testing.T) {
	notes := []Note{
		{ID: "n1", Status: "pending"},
		{ID: "n2", Status: "approved"},
		{ID: "n3", Status: "rejected"},
	}

	tests := []struct {
		name         string
		countPending bool
		want         int
	}{
		{"pending counts", true, 3},
		{"approved only", false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := newMineServer(t, notes)
			session := authedSession(t)
			r := NewReconciler(NewClient(ms.srv.URL, session, nil), session, time.Second, GateConfig{CountPending: tt.countPending}, nil)

			require.NoError(t, r.Refresh(context.Background()))
			assert.Equal(t, tt.want, session.UploadCount())
		})
	}
}

func TestReconcilerSkipsWhenAnonymous(t *testing.T) {
	ms := newMineServer(t, []Note{{ID: "n1", Status: "pending"}})
	session, err := NewSession(nil)
	require.NoError(t, err)
	r := NewReconciler(NewClient(ms.srv.URL, session, nil), session, time.Second, GateConfig{CountPending: true}, nil)

	require.NoError(t, r.Refresh(context.Background()))
	assert.Empty(t, r.Statuses())
	assert.Zero(t, session.UploadCount())
}

func TestReconcilerRunStopsOnCancel(t *testing.T) {
	ms := newMineServer(t, []Note{{ID: "n1", Status: "pending"}})
	session := authedSession(t)

	var mu sync.Mutex
	notified := 0
	r := NewReconciler(NewClient(ms.srv.URL, session, nil), session, 10*time.Millisecond, GateConfig{CountPending: true}, func(StatusNotification) {
		mu.Lock()
		defer mu.Unlock()
		notified++
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	// Flip every status after shutdown: no further pass may observe it.
	ms.set([]Note{{ID: "n1", Status: "approved"}})
	mu.Lock()
	before := notified
	mu.Unlock()
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, before, notified)
	mu.Unlock()
}
