package discovery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateCheck(t *testing.T) {
	tests := []struct {
		name        string
		token       string
		uploads     int
		wantAllowed bool
		wantReason  Reason
		wantNeeded  int
	}{
		{"anonymous", "", 0, false, ReasonNotAuthenticated, 2},
		{"zero uploads", "tok", 0, false, ReasonInsufficientContribution, 2},
		{"one upload", "tok", 1, false, ReasonInsufficientContribution, 1},
		{"at threshold", "tok", 2, true, ReasonNone, 0},
		{"above threshold", "tok", 5, true, ReasonNone, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := NewSession(nil)
			require.NoError(t, err)
			if tt.token != "" {
				require.NoError(t, session.SetToken(tt.token, "u1", "User"))
			}
			session.SetUploadCount(tt.uploads)

			gate := NewGate(session, nil, nil)
			decision := gate.Check()

			assert.Equal(t, tt.wantAllowed, decision.Allowed)
			assert.Equal(t, tt.wantReason, decision.Reason)
			assert.Equal(t, tt.wantNeeded, decision.Needed)
		})
	}
}

func TestGateDecisionMessagesAreDistinct(t *testing.T) {
	login := Decision{Reason: ReasonNotAuthenticated}.Message()
	uploads := Decision{Reason: ReasonInsufficientContribution}.Message()

	assert.NotEmpty(t, login)
	assert.NotEmpty(t, uploads)
	assert.NotEqual(t, login, uploads)
}

func TestGateDownloadLocalDenialSkipsNetwork(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
	}))
	defer srv.Close()

	session, err := NewSession(nil)
	require.NoError(t, err)
	require.NoError(t, session.SetToken("tok", "u1", "User"))
	session.SetUploadCount(1)

	gate := NewGate(session, NewCounterOverlay(), NewClient(srv.URL, session, nil))

	_, err = gate.Download(context.Background(), "n1")
	require.Error(t, err)
	assert.True(t, IsAuthorizationDenied(err))
	assert.Zero(t, atomic.LoadInt64(&hits))
}

func TestGateDownloadMapsServerRefusal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"code":    http.StatusForbidden,
			"message": "upload at least 2 notes to download",
		})
	}))
	defer srv.Close()

	session, err := NewSession(nil)
	require.NoError(t, err)
	require.NoError(t, session.SetToken("tok", "u1", "User"))
	// A stale local count may still pass the local gate; the server holds
	// the authoritative rule.
	session.SetUploadCount(3)

	gate := NewGate(session, NewCounterOverlay(), NewClient(srv.URL, session, nil))

	_, err = gate.Download(context.Background(), "n1")
	require.Error(t, err)
	assert.True(t, IsAuthorizationDenied(err))
	assert.Contains(t, err.Error(), "upload at least 2 notes")
}

func TestGateDownloadSuccessBumpsOverlay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	session, err := NewSession(nil)
	require.NoError(t, err)
	require.NoError(t, session.SetToken("tok", "u1", "User"))
	session.SetUploadCount(2)

	overlay := NewCounterOverlay()
	gate := NewGate(session, overlay, NewClient(srv.URL, session, nil))

	data, err := gate.Download(context.Background(), "n1")
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	merged := overlay.Apply([]Note{{ID: "n1", Downloads: 7}})
	assert.Equal(t, int64(8), merged[0].Downloads)
}
