package discovery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientMapsStatusesToFailureKinds(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantKind Kind
	}{
		{"unauthorized", http.StatusUnauthorized, KindAuthorizationDenied},
		{"forbidden", http.StatusForbidden, KindAuthorizationDenied},
		{"bad request", http.StatusBadRequest, KindValidationFailure},
		{"unprocessable", http.StatusUnprocessableEntity, KindValidationFailure},
		{"server error", http.StatusInternalServerError, KindNetworkFailure},
		{"not found", http.StatusNotFound, KindNetworkFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"success": false,
					"code":    tt.status,
					"message": "nope",
				})
			}))
			defer srv.Close()

			client := newTestClient(t, srv.URL)
			_, err := client.ListNotes(context.Background(), nil)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, KindOf(err))
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestClientTransportErrorIsNetworkFailure(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")
	_, err := client.ListNotes(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, KindNetworkFailure, KindOf(err))
}

func TestClientSendsBearerFromSession(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": []Note{}})
	}))
	defer srv.Close()

	session, err := NewSession(nil)
	require.NoError(t, err)
	client := NewClient(srv.URL, session, nil)

	_, err = client.MyNotes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)

	require.NoError(t, session.SetToken("tok-123", "u1", "User"))
	_, err = client.MyNotes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClientLoginInstallsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "Success login",
			"data": map[string]interface{}{
				"token": "jwt-abc",
				"user": map[string]string{
					"id": "u1", "email": "a@b.c", "name": "Asha", "role": "user",
				},
			},
		})
	}))
	defer srv.Close()

	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token"))
	session, err := NewSession(store)
	require.NoError(t, err)
	client := NewClient(srv.URL, session, nil)

	result, err := client.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", result.Token)
	assert.Equal(t, "jwt-abc", session.Token())
	assert.Equal(t, "u1", session.UserID())

	// A fresh session restores the persisted token.
	restored, err := NewSession(store)
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", restored.Token())
}

func TestSessionObservers(t *testing.T) {
	session, err := NewSession(nil)
	require.NoError(t, err)

	calls := 0
	unsubscribe := session.Subscribe(func() { calls++ })

	session.SetUploadCount(2)
	assert.Equal(t, 1, calls)

	// Unchanged count does not notify.
	session.SetUploadCount(2)
	assert.Equal(t, 1, calls)

	require.NoError(t, session.SetToken("tok", "u1", "User"))
	assert.Equal(t, 2, calls)

	unsubscribe()
	session.SetUploadCount(9)
	assert.Equal(t, 2, calls)
}
