package pushover_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"voice-assistant/internal/infra/pushover"
)

func TestClient_Notify(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/messages.json", r.URL.Path)
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		got = map[string]string{
			"token":   r.PostForm.Get("token"),
			"user":    r.PostForm.Get("user"),
			"message": r.PostForm.Get("message"),
			"title":   r.PostForm.Get("title"),
		}
		w.Write([]byte(`{"status":1}`))
	}))
	defer server.Close()

	c := pushover.NewClientWithURL("app-token", "user-key", server.URL)
	require.NoError(t, c.Notify(context.Background(), "Voice assistant stopped: boom"))

	require.Equal(t, map[string]string{
		"token":   "app-token",
		"user":    "user-key",
		"message": "Voice assistant stopped: boom",
		"title":   "Voice Assistant",
	}, got)
}

func TestClient_DisabledWithoutCredentials(t *testing.T) {
	c := pushover.NewClientWithURL("", "user-key", "http://127.0.0.1:1")
	require.False(t, c.Enabled())
	require.NoError(t, c.Notify(context.Background(), "ignored"))
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status":1}`))
	}))
	defer server.Close()

	c := pushover.NewClientWithURL("t", "u", server.URL)
	require.NoError(t, c.Notify(context.Background(), "hi"))
	require.Equal(t, int32(2), calls.Load())
}

func TestClient_RejectsBadRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"user":"invalid"}`))
	}))
	defer server.Close()

	c := pushover.NewClientWithURL("t", "u", server.URL)
	err := c.Notify(context.Background(), "hi")
	require.Error(t, err)
	require.Contains(t, err.Error(), "pushover API error 400")
	require.Equal(t, int32(1), calls.Load())
}
