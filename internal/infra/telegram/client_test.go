package telegram

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *TelebotAdapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	b, err := NewBot("test-token", server.URL, 5*time.Second)
	require.NoError(t, err)
	return NewTelebotAdapter(b)
}

func TestTelebotAdapter_SendMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":1700000000,"chat":{"id":42,"type":"private"},"text":"hello"}}`))
	})

	err := adapter.SendMessage(42, "hello", nil)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(gotPath, "/sendMessage"))
	assert.Equal(t, "42", gotBody["chat_id"])
	assert.Equal(t, "hello", gotBody["text"])
}

func TestTelebotAdapter_SendMessage_APIError(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	})

	err := adapter.SendMessage(42, "hello", nil)
	assert.Error(t, err)
}

func TestNewBot_DoesNotContactAPI(t *testing.T) {
	b, err := NewBot("test-token", "http://127.0.0.1:1", time.Second)
	require.NoError(t, err)

	err = NewTelebotAdapter(b).SendMessage(42, "hello", nil)
	assert.Error(t, err)
}
