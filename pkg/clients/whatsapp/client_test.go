package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/fodder/internal/config"
)

func TestSendTextMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v20.0/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "919800000000", body["to"])
		assert.Equal(t, "text", body["type"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer server.Close()

	c := NewClient(config.WhatsAppConfig{BaseURL: server.URL + "/", APIVersion: "v20.0", AccessToken: "token", PhoneNumberID: "12345"})
	resp, err := c.SendTextMessage(context.Background(), SendTextMessageRequest{To: "919800000000", Body: "hi"})
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "wamid.1", resp.Messages[0].ID)
}

func TestSendTextMessageAPIError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid recipient","code":131030}}`))
	}))
	defer server.Close()

	c := NewClient(config.WhatsAppConfig{BaseURL: server.URL, APIVersion: "v20.0", PhoneNumberID: "12345"})
	_, err := c.SendTextMessage(context.Background(), SendTextMessageRequest{To: "1", Body: "hi"})
	require.EqualError(t, err, "whatsapp api error: code=131030, message=invalid recipient")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSendTextMessageRequiresRecipient(t *testing.T) {
	c := NewClient(config.WhatsAppConfig{BaseURL: "http://127.0.0.1:1", APIVersion: "v20.0"})
	_, err := c.SendTextMessage(context.Background(), SendTextMessageRequest{Body: "hi"})
	assert.Error(t, err)
}
