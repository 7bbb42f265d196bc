package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFCMClient(endpoint string) *FCMClient {
	return &FCMClient{
		Endpoint:  endpoint,
		ProjectID: "test-project",
		Backoff:   time.Millisecond,
	}
}

func testMessage() *Message {
	return &Message{
		Token:        "device-token",
		Notification: &Notification{Title: "Hi", Body: "hey"},
		Data:         map[string]string{"type": "new_message"},
	}
}

func TestSendSuccess(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(map[string]string{"name": "projects/test-project/messages/m123"})
	}))
	defer srv.Close()

	c := newTestFCMClient(srv.URL)
	result, err := c.Send(context.Background(), "bearer-tok", testMessage())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "projects/test-project/messages/m123", result.ProviderMessageID)
	assert.Equal(t, "/v1/projects/test-project/messages:send", gotPath)
	assert.Equal(t, "Bearer bearer-tok", gotAuth)
	require.NotNil(t, gotReq.Message)
	assert.Equal(t, "device-token", gotReq.Message.Token)
}

func TestSendClientErrorIsTerminal(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, `{"error":{"status":"UNREGISTERED"}}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestFCMClient(srv.URL)
	result, err := c.Send(context.Background(), "tok", testMessage())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorDetail, "UNREGISTERED")
	assert.Equal(t, 1, hits, "4xx responses must not be retried")
}

func TestSendRetriesServerErrors(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"name": "projects/test-project/messages/m1"})
	}))
	defer srv.Close()

	c := newTestFCMClient(srv.URL)
	result, err := c.Send(context.Background(), "tok", testMessage())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, hits)
}

func TestSendExhaustedRetriesReportFailure(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestFCMClient(srv.URL)
	result, err := c.Send(context.Background(), "tok", testMessage())
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorDetail, "internal")
	assert.Equal(t, 3, hits)
}

func TestSendRequiresProjectID(t *testing.T) {
	c := &FCMClient{Endpoint: "https://fcm.googleapis.com"}
	_, err := c.Send(context.Background(), "tok", testMessage())
	require.Error(t, err)
	assert.IsType(t, ConfigError{}, err)
}
