package firebase

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

func TestFunctionsClient_InvokeSendsCallableEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/addNotificationOnPostLike", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		var body map[string]map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "p1", body["data"]["postId"])
		w.Write([]byte(`{"result":null}`))
	}))
	defer server.Close()

	client := NewFunctionsClient(server.URL+"/", 100)
	err := client.Invoke(context.Background(), "addNotificationOnPostLike", map[string]string{"postId": "p1"}, "token")
	assert.NoError(t, err)
}

func TestFunctionsClient_InvokeReportsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := NewFunctionsClient(server.URL, 100)
	err := client.Invoke(context.Background(), "fn", nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestFunctionsClient_CallDoesNotBlock(t *testing.T) {
	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(done)
	}))
	defer server.Close()

	client := NewFunctionsClient(server.URL, 100)
	client.Call("fn", map[string]string{"a": "b"}, "")

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("function was never called")
	}
}
