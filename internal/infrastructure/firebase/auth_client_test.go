package firebase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medconnect/pkg/errors"
)

func newRESTClient(t *testing.T, handler http.HandlerFunc) *AuthClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewAuthClient(nil, "test-key")
	client.identityURL = server.URL
	client.tokenURL = server.URL
	return client
}

func writeRESTError(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{"code": 400, "message": message},
	})
}

func TestSignIn_ReturnsSession(t *testing.T) {
	client := newRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signInWithPassword", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.com", body["email"])
		assert.Equal(t, true, body["returnSecureToken"])

		json.NewEncoder(w).Encode(map[string]string{
			"localId":      "uid-1",
			"idToken":      "id-token",
			"refreshToken": "refresh-token",
			"expiresIn":    "3600",
		})
	})

	session, err := client.SignIn(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", session.UID)
	assert.Equal(t, "id-token", session.IDToken)
	assert.Equal(t, "refresh-token", session.RefreshToken)
	assert.Equal(t, int64(3600), session.ExpiresIn)
}

func TestSignIn_MapsProviderErrors(t *testing.T) {
	tests := []struct {
		message string
		code    string
	}{
		{"INVALID_PASSWORD", errors.CodeWrongPassword},
		{"INVALID_LOGIN_CREDENTIALS", errors.CodeWrongPassword},
		{"EMAIL_NOT_FOUND", errors.CodeUserNotFound},
		{"INVALID_EMAIL", errors.CodeInvalidEmail},
		{"TOO_MANY_ATTEMPTS_TRY_LATER : Access disabled", errors.CodeTooManyAttempts},
		{"WEAK_PASSWORD : Password should be at least 6 characters", errors.CodeWeakPassword},
		{"SOMETHING_NEW", errors.CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			client := newRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeRESTError(w, tt.message)
			})

			_, err := client.SignIn(context.Background(), "a@b.com", "secret")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestSignIn_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := NewAuthClient(nil, "test-key")
	client.identityURL = server.URL

	_, err := client.SignIn(context.Background(), "a@b.com", "secret")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNetwork))
}

func TestRefresh_UsesFormEncoding(t *testing.T) {
	client := newRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "old", r.PostForm.Get("refresh_token"))

		json.NewEncoder(w).Encode(map[string]string{
			"user_id":       "uid-1",
			"id_token":      "new-id",
			"refresh_token": "new-refresh",
			"expires_in":    "3600",
		})
	})

	session, err := client.Refresh(context.Background(), "old")
	require.NoError(t, err)
	assert.Equal(t, "new-id", session.IDToken)
	assert.Equal(t, "new-refresh", session.RefreshToken)
}

func TestRefresh_ExpiredTokenIsUnauthorized(t *testing.T) {
	client := newRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeRESTError(w, "TOKEN_EXPIRED")
	})

	_, err := client.Refresh(context.Background(), "old")
	assert.True(t, errors.Is(err, errors.CodeUnauthorized))
}

func TestSendPasswordReset(t *testing.T) {
	called := false
	client := newRESTClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, "/accounts:sendOobCode", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "PASSWORD_RESET", body["requestType"])
		w.Write([]byte(`{"email":"a@b.com"}`))
	})

	require.NoError(t, client.SendPasswordReset(context.Background(), "a@b.com"))
	assert.True(t, called)
}
