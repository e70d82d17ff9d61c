package remote

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInSuccess(t *testing.T) {
	var gotGrant string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotGrant = r.URL.Query().Get("grant_type")
		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","token_type":"bearer","expires_in":3600,"user":{"id":"u1","email":"a@b.com"}}`))
	})

	session, err := client.SignIn(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "password", gotGrant)
	assert.Equal(t, "at", session.AccessToken)
	assert.Equal(t, "u1", session.User.ID)
}

func TestSignInInvalidCredentials(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	})

	_, err := client.SignIn(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password. Please try again.", err.Error())
}

func TestRefreshSessionGrantType(t *testing.T) {
	var gotGrant string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotGrant = r.URL.Query().Get("grant_type")
		_, _ = w.Write([]byte(`{"access_token":"fresh","refresh_token":"rt2"}`))
	})

	session, err := client.RefreshSession(context.Background(), "rt1")
	require.NoError(t, err)
	assert.Equal(t, "refresh_token", gotGrant)
	assert.Equal(t, "fresh", session.AccessToken)
}

func TestSignOutAcceptsNoContent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	assert.NoError(t, client.SignOut(context.Background(), "tok"))
}

func TestFriendlyAuthMessage(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Invalid login credentials", "Invalid email or password. Please try again."},
		{"Email not confirmed", "Please confirm your email address before logging in."},
		{"User already registered", "An account with this email already exists."},
		{"Password should be at least 6 characters", "Password must be at least 6 characters long."},
		{"", "An error occurred. Please try again."},
		{"Something provider specific", "Something provider specific"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, friendlyAuthMessage(tt.raw))
	}
}
