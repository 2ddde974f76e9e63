package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"vliz-backend/internal/model"

	"github.com/stretchr/testify/require"
)

func TestAvatarURL(t *testing.T) {
	tests := []struct {
		name string
		user model.DiscordUser
		want string
	}{
		{
			name: "static avatar is png",
			user: model.DiscordUser{ID: "1", Avatar: "abc123"},
			want: "https://cdn.discordapp.com/avatars/1/abc123.png?size=256",
		},
		{
			name: "animated avatar is gif",
			user: model.DiscordUser{ID: "1", Avatar: "a_abc123"},
			want: "https://cdn.discordapp.com/avatars/1/a_abc123.gif?size=256",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AvatarURL(&tc.user)
			require.NotNil(t, got)
			require.Equal(t, tc.want, *got)
		})
	}
}

func TestAvatarURL_NoAvatar(t *testing.T) {
	require.Nil(t, AvatarURL(&model.DiscordUser{ID: "1"}))
}

func TestAuthenticate(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "authorization_code", r.FormValue("grant_type"))
		require.Equal(t, "the-code", r.FormValue("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer"}`))
	}))
	defer tokenServer.Close()

	o := NewDiscordOAuth("client", "secret", "http://localhost/callback")
	o.tokenURL = tokenServer.URL
	o.fetchUser = func(accessToken string) (*model.DiscordUser, error) {
		require.Equal(t, "tok-123", accessToken)
		return &model.DiscordUser{ID: "42", Username: "ana", Avatar: "a_xyz"}, nil
	}

	s, err := o.Authenticate(context.Background(), "the-code")
	require.NoError(t, err)
	require.Equal(t, "42", s.UserID)
	require.Equal(t, "ana", s.Username)
	require.NotNil(t, s.Avatar)
	require.Contains(t, *s.Avatar, ".gif")
}

func TestAuthenticate_NoAccessToken(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer tokenServer.Close()

	o := NewDiscordOAuth("client", "secret", "http://localhost/callback")
	o.tokenURL = tokenServer.URL

	_, err := o.Authenticate(context.Background(), "bad-code")
	require.ErrorIs(t, err, ErrNoAccessToken)
}

func TestAuthenticate_TokenEndpointError(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer tokenServer.Close()

	o := NewDiscordOAuth("client", "secret", "http://localhost/callback")
	o.tokenURL = tokenServer.URL

	_, err := o.Authenticate(context.Background(), "bad-code")
	require.Error(t, err)
}
