// Package auth performs the Discord OAuth code exchange and turns the
// resulting Discord identity into a dashboard session.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vliz-backend/internal/model"

	"github.com/bwmarrin/discordgo"
)

const defaultTokenURL = "https://discord.com/api/oauth2/token"

var ErrNoAccessToken = errors.New("discord returned no access token")

// DiscordOAuth exchanges authorization codes for tokens and fetches the
// authenticated user. The token endpoint and user fetcher are swappable
// for tests.
type DiscordOAuth struct {
	clientID     string
	clientSecret string
	redirectURI  string

	tokenURL  string
	client    *http.Client
	fetchUser func(accessToken string) (*model.DiscordUser, error)
}

func NewDiscordOAuth(clientID, clientSecret, redirectURI string) *DiscordOAuth {
	return &DiscordOAuth{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		tokenURL:     defaultTokenURL,
		client:       &http.Client{Timeout: 10 * time.Second},
		fetchUser:    fetchDiscordUser,
	}
}

// AuthURL builds the authorize redirect for the login page.
func (o *DiscordOAuth) AuthURL() string {
	params := url.Values{
		"client_id":     {o.clientID},
		"redirect_uri":  {o.redirectURI},
		"response_type": {"code"},
		"scope":         {"identify"},
	}
	return "https://discord.com/api/oauth2/authorize?" + params.Encode()
}

// Authenticate runs the full callback flow: code to token, token to user,
// user to session (with the CDN avatar URL resolved).
func (o *DiscordOAuth) Authenticate(ctx context.Context, code string) (*model.Session, error) {
	accessToken, err := o.exchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := o.fetchUser(accessToken)
	if err != nil {
		return nil, fmt.Errorf("fetch discord user: %w", err)
	}

	return &model.Session{
		UserID:   user.ID,
		Username: user.Username,
		Avatar:   AvatarURL(user),
	}, nil
}

func (o *DiscordOAuth) exchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{
		"client_id":     {o.clientID},
		"client_secret": {o.clientSecret},
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {o.redirectURI},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("exchange code: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("exchange code: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("exchange code: discord returned %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("exchange code: %w", err)
	}
	if payload.AccessToken == "" {
		return "", ErrNoAccessToken
	}
	return payload.AccessToken, nil
}

// AvatarURL resolves the CDN URL for a user's avatar. Animated avatars
// (hash prefixed with "a_") resolve to gif, everything else to png.
func AvatarURL(u *model.DiscordUser) *string {
	if u.Avatar == "" {
		return nil
	}
	ext := "png"
	if strings.HasPrefix(u.Avatar, "a_") {
		ext = "gif"
	}
	url := fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.%s?size=256", u.ID, u.Avatar, ext)
	return &url
}

// fetchDiscordUser reads users/@me with a bearer session.
func fetchDiscordUser(accessToken string) (*model.DiscordUser, error) {
	s, err := discordgo.New("Bearer " + accessToken)
	if err != nil {
		return nil, err
	}

	u, err := s.User("@me")
	if err != nil {
		return nil, err
	}
	return &model.DiscordUser{
		ID:            u.ID,
		Username:      u.Username,
		Discriminator: u.Discriminator,
		Avatar:        u.Avatar,
	}, nil
}
