// Package session encodes the dashboard identity as a signed token in the
// discord_session cookie. The server performs no authentication beyond
// verifying the signature and expiry; identity comes from the Discord
// OAuth callback.
package session

import (
	"errors"
	"fmt"
	"time"

	"vliz-backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// CookieName matches the original dashboard's cookie.
	CookieName = "discord_session"
	// Duration is the session lifetime.
	Duration = 7 * 24 * time.Hour
)

var ErrInvalidSession = errors.New("invalid or expired session")

// Codec signs and verifies session tokens (HS256).
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

func (c *Codec) Encode(s model.Session) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      s.UserID,
		"username": s.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(Duration).Unix(),
	}
	if s.Avatar != nil {
		claims["avatar"] = *s.Avatar
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

func (c *Codec) Decode(tokenString string) (*model.Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidSession
	}

	userID, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)
	if userID == "" {
		return nil, ErrInvalidSession
	}

	s := &model.Session{UserID: userID, Username: username}
	if avatar, ok := claims["avatar"].(string); ok {
		s.Avatar = &avatar
	}
	return s, nil
}
