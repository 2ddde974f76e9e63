package model

// Session is the identity carried in the discord_session cookie.
type Session struct {
	UserID   string  `json:"userId"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
}

// DiscordUser mirrors the fields we read from the Discord users/@me endpoint.
type DiscordUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar"`
}

// AllowedUser is one entry of the access allow-list. Default entries are
// seeded from configuration and cannot be removed.
type AllowedUser struct {
	ID        string `json:"id"`
	IsDefault bool   `json:"isDefault"`
	AddedAt   string `json:"addedAt,omitempty"`
}
