package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Env           string
	Port          string
	DataDir       string
	DatabaseURL   string
	BackendURL    string
	SessionSecret string
	OwnerKeyHash  string
	AdminIDs      []string

	DiscordClientID     string
	DiscordClientSecret string
	DiscordRedirectURI  string
	DiscordBotToken     string
	DiscordChannelID    string

	PollIntervalMs int
}

func Load() *Config {
	return &Config{
		Env:           getEnv("ENV", "development"),
		Port:          getEnv("PORT", "3000"),
		DataDir:       getEnv("DATA_DIR", "data"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		BackendURL:    getEnv("BACKEND_URL", ""),
		SessionSecret: getEnv("SESSION_SECRET", "dev-session-secret-not-for-production-use-64-chars-minimum-pad"),
		OwnerKeyHash:  getEnv("OWNER_KEY_HASH", ""),
		AdminIDs:      getEnvList("ADMIN_IDS", "998836610516914236,452244710350782515"),

		DiscordClientID:     getEnv("DISCORD_CLIENT_ID", ""),
		DiscordClientSecret: getEnv("DISCORD_CLIENT_SECRET", ""),
		DiscordRedirectURI:  getEnv("DISCORD_REDIRECT_URI", "http://localhost:3000/api/v1/auth/discord/callback"),
		DiscordBotToken:     getEnv("DISCORD_BOT_TOKEN", ""),
		DiscordChannelID:    getEnv("DISCORD_CHANNEL_ID", ""),

		PollIntervalMs: getEnvInt("POLL_INTERVAL_MS", 500),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
