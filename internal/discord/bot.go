// Package discord runs the optional support bot: messages posted in the
// configured Discord channel land in the shared log, so the support team
// can answer (and drive the maintenance commands) without opening the
// dashboard.
package discord

import (
	"context"
	"log"
	"time"

	"vliz-backend/internal/auth"
	"vliz-backend/internal/chat"
	"vliz-backend/internal/logstore"
	"vliz-backend/internal/model"

	"github.com/bwmarrin/discordgo"
)

type Bot struct {
	session   *discordgo.Session
	channelID string
	store     logstore.Store
}

// NewBot creates and configures the support bot. An empty token disables
// it; callers get nil and the rest of the server runs without it.
func NewBot(token, channelID string, store logstore.Store) (*Bot, error) {
	if token == "" {
		log.Println("[discord-bot] No bot token configured, bot disabled")
		return nil, nil
	}

	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	s.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	bot := &Bot{session: s, channelID: channelID, store: store}
	s.AddHandler(bot.onMessageCreate)

	return bot, nil
}

// Start opens the Discord gateway connection.
func (b *Bot) Start() error {
	if b == nil || b.session == nil {
		return nil
	}
	if err := b.session.Open(); err != nil {
		return err
	}
	log.Println("[discord-bot] Bot connected to Discord")
	return nil
}

// Stop closes the Discord gateway connection.
func (b *Bot) Stop() {
	if b == nil || b.session == nil {
		return
	}
	_ = b.session.Close()
	log.Println("[discord-bot] Bot disconnected")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore own messages and other channels
	if m.Author.ID == s.State.User.ID {
		return
	}
	if b.channelID != "" && m.ChannelID != b.channelID {
		return
	}
	if m.Content == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Control commands go in raw so the sync engine sees them verbatim.
	if _, ok := chat.AsCommand(m.Content); ok {
		if err := b.store.Append(ctx, m.Content); err != nil {
			log.Printf("[discord-bot] append command: %v", err)
		}
		return
	}

	record := chat.Tag{
		Author: &model.Author{
			UserID:   m.Author.ID,
			Username: m.Author.Username,
			Avatar: auth.AvatarURL(&model.DiscordUser{
				ID:     m.Author.ID,
				Avatar: m.Author.Avatar,
			}),
		},
		Body: m.Content,
	}.Encode()

	if err := b.store.Append(ctx, record); err != nil {
		log.Printf("[discord-bot] append message: %v", err)
	}
}
