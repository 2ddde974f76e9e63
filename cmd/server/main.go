package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"vliz-backend/internal/allowlist"
	"vliz-backend/internal/auth"
	"vliz-backend/internal/chat"
	"vliz-backend/internal/config"
	"vliz-backend/internal/database"
	"vliz-backend/internal/discord"
	"vliz-backend/internal/handler"
	"vliz-backend/internal/logstore"
	"vliz-backend/internal/middleware"
	"vliz-backend/internal/service"
	"vliz-backend/internal/session"
	"vliz-backend/internal/state"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()

	store, cleanup, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Failed to set up message store: %v", err)
	}
	defer cleanup()

	kv, err := state.NewFileKV(filepath.Join(cfg.DataDir, "client-state.json"))
	if err != nil {
		log.Fatalf("Failed to load client state: %v", err)
	}
	clientState := state.NewClientState(kv)

	list, err := allowlist.New(filepath.Join(cfg.DataDir, "allowed-users.json"), cfg.AdminIDs)
	if err != nil {
		log.Fatalf("Failed to load allow-list: %v", err)
	}

	codec := session.NewCodec(cfg.SessionSecret)
	oauth := auth.NewDiscordOAuth(cfg.DiscordClientID, cfg.DiscordClientSecret, cfg.DiscordRedirectURI)

	echo := chat.NewContentEchoSet(clientState)
	pipeline := chat.NewPipeline(store, echo)

	wsHub := service.NewWSHub()
	go wsHub.Run()

	engine := chat.NewEngine(store, clientState, wsHub, time.Duration(cfg.PollIntervalMs)*time.Millisecond)
	engineCtx, stopEngine := context.WithCancel(context.Background())
	go engine.Run(engineCtx)

	bot, err := discord.NewBot(cfg.DiscordBotToken, cfg.DiscordChannelID, store)
	if err != nil {
		log.Fatalf("Failed to create Discord bot: %v", err)
	}
	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to start Discord bot: %v", err)
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BodyLimit:    15 * 1024 * 1024, // file messages arrive base64-encoded
	})

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// Health
	healthH := handler.NewHealthHandler(store)
	app.Get("/health", healthH.Health)
	app.Get("/ready", healthH.Ready)

	// API v1
	v1 := app.Group("/api/v1")

	// Auth
	authH := handler.NewAuthHandler(oauth, codec, list, cfg.IsProduction())
	authGroup := v1.Group("/auth")
	authGroup.Get("/discord", middleware.RateLimit(10, time.Minute), authH.Login)
	authGroup.Get("/discord/callback", middleware.RateLimit(10, time.Minute), authH.Callback)
	authGroup.Get("/session", middleware.OptionalAuth(codec), authH.Session)
	authGroup.Delete("/session", authH.Logout)

	// Messages
	msgH := handler.NewMessageHandler(store, pipeline)
	messages := v1.Group("/messages", middleware.OptionalAuth(codec))
	messages.Get("/", msgH.Get)
	messages.Post("/send", middleware.RateLimit(30, time.Minute), msgH.Send)
	messages.Post("/file", middleware.RateLimit(10, time.Minute), msgH.SendFile)
	messages.Post("/delete", middleware.Auth(codec), msgH.Delete)
	messages.Post("/clear", middleware.Auth(codec), middleware.OwnerKey(cfg.OwnerKeyHash), msgH.Clear)

	// Allow-list administration
	userH := handler.NewUserHandler(list)
	users := v1.Group("/users", middleware.Auth(codec), middleware.Admin(list))
	users.Get("/", userH.List)
	users.Post("/", userH.Add)
	users.Delete("/", userH.Remove)

	// Viewer state
	settingsH := handler.NewSettingsHandler(clientState)
	v1.Get("/maintenance", settingsH.Maintenance)
	v1.Get("/preferences", middleware.Auth(codec), settingsH.Preferences)
	v1.Put("/preferences", middleware.Auth(codec), settingsH.UpdatePreferences)

	// WebSocket
	wsH := handler.NewWSHandler(wsHub, engine, codec)
	app.Get("/ws", wsH.Upgrade)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Printf("Vliz backend running on :%s (%s)", cfg.Port, cfg.Env)

	<-quit
	log.Println("Shutting down...")
	stopEngine()
	_ = app.ShutdownWithTimeout(5 * time.Second)
	wsHub.Shutdown()
	bot.Stop()
	log.Println("Server stopped")
}

// buildStore picks the log store backend: Postgres when DATABASE_URL is
// set, the remote companion server when BACKEND_URL is set, a local JSON
// file otherwise.
func buildStore(cfg *config.Config) (logstore.Store, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		pool, err := database.NewPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(context.Background(), pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Println("Using Postgres message store")
		return logstore.NewPostgresStore(pool), pool.Close, nil

	case cfg.BackendURL != "":
		log.Printf("Using remote message store at %s", cfg.BackendURL)
		return logstore.NewRemoteStore(cfg.BackendURL), func() {}, nil

	default:
		path := filepath.Join(cfg.DataDir, "messages.json")
		log.Printf("Using file message store at %s", path)
		return logstore.NewFileStore(path), func() {}, nil
	}
}
