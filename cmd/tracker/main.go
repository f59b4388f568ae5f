package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/go-telegram/bot"
	"github.com/joho/godotenv"

	"github.com/loslabs/launchpad-gateway/internal/cache"
	"github.com/loslabs/launchpad-gateway/internal/chain"
	"github.com/loslabs/launchpad-gateway/internal/config"
	"github.com/loslabs/launchpad-gateway/internal/tracker"
)

func main() {
	// Setup logger
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(log)

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found")
	}

	// Load config
	cfg := config.Load()
	if err := cfg.ValidateTracker(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	programID, err := solana.PublicKeyFromBase58(cfg.ProgramID)
	if err != nil {
		log.Error("invalid NFT_LAUNCHPAD_PROGRAM", "error", err)
		os.Exit(1)
	}

	mint, err := solana.PublicKeyFromBase58(cfg.GatingMint)
	if err != nil {
		log.Error("invalid GATING_TOKEN_MINT", "error", err)
		os.Exit(1)
	}
	chainClient := chain.NewClient(cfg.RPCURL, mint, log)

	// Dedup store: redis when configured, otherwise a bounded in-memory set
	// (single instance only, re-notifies after restart).
	var dedupe tracker.Deduper
	if cfg.RedisAddr != "" {
		cacheClient, err := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Error("init redis", "error", err)
			os.Exit(1)
		}
		defer cacheClient.Close()
		dedupe = tracker.NewRedisDeduper(cacheClient, cfg.SeenTTL, log)
		log.Info("dedup store initialized", "backend", "redis", "ttl", cfg.SeenTTL)
	} else {
		dedupe = tracker.NewMemoryDeduper(cfg.SeenCapacity)
		log.Warn("REDIS_ADDR not set, using in-memory dedup", "capacity", cfg.SeenCapacity)
	}

	// Initialize telegram bot
	tgBot, err := bot.New(cfg.TrackerBotToken)
	if err != nil {
		log.Error("init telegram bot", "error", err)
		os.Exit(1)
	}
	notifier := tracker.NewNotifier(tgBot, cfg.TrackerChatID)

	listener := tracker.NewListener(cfg.WSURL, programID, chainClient, dedupe, notifier, log)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Info("shutting down...")
		cancel()
	}()

	log.Info("starting mint tracker",
		"program", programID.String(),
		"ws", cfg.WSURL,
		"chat", cfg.TrackerChatID,
	)
	listener.Run(ctx)
}
