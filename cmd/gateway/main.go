package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/loslabs/launchpad-gateway/internal/api"
	"github.com/loslabs/launchpad-gateway/internal/cache"
	"github.com/loslabs/launchpad-gateway/internal/chain"
	"github.com/loslabs/launchpad-gateway/internal/config"
	"github.com/loslabs/launchpad-gateway/internal/gating"
	"github.com/loslabs/launchpad-gateway/internal/secrets"
	"github.com/loslabs/launchpad-gateway/internal/storage"
	"github.com/loslabs/launchpad-gateway/internal/telegram"
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
	if err := cfg.ValidateGateway(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize storage
	store, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Error("init storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	log.Info("storage initialized", "path", cfg.DBPath)

	// Initialize holder cache (optional fallback source)
	var holderCache gating.HolderCache
	if cfg.RedisAddr != "" {
		cacheClient, err := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Error("init redis", "error", err)
			os.Exit(1)
		}
		defer cacheClient.Close()
		holderCache = cacheClient
		log.Info("holder cache initialized", "addr", cfg.RedisAddr)
	} else {
		log.Warn("REDIS_ADDR not set, balance lookups have no cache fallback")
	}

	// Initialize chain client
	mint, err := solana.PublicKeyFromBase58(cfg.GatingMint)
	if err != nil {
		log.Error("invalid GATING_TOKEN_MINT", "error", err)
		os.Exit(1)
	}
	chainClient := chain.NewClient(cfg.RPCURL, mint, log)
	log.Info("chain client initialized", "rpc", cfg.RPCURL, "mint", mint.String())

	// Initialize gating service
	gatingSvc := gating.NewService(chainClient, holderCache, log)

	// Initialize telegram API client and token box
	tgClient := telegram.NewClient("")
	box := secrets.NewBox(cfg.EncryptionSecret)

	gin.SetMode(gin.ReleaseMode)
	srv := api.NewServer(cfg, store, gatingSvc, tgClient, box, log)

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

	if err := srv.Start(ctx); err != nil && err != http.ErrServerClosed {
		log.Error("gateway server", "error", err)
		os.Exit(1)
	}
}
