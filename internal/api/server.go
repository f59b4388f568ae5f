package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/loslabs/launchpad-gateway/internal/config"
	"github.com/loslabs/launchpad-gateway/internal/gating"
	"github.com/loslabs/launchpad-gateway/internal/secrets"
	"github.com/loslabs/launchpad-gateway/internal/storage"
	"github.com/loslabs/launchpad-gateway/internal/telegram"
)

// PricingService resolves token-gated eligibility and price quotes.
type PricingService interface {
	CheckEligibility(ctx context.Context, walletAddress string) (*gating.EligibilityResult, error)
	Quote(ctx context.Context, walletAddress, username string) (*gating.PricingQuote, error)
}

// BotStore persists registered bots and their user interactions.
type BotStore interface {
	GetBotBySlug(slug string) (*storage.Bot, error)
	UpsertBot(b *storage.Bot) (*storage.Bot, error)
	RecordInteraction(in *storage.Interaction) error
}

// BotAPI is the outbound Telegram Bot API surface the gateway needs.
type BotAPI interface {
	GetMe(ctx context.Context, token string) (*telegram.BotIdentity, error)
	SetWebhook(ctx context.Context, token, url, secretToken string) error
	SendMessage(ctx context.Context, token string, chatID int64, text string) error
}

// Server is the gateway HTTP API.
type Server struct {
	cfg     *config.Config
	store   BotStore
	pricing PricingService
	botAPI  BotAPI
	box     *secrets.Box
	log     *slog.Logger

	proxyClient *http.Client
	server      *http.Server
}

func NewServer(cfg *config.Config, store BotStore, pricing PricingService, botAPI BotAPI, box *secrets.Box, log *slog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		store:   store,
		pricing: pricing,
		botAPI:  botAPI,
		box:     box,
		log:     log,
		proxyClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/health", s.handleHealth)
	r.GET("/api/pricing", s.handlePricing)
	r.GET("/api/eligibility", s.handleEligibility)
	r.POST("/api/tg/:slug", s.handleBotWebhook)
	r.POST("/api/admin/telegram/register", s.handleRegisterBot)
	r.Any("/api/proxy/*proxyPath", s.handleProxy)

	return r
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.HTTPPort),
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	s.log.Info("starting gateway server", "port", s.cfg.HTTPPort)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(shutdownCtx)
	}()

	return s.server.ListenAndServe()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func respError(c *gin.Context, status int, code string) {
	c.JSON(status, gin.H{"ok": false, "error": code})
}

func respErrorDetails(c *gin.Context, status int, code, details string) {
	c.JSON(status, gin.H{"ok": false, "error": code, "details": details})
}
