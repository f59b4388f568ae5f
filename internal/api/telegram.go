package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/loslabs/launchpad-gateway/internal/secrets"
	"github.com/loslabs/launchpad-gateway/internal/storage"
	"github.com/loslabs/launchpad-gateway/internal/telegram"
)

const webhookSecretLength = 32

// handleBotWebhook ingests one Bot API update for a registered bot.
// POST /api/tg/:slug
func (s *Server) handleBotWebhook(c *gin.Context) {
	slug := c.Param("slug")

	bot, err := s.store.GetBotBySlug(slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respError(c, http.StatusNotFound, "bot_not_found")
			return
		}
		s.log.Error("get bot by slug", "slug", slug, "error", err)
		respError(c, http.StatusInternalServerError, "internal_error")
		return
	}
	if bot.Status != storage.BotStatusActive {
		respError(c, http.StatusNotFound, "bot_not_found")
		return
	}

	if !telegram.ValidSecret(c.GetHeader(telegram.SecretTokenHeader), bot.WebhookSecret) {
		respError(c, http.StatusForbidden, "invalid_webhook_secret")
		return
	}

	var update telegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		respError(c, http.StatusBadRequest, "invalid_payload")
		return
	}

	msg := update.Message
	if msg == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	// Record the interacting user/chat before dispatching. Best-effort: a
	// failed insert must not block the reply.
	interaction := &storage.Interaction{
		BotSlug:  slug,
		ChatID:   formatID(msg.Chat.ID),
		ChatType: msg.Chat.Type,
	}
	if msg.From != nil {
		interaction.UserID = formatID(msg.From.ID)
		interaction.Username = msg.From.Username
		interaction.FirstName = msg.From.FirstName
		interaction.LastName = msg.From.LastName
	}
	if err := s.store.RecordInteraction(interaction); err != nil {
		s.log.Warn("record interaction", "slug", slug, "error", err)
	}

	if cmd := telegram.ParseCommand(msg.Text); cmd != nil {
		token, err := s.box.Decrypt(bot.EncryptedToken, bot.TokenIV)
		if err != nil {
			s.log.Error("decrypt bot token", "slug", slug, "error", err)
			respError(c, http.StatusInternalServerError, "internal_error")
			return
		}

		if err := s.botAPI.SendMessage(c.Request.Context(), token, msg.Chat.ID, telegram.Reply(cmd.Cmd)); err != nil {
			s.log.Error("send command reply", "slug", slug, "cmd", cmd.Cmd, "error", err)
			respError(c, http.StatusInternalServerError, "internal_error")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type registerRequest struct {
	Slug          string `json:"slug"`
	BotToken      string `json:"botToken"`
	CreatorWallet string `json:"creatorWallet"`
	GroupID       string `json:"groupId"`
}

// handleRegisterBot registers (or re-registers) a bot: verifies the token
// with getMe, encrypts it, points Telegram's webhook at this service and
// upserts the record keyed by slug.
// POST /api/admin/telegram/register
func (s *Server) handleRegisterBot(c *gin.Context) {
	if !s.validServiceKey(c) {
		respError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Slug == "" || req.BotToken == "" {
		respError(c, http.StatusBadRequest, "missing_params")
		return
	}

	ctx := c.Request.Context()

	me, err := s.botAPI.GetMe(ctx, req.BotToken)
	if err != nil {
		s.log.Error("verify bot token", "slug", req.Slug, "error", err)
		respErrorDetails(c, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	secret, err := secrets.RandomSecret(webhookSecretLength)
	if err != nil {
		respError(c, http.StatusInternalServerError, "internal_error")
		return
	}

	encToken, iv, err := s.box.Encrypt(req.BotToken)
	if err != nil {
		s.log.Error("encrypt bot token", "slug", req.Slug, "error", err)
		respError(c, http.StatusInternalServerError, "internal_error")
		return
	}

	webhookURL := s.baseURL(c) + "/api/tg/" + url.PathEscape(req.Slug)

	if err := s.botAPI.SetWebhook(ctx, req.BotToken, webhookURL, secret); err != nil {
		s.log.Error("set webhook", "slug", req.Slug, "error", err)
		respErrorDetails(c, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	record, err := s.store.UpsertBot(&storage.Bot{
		Slug:           req.Slug,
		CreatorWallet:  req.CreatorWallet,
		BotID:          formatID(me.ID),
		BotUsername:    me.Username,
		BotName:        me.FirstName,
		EncryptedToken: encToken,
		TokenIV:        iv,
		WebhookSecret:  secret,
		WebhookURL:     webhookURL,
		GroupID:        req.GroupID,
		Status:         storage.BotStatusActive,
	})
	if err != nil {
		s.log.Error("upsert bot", "slug", req.Slug, "error", err)
		respError(c, http.StatusInternalServerError, "internal_error")
		return
	}

	s.log.Info("bot registered", "slug", record.Slug, "username", record.BotUsername)

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"bot": gin.H{
			"slug":     record.Slug,
			"username": record.BotUsername,
			"webhook":  record.WebhookURL,
		},
	})
}

// validServiceKey checks the service admin key from either the x-service-key
// header or a bearer token.
func (s *Server) validServiceKey(c *gin.Context) bool {
	provided := c.GetHeader("x-service-key")
	if provided == "" {
		auth := c.GetHeader("Authorization")
		if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			provided = strings.TrimSpace(auth[len("bearer "):])
		}
	}
	if provided == "" || s.cfg.ServiceAdminKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(s.cfg.ServiceAdminKey)) == 1
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// baseURL is the public base for webhook URLs: the configured value when
// set, otherwise derived from the inbound request.
func (s *Server) baseURL(c *gin.Context) string {
	if s.cfg.PublicBaseURL != "" {
		return s.cfg.PublicBaseURL
	}
	scheme := "https"
	if c.Request.TLS == nil {
		scheme = "http"
	}
	return scheme + "://" + c.Request.Host
}
