package storage

import "time"

// Bot statuses. Only active bots accept webhooks.
const (
	BotStatusActive   = "active"
	BotStatusInactive = "inactive"
)

// Bot is a registered Telegram bot configuration. Records are upserted by
// slug and never physically deleted; status governs webhook acceptance.
type Bot struct {
	ID             string
	Slug           string
	CreatorWallet  string
	BotID          string
	BotUsername    string
	BotName        string
	EncryptedToken string
	TokenIV        string
	WebhookSecret  string
	WebhookURL     string
	GroupID        string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Interaction is one user/chat pair that talked to a bot.
type Interaction struct {
	BotSlug   string
	UserID    string
	Username  string
	FirstName string
	LastName  string
	ChatID    string
	ChatType  string
}
