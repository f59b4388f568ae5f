package storage

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("not found")

// Storage handles all database operations
type Storage struct {
	db *sql.DB
}

// New creates a new Storage instance and initializes the database
func New(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	s := &Storage{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS telegram_bots (
			id TEXT PRIMARY KEY,
			slug TEXT NOT NULL UNIQUE,
			creator_wallet TEXT,
			bot_id TEXT NOT NULL,
			bot_username TEXT NOT NULL,
			bot_name TEXT,
			encrypted_token TEXT NOT NULL,
			token_iv TEXT NOT NULL,
			webhook_secret TEXT NOT NULL,
			webhook_url TEXT NOT NULL,
			group_id TEXT,
			status TEXT NOT NULL DEFAULT 'active',
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_telegram_bots_slug ON telegram_bots(slug)`,

		`CREATE TABLE IF NOT EXISTS telegram_bot_users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			bot_slug TEXT NOT NULL,
			user_id TEXT NOT NULL,
			username TEXT,
			first_name TEXT,
			last_name TEXT,
			chat_id TEXT NOT NULL,
			chat_type TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_telegram_bot_users_slug ON telegram_bot_users(bot_slug)`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}

	return nil
}

// --- Bots ---

// GetBotBySlug returns the bot registered under slug, or ErrNotFound.
func (s *Storage) GetBotBySlug(slug string) (*Bot, error) {
	row := s.db.QueryRow(
		`SELECT id, slug, creator_wallet, bot_id, bot_username, bot_name,
		        encrypted_token, token_iv, webhook_secret, webhook_url,
		        group_id, status, created_at, updated_at
		 FROM telegram_bots WHERE slug = ?`,
		slug,
	)

	var b Bot
	var creatorWallet, botName, groupID sql.NullString
	var createdAt, updatedAt int64

	err := row.Scan(&b.ID, &b.Slug, &creatorWallet, &b.BotID, &b.BotUsername, &botName,
		&b.EncryptedToken, &b.TokenIV, &b.WebhookSecret, &b.WebhookURL,
		&groupID, &b.Status, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	b.CreatorWallet = creatorWallet.String
	b.BotName = botName.String
	b.GroupID = groupID.String
	b.CreatedAt = time.Unix(createdAt, 0)
	b.UpdatedAt = time.Unix(updatedAt, 0)

	return &b, nil
}

// UpsertBot inserts a bot record or, when the slug is already registered,
// replaces everything except id and created_at.
func (s *Storage) UpsertBot(b *Bot) (*Bot, error) {
	now := time.Now().Unix()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = BotStatusActive
	}

	_, err := s.db.Exec(
		`INSERT INTO telegram_bots
			(id, slug, creator_wallet, bot_id, bot_username, bot_name,
			 encrypted_token, token_iv, webhook_secret, webhook_url,
			 group_id, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(slug) DO UPDATE SET
			creator_wallet = excluded.creator_wallet,
			bot_id = excluded.bot_id,
			bot_username = excluded.bot_username,
			bot_name = excluded.bot_name,
			encrypted_token = excluded.encrypted_token,
			token_iv = excluded.token_iv,
			webhook_secret = excluded.webhook_secret,
			webhook_url = excluded.webhook_url,
			group_id = excluded.group_id,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		b.ID, b.Slug, nullable(b.CreatorWallet), b.BotID, b.BotUsername, nullable(b.BotName),
		b.EncryptedToken, b.TokenIV, b.WebhookSecret, b.WebhookURL,
		nullable(b.GroupID), b.Status, now, now,
	)
	if err != nil {
		return nil, err
	}

	return s.GetBotBySlug(b.Slug)
}

// SetBotStatus flips a bot between active and inactive.
func (s *Storage) SetBotStatus(slug, status string) error {
	res, err := s.db.Exec(
		`UPDATE telegram_bots SET status = ?, updated_at = ? WHERE slug = ?`,
		status, time.Now().Unix(), slug,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Interactions ---

// RecordInteraction logs one user/chat pair that talked to a bot.
func (s *Storage) RecordInteraction(in *Interaction) error {
	_, err := s.db.Exec(
		`INSERT INTO telegram_bot_users
			(bot_slug, user_id, username, first_name, last_name, chat_id, chat_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.BotSlug, in.UserID, nullable(in.Username), nullable(in.FirstName),
		nullable(in.LastName), in.ChatID, in.ChatType, time.Now().Unix(),
	)
	return err
}

// CountInteractions returns how many interactions a bot has recorded.
func (s *Storage) CountInteractions(botSlug string) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM telegram_bot_users WHERE bot_slug = ?`, botSlug,
	).Scan(&count)
	return count, err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
