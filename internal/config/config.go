package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Gateway HTTP
	HTTPPort      int
	PublicBaseURL string

	// Backend proxy
	BackendURL    string
	BackendAPIKey string

	// Admin
	ServiceAdminKey  string
	EncryptionSecret string

	// Solana RPC
	RPCURL string
	WSURL  string

	// Token gating
	GatingMint string

	// Redis (optional)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Database
	DBPath string

	// Mint tracker
	TrackerBotToken string
	TrackerChatID   string
	ProgramID       string
	SeenTTL         time.Duration
	SeenCapacity    int
}

func Load() *Config {
	return &Config{
		HTTPPort:      getEnvInt("HTTP_PORT", 8080),
		PublicBaseURL: strings.TrimSuffix(getEnv("PUBLIC_BASE_URL", ""), "/"),

		BackendURL:    strings.TrimSuffix(getEnv("BACKEND_URL", ""), "/"),
		BackendAPIKey: getEnv("BACKEND_API_KEY", ""),

		ServiceAdminKey:  getEnv("SERVICE_ADMIN_KEY", ""),
		EncryptionSecret: getEnv("ENCRYPTION_SECRET", ""),

		RPCURL: getEnv("RPC_URL", "https://rpc.analos.io"),
		WSURL:  getEnv("WS_URL", "wss://rpc.analos.io"),

		GatingMint: getEnv("GATING_TOKEN_MINT", "ANAL2R8pvMvd4NLmesbJgFjNxbTC13RDwQPbwSBomrQ6"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		DBPath: getEnv("DB_PATH", "./launchpad.db"),

		TrackerBotToken: getEnv("TRACKER_BOT_TOKEN", ""),
		TrackerChatID:   getEnv("TRACKER_CHAT_ID", ""),
		ProgramID:       getEnv("NFT_LAUNCHPAD_PROGRAM", "H423wLPdU2ut7JBJmq7Y9V6whXVTtHyRY3wvqypwfgfm"),
		SeenTTL:         getEnvDuration("SEEN_TTL", 24*time.Hour),
		SeenCapacity:    getEnvInt("SEEN_CAPACITY", 10000),
	}
}

// ValidateGateway checks the values the HTTP gateway cannot run without.
// Security-relevant settings are never defaulted.
func (c *Config) ValidateGateway() error {
	var errs []error
	if c.ServiceAdminKey == "" {
		errs = append(errs, errors.New("SERVICE_ADMIN_KEY is required"))
	}
	if c.EncryptionSecret == "" {
		errs = append(errs, errors.New("ENCRYPTION_SECRET is required"))
	}
	if c.BackendURL == "" {
		errs = append(errs, errors.New("BACKEND_URL is required"))
	}
	return errors.Join(errs...)
}

// ValidateTracker checks the values the mint tracker cannot run without.
func (c *Config) ValidateTracker() error {
	var errs []error
	if c.TrackerBotToken == "" {
		errs = append(errs, errors.New("TRACKER_BOT_TOKEN is required"))
	}
	if c.TrackerChatID == "" {
		errs = append(errs, errors.New("TRACKER_CHAT_ID is required"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
