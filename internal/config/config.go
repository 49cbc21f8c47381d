package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Account holds the credentials of one WhatsApp Business identity.
type Account struct {
	PhoneNumberID string
	AccessToken   string
}

// Configured reports whether the account has usable credentials.
func (a Account) Configured() bool {
	return a.PhoneNumberID != "" && a.AccessToken != ""
}

// Config is built once at startup and passed down. Nothing in here is
// mutated at runtime.
type Config struct {
	Port string

	GraphAPIURL string
	Accounts    [2]Account
	VerifyToken string

	CronSecret string

	GCPProjectID string
	GCPLocation  string
	ModelName    string

	OpenAIAPIKey string

	SentimentPositive float64
	SentimentNegative float64

	DailyCheckinCron  string
	WeeklyCheckinCron string
	WeeklyReportCron  string
	FollowupSweepCron string

	StorageBackend string // "memory" or "firestore"
	InlineCron     bool
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "TRUE"
}

func getFloatEnv(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// Load reads the environment and builds the config. A .env file is
// honoured when present (local development); deployed processes get
// their variables from the platform.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		GraphAPIURL: getEnv("ATTUNE_GRAPH_API_URL", "https://graph.facebook.com/v17.0"),
		Accounts: [2]Account{
			{
				PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID_1"),
				AccessToken:   os.Getenv("WHATSAPP_ACCESS_TOKEN_1"),
			},
			{
				PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID_2"),
				AccessToken:   os.Getenv("WHATSAPP_ACCESS_TOKEN_2"),
			},
		},
		VerifyToken: os.Getenv("WHATSAPP_VERIFY_TOKEN"),

		CronSecret: os.Getenv("CRON_SECRET"),

		GCPProjectID: os.Getenv("ATTUNE_GCP_PROJECT"),
		GCPLocation:  getEnv("ATTUNE_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("ATTUNE_MODEL_NAME", "gemini-2.5-flash-lite"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),

		SentimentPositive: getFloatEnv("SENTIMENT_THRESHOLD_POSITIVE", 0.5),
		SentimentNegative: getFloatEnv("SENTIMENT_THRESHOLD_NEGATIVE", -0.2),

		DailyCheckinCron:  getEnv("DAILY_CHECKIN_CRON", "0 8 * * *"),
		WeeklyCheckinCron: getEnv("WEEKLY_CHECKIN_CRON", "0 9 * * 0"),
		WeeklyReportCron:  getEnv("WEEKLY_REPORT_CRON", "0 18 * * 0"),
		FollowupSweepCron: getEnv("FOLLOWUP_SWEEP_CRON", "30 * * * *"),

		StorageBackend: getEnv("ATTUNE_STORAGE_BACKEND", "memory"),
		InlineCron:     getBoolEnv("ATTUNE_INLINE_CRON", false),
	}

	if !cfg.Accounts[0].Configured() {
		return nil, fmt.Errorf("WHATSAPP_PHONE_NUMBER_ID_1 and WHATSAPP_ACCESS_TOKEN_1 are required")
	}
	if cfg.CronSecret == "" {
		return nil, fmt.Errorf("CRON_SECRET is required")
	}
	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("ATTUNE_GCP_PROJECT is required for the firestore backend")
	}

	return cfg, nil
}

// Account resolves an account selector. The secondary account falls
// back to the primary when it is not configured, so single-account
// deployments keep working.
func (c *Config) Account(id int) Account {
	if id == 2 && c.Accounts[1].Configured() {
		return c.Accounts[1]
	}
	return c.Accounts[0]
}
