package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/gwholdren-max/golfbook/internal/crypto"
)

const defaultBookingURL = "https://sccharlestonweb.myvscloud.com/webtrac/web/search.html?module=GR&Search=no&interfaceparameter=webtrac_golf"

// Config is built once at startup and passed into components as a value.
// Nothing re-reads the environment mid-run.
type Config struct {
	// messaging
	Phone        string
	ChatDBPath   string
	PollInterval time.Duration
	ReplyTimeout time.Duration

	// site
	BookingURL string
	Course     string
	Username   string
	Password   string

	// automation
	AutoSubmit bool
	Headless   bool
	HoldOpen   time.Duration
	DiagDir    string

	DevMode bool
}

// FromEnv loads `.env` if present, then reads the environment. A password
// may be stored encrypted (BOOKING_PASSWORD_ENC) with the AEAD key derived
// from CRED_ENC_KEY; the plaintext BOOKING_PASSWORD wins when both are set.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Phone:        strings.TrimSpace(os.Getenv("BOOKING_PHONE")),
		ChatDBPath:   envDefault("CHAT_DB_PATH", os.ExpandEnv("$HOME/Library/Messages/chat.db")),
		PollInterval: time.Duration(envInt("POLL_SECONDS", 30)) * time.Second,
		ReplyTimeout: time.Duration(envInt("REPLY_TIMEOUT_SECONDS", 600)) * time.Second,

		BookingURL: envDefault("BOOKING_URL", defaultBookingURL),
		Course:     envDefault("BOOKING_COURSE", "Charleston Municipal"),
		Username:   envDefault("BOOKING_USERNAME", os.Getenv("BOOKING_EMAIL")),
		Password:   os.Getenv("BOOKING_PASSWORD"),

		AutoSubmit: envBool("AUTO_SUBMIT", false),
		Headless:   envBool("HEADLESS", false),
		HoldOpen:   time.Duration(envInt("HOLD_OPEN_SECONDS", 120)) * time.Second,
		DiagDir:    envDefault("DIAG_DIR", "."),

		DevMode: envBool("DEV_MODE", false),
	}

	if cfg.Password == "" {
		if enc := strings.TrimSpace(os.Getenv("BOOKING_PASSWORD_ENC")); enc != "" {
			key := strings.TrimSpace(os.Getenv("CRED_ENC_KEY"))
			if key == "" {
				return cfg, fmt.Errorf("BOOKING_PASSWORD_ENC is set but CRED_ENC_KEY is missing")
			}
			aead, err := crypto.NewFromPassphrase(key)
			if err != nil {
				return cfg, fmt.Errorf("CRED_ENC_KEY: %w", err)
			}
			cfg.Password, err = aead.DecryptString(enc)
			if err != nil {
				return cfg, fmt.Errorf("BOOKING_PASSWORD_ENC: %w", err)
			}
		}
	}

	if cfg.PollInterval < time.Second {
		return cfg, fmt.Errorf("POLL_SECONDS must be >= 1")
	}

	return cfg, nil
}

func envDefault(k, d string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	return v
}

func envInt(k string, d int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return d
	}
	return n
}

func envBool(k string, d bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return v == "1"
	}
	return b
}
