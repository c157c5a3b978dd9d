package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vytor/flashpulse/internal/logger"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

type Config struct {
	Addr            string
	StoreDriver     string
	DataPath        string
	DBPath          string
	LogLevel        string
	APIURL          string
	QuizCardSeconds int
	PushQueueSize   int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:            envOr("ADDR", ":8080"),
		StoreDriver:     strings.ToLower(envOr("STORE_DRIVER", DriverFile)),
		DataPath:        envOr("DATA_PATH", "data/decks.json"),
		DBPath:          envOr("DB_PATH", "file:flashpulse.db"),
		LogLevel:        envOr("LOG_LEVEL", "INFO"),
		APIURL:          os.Getenv("FLASHPULSE_API_URL"),
		QuizCardSeconds: envIntOr("QUIZ_CARD_SECONDS", 15),
		PushQueueSize:   envIntOr("PUSH_QUEUE_SIZE", 32),
	}
}

// Validate reports every invalid setting in a single error.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	switch c.StoreDriver {
	case DriverFile:
		if c.DataPath == "" {
			problems = append(problems, "DATA_PATH cannot be empty")
		}
	case DriverSQLite:
		if c.DBPath == "" {
			problems = append(problems, "DB_PATH cannot be empty")
		}
	default:
		problems = append(problems, fmt.Sprintf("STORE_DRIVER must be %q or %q, got %q", DriverFile, DriverSQLite, c.StoreDriver))
	}
	if _, ok := logger.LookupLevel(c.LogLevel); !ok {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}
	if c.QuizCardSeconds < 1 || c.QuizCardSeconds > 600 {
		problems = append(problems, fmt.Sprintf("QUIZ_CARD_SECONDS must be between 1 and 600, got %d", c.QuizCardSeconds))
	}
	if c.PushQueueSize < 1 {
		problems = append(problems, fmt.Sprintf("PUSH_QUEUE_SIZE must be positive, got %d", c.PushQueueSize))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// APIBaseURL is the origin the client talks to. Without FLASHPULSE_API_URL it
// is the same origin the server listens on.
func (c Config) APIBaseURL() string {
	if c.APIURL != "" {
		return strings.TrimRight(c.APIURL, "/")
	}
	addr := c.Addr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
