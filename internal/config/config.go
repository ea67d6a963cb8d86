package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Storage backend selection
	DataBackend  string
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Export delivery
	ExportSink          string
	ExportDir           string
	GoogleSpreadsheetID string
	GoogleSheetName     string
	DeliveryInterval    time.Duration

	// Suggestions
	CatalogPath string

	// Favorites
	FavoritesLimit int
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8082"),

		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/feira.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "feira"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "product_usage"),

		ExportSink:          getEnv("EXPORT_SINK", "file"),
		ExportDir:           getEnv("EXPORT_DIR", "./exports"),
		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Pesquisa"),
		DeliveryInterval:    getEnvDuration("DELIVERY_INTERVAL", time.Hour),

		CatalogPath: getEnv("CATALOG_PATH", "./data/produtos.txt"),

		FavoritesLimit: getEnvInt("FAVORITES_LIMIT", 5),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate export sink selection
	switch c.ExportSink {
	case "file":
		if c.ExportDir == "" {
			errors = append(errors, "export directory cannot be empty when using file sink")
		}
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets sink")
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when using sheets sink")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid export sink '%s': must be one of [file sheets]", c.ExportSink))
	}

	// Validate favorites limit
	if c.FavoritesLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid favorites limit %d: must be at least 1", c.FavoritesLimit))
	} else if c.FavoritesLimit > 100 {
		errors = append(errors, fmt.Sprintf("invalid favorites limit %d: must be at most 100", c.FavoritesLimit))
	}

	// Validate delivery interval
	if c.DeliveryInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid delivery interval %v: must be at least 1 minute", c.DeliveryInterval))
	} else if c.DeliveryInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid delivery interval %v: must be at most 24 hours", c.DeliveryInterval))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// RequireAMQP validates that the AMQP settings are complete. The server
// treats AMQP as optional; consumers that cannot run without a queue call
// this before dialing so a missing URL reads as a config problem, not a
// dial failure.
func (c *Config) RequireAMQP() error {
	var errors []string

	if c.AMQPURL == "" {
		errors = append(errors, "AMQP URL is required (set AMQP_URL)")
	}
	if c.AMQPExchange == "" {
		errors = append(errors, "AMQP exchange name cannot be empty")
	}
	if c.AMQPQueue == "" {
		errors = append(errors, "AMQP queue name cannot be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("AMQP configuration incomplete:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
