package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Reminder worker
	ReminderScanSchedule string
	RunScanOnStartup     bool

	// Views
	ScheduleHorizonDays int
	WeekStart           time.Weekday
	CalendarCacheSize   int
	CalendarCacheTTL    time.Duration

	// Backend selection
	DataBackend string

	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		Port:         getEnv("PORT", "8081"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/scadenze.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "scadenze"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "reminders_due"),

		ReminderScanSchedule: getEnv("REMINDER_SCAN_SCHEDULE", "0 7 * * *"),
		RunScanOnStartup:     getEnvBool("REMINDER_SCAN_ON_STARTUP", true),

		ScheduleHorizonDays: getEnvInt("SCHEDULE_HORIZON_DAYS", 30),
		WeekStart:           getEnvWeekday("WEEK_START", time.Monday),
		CalendarCacheSize:   getEnvInt("CALENDAR_CACHE_SIZE", 100),
		CalendarCacheTTL:    getEnvDuration("CALENDAR_CACHE_TTL", 5*time.Minute),

		DataBackend: getEnv("DATA_BACKEND", "memory"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

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

	if _, err := cron.ParseStandard(c.ReminderScanSchedule); err != nil {
		errors = append(errors, fmt.Sprintf("invalid reminder scan schedule '%s': %v", c.ReminderScanSchedule, err))
	}

	if c.ScheduleHorizonDays < 1 || c.ScheduleHorizonDays > 366 {
		errors = append(errors, fmt.Sprintf("invalid schedule horizon %d: must be between 1 and 366 days", c.ScheduleHorizonDays))
	}

	if c.WeekStart != time.Monday && c.WeekStart != time.Sunday {
		errors = append(errors, fmt.Sprintf("invalid week start %s: must be monday or sunday", c.WeekStart))
	}

	if c.CalendarCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid calendar cache size %d: must be at least 1", c.CalendarCacheSize))
	}
	if c.CalendarCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid calendar cache TTL %v: must be at least 1 second", c.CalendarCacheTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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

// getEnvWeekday accepts english day names; anything else is passed through as an
// out-of-range weekday so Validate can report it.
func getEnvWeekday(key string, defaultValue time.Weekday) time.Weekday {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return defaultValue
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.ToLower(wd.String()) == value {
			return wd
		}
	}
	return time.Weekday(-1)
}
