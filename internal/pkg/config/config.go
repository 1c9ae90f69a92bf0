package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (API tokens, DB connection)
// - default: Values common across all environments (table names, timeouts)
// -----------------------------------------------------------------------------

type Config struct {
	Calendly CalendlyConfig
	DB       DBConfig
	Sync     SyncConfig
	Log      LogConfig
}

type CalendlyConfig struct {
	APIToken    string        `envconfig:"CALENDLY_API_TOKEN"`
	BaseURL     string        `envconfig:"CALENDLY_API_BASE_URL" default:"https://api.calendly.com"`
	HTTPTimeout time.Duration `envconfig:"CALENDLY_HTTP_TIMEOUT" default:"30s"`
}

type DBConfig struct {
	Host     string `envconfig:"SUPABASE_DB_HOST"`
	Port     string `envconfig:"SUPABASE_DB_PORT" default:"5432"`
	User     string `envconfig:"SUPABASE_DB_USER" default:"postgres"`
	Password string `envconfig:"SUPABASE_SERVICE_KEY"`
	DBName   string `envconfig:"SUPABASE_DB_NAME" default:"postgres"`
	SSLMode  string `envconfig:"SUPABASE_DB_SSL_MODE" default:"require"`
}

type SyncConfig struct {
	LeadsTable    string        `envconfig:"CALENDLY_SYNC_TABLE" default:"tech_scans"`
	BookingsTable string        `envconfig:"CALENDLY_BOOKINGS_TABLE" default:"calendly_bookings"`
	LookbackDays  int           `envconfig:"CALENDLY_LOOKBACK_DAYS" default:"7"`
	EventPacing   time.Duration `envconfig:"SYNC_EVENT_PACING" default:"500ms"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Format     string `envconfig:"LOG_FORMAT" default:"json"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if missing := cfg.missingRequired(); len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

// missingRequired reports every absent required setting at once, so a broken
// deployment shows the full list instead of one variable per failed start.
func (c Config) missingRequired() []string {
	var missing []string
	if c.Calendly.APIToken == "" {
		missing = append(missing, "CALENDLY_API_TOKEN")
	}
	if c.DB.Host == "" {
		missing = append(missing, "SUPABASE_DB_HOST")
	}
	if c.DB.Password == "" {
		missing = append(missing, "SUPABASE_SERVICE_KEY")
	}
	return missing
}

func NewTestConfig() Config {
	return Config{
		Calendly: CalendlyConfig{
			APIToken:    "test-token",
			BaseURL:     "https://api.calendly.com",
			HTTPTimeout: 5 * time.Second,
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Sync: SyncConfig{
			LeadsTable:    "tech_scans",
			BookingsTable: "calendly_bookings",
			LookbackDays:  7,
			EventPacing:   0, // no pacing in tests
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			Format:     "text",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
	}
}
