package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	MongoDB    MongoDBConfig
	Scheduling SchedulingConfig
	Dispatch   DispatchConfig
	Sheets     SheetsConfig
	WhatsApp   WhatsAppConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string
}

// MongoDBConfig holds settings for the request store.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SchedulingConfig holds the fixed lists the harvest planner works from.
type SchedulingConfig struct {
	Agents      []string
	FarmerNames []string
	Farms       []string
}

// DispatchConfig holds settings for the daily harvest dispatch job.
type DispatchConfig struct {
	CronSchedule string
	Timezone     string
}

// SheetsConfig contains configuration required to export to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	VerifyToken   string
	BaseURL       string
	APIVersion    string
	ManagerID     string
}

const (
	defaultAgents      = "Ramesh Patel,Sunita Yadav,Vikram Chauhan,Kavita Desai,Harish Solanki"
	defaultFarmerNames = "Mahesh,Lakshmi,Bharat,Geeta,Dinesh,Savita,Jignesh,Rekha,Naresh,Pooja"
	defaultFarms       = "Anand Dairy Farm,Mehsana Buffalo Farm,Banas Milk Farm,Sabar Cattle Farm"
)

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "fodder"),
		},
		Scheduling: SchedulingConfig{
			Agents:      splitList(getenvWithDefault("AGENT_DIRECTORY", defaultAgents)),
			FarmerNames: splitList(getenvWithDefault("FARMER_NAME_POOL", defaultFarmerNames)),
			Farms:       splitList(getenvWithDefault("FARMS", defaultFarms)),
		},
		Dispatch: DispatchConfig{
			CronSchedule: getenvWithDefault("DISPATCH_CRON_SCHEDULE", "0 6 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Kolkata"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			VerifyToken:   os.Getenv("META_VERIFY_TOKEN"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			ManagerID:     os.Getenv("WHATSAPP_MANAGER_ID"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	switch {
	case len(c.Scheduling.Agents) == 0:
		return errors.New("AGENT_DIRECTORY must list at least one agent")
	case len(c.Scheduling.FarmerNames) == 0:
		return errors.New("FARMER_NAME_POOL must list at least one name")
	case len(c.Scheduling.Farms) == 0:
		return errors.New("FARMS must list at least one farm")
	}

	if c.Dispatch.CronSchedule == "" {
		return errors.New("DISPATCH_CRON_SCHEDULE must be provided")
	}

	if _, err := time.LoadLocation(c.Dispatch.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q is invalid: %w", c.Dispatch.Timezone, err)
	}

	// Sheets export is optional but both values must come together.
	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if c.WhatsApp.Enabled() {
		if c.WhatsApp.VerifyToken == "" {
			return errors.New("META_VERIFY_TOKEN must be provided when WhatsApp is enabled")
		}
		if c.WhatsApp.BaseURL == "" {
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		}
		if c.WhatsApp.APIVersion == "" {
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	return nil
}

// Enabled reports whether Sheets export credentials are configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// Enabled reports whether the WhatsApp integration is configured.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != ""
}

// Location returns the dispatch timezone, falling back to UTC.
func (c DispatchConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
