package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

var (
	cfg     *APIConfig
	loadErr error
	once    sync.Once
)

// APIConfig represents the root element.
type APIConfig struct {
	XMLName     xml.Name        `xml:"API"`
	RequestDump bool            `xml:"REQUEST_DUMP,attr"`
	Context     ContextConfig   `xml:"CONTEXT"`
	DB          DBConfig        `xml:"DB"`
	Logging     LoggingConfig   `xml:"LOGGING"`
	RateLimit   RateLimitConfig `xml:"RATE_LIMIT"`
	Upload      UploadConfig    `xml:"UPLOAD"`
	Mail        MailConfig      `xml:"MAIL"`
	Tenant      TenantConfig    `xml:"TENANT"`
	Engine      EngineConfig    `xml:"ENGINE"`
}

// ContextConfig holds basic server settings.
type ContextConfig struct {
	Port        int      `xml:"PORT"`
	Host        string   `xml:"HOST"`
	Path        string   `xml:"PATH"`
	TimeZone    string   `xml:"TIME_ZONE"`
	CORSOrigins []string `xml:"CORS_ORIGINS>ORIGIN"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Initialize bool         `xml:"INITIALIZE"`
	Host       string       `xml:"HOST"`
	Port       int          `xml:"PORT"`
	SSLMode    string       `xml:"SSL_MODE"`
	Names      DBNames      `xml:"NAMES"`
	Username   string       `xml:"USERNAME"`
	Password   DBPassword   `xml:"PASSWORD"`
	Pool       DBPoolConfig `xml:"POOL"`
}

// DBNames holds the names defined in the DB section.
type DBNames struct {
	Intake string `xml:"INTAKE,attr"`
}

// DBPassword holds password details. TYPE="env" reads the value from the
// DB_PASSWORD environment variable.
type DBPassword struct {
	Type  string `xml:"TYPE,attr"`
	Value string `xml:",chardata"`
}

// DBPoolConfig holds database connection pooling settings.
type DBPoolConfig struct {
	MaxOpenConns    int `xml:"MAX_OPEN_CONNS"`
	MaxIdleConns    int `xml:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int `xml:"CONN_MAX_LIFETIME"`
}

// LoggingConfig controls the rotated log files.
type LoggingConfig struct {
	Dir        string `xml:"DIR"`
	Level      string `xml:"LEVEL"`
	MaxSizeMB  int    `xml:"MAX_SIZE_MB"`
	MaxBackups int    `xml:"MAX_BACKUPS"`
	MaxAgeDays int    `xml:"MAX_AGE_DAYS"`
	Compress   bool   `xml:"COMPRESS"`
}

// RateLimitConfig is applied per client IP on the public response endpoints.
type RateLimitConfig struct {
	Enabled           bool    `xml:"ENABLED,attr"`
	RequestsPerSecond float64 `xml:"REQUESTS_PER_SECOND"`
	Burst             int     `xml:"BURST"`
}

type UploadConfig struct {
	Dir          string   `xml:"DIR"`
	PublicPath   string   `xml:"PUBLIC_PATH"`
	MaxBytes     int64    `xml:"MAX_BYTES"`
	AllowedTypes []string `xml:"ALLOWED_TYPES>TYPE"`
}

// MailConfig configures the submission notification sent through SendGrid.
// With Enabled false the message is only logged. API_HOST defaults to the
// public SendGrid endpoint.
type MailConfig struct {
	Enabled  bool   `xml:"ENABLED,attr"`
	APIHost  string `xml:"API_HOST"`
	APIKey   string `xml:"API_KEY"`
	From     string `xml:"FROM"`
	FromName string `xml:"FROM_NAME"`
}

type TenantConfig struct {
	BaseDomain string `xml:"BASE_DOMAIN"`
}

type EngineConfig struct {
	StrictContains bool `xml:"STRICT_CONTAINS"`
}

// Defaults returns a configuration usable for local development.
func Defaults() *APIConfig {
	return &APIConfig{
		Context: ContextConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			Path:        "/api",
			TimeZone:    "UTC",
			CORSOrigins: []string{"*"},
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     5432,
			SSLMode:  "disable",
			Names:    DBNames{Intake: "intake"},
			Username: "postgres",
			Password: DBPassword{Type: "env"},
			Pool: DBPoolConfig{
				MaxOpenConns:    20,
				MaxIdleConns:    5,
				ConnMaxLifetime: 300,
			},
		},
		Logging: LoggingConfig{
			Dir:        "logs",
			Level:      "INFO",
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 5,
			Burst:             20,
		},
		Upload: UploadConfig{
			Dir:          "working/uploads",
			PublicPath:   "/uploads",
			MaxBytes:     10 << 20,
			AllowedTypes: []string{"image/jpeg", "image/png", "image/jpg", "application/pdf"},
		},
		Mail: MailConfig{
			From:     "noreply@workchat.law",
			FromName: "WorkChat Intake",
		},
		Tenant: TenantConfig{BaseDomain: "workchat.law"},
	}
}

// LoadConfig loads and parses the XML configuration from the given file,
// on top of Defaults, then applies environment overrides. A .env file next
// to the binary is loaded first if present.
func LoadConfig(xmlPath string) (*APIConfig, error) {
	once.Do(func() {
		cfg, loadErr = load(xmlPath)
	})
	return cfg, loadErr
}

func load(xmlPath string) (*APIConfig, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	newCfg := Defaults()
	if xmlPath != "" {
		f, err := os.Open(xmlPath)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// xml.Unmarshal appends to slices, so list defaults are restored
		// only when the file has none.
		defaults := Defaults()
		newCfg.Context.CORSOrigins = nil
		newCfg.Upload.AllowedTypes = nil
		if err := xml.Unmarshal(data, newCfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		if len(newCfg.Context.CORSOrigins) == 0 {
			newCfg.Context.CORSOrigins = defaults.Context.CORSOrigins
		}
		if len(newCfg.Upload.AllowedTypes) == 0 {
			newCfg.Upload.AllowedTypes = defaults.Upload.AllowedTypes
		}
	}

	newCfg.applyEnv()
	if err := newCfg.Validate(); err != nil {
		return nil, err
	}
	return newCfg, nil
}

func (c *APIConfig) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Context.Port = port
		}
	}
	if v := os.Getenv("DATABASE_HOST"); v != "" {
		c.DB.Host = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" && strings.EqualFold(c.DB.Password.Type, "env") {
		c.DB.Password.Value = v
	}
	if v := os.Getenv("SENDGRID_API_KEY"); v != "" {
		c.Mail.APIKey = v
	}
	if v := os.Getenv("BASE_DOMAIN"); v != "" {
		c.Tenant.BaseDomain = v
	}
}

// Validate reports the first missing or out of range setting.
func (c *APIConfig) Validate() error {
	var problems []string
	if c.Context.Port <= 0 || c.Context.Port > 65535 {
		problems = append(problems, "CONTEXT/PORT must be between 1 and 65535")
	}
	if c.DB.Host == "" {
		problems = append(problems, "DB/HOST is required")
	}
	if c.DB.Names.Intake == "" {
		problems = append(problems, "DB/NAMES INTAKE is required")
	}
	if c.Upload.MaxBytes <= 0 {
		problems = append(problems, "UPLOAD/MAX_BYTES must be positive")
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond <= 0 {
		problems = append(problems, "RATE_LIMIT/REQUESTS_PER_SECOND must be positive")
	}
	if c.Mail.Enabled && (c.Mail.APIKey == "" || c.Mail.From == "") {
		problems = append(problems, "MAIL/API_KEY (or SENDGRID_API_KEY) and MAIL/FROM are required when mail is enabled")
	}
	if len(problems) > 0 {
		return errors.New("invalid config: " + strings.Join(problems, "; "))
	}
	return nil
}

// DSN builds the postgres connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.Username, d.Password.Value, d.Names.Intake, d.SSLMode)
}

// GetConfig returns the loaded configuration.
func GetConfig() *APIConfig {
	return cfg
}
