package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

var (
	cfg     *AppConfig
	loadErr error
	once    sync.Once
)

// AppConfig represents the root element of config.xml.
type AppConfig struct {
	XMLName xml.Name      `xml:"ZENFIT"`
	Coach   CoachConfig   `xml:"COACH"`
	Wizard  WizardConfig  `xml:"WIZARD"`
	Logging LoggingConfig `xml:"LOGGING"`
	Stub    StubConfig    `xml:"STUB"`
}

// CoachConfig holds the remote coaching API settings.
type CoachConfig struct {
	BaseURL        string `xml:"BASE_URL"`
	TimeoutSeconds int    `xml:"TIMEOUT_SECONDS"`
	DownloadDir    string `xml:"DOWNLOAD_DIR"`
}

// WizardConfig holds intake wizard settings. ValidateNumeric is a
// pointer so an absent element defaults to validation on.
type WizardConfig struct {
	ValidateNumeric *bool `xml:"VALIDATE_NUMERIC"`
}

// NumericValidation reports whether the wizard should validate numeric
// answers.
func (c *AppConfig) NumericValidation() bool {
	return c.Wizard.ValidateNumeric == nil || *c.Wizard.ValidateNumeric
}

// LoggingConfig holds log file settings.
type LoggingConfig struct {
	Dir        string `xml:"DIR"`
	MaxSizeMB  int    `xml:"MAX_SIZE_MB"`
	MaxBackups int    `xml:"MAX_BACKUPS"`
	MaxAgeDays int    `xml:"MAX_AGE_DAYS"`
	Debug      bool   `xml:"DEBUG,attr"`
}

// StubConfig holds settings for the local coachstub server.
type StubConfig struct {
	Host            string `xml:"HOST"`
	Port            int    `xml:"PORT"`
	RequestDump     bool   `xml:"REQUEST_DUMP,attr"`
	RatePerSecond   int    `xml:"RATE_PER_SECOND"`
	TokenSecret     string `xml:"TOKEN_SECRET"`
	SeedUserEmail   string `xml:"SEED_USER_EMAIL"`
	SeedUserPass    string `xml:"SEED_USER_PASSWORD"`
	SeedDisplayName string `xml:"SEED_DISPLAY_NAME"`
}

// LoadConfig loads and parses the XML configuration from the given file.
// Environment variables override the file values so a dev box can point
// the client at a different backend without editing config.xml.
func LoadConfig(xmlPath string) (*AppConfig, error) {
	once.Do(func() {
		cfg, loadErr = loadFromFile(xmlPath)
	})
	return cfg, loadErr
}

func loadFromFile(xmlPath string) (*AppConfig, error) {
	data, err := os.ReadFile(xmlPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var newCfg AppConfig
	if err := xml.Unmarshal(data, &newCfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&newCfg)
	applyEnvOverrides(&newCfg)
	return &newCfg, nil
}

// GetConfig returns the loaded configuration.
func GetConfig() *AppConfig {
	return cfg
}

// Timeout returns the per-request timeout for coaching API calls.
func (c *AppConfig) Timeout() time.Duration {
	return time.Duration(c.Coach.TimeoutSeconds) * time.Second
}

func applyDefaults(c *AppConfig) {
	if c.Coach.BaseURL == "" {
		c.Coach.BaseURL = "http://localhost:5000"
	}
	if c.Coach.TimeoutSeconds <= 0 {
		c.Coach.TimeoutSeconds = 20
	}
	if c.Coach.DownloadDir == "" {
		c.Coach.DownloadDir = "downloads"
	}
	if c.Logging.Dir == "" {
		c.Logging.Dir = "logs"
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Stub.Host == "" {
		c.Stub.Host = "0.0.0.0"
	}
	if c.Stub.Port == 0 {
		c.Stub.Port = 5000
	}
	if c.Stub.RatePerSecond <= 0 {
		c.Stub.RatePerSecond = 20
	}
}

func applyEnvOverrides(c *AppConfig) {
	if v := os.Getenv("ZENFIT_COACH_URL"); v != "" {
		c.Coach.BaseURL = v
	}
	if v := os.Getenv("ZENFIT_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Coach.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("ZENFIT_STUB_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Stub.Port = n
		}
	}
	if v := os.Getenv("ZENFIT_TOKEN_SECRET"); v != "" {
		c.Stub.TokenSecret = v
	}
}
