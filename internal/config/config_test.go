package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.xml")
	content := `<?xml version="1.0" encoding="UTF-8"?>
<ZENFIT>
    <COACH>
        <BASE_URL>http://coach.example:9000</BASE_URL>
        <TIMEOUT_SECONDS>7</TIMEOUT_SECONDS>
    </COACH>
    <LOGGING DEBUG="true">
        <DIR>testlogs</DIR>
    </LOGGING>
    <STUB REQUEST_DUMP="true">
        <PORT>6001</PORT>
    </STUB>
</ZENFIT>`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Coach.BaseURL != "http://coach.example:9000" {
		t.Errorf("base url = %q", cfg.Coach.BaseURL)
	}
	if cfg.Timeout() != 7*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout())
	}
	if !cfg.Logging.Debug || cfg.Logging.Dir != "testlogs" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if !cfg.Stub.RequestDump || cfg.Stub.Port != 6001 {
		t.Errorf("stub = %+v", cfg.Stub)
	}

	// Unset values fall back to defaults.
	if cfg.Coach.DownloadDir != "downloads" {
		t.Errorf("download dir = %q", cfg.Coach.DownloadDir)
	}
	if cfg.Stub.RatePerSecond != 20 {
		t.Errorf("rate = %d", cfg.Stub.RatePerSecond)
	}
	if !cfg.NumericValidation() {
		t.Error("numeric validation must default on when WIZARD is absent")
	}

	// The loader is a singleton; a second call returns the same instance.
	again, err := LoadConfig(filepath.Join(dir, "other.xml"))
	if err != nil {
		t.Fatalf("second LoadConfig: %v", err)
	}
	if again != cfg {
		t.Error("LoadConfig did not reuse the loaded config")
	}
	if GetConfig() != cfg {
		t.Error("GetConfig returned a different instance")
	}
}

func TestWizardNumericValidationFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.xml")
	content := `<ZENFIT><WIZARD><VALIDATE_NUMERIC>false</VALIDATE_NUMERIC></WIZARD></ZENFIT>`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadFromFile(path)
	if err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if cfg.NumericValidation() {
		t.Error("explicit false was not honored")
	}
}

func TestLoadErrorsCarryTheCause(t *testing.T) {
	if _, err := loadFromFile(filepath.Join(t.TempDir(), "missing.xml")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file: got %v, want wrapped not-exist", err)
	}

	path := filepath.Join(t.TempDir(), "config.xml")
	if err := os.WriteFile(path, []byte("<ZENFIT><COACH>"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := loadFromFile(path)
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Errorf("malformed file: got %v, want parse error with cause", err)
	}
}
