package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	// Test default version
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	// Test that version is at least "dev" or "unknown"
	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestConfigFields(t *testing.T) {
	// Create a config instance to test field access
	cfg := &Cfg{
		UpstreamURL:       "https://records.example.com",
		UpstreamTimeout:   30,
		UpstreamRateLimit: 5,
		Port:              "8080",
		ViewsDir:          "./views",
		WorkerCount:       2,
		RefreshInterval:   300,
		APIAccessKey:      "test-key",
		UserAgent:         "Test Agent",
		Timezone:          "UTC",
		Debug:             true,
		Version:           "test-version",
	}

	// Test direct field access
	if cfg.UpstreamURL != "https://records.example.com" {
		t.Errorf("Expected upstream URL 'https://records.example.com', got '%s'", cfg.UpstreamURL)
	}
	if cfg.UpstreamTimeout != 30 {
		t.Errorf("Expected upstream timeout 30, got %d", cfg.UpstreamTimeout)
	}
	if cfg.UpstreamRateLimit != 5 {
		t.Errorf("Expected upstream rate limit 5, got %f", cfg.UpstreamRateLimit)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.ViewsDir != "./views" {
		t.Errorf("Expected views dir './views', got '%s'", cfg.ViewsDir)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("Expected worker count 2, got %d", cfg.WorkerCount)
	}
	if cfg.RefreshInterval != 300 {
		t.Errorf("Expected refresh interval 300, got %d", cfg.RefreshInterval)
	}
	if cfg.APIAccessKey != "test-key" {
		t.Errorf("Expected API key 'test-key', got '%s'", cfg.APIAccessKey)
	}
	if cfg.UserAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", cfg.UserAgent)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Expected timezone 'UTC', got '%s'", cfg.Timezone)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be true")
	}
	if cfg.Version != "test-version" {
		t.Errorf("Expected version 'test-version', got '%s'", cfg.Version)
	}
}
