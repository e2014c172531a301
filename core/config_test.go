package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFromValidFile(t *testing.T) {
	tmp := t.TempDir()

	configYAML := `
outputDir: ./out
cache: true
debugHeaders: true
debugLogs: true
templatesDir: site/templates
publicDir: site/static
`
	configPath := filepath.Join(tmp, ConfigFile)
	err := os.WriteFile(configPath, []byte(configYAML), 0644)
	if err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg := LoadConfig(configPath)

	if cfg.OutputDir != "./out" {
		t.Errorf("expected OutputDir './out', got %q", cfg.OutputDir)
	}
	if !cfg.CacheEnabled {
		t.Error("expected CacheEnabled to be true")
	}
	if !cfg.DebugHeaders {
		t.Error("expected DebugHeaders to be true")
	}
	if !cfg.DebugLogs {
		t.Error("expected DebugLogs to be true")
	}
	if cfg.TemplatesDir != "site/templates" {
		t.Errorf("expected TemplatesDir 'site/templates', got %q", cfg.TemplatesDir)
	}
	if cfg.PublicDir != "site/static" {
		t.Errorf("expected PublicDir 'site/static', got %q", cfg.PublicDir)
	}
}

func TestLoadConfigDefaultsWhenFileMissing(t *testing.T) {
	cfg := LoadConfig("nonexistent.yml")

	if cfg.OutputDir != "./cache" {
		t.Errorf("expected default OutputDir './cache', got %q", cfg.OutputDir)
	}
	if cfg.CacheEnabled {
		t.Error("expected CacheEnabled to be false")
	}
	if cfg.DebugHeaders {
		t.Error("expected DebugHeaders to be false")
	}
	if cfg.DebugLogs {
		t.Error("expected DebugLogs to be false")
	}
	if cfg.TemplatesDir != "web/templates" || cfg.PublicDir != "web/static" {
		t.Errorf("unexpected default dirs: %+v", cfg)
	}
}

func TestLoadConfigDefaultsWhenOutputDirEmpty(t *testing.T) {
	tmp := t.TempDir()

	configYAML := `
outputDir: ""
cache: true
debugHeaders: true
debugLogs: true
`
	configPath := filepath.Join(tmp, ConfigFile)
	err := os.WriteFile(configPath, []byte(configYAML), 0644)
	if err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg := LoadConfig(configPath)

	if cfg.OutputDir != "./cache" {
		t.Errorf("expected fallback OutputDir './cache', got %q", cfg.OutputDir)
	}
	if !cfg.CacheEnabled || !cfg.DebugHeaders || !cfg.DebugLogs {
		t.Error("expected true values for all booleans")
	}
}

func TestLoadConfigDefaultsOnMalformedYAML(t *testing.T) {
	tmp := t.TempDir()
	configPath := filepath.Join(tmp, ConfigFile)
	if err := os.WriteFile(configPath, []byte("cache: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := LoadConfig(configPath)
	if cfg.CacheEnabled || cfg.OutputDir != "./cache" {
		t.Errorf("expected defaults for malformed config, got %+v", cfg)
	}
}
