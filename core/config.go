package core

import (
	"os"

	"gopkg.in/yaml.v3"
)

const ConfigFile = "nimbus.config.yml"

type Config struct {
	OutputDir    string `yaml:"outputDir"`
	CacheEnabled bool   `yaml:"cache"`
	DebugHeaders bool   `yaml:"debugHeaders"`
	DebugLogs    bool   `yaml:"debugLogs"`
	TemplatesDir string `yaml:"templatesDir"`
	PublicDir    string `yaml:"publicDir"`
}

func defaultConfig() *Config {
	return &Config{
		OutputDir:    "./cache",
		TemplatesDir: "web/templates",
		PublicDir:    "web/static",
	}
}

// LoadConfig reads the YAML config at path. A missing or unreadable file
// yields the defaults; unset directories fall back to their defaults.
var LoadConfig = func(path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return defaultConfig()
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return defaultConfig()
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "./cache"
	}
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = "web/templates"
	}
	if cfg.PublicDir == "" {
		cfg.PublicDir = "web/static"
	}

	return cfg
}
