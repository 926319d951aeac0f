package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the resolved application configuration.
type Config struct {
	Path          string
	PollInterval  time.Duration
	Storage       string
	DataDir       string
	LogLevel      string
	LogFile       string
	APIBase       string
	CDNBase       string
	Theme         string
	Notifications bool
}

const (
	defaultConfigPath   = "~/.config/presence/config.toml"
	defaultDataDir      = "~/.local/share/presence"
	defaultPollInterval = 1500 * time.Millisecond
	defaultStorage      = "file"
	defaultLogLevel     = "info"
	defaultAPIBase      = "https://discord.com/api/v10"
	defaultCDNBase      = "https://cdn.discordapp.com"
	defaultTheme        = "Nightfox"
	logFileName         = "presence.log"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	dataDir := mustExpand(defaultDataDir)
	return Config{
		PollInterval:  defaultPollInterval,
		Storage:       defaultStorage,
		DataDir:       dataDir,
		LogLevel:      defaultLogLevel,
		LogFile:       filepath.Join(dataDir, logFileName),
		APIBase:       defaultAPIBase,
		CDNBase:       defaultCDNBase,
		Theme:         defaultTheme,
		Notifications: true,
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	cfg.Path = resolved

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		PollIntervalMS int    `toml:"poll_interval_ms"`
		Storage        string `toml:"storage"`
		DataDir        string `toml:"data_dir"`
		LogLevel       string `toml:"log_level"`
		LogFile        string `toml:"log_file"`
		APIBase        string `toml:"api_base"`
		CDNBase        string `toml:"cdn_base"`
		Theme          string `toml:"theme"`
		Notifications  *bool  `toml:"notifications"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if raw.PollIntervalMS > 0 {
		cfg.PollInterval = time.Duration(raw.PollIntervalMS) * time.Millisecond
	}

	if storage := strings.ToLower(strings.TrimSpace(raw.Storage)); storage != "" {
		if storage != "file" && storage != "sqlite" {
			return Config{}, fmt.Errorf("storage %q: want file or sqlite", raw.Storage)
		}
		cfg.Storage = storage
	}

	if dir := strings.TrimSpace(raw.DataDir); dir != "" {
		cfg.DataDir = mustExpand(dir)
		cfg.LogFile = filepath.Join(cfg.DataDir, logFileName)
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}

	if level := strings.ToLower(strings.TrimSpace(raw.LogLevel)); level != "" {
		switch level {
		case "debug", "info", "warn", "warning", "error":
			cfg.LogLevel = level
		default:
			return Config{}, fmt.Errorf("log_level %q: want debug, info, warn or error", raw.LogLevel)
		}
	}

	cfg.APIBase = orDefault(raw.APIBase, defaultAPIBase)
	cfg.CDNBase = orDefault(raw.CDNBase, defaultCDNBase)
	cfg.Theme = orDefault(raw.Theme, defaultTheme)
	if raw.Notifications != nil {
		cfg.Notifications = *raw.Notifications
	}

	return cfg, nil
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
