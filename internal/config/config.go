// Package config provides configuration management for the cookie-profiles application.
// It uses Viper for configuration file handling and stores settings as YAML.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	apperrors "github.com/dtg01100/cookie-profiles/internal/errors"
	"github.com/dtg01100/cookie-profiles/internal/models"
	"github.com/dtg01100/cookie-profiles/pkg/utils"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const appName = "cookie-profiles"

// ImportMode defines how imported profiles are combined with saved ones.
type ImportMode int

const (
	// ImportModeMerge keeps saved profiles and adds imported ones whose URL is not saved yet.
	ImportModeMerge ImportMode = iota
	// ImportModeReplace drops all saved profiles in favour of the imported ones.
	ImportModeReplace
)

// ExportData is the on-disk layout of a profile backup.
type ExportData struct {
	Version  string                 `json:"version" yaml:"version"`
	Profiles []models.CookieProfile `json:"profiles" yaml:"profiles"`
	Exported string                 `json:"exported" yaml:"exported"`
}

// Config represents the application configuration.
type Config struct {
	mu sync.Mutex

	Version  string   `mapstructure:"version"`
	Settings Settings `mapstructure:"settings"`
}

// Settings holds application-wide settings.
type Settings struct {
	// Cookies enables passing the cookies jar to downloads.
	Cookies bool `mapstructure:"cookies"`

	DataDir        string `mapstructure:"data_dir"`
	CookiesFile    string `mapstructure:"cookies_file"`
	LogLevel       string `mapstructure:"log_level"`
	FirefoxProfile string `mapstructure:"firefox_profile"`
}

// Load reads the configuration from the default config file location.
// If the config file doesn't exist, it returns a new Config with defaults.
func Load() (*Config, error) {
	v := viper.New()

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, apperrors.NewConfigInvalidError("failed to read config file", err)
		}
		return newConfigWithDefaults(), nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.NewConfigInvalidError("failed to parse config", err)
	}

	return &cfg, nil
}

// Save writes the configuration to the default config file location.
// It writes to a temp file and renames it, keeping a backup of the previous file.
func (c *Config) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked()
}

func (c *Config) saveLocked() error {
	configDir, err := getConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := utils.EnsureDir(configDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	backupPath := configPath + ".bak"

	if _, err := os.Stat(configPath); err == nil {
		if err := createBackup(configPath, backupPath); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")

	v.Set("version", c.Version)
	v.Set("settings.cookies", c.Settings.Cookies)
	v.Set("settings.data_dir", c.Settings.DataDir)
	v.Set("settings.cookies_file", c.Settings.CookiesFile)
	v.Set("settings.log_level", c.Settings.LogLevel)
	v.Set("settings.firefox_profile", c.Settings.FirefoxProfile)

	tempPath := configPath + ".tmp.yaml"

	if err := v.WriteConfigAs(tempPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// CookiesEnabled reports whether cookies are passed to downloads.
func (c *Config) CookiesEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Settings.Cookies
}

// SetCookiesEnabled updates the cookies flag and persists the configuration.
// The in-memory flag is updated even when the write fails.
func (c *Config) SetCookiesEnabled(enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Settings.Cookies = enabled
	return c.saveLocked()
}

// DataDir returns the directory holding the profile database, cookies jar and logs.
func (c *Config) DataDir() (string, error) {
	if c.Settings.DataDir != "" {
		return utils.ExpandHome(c.Settings.DataDir), nil
	}
	return getDataDir()
}

// DatabasePath returns the path of the profile database.
func (c *Config) DatabasePath() (string, error) {
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profiles.db"), nil
}

// CookiesFilePath returns the path the cookies jar is exported to.
func (c *Config) CookiesFilePath() (string, error) {
	if c.Settings.CookiesFile != "" {
		return utils.ExpandHome(c.Settings.CookiesFile), nil
	}
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cookies.txt"), nil
}

// LogFilePath returns the path of the TUI log file.
func (c *Config) LogFilePath() (string, error) {
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".log"), nil
}

// RestoreFromBackup restores the configuration from the backup file.
func RestoreFromBackup() error {
	configDir, err := getConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	backupPath := configPath + ".bak"

	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("no backup file found")
	}

	if err := os.Rename(backupPath, configPath); err != nil {
		return fmt.Errorf("failed to restore from backup: %w", err)
	}

	return nil
}

// createBackup copies the existing config file over any previous backup.
func createBackup(configPath, backupPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	info, err := os.Stat(configPath)
	if err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}
	if err := os.WriteFile(backupPath, data, info.Mode()); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// getConfigDir returns the configuration directory path.
var getConfigDir = func() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

// getDataDir returns the default data directory, honouring XDG_DATA_HOME.
var getDataDir = func() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// setDefaults sets default values in viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("version", "1.0")
	v.SetDefault("settings.cookies", false)
	v.SetDefault("settings.data_dir", "")
	v.SetDefault("settings.cookies_file", "")
	v.SetDefault("settings.log_level", "info")
	v.SetDefault("settings.firefox_profile", "")
}

// newConfigWithDefaults creates a new Config with default values.
func newConfigWithDefaults() *Config {
	return &Config{
		Version: "1.0",
		Settings: Settings{
			Cookies:  false,
			LogLevel: "info",
		},
	}
}

// ExportProfiles writes profiles to a backup file.
// The file format is determined by the file extension (.json or .yaml/.yml).
func ExportProfiles(filePath string, profiles []models.CookieProfile) error {
	data := ExportData{
		Version:  "1.0",
		Profiles: profiles,
		Exported: time.Now().Format(time.RFC3339),
	}

	var (
		out []byte
		err error
	)
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".json":
		out, err = json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case ".yaml", ".yml":
		out, err = yaml.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported file format: %s (use .json, .yaml, or .yml)", ext)
	}

	// Backups carry session cookies, keep them private.
	return utils.WriteFileAtomic(filePath, out, 0600)
}

// ImportProfiles reads profiles from a backup file written by ExportProfiles.
func ImportProfiles(filePath string) ([]models.CookieProfile, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("import file does not exist: %s", filePath)
		}
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var data ExportData
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".json":
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("failed to decode JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported file format: %s (use .json, .yaml, or .yml)", ext)
	}

	if data.Version == "" && len(data.Profiles) == 0 {
		return nil, fmt.Errorf("invalid backup file: no profiles found")
	}

	return data.Profiles, nil
}

// SelectImports returns the imported profiles that should be saved under mode.
// In merge mode profiles whose URL is already saved, or repeated in the import, are
// skipped, and the rest lose their IDs so they are saved as new profiles.
func SelectImports(existing, imported []models.CookieProfile, mode ImportMode) []models.CookieProfile {
	if mode == ImportModeReplace {
		return imported
	}

	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[p.URL] = true
	}

	var out []models.CookieProfile
	for _, p := range imported {
		if seen[p.URL] {
			continue
		}
		seen[p.URL] = true
		p.ID = ""
		out = append(out, p)
	}
	return out
}
