// Package config provides centralized configuration management for the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/caseproof/summarize/internal/logging"
)

// Default values applied when neither the config file nor the
// environment provides them.
const (
	DefaultTimezone     = "America/New_York"
	defaultOrganization = "Caseproof"

	// StorageModeFile persists checklists as dated markdown files.
	StorageModeFile = "file"
	// StorageModeIssue persists checklists as dated GitHub issues.
	StorageModeIssue = "issue"
)

// Config holds all configuration parameters for the application.
type Config struct {
	// Organizations are the GitHub organizations queried for open work.
	Organizations []string

	// TargetRepository is a legacy field kept for backward
	// compatibility with old config files. It is parsed and ignored.
	TargetRepository string

	// Timezone is the IANA zone used to compute "today" and "yesterday".
	Timezone string

	GitHub  GitHubConfig
	Storage StorageConfig
}

// GitHubConfig holds GitHub specific configuration.
type GitHubConfig struct {
	Token  string
	Domain string
}

// StorageConfig selects where daily checklists are persisted.
type StorageConfig struct {
	// Mode is either "file" or "issue".
	Mode string

	// Directory holds dated markdown files in file mode.
	Directory string

	// Repository is the "owner/repo" that hosts the daily issue in
	// issue mode.
	Repository string
}

// LoadConfig loads configuration from the optional JSON config file
// and environment variables. Environment variables win over the file.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")
	v.AutomaticEnv()

	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("github.domain", "GITHUB_DOMAIN")
	v.BindEnv("storage.mode", "SUMMARIZE_STORAGE_MODE")
	v.BindEnv("storage.directory", "SUMMARIZE_DIR")
	v.BindEnv("storage.repository", "SUMMARIZE_REPOSITORY")
	v.BindEnv("timezone", "SUMMARIZE_TZ")

	v.SetDefault("timezone", DefaultTimezone)
	v.SetDefault("storage.mode", StorageModeFile)

	path := configFilePath()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("unable to read config file %s: %w", path, err)
			}
			logging.Debug("no config file found", "path", path)
		} else {
			logging.Debug("loaded config file", "path", path)
		}
	}

	config := &Config{
		Organizations:    organizationsFrom(v),
		TargetRepository: strings.TrimSpace(v.GetString("target_repository")),
		Timezone:         v.GetString("timezone"),
		GitHub: GitHubConfig{
			Token:  v.GetString("github.token"),
			Domain: v.GetString("github.domain"),
		},
		Storage: StorageConfig{
			Mode:       v.GetString("storage.mode"),
			Directory:  v.GetString("storage.directory"),
			Repository: v.GetString("storage.repository"),
		},
	}

	if config.GitHub.Domain == "" {
		config.GitHub.Domain = "github.com"
	}
	if config.Storage.Directory == "" {
		config.Storage.Directory = defaultStorageDirectory()
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// organizationsFrom resolves the organization list. The
// CASEPROOF_GH_ORGS (comma-separated) and CASEPROOF_GH_ORG environment
// variables supersede the config file; the built-in default applies
// when both are absent.
func organizationsFrom(v *viper.Viper) []string {
	envValue := os.Getenv("CASEPROOF_GH_ORGS")
	if envValue == "" {
		envValue = os.Getenv("CASEPROOF_GH_ORG")
	}
	if envValue != "" {
		if orgs := splitOrganizations(envValue); len(orgs) > 0 {
			return orgs
		}
		return []string{defaultOrganization}
	}

	raw := v.GetStringSlice("organizations")
	cleaned := make([]string, 0, len(raw))
	for _, org := range raw {
		org = strings.TrimSpace(org)
		if org != "" {
			cleaned = append(cleaned, org)
		}
	}
	if len(cleaned) == 0 {
		return []string{defaultOrganization}
	}
	return cleaned
}

// splitOrganizations parses a comma-separated organization list,
// dropping empty entries.
func splitOrganizations(value string) []string {
	var orgs []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			orgs = append(orgs, part)
		}
	}
	return orgs
}

// configFilePath returns the config file location: SUMMARIZE_CONFIG if
// set, otherwise ~/.config/summarize/config.json.
func configFilePath() string {
	if path := os.Getenv("SUMMARIZE_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "summarize", "config.json")
}

// defaultStorageDirectory is where dated checklist files live when no
// directory is configured.
func defaultStorageDirectory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "summarize")
}

// validateConfig ensures the configuration is usable before any
// network or storage I/O happens.
func validateConfig(config *Config) error {
	switch config.Storage.Mode {
	case StorageModeFile, StorageModeIssue:
	default:
		return fmt.Errorf("invalid storage mode %q: must be %q or %q",
			config.Storage.Mode, StorageModeFile, StorageModeIssue)
	}

	if config.Storage.Mode == StorageModeIssue {
		repo := config.Storage.Repository
		if repo == "" {
			return fmt.Errorf("storage.repository is required in issue mode")
		}
		if !strings.Contains(repo, "/") {
			return fmt.Errorf("storage.repository %q must be in the form owner/repo", repo)
		}
	}

	if config.Timezone == "" {
		return fmt.Errorf("timezone cannot be empty")
	}

	return nil
}

// ValidateGitHubConfig checks the settings needed to query the GitHub
// API. Kept separate from LoadConfig because --show in file mode never
// touches the API.
func ValidateGitHubConfig(config *Config) error {
	if config.GitHub.Token == "" {
		return fmt.Errorf("missing required environment variable: GITHUB_TOKEN")
	}
	return nil
}
