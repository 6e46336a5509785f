// Package config provides configuration loading from fabric.toml files.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
)

// Loader implements configuration loading for TOML files (§6).
type Loader struct {
	globalConfigPath string // ~/.fabric-ontology/config.toml
}

// NewLoader creates a new config loader.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	globalPath := ""
	if home != "" {
		globalPath = filepath.Join(home, ".fabric-ontology", "config.toml")
	}
	return &Loader{globalConfigPath: globalPath}
}

// tomlConfig represents the structure of fabric.toml (§6).
type tomlConfig struct {
	Fabric   fabricSection   `toml:"fabric"`
	Logging  loggingSection  `toml:"logging"`
	Ontology ontologySection `toml:"ontology"`
}

type fabricSection struct {
	WorkspaceID        string                `toml:"workspace_id"`
	APIBaseURL         string                `toml:"api_base_url"`
	TenantID           string                `toml:"tenant_id"`
	ClientID           string                `toml:"client_id"`
	ClientSecret       string                `toml:"client_secret"`
	UseInteractiveAuth *bool                 `toml:"use_interactive_auth"`
	RateLimit          rateLimitSection      `toml:"rate_limit"`
	CircuitBreaker     circuitBreakerSection `toml:"circuit_breaker"`
}

type rateLimitSection struct {
	Enabled           *bool `toml:"enabled"`
	RequestsPerMinute *int  `toml:"requests_per_minute"`
	Burst             *int  `toml:"burst"`
}

type circuitBreakerSection struct {
	Enabled          *bool `toml:"enabled"`
	FailureThreshold *int  `toml:"failure_threshold"`
	RecoveryTimeout  *int  `toml:"recovery_timeout"`
	SuccessThreshold *int  `toml:"success_threshold"`
}

type loggingSection struct {
	Level    string          `toml:"level"`
	File     string          `toml:"file"`
	Format   string          `toml:"format"`
	Rotation rotationSection `toml:"rotation"`
}

type rotationSection struct {
	Enabled     *bool `toml:"enabled"`
	MaxMB       *int  `toml:"max_mb"`
	BackupCount *int  `toml:"backup_count"`
}

type ontologySection struct {
	IDPrefix string `toml:"id_prefix"`
}

// LoadConfig reads fabric.toml and applies defaults. It reads both the
// global (~/.fabric-ontology/config.toml) and project-local
// (./fabric.toml) files, with project-local overriding global settings
// field by field (§6).
func (l *Loader) LoadConfig(ctx context.Context, projectRoot string) (*entities.FabricConfig, error) {
	cfg := entities.DefaultFabricConfig()

	if l.globalConfigPath != "" {
		if _, err := os.Stat(l.globalConfigPath); err == nil {
			if err := l.loadFromFile(l.globalConfigPath, cfg); err != nil {
				return nil, fmt.Errorf("failed to load global config: %w", err)
			}
		}
	}

	projectConfigPath := filepath.Join(projectRoot, "fabric.toml")
	if _, err := os.Stat(projectConfigPath); err == nil {
		if err := l.loadFromFile(projectConfigPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load project config: %w", err)
		}
	}

	return cfg, nil
}

// LoadFile merges an explicit TOML file into cfg, overriding whatever
// LoadConfig already resolved. Used by the --config flag, which names an
// exact file rather than a project root.
func (l *Loader) LoadFile(path string, cfg *entities.FabricConfig) error {
	return l.loadFromFile(path, cfg)
}

// loadFromFile loads configuration from a TOML file into cfg.
func (l *Loader) loadFromFile(path string, cfg *entities.FabricConfig) error {
	var tc tomlConfig
	if _, err := toml.DecodeFile(path, &tc); err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}

	if tc.Fabric.WorkspaceID != "" {
		cfg.Fabric.WorkspaceID = tc.Fabric.WorkspaceID
	}
	if tc.Fabric.APIBaseURL != "" {
		cfg.Fabric.APIBaseURL = tc.Fabric.APIBaseURL
	}
	if tc.Fabric.TenantID != "" {
		cfg.Fabric.TenantID = tc.Fabric.TenantID
	}
	if tc.Fabric.ClientID != "" {
		cfg.Fabric.ClientID = tc.Fabric.ClientID
	}
	if tc.Fabric.ClientSecret != "" {
		cfg.Fabric.ClientSecret = tc.Fabric.ClientSecret
	}
	if tc.Fabric.UseInteractiveAuth != nil {
		cfg.Fabric.UseInteractiveAuth = *tc.Fabric.UseInteractiveAuth
	}

	if tc.Fabric.RateLimit.Enabled != nil {
		cfg.Fabric.RateLimit.Enabled = *tc.Fabric.RateLimit.Enabled
	}
	if tc.Fabric.RateLimit.RequestsPerMinute != nil {
		cfg.Fabric.RateLimit.RequestsPerMinute = *tc.Fabric.RateLimit.RequestsPerMinute
	}
	if tc.Fabric.RateLimit.Burst != nil {
		cfg.Fabric.RateLimit.Burst = *tc.Fabric.RateLimit.Burst
	}

	if tc.Fabric.CircuitBreaker.Enabled != nil {
		cfg.Fabric.CircuitBreaker.Enabled = *tc.Fabric.CircuitBreaker.Enabled
	}
	if tc.Fabric.CircuitBreaker.FailureThreshold != nil {
		cfg.Fabric.CircuitBreaker.FailureThreshold = *tc.Fabric.CircuitBreaker.FailureThreshold
	}
	if tc.Fabric.CircuitBreaker.RecoveryTimeout != nil {
		cfg.Fabric.CircuitBreaker.RecoveryTimeout = *tc.Fabric.CircuitBreaker.RecoveryTimeout
	}
	if tc.Fabric.CircuitBreaker.SuccessThreshold != nil {
		cfg.Fabric.CircuitBreaker.SuccessThreshold = *tc.Fabric.CircuitBreaker.SuccessThreshold
	}

	if tc.Logging.Level != "" {
		cfg.Logging.Level = tc.Logging.Level
	}
	if tc.Logging.File != "" {
		cfg.Logging.File = tc.Logging.File
	}
	if tc.Logging.Format != "" {
		cfg.Logging.Format = tc.Logging.Format
	}
	if tc.Logging.Rotation.Enabled != nil {
		cfg.Logging.Rotation.Enabled = *tc.Logging.Rotation.Enabled
	}
	if tc.Logging.Rotation.MaxMB != nil {
		cfg.Logging.Rotation.MaxMB = *tc.Logging.Rotation.MaxMB
	}
	if tc.Logging.Rotation.BackupCount != nil {
		cfg.Logging.Rotation.BackupCount = *tc.Logging.Rotation.BackupCount
	}

	if tc.Ontology.IDPrefix != "" {
		cfg.Ontology.IDPrefix = tc.Ontology.IDPrefix
	}

	return nil
}

// SaveConfig persists configuration to ./fabric.toml under projectRoot.
func (l *Loader) SaveConfig(ctx context.Context, projectRoot string, cfg *entities.FabricConfig) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	tc := tomlConfig{
		Fabric: fabricSection{
			WorkspaceID:        cfg.Fabric.WorkspaceID,
			APIBaseURL:         cfg.Fabric.APIBaseURL,
			TenantID:           cfg.Fabric.TenantID,
			ClientID:           cfg.Fabric.ClientID,
			ClientSecret:       cfg.Fabric.ClientSecret,
			UseInteractiveAuth: &cfg.Fabric.UseInteractiveAuth,
			RateLimit: rateLimitSection{
				Enabled:           &cfg.Fabric.RateLimit.Enabled,
				RequestsPerMinute: &cfg.Fabric.RateLimit.RequestsPerMinute,
				Burst:             &cfg.Fabric.RateLimit.Burst,
			},
			CircuitBreaker: circuitBreakerSection{
				Enabled:          &cfg.Fabric.CircuitBreaker.Enabled,
				FailureThreshold: &cfg.Fabric.CircuitBreaker.FailureThreshold,
				RecoveryTimeout:  &cfg.Fabric.CircuitBreaker.RecoveryTimeout,
				SuccessThreshold: &cfg.Fabric.CircuitBreaker.SuccessThreshold,
			},
		},
		Logging: loggingSection{
			Level:  cfg.Logging.Level,
			File:   cfg.Logging.File,
			Format: cfg.Logging.Format,
			Rotation: rotationSection{
				Enabled:     &cfg.Logging.Rotation.Enabled,
				MaxMB:       &cfg.Logging.Rotation.MaxMB,
				BackupCount: &cfg.Logging.Rotation.BackupCount,
			},
		},
		Ontology: ontologySection{
			IDPrefix: cfg.Ontology.IDPrefix,
		},
	}

	if err := os.MkdirAll(projectRoot, 0o755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	configPath := filepath.Join(projectRoot, "fabric.toml")
	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	f.WriteString("# fabric-ontology project configuration\n\n")

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(tc); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
