package entities

import "path/filepath"

// RateLimitConfig mirrors fabric.rate_limit (§6): caps outbound request
// rate to the Fabric REST API.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	Burst             int
}

// CircuitBreakerConfig mirrors fabric.circuit_breaker (§6).
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	RecoveryTimeout  int // seconds
	SuccessThreshold int
}

// FabricSection mirrors the fabric.* table (§6): workspace identity,
// chained-credential inputs, and resilience tuning for the REST client.
type FabricSection struct {
	WorkspaceID        string
	APIBaseURL         string
	TenantID           string
	ClientID           string
	ClientSecret       string
	UseInteractiveAuth bool
	RateLimit          RateLimitConfig
	CircuitBreaker     CircuitBreakerConfig
}

// RotationConfig mirrors logging.rotation (§6).
type RotationConfig struct {
	Enabled     bool
	MaxMB       int
	BackupCount int
}

// LoggingSection mirrors the logging.* table (§6).
type LoggingSection struct {
	Level    string
	File     string
	Format   string
	Rotation RotationConfig
}

// OntologySection mirrors the ontology.* table (§6).
type OntologySection struct {
	IDPrefix string
}

// FabricConfig is the merged configuration this module loads from
// ~/.fabric-ontology/config.toml and ./fabric.toml (§6). Project-local
// values win over global ones field by field.
type FabricConfig struct {
	Fabric   FabricSection
	Logging  LoggingSection
	Ontology OntologySection
}

// DefaultFabricConfig returns the configuration used when neither the
// global nor the project-local file sets a value.
func DefaultFabricConfig() *FabricConfig {
	return &FabricConfig{
		Fabric: FabricSection{
			APIBaseURL: "https://api.fabric.microsoft.com/v1",
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 10,
				Burst:             10,
			},
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:          true,
				FailureThreshold: 5,
				RecoveryTimeout:  60,
				SuccessThreshold: 2,
			},
		},
		Logging: LoggingSection{
			Level:  "info",
			Format: "json",
			Rotation: RotationConfig{
				Enabled:     false,
				MaxMB:       100,
				BackupCount: 3,
			},
		},
		Ontology: OntologySection{
			IDPrefix: "fo",
		},
	}
}

// XDGPaths resolves the directories this module reads and writes
// outside the current project (§6: global config, cache of fetched
// bundles, log files).
type XDGPaths struct {
	ConfigHome string
	DataHome   string
	CacheHome  string
}

// ConfigFile returns the path to the global configuration file.
func (p XDGPaths) ConfigFile() string {
	if p.ConfigHome == "" {
		return ""
	}
	return filepath.Join(p.ConfigHome, "config.toml")
}

// LogFile returns the default path for rotated log output when
// logging.file is unset.
func (p XDGPaths) LogFile() string {
	if p.DataHome == "" {
		return ""
	}
	return filepath.Join(p.DataHome, "fabric-ontology.log")
}
