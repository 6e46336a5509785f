// Package cmd implements the fabric-ontology CLI commands using Cobra.
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/madstone-tech/fabric-ontology/internal/adapters/config"
	"github.com/madstone-tech/fabric-ontology/internal/core/entities"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Build-time version information, set via SetVersionInfo from main.go.
var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
	appBuiltBy = "unknown"
)

// Persistent flag values accessible to all subcommands.
var (
	cfgFile     string
	ProjectRoot string
	Verbose     bool
)

// loadedConfig is populated by initConfig and read by every subcommand.
var loadedConfig *entities.FabricConfig

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "fabric-ontology",
	Short: "Convert RDF/OWL, DTDL, and CDM ontologies into Fabric ontology bundles",
	Long: `fabric-ontology converts RDF/OWL, DTDL (v2/v3/v4), and Common Data Model
ontology sources into Microsoft Fabric's ontology bundle format, and manages
the resulting items in a Fabric workspace: validate without uploading, convert
to a bundle, upload with retry/rate-limiting/circuit-breaking, export a bundle
back to Turtle, and list/get/delete items through the Fabric REST API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to an extra config file merged over the global and project fabric.toml")
	rootCmd.PersistentFlags().StringVarP(&ProjectRoot, "project", "p", ".", "project root directory (location of fabric.toml)")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "enable verbose (debug-level) logging")

	rootCmd.AddGroup(
		&cobra.Group{ID: "convert", Title: "Conversion"},
		&cobra.Group{ID: "remote", Title: "Fabric workspace"},
	)
}

// Execute runs the root command. This is the main entry point called from main.go.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// SetVersionInfo sets build-time version information from ldflags. Call
// this from main.go before Execute().
func SetVersionInfo(version, commit, date, builtBy string) {
	appVersion = version
	appCommit = commit
	appDate = date
	appBuiltBy = builtBy

	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		fmt.Sprintf("fabric-ontology %s (commit: %s, built: %s by %s)\n", version, commit, date, builtBy),
	)
}

// initConfig loads the merged fabric.toml configuration (global then
// project-local, §6) and layers FABRIC_ONTOLOGY_* environment variables
// on top via Viper, matching the teacher's flags > env > project file >
// global file > defaults precedence.
func initConfig(ctx context.Context) error {
	loader := config.NewLoader()
	cfg, err := loader.LoadConfig(ctx, ProjectRoot)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfgFile != "" {
		if err := loader.LoadFile(cfgFile, cfg); err != nil {
			return fmt.Errorf("load config file %s: %w", cfgFile, err)
		}
	}

	viper.SetEnvPrefix("FABRIC_ONTOLOGY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if v := viper.GetString("fabric.workspace_id"); v != "" {
		cfg.Fabric.WorkspaceID = v
	}
	if v := viper.GetString("fabric.tenant_id"); v != "" {
		cfg.Fabric.TenantID = v
	}
	if v := viper.GetString("fabric.client_id"); v != "" {
		cfg.Fabric.ClientID = v
	}
	if v := viper.GetString("fabric.client_secret"); v != "" {
		cfg.Fabric.ClientSecret = v
	}
	if v := viper.GetString("fabric.api_base_url"); v != "" {
		cfg.Fabric.APIBaseURL = v
	}
	if v := viper.GetString("logging.level"); v != "" {
		cfg.Logging.Level = v
	}

	if Verbose {
		cfg.Logging.Level = "debug"
	}

	loadedConfig = cfg
	return nil
}
