package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/madstone-tech/fabric-ontology/internal/adapters/cli"
	"github.com/madstone-tech/fabric-ontology/internal/adapters/config"
	"github.com/madstone-tech/fabric-ontology/internal/adapters/fabricclient"
	"github.com/madstone-tech/fabric-ontology/internal/adapters/logging"
	"github.com/madstone-tech/fabric-ontology/internal/adapters/validation"
	"github.com/madstone-tech/fabric-ontology/internal/cancel"
	"github.com/madstone-tech/fabric-ontology/internal/core/usecases"
)

// buildLogger creates a usecases.Logger from the loaded configuration,
// falling back to a stderr logger if the configured log file can't be
// opened.
func buildLogger() usecases.Logger {
	log, err := logging.NewFromConfig(loadedConfig.Logging)
	if err != nil {
		return logging.New(os.Stderr, loadedConfig.Logging.Level, loadedConfig.Logging.Format)
	}
	return log
}

func buildProgressReporter() usecases.ProgressReporter {
	return cli.NewProgressReporter()
}

func buildReportFormatter() *cli.ReportFormatter {
	return cli.NewReportFormatter()
}

// buildFabricClient wires the resilient REST client from the fabric.*
// configuration section (§4.M, §6).
func buildFabricClient(log usecases.Logger) (*fabricclient.Client, error) {
	f := loadedConfig.Fabric
	if f.WorkspaceID == "" {
		return nil, fmt.Errorf("fabric.workspace_id is not configured (set it in %s or ./fabric.toml)",
			config.NewXDGPathResolver().ConfigFile())
	}

	cfg := fabricclient.Config{
		APIBaseURL:   f.APIBaseURL,
		WorkspaceID:  f.WorkspaceID,
		TenantID:     f.TenantID,
		ClientID:     f.ClientID,
		ClientSecret: f.ClientSecret,
		AmbientToken: os.Getenv("FABRIC_ACCESS_TOKEN"),
	}
	if f.RateLimit.Enabled {
		cfg.RateLimit = f.RateLimit.RequestsPerMinute
		cfg.RatePeriod = time.Minute
	}
	if f.CircuitBreaker.Enabled {
		cfg.Breaker = fabricclient.BreakerConfig{
			FailureThreshold: f.CircuitBreaker.FailureThreshold,
			RecoveryTimeout:  time.Duration(f.CircuitBreaker.RecoveryTimeout) * time.Second,
			SuccessThreshold: f.CircuitBreaker.SuccessThreshold,
		}
	}
	return fabricclient.New(cfg, log), nil
}

// withCancellation wires SIGINT/SIGTERM into both a context (for the
// HTTP calls the Fabric client makes) and a cancel.Token (for the
// converters' cooperative cancellation checks, §4.N). Its stop function
// must be deferred by the caller.
func withCancellation(parent context.Context) (context.Context, *cancel.Token, func()) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	src := cancel.NewSource()
	go func() {
		<-ctx.Done()
		src.Cancel()
	}()
	return ctx, src.Token(), stop
}

// sourcePathOptions builds the path-validation policy shared by every
// command that opens a user-supplied source file (§5 security checks).
func sourcePathOptions(allowRelativeUp bool) validation.PathOptions {
	return validation.PathOptions{
		AllowedExtensions: validation.OntologySourceExtensions,
		CheckExists:       true,
		AllowRelativeUp:   allowRelativeUp,
	}
}

// ErrBlockingIssues is returned by validate/compare when the source has
// issues that would block a seamless Fabric import, distinguishing that
// outcome from an unexpected failure (§6 exit code contract).
var ErrBlockingIssues = errors.New("ontology has blocking issues")

// exitCode maps a command error to the process exit code: 0 success, 2
// ErrBlockingIssues (validate/compare found blocking issues), 130
// cancelled, 1 everything else. A source that fails to parse during
// convert or upload is a plain error and exits 1, not 2.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, cancel.ErrCancelled):
		return 130
	case errors.Is(err, ErrBlockingIssues):
		return 2
	default:
		return 1
	}
}

// finish translates a subcommand's error into this module's exit code
// contract. Cobra's own RunE plumbing only distinguishes "nil" from
// "non-nil" (always exit 1), so codes 2 and 130 are applied directly;
// genuinely unexpected errors (code 1) are returned to Cobra as-is so its
// usual "Error: ..." reporting still applies.
func finish(err error) error {
	switch exitCode(err) {
	case 0:
		return nil
	case 1:
		return err
	default:
		if err != nil && !errors.Is(err, ErrBlockingIssues) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(exitCode(err))
		return nil
	}
}
