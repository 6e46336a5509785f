package cmd

import (
	"context"
	"fmt"
)

// TestCommand verifies that the configured Fabric credentials and
// workspace ID can actually reach the Fabric REST API, without
// converting or uploading anything (§6 operator smoke test).
type TestCommand struct{}

func NewTestCommand() *TestCommand { return &TestCommand{} }

func (c *TestCommand) Execute(ctx context.Context) error {
	log := buildLogger()
	client, err := buildFabricClient(log)
	if err != nil {
		return err
	}

	items, err := client.List(ctx)
	if err != nil {
		return fmt.Errorf("connectivity check failed: %w", err)
	}

	buildReportFormatter().PrintMessage(
		fmt.Sprintf("connected to Fabric workspace %s: %d ontology item(s) visible", loadedConfig.Fabric.WorkspaceID, len(items)),
	)
	return nil
}
