package cmd

import (
	"context"
	"fmt"
)

// ListCommand lists every ontology item in the configured workspace.
type ListCommand struct{}

func NewListCommand() *ListCommand { return &ListCommand{} }

func (c *ListCommand) Execute(ctx context.Context) error {
	log := buildLogger()
	client, err := buildFabricClient(log)
	if err != nil {
		return err
	}

	items, err := client.List(ctx)
	if err != nil {
		return fmt.Errorf("list ontology items: %w", err)
	}

	out := buildReportFormatter()
	if len(items) == 0 {
		out.PrintMessage("no ontology items found in this workspace")
		return nil
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.ID, item.DisplayName, item.WorkspaceID})
	}
	out.PrintTable([]string{"ID", "DISPLAY NAME", "WORKSPACE"}, rows)
	return nil
}
