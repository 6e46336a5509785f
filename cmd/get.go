package cmd

import (
	"context"
	"fmt"
)

// GetCommand fetches one ontology item's metadata by ID.
type GetCommand struct {
	id             string
	printDefinition bool
}

func NewGetCommand(id string) *GetCommand { return &GetCommand{id: id} }

func (c *GetCommand) WithDefinition(print bool) *GetCommand {
	c.printDefinition = print
	return c
}

func (c *GetCommand) Execute(ctx context.Context) error {
	log := buildLogger()
	client, err := buildFabricClient(log)
	if err != nil {
		return err
	}

	item, err := client.Get(ctx, c.id)
	if err != nil {
		return fmt.Errorf("get ontology item %s: %w", c.id, err)
	}

	out := buildReportFormatter()
	out.PrintTable([]string{"ID", "DISPLAY NAME", "WORKSPACE"}, [][]string{{item.ID, item.DisplayName, item.WorkspaceID}})

	if c.printDefinition {
		bundle, err := client.GetDefinition(ctx, c.id)
		if err != nil {
			return fmt.Errorf("get definition for %s: %w", c.id, err)
		}
		out.PrintMessage(fmt.Sprintf("definition: %d parts, %d bytes", len(bundle.Parts), bundle.TotalSizeBytes()))
	}
	return nil
}
