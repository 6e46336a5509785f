package cmd

import (
	"context"
	"fmt"
)

// DeleteCommand removes an ontology item from the Fabric workspace.
type DeleteCommand struct {
	id    string
	force bool
}

func NewDeleteCommand(id string) *DeleteCommand { return &DeleteCommand{id: id} }

func (c *DeleteCommand) WithForce(force bool) *DeleteCommand {
	c.force = force
	return c
}

func (c *DeleteCommand) Execute(ctx context.Context) error {
	if !c.force {
		return fmt.Errorf("refusing to delete %s without --force", c.id)
	}

	log := buildLogger()
	client, err := buildFabricClient(log)
	if err != nil {
		return err
	}

	if err := client.Delete(ctx, c.id); err != nil {
		return fmt.Errorf("delete ontology item %s: %w", c.id, err)
	}

	buildReportFormatter().PrintMessage(fmt.Sprintf("deleted ontology item %s", c.id))
	return nil
}
