package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"farm-service/internal/listing"
)

func (a *app) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <resource> <id>",
		Short: "Print one record as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := parseResource(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			item, err := a.get(cmd.Context(), res, id)
			if err != nil {
				return err
			}
			return a.printJSON(item)
		},
	}
}

func (a *app) printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	a.printf("%s\n", data)
	return nil
}

func (a *app) deleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete a record after confirmation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := parseResource(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}

			t, err := a.table(cmd.Context(), res)
			if err != nil {
				return err
			}
			withLayer := layerIDs(t.layers)
			board := listing.NewBoard(t.rows, func(r row) uint { return r.ID }, func(r row) bool { return withLayer[r.ID] })

			if !board.RequestDelete(id) {
				return fmt.Errorf("%s %d not found", res, id)
			}

			if !yes {
				answer, err := a.readLine(fmt.Sprintf("delete %s %d? [y/N] ", res, id))
				if err != nil {
					return err
				}
				if answer != "y" && answer != "yes" {
					board.Cancel()
					a.printf("cancelled\n")
					return nil
				}
			}

			if err := board.Confirm(cmd.Context(), func(ctx context.Context, id uint) error {
				return a.remove(ctx, res, id)
			}); err != nil {
				return err
			}
			a.printf("deleted %s %d, %d left\n", res, id, len(board.Rows()))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}
