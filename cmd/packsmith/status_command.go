package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of every pack under the storage root",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.newManager(cmd.Context())
			if err != nil {
				return err
			}
			defer manager.Close() //nolint:errcheck

			statuses, err := manager.Packs(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(statuses) == 0 {
				fmt.Fprintln(out, "No packs found")
				return nil
			}

			headers := []string{"Pack", "Status", "Textures Left", "Sounds Left", "Active Claims"}
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				rows = append(rows, []string{
					status.ID,
					string(status.Status),
					strconv.Itoa(status.Remaining.Textures),
					strconv.Itoa(status.Remaining.Sounds),
					strconv.Itoa(status.ActiveClaims),
				})
			}

			if isTerminal(out) {
				aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight}
				fmt.Fprintln(out, renderTable(headers, rows, aligns))
				return nil
			}
			for _, row := range rows {
				fmt.Fprintln(out, strings.Join(row, "\t"))
			}
			return nil
		},
	}
}
