package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newClaimsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "claims <pack-id>",
		Short: "List the active claims of a pack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.newManager(cmd.Context())
			if err != nil {
				return err
			}
			defer manager.Close() //nolint:errcheck

			claims, err := manager.Claims(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(claims) == 0 {
				fmt.Fprintln(out, "No active claims")
				return nil
			}

			headers := []string{"Asset", "User", "Claimed At"}
			rows := make([][]string, 0, len(claims))
			for _, claim := range claims {
				claimedAt := ""
				if !claim.CreatedAt.IsZero() {
					claimedAt = claim.CreatedAt.Local().Format(time.RFC3339)
				}
				rows = append(rows, []string{claim.AssetPath, claim.UserID, claimedAt})
			}

			if isTerminal(out) {
				fmt.Fprintln(out, renderTable(headers, rows, nil))
				return nil
			}
			for _, row := range rows {
				fmt.Fprintln(out, strings.Join(row, "\t"))
			}
			return nil
		},
	}
}
