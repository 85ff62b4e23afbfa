package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newCreateCommand(ctx *commandContext) *cobra.Command {
	var version string

	cmd := &cobra.Command{
		Use:   "create [pack-id]",
		Short: "Provision a new pack from the asset repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) > 0 {
				id = strings.TrimSpace(args[0])
			}
			if id == "" {
				id = uuid.NewString()
			}
			if strings.TrimSpace(version) == "" {
				return fmt.Errorf("--version is required")
			}

			manager, err := ctx.newManager(cmd.Context())
			if err != nil {
				return err
			}
			defer manager.Close() //nolint:errcheck

			fmt.Fprintf(cmd.OutOrStdout(), "Provisioning pack %s from version %s...\n", id, version)
			if err := manager.CreatePack(cmd.Context(), id, version); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pack %s is ready\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&version, "version", "v", "", "Asset repository branch to build against")
	return cmd
}
