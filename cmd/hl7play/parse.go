package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hl7play/internal/validator"
)

func newParseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] [workspace-dir]",
		Short: "Parse the message against the profile and print the tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(cmd, args)
			if err != nil {
				return err
			}
			id, err := messageID(cmd, ws)
			if err != nil {
				return err
			}
			client, err := a.client()
			if err != nil {
				return err
			}
			tree, err := client.Parse(cmd.Context(), validator.ParseQuery{
				Profile: ws.Text(validator.Profile),
				Message: ws.Text(validator.Message),
				ID:      id,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tree)
			return nil
		},
	}
	addWorkspaceFlags(cmd)
	cmd.Flags().String("id", "", "message structure id (default: the only message of the profile)")
	return cmd
}
