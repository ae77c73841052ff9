package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hl7play/internal/bundle"
	"hl7play/internal/validator"
	"hl7play/internal/workspace"
)

func newBundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle [flags] <bundle.zip>",
		Short: "Unpack a resource bundle into a workspace directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("out")
			b, err := bundle.Open(args[0])
			if err != nil {
				return err
			}
			ws, err := existingOrNew(dir)
			if err != nil {
				return err
			}
			b.Apply(ws)
			return saveWorkspace(cmd, ws, dir)
		},
	}
	cmd.Flags().String("out", ".", "workspace directory")
	return cmd
}

func newExampleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "example [flags]",
		Short: "Fetch the validator's example resources into a workspace directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString("out")
			client, err := a.client()
			if err != nil {
				return err
			}
			q, err := client.LoadExample(cmd.Context())
			if err != nil {
				return err
			}
			ws := workspace.New()
			ws.Load(q)
			return saveWorkspace(cmd, ws, dir)
		},
	}
	cmd.Flags().String("out", ".", "workspace directory")
	return cmd
}

func newMessageIDsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message-ids [flags] [workspace-dir]",
		Short: "List the message structures declared by the profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat(cmd)
			if err != nil {
				return err
			}
			ws, err := openWorkspace(cmd, args)
			if err != nil {
				return err
			}
			ids, err := workspace.MessageIDs(ws.Text(validator.Profile))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if format == "json" {
				if ids == nil {
					ids = []workspace.MessageID{}
				}
				return writeJSON(out, ids)
			}
			for _, id := range ids {
				fmt.Fprintf(out, "%s\t%s\n", id.ID, id.Name)
			}
			return nil
		},
	}
	addWorkspaceFlags(cmd)
	cmd.Flags().String("format", "", "output format (pretty|json)")
	return cmd
}

func existingOrNew(dir string) (*workspace.Workspace, error) {
	ws, err := workspace.LoadDir(dir)
	if err == nil {
		return ws, nil
	}
	// каталог может ещё не существовать
	return workspace.New(), nil
}

func saveWorkspace(cmd *cobra.Command, ws *workspace.Workspace, dir string) error {
	if err := ws.SaveDir(dir); err != nil {
		return err
	}
	for _, rt := range ws.NonEmpty() {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", workspace.FileNames[rt])
	}
	return nil
}
