package main

import (
	"github.com/spf13/cobra"

	"hl7play/internal/diagfmt"
	"hl7play/internal/driver"
)

func newHighlightCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "highlight [flags] <file>",
		Short: "Print a document with syntax colouring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := readMode(cmd)
			if err != nil {
				return err
			}
			res, err := driver.TokenizeFile(args[0], mode)
			if err != nil {
				return err
			}
			return diagfmt.Highlight(cmd.OutOrStdout(), res.Document, diagfmt.DefaultTheme(), a.prettyOpts(cmd))
		},
	}
	cmd.Flags().String("mode", "", "lexer mode (config|hl7v2), inferred from the extension when empty")
	return cmd
}
