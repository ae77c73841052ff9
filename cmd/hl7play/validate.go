package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hl7play/internal/driver"
	"hl7play/internal/ui"
	"hl7play/internal/validator"
)

func newValidateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [flags] [workspace-dir]",
		Short: "Validate the message against the workspace resources",
		Long: `Send every resource together with the message to the validator and print
the grouped findings per resource. Results are cached by query content.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runValidate,
	}
	addWorkspaceFlags(cmd)
	cmd.Flags().String("id", "", "message structure id (default: the only message of the profile)")
	cmd.Flags().String("format", "", "output format (pretty|json)")
	cmd.Flags().Bool("no-cache", false, "skip the result cache")
	cmd.Flags().Bool("browse", false, "open the findings browser on the result")
	cmd.Flags().String("ui", "", "user interface (auto|on|off), overrides [output].ui")
	cmd.Flags().Bool("summary", false, "collapse findings to a count per resource")
	return cmd
}

func (a *app) runValidate(cmd *cobra.Command, args []string) error {
	format, err := a.outputFormat(cmd)
	if err != nil {
		return err
	}
	tui, err := a.useTUI(cmd)
	if err != nil {
		return err
	}
	browse, _ := cmd.Flags().GetBool("browse")

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
	c, err := a.resultCache(cmd)
	if err != nil {
		return err
	}
	runner := &driver.Runner{Service: client, Cache: c, Timer: a.timer}

	var outcome driver.Outcome
	call := func() error {
		var err error
		outcome, err = runner.Validate(cmd.Context(), ws, id)
		return err
	}
	if tui && format == "pretty" && !browse {
		err = runWithSpinner("Validating "+id, call)
	} else {
		err = call()
	}
	if err != nil {
		return err
	}
	if outcome.FromCache {
		fmt.Fprintf(cmd.ErrOrStderr(), "using cached result %s\n", outcome.Key.String()[:12])
	}

	if browse {
		sections := make([]ui.Section, 0, len(validator.ResourceTypes))
		for _, rt := range ws.NonEmpty() {
			sections = append(sections, ui.Section{Title: string(rt), Groups: ws.Get(rt).Issues})
		}
		return runBrowser(sections)
	}

	collapseIssues(cmd, ws)
	out := cmd.OutOrStdout()
	if format == "json" {
		err = writeJSON(out, outcome.Result)
	} else {
		err = a.writeWorkspaceIssues(cmd, out, ws, format)
	}
	if err != nil {
		return err
	}
	a.printTimings(cmd)
	if anyInvalid(ws) {
		return errIssuesFound
	}
	return nil
}
