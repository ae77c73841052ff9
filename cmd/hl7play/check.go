package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hl7play/internal/driver"
	"hl7play/internal/validator"
)

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [workspace-dir]",
		Short: "Check every workspace resource against the validator",
		Long: `Check each non-empty resource except the message in parallel and print
the grouped findings per resource. Exits non-zero when any resource has findings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runCheck,
	}
	addWorkspaceFlags(cmd)
	cmd.Flags().String("format", "", "output format (pretty|json)")
	cmd.Flags().Int("jobs", 0, "max parallel checks (0=auto)")
	cmd.Flags().String("ui", "", "user interface (auto|on|off), overrides [output].ui")
	cmd.Flags().Bool("summary", false, "collapse findings to a count per resource")
	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	format, err := a.outputFormat(cmd)
	if err != nil {
		return err
	}
	tui, err := a.useTUI(cmd)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	ws, err := openWorkspace(cmd, args)
	if err != nil {
		return err
	}
	client, err := a.client()
	if err != nil {
		return err
	}
	runner := &driver.Runner{Service: client, Timer: a.timer, Jobs: jobs}

	var targets []string
	for _, rt := range ws.NonEmpty() {
		if rt != validator.Message {
			targets = append(targets, string(rt))
		}
	}

	if tui && format == "pretty" && len(targets) > 0 {
		err = runCheckWithUI(cmd.Context(), "Checking resources", runner, ws, targets)
	} else {
		err = runner.CheckAll(cmd.Context(), ws)
	}
	if err != nil {
		return err
	}
	collapseIssues(cmd, ws)

	if err := a.writeWorkspaceIssues(cmd, cmd.OutOrStdout(), ws, format); err != nil {
		return err
	}
	a.printTimings(cmd)
	if anyInvalid(ws) {
		return errIssuesFound
	}
	return nil
}
