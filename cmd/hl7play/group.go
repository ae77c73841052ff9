package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"hl7play/internal/diagfmt"
	"hl7play/internal/issue"
	"hl7play/internal/ui"
	"hl7play/internal/validator"
)

func newGroupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group [flags] [findings.json|-]",
		Short: "Group validator findings by classification and category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat(cmd)
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var findings []issue.Finding
			if err := json.Unmarshal(data, &findings); err != nil {
				return fmt.Errorf("decode findings: %w", err)
			}
			groups := issue.Aggregate(findings)
			if flat, _ := cmd.Flags().GetBool("flat"); flat {
				return writeJSON(cmd.OutOrStdout(), issue.Flatten(groups))
			}
			if format == "json" {
				return diagfmt.FormatIssuesJSON(cmd.OutOrStdout(), groups, diagfmt.JSONOpts{})
			}
			return diagfmt.FormatIssuesPretty(cmd.OutOrStdout(), groups, a.prettyOpts(cmd))
		},
	}
	cmd.Flags().String("format", "", "output format (pretty|json)")
	cmd.Flags().Bool("flat", false, "print the findings as a JSON array in grouped order")
	return cmd
}

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse [findings.json|result.json|-]",
		Short: "Browse findings interactively",
		Long: `Open the three-pane findings browser over a findings list or a full
validation result as returned by validate --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			sections, err := sectionsFromJSON(data)
			if err != nil {
				return err
			}
			return runBrowser(sections)
		},
	}
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

// sectionsFromJSON accepts either a bare findings array or a full
// validation result, in which case every slot becomes one section.
func sectionsFromJSON(data []byte) ([]ui.Section, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("input is not valid JSON")
	}
	doc := gjson.ParseBytes(data)
	switch {
	case doc.IsArray():
		var findings []issue.Finding
		if err := json.Unmarshal(data, &findings); err != nil {
			return nil, fmt.Errorf("decode findings: %w", err)
		}
		return []ui.Section{{Title: "findings", Groups: issue.Aggregate(findings)}}, nil
	case doc.IsObject():
		var res validator.ValidationResult
		if err := json.Unmarshal(data, &res); err != nil {
			return nil, fmt.Errorf("decode validation result: %w", err)
		}
		return resultSections(res), nil
	default:
		return nil, errors.New("expected a findings array or a validation result object")
	}
}

func resultSections(res validator.ValidationResult) []ui.Section {
	sections := make([]ui.Section, 0, len(validator.ResourceTypes))
	for _, rt := range validator.ResourceTypes {
		sections = append(sections, ui.Section{Title: string(rt), Groups: issue.Aggregate(res.Findings(rt))})
	}
	return sections
}

func runBrowser(sections []ui.Section) error {
	if !isTerminal(os.Stdout) {
		return errors.New("browse needs an interactive terminal")
	}
	_, err := tea.NewProgram(ui.NewBrowser(sections), tea.WithAltScreen()).Run()
	return err
}
