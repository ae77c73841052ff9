package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"hl7play/internal/bundle"
	"hl7play/internal/diagfmt"
	"hl7play/internal/issue"
	"hl7play/internal/validator"
	"hl7play/internal/workspace"
)

var errIssuesFound = errors.New("validation reported issues")

func addWorkspaceFlags(cmd *cobra.Command) {
	cmd.Flags().String("bundle", "", "zip bundle whose resources replace the directory ones")
	cmd.Flags().String("message", "", "HL7 v2 message file, replaces Message.hl7")
}

// openWorkspace reads dir (may be empty when --bundle is given), then
// overlays the bundle and the message file.
func openWorkspace(cmd *cobra.Command, args []string) (*workspace.Workspace, error) {
	bundlePath, _ := cmd.Flags().GetString("bundle")
	messagePath, _ := cmd.Flags().GetString("message")

	ws := workspace.New()
	if len(args) > 0 {
		loaded, err := workspace.LoadDir(args[0])
		if err != nil {
			return nil, err
		}
		ws = loaded
	} else if bundlePath == "" {
		return nil, errors.New("pass a workspace directory or --bundle")
	}

	if bundlePath != "" {
		b, err := bundle.Open(bundlePath)
		if err != nil {
			return nil, err
		}
		b.Apply(ws)
	}
	if messagePath != "" {
		data, err := os.ReadFile(messagePath)
		if err != nil {
			return nil, fmt.Errorf("read message: %w", err)
		}
		ws.Put(validator.Message, string(data))
	}
	return ws, nil
}

// messageID returns --id, or the only message of the profile.
func messageID(cmd *cobra.Command, ws *workspace.Workspace) (string, error) {
	id, _ := cmd.Flags().GetString("id")
	if id != "" {
		return id, nil
	}
	mid, err := workspace.SingleMessageID(ws.Text(validator.Profile))
	if err != nil {
		return "", fmt.Errorf("%w (pass --id, see message-ids)", err)
	}
	return mid.ID, nil
}

// collapseIssues hides the findings of every slot when --summary is set.
func collapseIssues(cmd *cobra.Command, ws *workspace.Workspace) {
	if on, _ := cmd.Flags().GetBool("summary"); !on {
		return
	}
	for _, rt := range ws.NonEmpty() {
		ws.HideIssues(rt)
	}
}

// writeWorkspaceIssues prints status and findings of every non-empty slot.
// A slot with hidden findings prints their count only.
func (a *app) writeWorkspaceIssues(cmd *cobra.Command, w io.Writer, ws *workspace.Workspace, format string) error {
	if format == "json" {
		out := make(map[string][]issue.ClassGroup)
		for _, rt := range validator.ResourceTypes {
			if slot := ws.Get(rt); slot.Text != "" {
				out[string(rt)] = slot.Issues
			}
		}
		return writeJSON(w, out)
	}

	opts := a.prettyOpts(cmd)
	for _, rt := range validator.ResourceTypes {
		slot := ws.Get(rt)
		if slot.Text == "" {
			continue
		}
		if len(slot.Issues) == 0 {
			fmt.Fprintf(w, "%s: %s\n", rt, slot.Status)
			continue
		}
		if !slot.IssuesVisible {
			fmt.Fprintf(w, "%s: %s (%d findings)\n", rt, slot.Status, issue.Total(slot.Issues))
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", rt, slot.Status)
		if err := diagfmt.FormatIssuesPretty(w, slot.Issues, opts); err != nil {
			return err
		}
	}
	return nil
}

func anyInvalid(ws *workspace.Workspace) bool {
	for _, rt := range validator.ResourceTypes {
		if ws.Get(rt).Status == issue.StatusInvalid {
			return true
		}
	}
	return false
}
