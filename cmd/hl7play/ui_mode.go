package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// switchMode is an auto|on|off setting; colour and the TUI both use it.
type switchMode string

const (
	switchAuto switchMode = "auto"
	switchOn   switchMode = "on"
	switchOff  switchMode = "off"
)

// readSwitch parses value; name only goes into the error.
func readSwitch(name, value string) (switchMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "auto":
		return switchAuto, nil
	case "on":
		return switchOn, nil
	case "off":
		return switchOff, nil
	default:
		return "", fmt.Errorf("invalid %s value %q (expected auto|on|off)", name, value)
	}
}

// enabled resolves auto by whether w is a terminal.
func (m switchMode) enabled(w io.Writer) bool {
	switch m {
	case switchOn:
		return true
	case switchOff:
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// uiMode returns --ui, or [output].ui when the flag is unset.
func (a *app) uiMode(cmd *cobra.Command) (switchMode, error) {
	value, err := cmd.Flags().GetString("ui")
	if err != nil {
		return "", fmt.Errorf("failed to get ui flag: %w", err)
	}
	if value == "" {
		return readSwitch("[output].ui", a.cfg.Output.UI)
	}
	return readSwitch("--ui", value)
}

// useTUI reports whether progress is drawn with bubbletea on stdout.
func (a *app) useTUI(cmd *cobra.Command) (bool, error) {
	mode, err := a.uiMode(cmd)
	if err != nil {
		return false, err
	}
	return mode.enabled(os.Stdout), nil
}
