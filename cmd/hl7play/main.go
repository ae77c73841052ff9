package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hl7play/internal/version"
)

// newRootCmd wires every subcommand to one shared app state.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "hl7play",
		Short: "HL7 v2 playground toolchain",
		Long: `hl7play tokenizes config templates and HL7 v2 messages, talks to the
remote HL7 v2 validator and groups its findings for review`,
		Version:           version.Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.prepare,
	}

	// Глобальные флаги
	root.PersistentFlags().String("color", "", "colorize output (auto|on|off), overrides [output].color")
	root.PersistentFlags().String("config", "", "path to hl7play.toml (default: nearest one above the working directory)")
	root.PersistentFlags().String("validator", "", "validator base URL, overrides [validator].url")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().String("trace", "", "trace output file ('-' for stderr)")
	root.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	root.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	root.PersistentFlags().Int("trace-ring-size", 1024, "events kept in ring mode")
	root.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	root.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	root.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")

	root.AddCommand(
		newTokenizeCmd(a),
		newHighlightCmd(a),
		newGroupCmd(a),
		newBrowseCmd(a),
		newCheckCmd(a),
		newValidateCmd(a),
		newParseCmd(a),
		newBundleCmd(),
		newExampleCmd(a),
		newMessageIDsCmd(a),
		newServeCmd(a),
		newCacheCmd(a),
		newInitCmd(),
		newVersionCmd(),
	)
	return root
}

// main builds the CLI and executes it. If command execution returns an
// error, the process exits with status code 1.
func main() {
	a := &app{}
	err := newRootCmd(a).Execute()
	a.close()
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
