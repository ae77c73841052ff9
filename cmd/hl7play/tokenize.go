package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"hl7play/internal/diagfmt"
	"hl7play/internal/driver"
	"hl7play/internal/lexer"
)

func newTokenizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file|dir|->",
		Short: "Tokenize config templates and HL7 v2 messages",
		Long: `Tokenize a file, every .conf/.hl7/.er7/.txt document in a directory,
or standard input ('-', requires --mode)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error { return a.runTokenize(cmd, args[0]) },
	}
	cmd.Flags().String("mode", "", "lexer mode (config|hl7v2), inferred from the extension when empty")
	cmd.Flags().String("format", "", "output format (pretty|json)")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directories (0=auto)")
	return cmd
}

func readMode(cmd *cobra.Command) (lexer.Mode, error) {
	value, err := cmd.Flags().GetString("mode")
	if err != nil {
		return "", fmt.Errorf("failed to get mode flag: %w", err)
	}
	if value == "" {
		return "", nil
	}
	return lexer.ParseMode(value)
}

func (a *app) runTokenize(cmd *cobra.Command, path string) error {
	mode, err := readMode(cmd)
	if err != nil {
		return err
	}
	format, err := a.outputFormat(cmd)
	if err != nil {
		return err
	}

	phase := a.timer.Begin("tokenize")
	results, err := a.collectTokens(cmd, path, mode)
	a.timer.End(phase, fmt.Sprintf("%d documents", len(results)))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		err = writeTokensJSON(out, results)
	} else {
		err = a.writeTokensPretty(cmd, out, results)
	}
	a.printTimings(cmd)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("%s: %w", r.Path, r.Err)
		}
	}
	return nil
}

func (a *app) collectTokens(cmd *cobra.Command, path string, mode lexer.Mode) ([]driver.TokenizeResult, error) {
	if path == "-" {
		if mode == "" {
			return nil, fmt.Errorf("reading stdin: %w: pass --mode", lexer.ErrUnknownMode)
		}
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return []driver.TokenizeResult{*driver.TokenizeText("<stdin>", string(data), mode, lexer.ConfigState{})}, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}
	if !info.IsDir() {
		res, err := driver.TokenizeFile(path, mode)
		if err != nil {
			return nil, err
		}
		return []driver.TokenizeResult{*res}, nil
	}

	// для каталога режим всегда определяется по расширению
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	_, results, err := driver.TokenizeDir(cmd.Context(), path, jobs)
	return results, err
}

func (a *app) writeTokensPretty(cmd *cobra.Command, w io.Writer, results []driver.TokenizeResult) error {
	opts := a.prettyOpts(cmd)
	for i, r := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "== %s ==\n", r.Path)
		}
		if r.Err != nil {
			fmt.Fprintf(w, "error: %v\n", r.Err)
			continue
		}
		if err := diagfmt.FormatTokensPretty(w, r.Document, opts); err != nil {
			return err
		}
	}
	return nil
}

func writeTokensJSON(w io.Writer, results []driver.TokenizeResult) error {
	opts := diagfmt.JSONOpts{PathMode: diagfmt.PathModeRelative}
	if len(results) == 1 && results[0].Err == nil {
		r := results[0]
		return diagfmt.FormatTokensJSON(w, r.Path, r.Document, opts)
	}
	docs := make([]diagfmt.DocumentOutput, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		docs = append(docs, diagfmt.DocumentJSON(r.Path, r.Document, opts))
	}
	return writeJSON(w, docs)
}
