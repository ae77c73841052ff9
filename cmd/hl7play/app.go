package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hl7play/internal/cache"
	"hl7play/internal/config"
	"hl7play/internal/diagfmt"
	"hl7play/internal/observ"
	"hl7play/internal/prof"
	"hl7play/internal/validator"
)

// app is the state shared by every command of one invocation.
type app struct {
	cfg     config.Config
	timer   *observ.Timer
	prof    *prof.Profiler
	cleanup func()
}

// prepare runs before every command: configuration first, then tracing.
func (a *app) prepare(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a.cfg = cfg

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	a.cleanup = cleanup

	p, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	a.prof = p

	if on, _ := cmd.Root().PersistentFlags().GetBool("timings"); on {
		a.timer = observ.NewTimer()
	}
	return nil
}

func (a *app) close() {
	if err := a.prof.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "profile: %v\n", err)
	}
	a.prof = nil
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Root().PersistentFlags()
	path, err := flags.GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}

	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return config.Config{}, err
	}

	if url, _ := flags.GetString("validator"); url != "" {
		cfg.Validator.URL = url
	}
	if color, _ := flags.GetString("color"); color != "" {
		mode, err := readSwitch("--color", color)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Output.Color = string(mode)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// useColor decides colouring for the command output stream.
func (a *app) useColor(cmd *cobra.Command) bool {
	return switchMode(a.cfg.Output.Color).enabled(cmd.OutOrStdout())
}

func (a *app) prettyOpts(cmd *cobra.Command) diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{Color: a.useColor(cmd), PathMode: diagfmt.PathModeRelative}
}

// outputFormat returns the --format flag, or [output].format when unset.
func (a *app) outputFormat(cmd *cobra.Command) (string, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", fmt.Errorf("failed to get format flag: %w", err)
	}
	if format == "" {
		format = a.cfg.Output.Format
	}
	switch format = strings.ToLower(format); format {
	case "pretty", "json":
		return format, nil
	default:
		return "", fmt.Errorf("unknown format: %s", format)
	}
}

func (a *app) client() (*validator.Client, error) {
	return validator.New(a.cfg.Validator.URL, validator.Options{Timeout: a.cfg.Validator.Timeout.Duration})
}

// resultCache opens the result cache unless it is disabled by config or
// by --no-cache on the command.
func (a *app) resultCache(cmd *cobra.Command) (*cache.DiskCache, error) {
	if off, _ := cmd.Flags().GetBool("no-cache"); off || !a.cfg.Cache.Enabled {
		return nil, nil
	}
	c, err := cache.Open(a.cfg.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return c, nil
}

func (a *app) printTimings(cmd *cobra.Command) {
	if a.timer == nil {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), a.timer.Summary())
}
