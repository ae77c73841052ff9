package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"hl7play/internal/config"
	"hl7play/internal/validator"
	"hl7play/internal/workspace"
)

const sampleMessage = "MSH|^~\\&|HL7PLAY|LAB|||20240101120000||VXU^V04^VXU_V04|1|P|2.5.1\n"

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Initialize a playground workspace",
		Long: `Initialize a playground workspace by writing hl7play.toml with the default
settings and a sample Message.hl7. The directory is created when missing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}
			return runInit(cmd, target)
		},
	}
}

// runInit refuses to overwrite an existing hl7play.toml; an existing
// Message.hl7 is kept as is.
func runInit(cmd *cobra.Command, target string) error {
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, config.FileName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("workspace already initialized: %s exists", manifestPath)
	}
	manifest, err := defaultManifest()
	if err != nil {
		return err
	}
	if err := os.WriteFile(manifestPath, manifest, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized hl7play workspace in %s\n", target)
	fmt.Fprintf(out, "  - %s\n", config.FileName)

	msgName := workspace.FileNames[validator.Message]
	msgPath := filepath.Join(target, msgName)
	if _, err := os.Stat(msgPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(msgPath, []byte(sampleMessage), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", msgName, err)
		}
		fmt.Fprintf(out, "  - %s\n", msgName)
	} else {
		fmt.Fprintf(out, "  - %s (existing)\n", msgName)
	}
	return nil
}

func defaultManifest() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# hl7play workspace settings\n")
	if err := toml.NewEncoder(&buf).Encode(config.Default()); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}
