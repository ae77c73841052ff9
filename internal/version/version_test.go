package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColored(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })

	if got := Colored(); got != Version {
		t.Errorf("Colored() without colour = %q, want %q", got, Version)
	}

	orig := Version
	t.Cleanup(func() { Version = orig })
	Version = "nightly"
	if got := Colored(); got != "nightly" {
		t.Errorf("non-semver version must pass through, got %q", got)
	}
}

func TestLine(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	origCommit, origDate := GitCommit, BuildDate
	t.Cleanup(func() {
		color.NoColor = old
		GitCommit, BuildDate = origCommit, origDate
	})

	GitCommit = "abc123"
	BuildDate = "2026-01-15T10:30:00Z"
	line := Line()
	for _, want := range []string{"hl7play " + Version, "(abc123)", "built 2026-01-15T10:30:00Z", "go"} {
		if !strings.Contains(line, want) {
			t.Errorf("Line() = %q, missing %q", line, want)
		}
	}
}
