package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"hl7play/internal/issue"
)

// classColor picks the colour of a classification heading. The validator
// classifications are free text; the common ones get fixed colours.
func classColor(class string) *color.Color {
	switch strings.ToLower(class) {
	case "error", "fatal":
		return color.New(color.FgRed, color.Bold)
	case "warning", "alert":
		return color.New(color.FgYellow, color.Bold)
	case "informational", "info", "affirmative":
		return color.New(color.FgCyan, color.Bold)
	default:
		return color.New(color.FgWhite, color.Bold)
	}
}

// FormatIssuesPretty prints grouped findings as a tree:
//
//	Error (3)
//	  Usage (2)
//	    2:4 PID-3  R field missing
func FormatIssuesPretty(w io.Writer, groups []issue.ClassGroup, opts PrettyOpts) error {
	if len(groups) == 0 {
		_, err := fmt.Fprintln(w, "no issues")
		return err
	}
	category := color.New(color.Bold)
	location := color.New(color.Faint)
	paint := func(c *color.Color, s string) string {
		if !opts.Color {
			return s
		}
		c.EnableColor()
		return c.Sprint(s)
	}

	for _, g := range groups {
		if _, err := fmt.Fprintf(w, "%s (%d)\n", paint(classColor(g.Classification), display(g.Classification)), g.Size); err != nil {
			return err
		}
		for _, c := range g.Categories {
			if _, err := fmt.Fprintf(w, "  %s (%d)\n", paint(category, display(c.Category)), c.Size); err != nil {
				return err
			}
			for _, f := range c.Entries {
				if _, err := fmt.Fprintf(w, "    %s  %s\n", paint(location, f.Location()), f.Description); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// display keeps empty keys visible.
func display(key string) string {
	if key == "" {
		return `""`
	}
	return key
}

// FormatIssuesJSON writes the groups with the field names the playground
// client expects.
func FormatIssuesJSON(w io.Writer, groups []issue.ClassGroup, opts JSONOpts) error {
	if groups == nil {
		groups = []issue.ClassGroup{}
	}
	if opts.Max > 0 && len(groups) > opts.Max {
		groups = groups[:opts.Max]
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(groups)
}
