package diagfmt

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hl7play/internal/lexer"
	"hl7play/internal/token"
)

// Theme maps each published tag to a terminal style. Tags missing from the
// theme, including token.None, are printed unstyled.
type Theme map[token.Tag]lipgloss.Style

// DefaultTheme mirrors the playground editor colours.
func DefaultTheme() Theme {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return Theme{
		token.String:              fg("2"),
		token.ExtrapolationOpen:   fg("5").Bold(true),
		token.ExtrapolationClose:  fg("5").Bold(true),
		token.ExtrapolationDot:    fg("5"),
		token.ExtrapolationWord:   fg("13"),
		token.ExtrapolationMarker: fg("5").Bold(true),
		token.OpenBrace:           fg("3"),
		token.CloseBrace:          fg("3"),
		token.Eq:                  fg("6"),
		token.Dot:                 fg("6"),
		token.Comment:             fg("8").Italic(true),
		token.Word:                fg("7"),

		token.SegmentName:           fg("4").Bold(true),
		token.FieldSeparator:        fg("1").Bold(true),
		token.ComponentSeparator:    fg("3"),
		token.SubcomponentSeparator: fg("6"),
	}
}

// Highlight writes every line of doc with its tokens styled. Without colour
// the output is the document text itself.
func Highlight(w io.Writer, doc lexer.Document, theme Theme, opts PrettyOpts) error {
	var b strings.Builder
	for _, line := range doc.Lines {
		for _, tok := range line.Tokens {
			style, ok := theme[tok.Tag]
			if !opts.Color || !ok {
				b.WriteString(tok.Text)
				continue
			}
			b.WriteString(style.Render(tok.Text))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
