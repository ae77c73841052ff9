package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/mattn/go-runewidth"

	"hl7play/internal/lexer"
	"hl7play/internal/source"
	"hl7play/internal/token"
)

const defaultTextWidth = 24

// TokenOutput is the JSON shape of one token. Line is 1-based; Column is the
// 0-based rune column the lexer used; Span holds byte offsets into the
// document as given.
type TokenOutput struct {
	Tag    string      `json:"tag"`
	Text   string      `json:"text"`
	Line   uint32      `json:"line"`
	Column int         `json:"column"`
	Span   source.Span `json:"span"`
}

// LineOutput is the JSON shape of one lexed line.
type LineOutput struct {
	Line   uint32            `json:"line"`
	Tokens []TokenOutput     `json:"tokens"`
	State  lexer.ConfigState `json:"state"`
}

// DocumentOutput is the JSON shape of a lexed document.
type DocumentOutput struct {
	Path  string            `json:"path,omitempty"`
	Mode  lexer.Mode        `json:"mode"`
	Lines []LineOutput      `json:"lines"`
	Final lexer.ConfigState `json:"final"`
}

func tagLabel(t token.Tag) string {
	if t == token.None {
		return "-"
	}
	return string(t)
}

// FormatTokensPretty выводит токены документа в человекочитаемом формате:
// line:col  tag  "text"  span, где col это колонка лексера (с нуля, в рунах)
func FormatTokensPretty(w io.Writer, doc lexer.Document, opts PrettyOpts) error {
	width := opts.Width
	if width <= 0 {
		width = defaultTextWidth
	}
	for _, line := range doc.Lines {
		for _, tok := range line.Tokens {
			text := strconv.Quote(tok.Text)
			// выравнивание по экранной ширине, а не по байтам
			if runewidth.StringWidth(text) > width {
				text = runewidth.Truncate(text, width, "…")
			}
			if _, err := fmt.Fprintf(w, "%4d:%-4d %-24s %s %s\n",
				line.Number, tok.Column, tagLabel(tok.Tag), runewidth.FillRight(text, width), tok.Span); err != nil {
				return err
			}
		}
		if doc.Mode == lexer.ModeConfig && !line.State.Normal() {
			if _, err := fmt.Fprintf(w, "%4d:     %s\n", line.Number, stateLabel(line.State)); err != nil {
				return err
			}
		}
	}
	return nil
}

func stateLabel(st lexer.ConfigState) string {
	switch {
	case st.InsideString:
		return "(string continues)"
	case st.InsideExtrapolation:
		return "(extrapolation continues)"
	}
	return ""
}

// DocumentJSON converts a document into its JSON shape.
func DocumentJSON(path string, doc lexer.Document, opts JSONOpts) DocumentOutput {
	out := DocumentOutput{Path: path, Mode: doc.Mode, Final: doc.Final, Lines: make([]LineOutput, 0, len(doc.Lines))}
	count := 0
	for _, line := range doc.Lines {
		lo := LineOutput{Line: line.Number, State: line.State, Tokens: make([]TokenOutput, 0, len(line.Tokens))}
		for _, tok := range line.Tokens {
			if opts.Max > 0 && count >= opts.Max {
				break
			}
			lo.Tokens = append(lo.Tokens, TokenOutput{
				Tag:    string(tok.Tag),
				Text:   tok.Text,
				Line:   line.Number,
				Column: tok.Column,
				Span:   tok.Span,
			})
			count++
		}
		out.Lines = append(out.Lines, lo)
	}
	return out
}

// FormatTokensJSON выводит токены документа в JSON формате
func FormatTokensJSON(w io.Writer, path string, doc lexer.Document, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(DocumentJSON(path, doc, opts))
}
