// Package lexer tokenizes editor text for syntax-aware styling.
//
// Two modes exist: the config template language (stateful across lines) and
// HL7 v2 messages (stateless per line). Both are total over any input.
package lexer

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"hl7play/internal/source"
	"hl7play/internal/token"
)

// Mode selects a tokenizer.
type Mode string

const (
	ModeConfig Mode = "config"
	ModeHL7v2  Mode = "hl7v2"
)

// ErrUnknownMode is returned by ParseMode for unsupported names.
var ErrUnknownMode = errors.New("unknown lexer mode")

// ParseMode converts a user supplied name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "config", "conf", "text":
		return ModeConfig, nil
	case "hl7v2", "hl7", "er7", "text/hl7v2":
		return ModeHL7v2, nil
	default:
		return "", fmt.Errorf("%w: %q (expected config|hl7v2)", ErrUnknownMode, s)
	}
}

// Line is the lexing result of one document line.
type Line struct {
	Number uint32        `json:"line"`
	Tokens []token.Token `json:"tokens"`
	// State is the config state after this line; always zero for hl7v2.
	State ConfigState `json:"state"`
}

// Document is the lexing result of a whole document.
type Document struct {
	Mode  Mode        `json:"mode"`
	Lines []Line      `json:"lines"`
	Final ConfigState `json:"final"`
}

// Tokens returns every token of the document in order.
func (d Document) Tokens() []token.Token {
	n := 0
	for _, l := range d.Lines {
		n += len(l.Tokens)
	}
	out := make([]token.Token, 0, n)
	for _, l := range d.Lines {
		out = append(out, l.Tokens...)
	}
	return out
}

// LexLine tokenizes a single line in the given mode.
func LexLine(mode Mode, line string, base uint32, file source.FileID, st ConfigState) ([]token.Token, ConfigState) {
	if mode == ModeHL7v2 {
		return LexHL7Line(line, base, file), ConfigState{}
	}
	return LexConfigLine(line, base, file, st)
}

// LexDocument tokenizes f line by line in document order, threading the
// config state from start through every line.
func LexDocument(f *source.File, mode Mode, start ConfigState) Document {
	lines := f.Lines()
	doc := Document{Mode: mode, Lines: make([]Line, 0, len(lines))}
	st := start
	for _, l := range lines {
		var toks []token.Token
		toks, st = LexLine(mode, l.Text, l.Start, f.ID, st)
		doc.Lines = append(doc.Lines, Line{Number: l.Number, Tokens: toks, State: st})
	}
	doc.Final = st
	return doc
}

// LexLines feeds lines through a Session started from start. Spans index
// into the lines joined with a one-byte line break.
func LexLines(mode Mode, lines []string, start ConfigState) Document {
	sess := NewSession(mode, 0)
	sess.Restore(start)
	doc := Document{Mode: mode, Lines: make([]Line, 0, len(lines))}
	for _, l := range lines {
		doc.Lines = append(doc.Lines, sess.Feed(l))
	}
	doc.Final = sess.State()
	return doc
}

// Session lexes an editor buffer fed one line at a time. It owns the only
// state that survives between lines.
type Session struct {
	mode  Mode
	file  source.FileID
	state ConfigState
	off   uint32
	line  uint32
}

// NewSession creates a session for the given mode and document id.
func NewSession(mode Mode, file source.FileID) *Session {
	return &Session{mode: mode, file: file}
}

// Feed tokenizes the next line; line must not contain the line break.
func (s *Session) Feed(line string) Line {
	toks, st := LexLine(s.mode, line, s.off, s.file, s.state)
	s.state = st
	s.line++
	n, err := safecast.Conv[uint32](len(line) + 1)
	if err != nil {
		panic(fmt.Errorf("line length overflow: %w", err))
	}
	s.off += n
	return Line{Number: s.line, Tokens: toks, State: st}
}

// Restore sets the state the next Feed starts from, as an editor does when it
// re-lexes from a line whose end state it kept.
func (s *Session) Restore(st ConfigState) {
	if s.mode == ModeConfig {
		s.state = st
	}
}

// State returns the state the next Feed will start from.
func (s *Session) State() ConfigState { return s.state }
