package lexer

import (
	"hl7play/internal/source"
	"hl7play/internal/stream"
	"hl7play/internal/token"
)

// SegmentNameWidth is the number of leading characters tagged as the segment name.
const SegmentNameWidth = 3

// Separators are the HL7 v2 delimiters the message lexer recognizes.
type Separators struct {
	Field        rune
	Component    rune
	Subcomponent rune
	// Continuation is a two-character sequence. Characters are compared one
	// at a time, so it never matches and '~' falls through to the empty tag.
	// This keeps highlighting identical to the browser editor; there is no
	// continuation tag in the published set.
	Continuation string
}

// DefaultSeparators are the encoding characters of a standard MSH segment.
var DefaultSeparators = Separators{
	Field:        '|',
	Component:    '^',
	Subcomponent: '&',
	Continuation: "~,",
}

// Tag classifies a single character at the given 0-based column.
func (sep Separators) Tag(ch rune, column int) token.Tag {
	if column < SegmentNameWidth {
		return token.SegmentName
	}
	switch ch {
	case sep.Field:
		return token.FieldSeparator
	case sep.Component:
		return token.ComponentSeparator
	case sep.Subcomponent:
		return token.SubcomponentSeparator
	default:
		return token.None
	}
}

// HL7Token consumes one character from s and tags it by the column of the
// token start, so the caller must have called s.Start first.
func HL7Token(s *stream.Stream) token.Tag {
	ch := s.Next()
	return DefaultSeparators.Tag(ch, s.Column())
}

// LexHL7Line tokenizes one message line. No state crosses line boundaries.
func LexHL7Line(line string, base uint32, file source.FileID) []token.Token {
	s := stream.New(line, base, file)
	toks := make([]token.Token, 0, len(line))
	for !s.EOL() {
		s.Start()
		tag := HL7Token(s)
		toks = append(toks, token.Token{Tag: tag, Span: s.Span(), Text: s.Current(), Column: s.Column()})
	}
	return toks
}
