package lexer

import (
	"hl7play/internal/source"
	"hl7play/internal/stream"
	"hl7play/internal/token"
)

// ConfigState is the mode threaded between calls to the config lexer.
// The zero value is the Normal state. Both flags are never true at once:
// a string can only open in Normal state, and so can an extrapolation.
type ConfigState struct {
	InsideString        bool `json:"insideString"`
	InsideExtrapolation bool `json:"insideExtrapolation"`
}

// Normal reports whether neither a string nor an extrapolation is open.
func (st ConfigState) Normal() bool {
	return !st.InsideString && !st.InsideExtrapolation
}

// ConfigToken consumes one token from s and returns its tag together with
// the state the next call must receive. It never fails: malformed input only
// degrades styling.
func ConfigToken(s *stream.Stream, st ConfigState) (token.Tag, ConfigState) {
	ch := s.Next()

	// 1) внутри строки всё, кроме кавычки, часть строки
	if st.InsideString && ch != '"' {
		return token.String, st
	}

	// 2) внутри $name.path{...}
	if st.InsideExtrapolation {
		switch ch {
		case '{':
			return token.ExtrapolationOpen, st
		case '}':
			st.InsideExtrapolation = false
			return token.ExtrapolationClose, st
		case '.':
			return token.ExtrapolationDot, st
		default:
			return token.ExtrapolationWord, st
		}
	}

	// 3) обычное состояние
	switch ch {
	case '"':
		if st.InsideString {
			st.InsideString = false
		} else {
			st.InsideString = true
			// opening quote swallows the rest of the run up to the closing quote
			s.EatWhile(func(r rune) bool { return r != '"' })
		}
		return token.String, st
	case '{':
		return token.OpenBrace, st
	case '}':
		return token.CloseBrace, st
	case '=':
		return token.Eq, st
	case '#':
		s.SkipToEnd()
		return token.Comment, st
	case '.':
		return token.Dot, st
	case '$':
		st.InsideExtrapolation = true
		return token.ExtrapolationMarker, st
	default:
		// whitespace included; one token per character
		return token.Word, st
	}
}

// LexConfigLine tokenizes one line of a config template starting from st and
// returns the tokens with the state to pass to the following line.
func LexConfigLine(line string, base uint32, file source.FileID, st ConfigState) ([]token.Token, ConfigState) {
	s := stream.New(line, base, file)
	toks := make([]token.Token, 0, len(line))
	for !s.EOL() {
		s.Start()
		var tag token.Tag
		tag, st = ConfigToken(s, st)
		toks = append(toks, token.Token{Tag: tag, Span: s.Span(), Text: s.Current(), Column: s.Column()})
	}
	return toks, st
}
