package lexer_test

import (
	"testing"
	"unicode/utf8"

	"hl7play/internal/lexer"
	"hl7play/internal/token"
)

func FuzzConfigLexer(f *testing.F) {
	for _, seed := range []string{`key = "va$l" # c`, `x = "abc`, `$a.b{c}`, `""`, ``, `{}.=#$"`} {
		f.Add(seed, false, false)
	}
	f.Fuzz(func(t *testing.T, line string, inString, inExtrap bool) {
		if !utf8.ValidString(line) {
			return
		}
		// (true, true) is unreachable
		if inString && inExtrap {
			inExtrap = false
		}
		st := lexer.ConfigState{InsideString: inString, InsideExtrapolation: inExtrap}
		toks, out := lexer.LexConfigLine(line, 0, 0, st)
		if out.InsideString && out.InsideExtrapolation {
			t.Fatalf("reached (true, true) for %q from %+v", line, st)
		}
		for _, tok := range toks {
			if !token.Known(tok.Tag) {
				t.Fatalf("unknown tag %q", tok.Tag)
			}
		}
		expectCoverage(t, line, toks)
	})
}

func FuzzHL7Lexer(f *testing.F) {
	for _, seed := range []string{"ABC|D^E&F", "MSH|^~\\&|", "", "P"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, line string) {
		if !utf8.ValidString(line) {
			return
		}
		toks := lexer.LexHL7Line(line, 0, 0)
		if len(toks) != utf8.RuneCountInString(line) {
			t.Fatalf("expected one token per character, got %d for %q", len(toks), line)
		}
		for i, tok := range toks {
			if i < lexer.SegmentNameWidth && tok.Tag != token.SegmentName {
				t.Fatalf("column %d must be segment-name, got %q", i, tok.Tag)
			}
			if !token.Known(tok.Tag) {
				t.Fatalf("unknown tag %q", tok.Tag)
			}
		}
		expectCoverage(t, line, toks)
	})
}
