package lexer_test

import (
	"strings"
	"testing"

	"hl7play/internal/lexer"
	"hl7play/internal/source"
	"hl7play/internal/token"
)

// tagsOf возвращает теги токенов по порядку
func tagsOf(toks []token.Token) []token.Tag {
	out := make([]token.Tag, len(toks))
	for i, tok := range toks {
		out[i] = tok.Tag
	}
	return out
}

// expectTags проверяет последовательность тегов
func expectTags(t *testing.T, input string, got []token.Token, want []token.Tag) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d\ninput: %q\ntags: %q", len(want), len(got), input, tagsOf(got))
	}
	for i, tok := range got {
		if tok.Tag != want[i] {
			t.Errorf("token %d: expected %q, got %q (text: %q)", i, want[i], tok.Tag, tok.Text)
		}
	}
}

// expectCoverage проверяет, что токены покрывают строку без дыр и перекрытий
func expectCoverage(t *testing.T, input string, toks []token.Token) {
	t.Helper()
	var sb strings.Builder
	var next uint32
	for i, tok := range toks {
		if tok.Span.Start != next {
			t.Fatalf("token %d starts at %d, expected %d", i, tok.Span.Start, next)
		}
		if tok.Span.Len() == 0 {
			t.Fatalf("token %d is empty", i)
		}
		next = tok.Span.End
		sb.WriteString(tok.Text)
	}
	if sb.String() != input {
		t.Fatalf("tokens reassemble to %q, expected %q", sb.String(), input)
	}
}

func TestConfigLexerAssignmentWithComment(t *testing.T) {
	input := `key = "va$l" # c`
	toks, st := lexer.LexConfigLine(input, 0, 0, lexer.ConfigState{})

	expectTags(t, input, toks, []token.Tag{
		token.Word, token.Word, token.Word, token.Word,
		token.Eq, token.Word,
		token.String, token.String,
		token.Word, token.Comment,
	})
	expectCoverage(t, input, toks)

	if toks[6].Text != `"va$l` {
		t.Errorf("opening string token should cover quote and content, got %q", toks[6].Text)
	}
	if toks[7].Text != `"` {
		t.Errorf("closing string token should be the quote, got %q", toks[7].Text)
	}
	if toks[9].Text != "# c" {
		t.Errorf("comment should run to end of line, got %q", toks[9].Text)
	}
	if !st.Normal() {
		t.Errorf("expected Normal state after a closed string, got %+v", st)
	}
}

func TestConfigLexerUnterminatedStringCarriesOver(t *testing.T) {
	input := `x = "abc`
	toks, st := lexer.LexConfigLine(input, 0, 0, lexer.ConfigState{})

	expectTags(t, input, toks, []token.Tag{
		token.Word, token.Word, token.Eq, token.Word, token.String,
	})
	if !st.InsideString || st.InsideExtrapolation {
		t.Fatalf("expected InsideString to carry over, got %+v", st)
	}

	// next line: every character up to the quote is tagged string one by one
	toks, st = lexer.LexConfigLine(`de" = 1`, 9, 0, st)
	expectTags(t, `de" = 1`, toks, []token.Tag{
		token.String, token.String, token.String,
		token.Word, token.Eq, token.Word, token.Word,
	})
	if !st.Normal() {
		t.Errorf("expected Normal state after the closing quote, got %+v", st)
	}
}

func TestConfigLexerExtrapolation(t *testing.T) {
	input := `a = $ctx.user{id}.`
	toks, st := lexer.LexConfigLine(input, 0, 0, lexer.ConfigState{})

	expectTags(t, input, toks, []token.Tag{
		token.Word, token.Word, token.Eq, token.Word,
		token.ExtrapolationMarker,
		token.ExtrapolationWord, token.ExtrapolationWord, token.ExtrapolationWord,
		token.ExtrapolationDot,
		token.ExtrapolationWord, token.ExtrapolationWord, token.ExtrapolationWord, token.ExtrapolationWord,
		token.ExtrapolationOpen,
		token.ExtrapolationWord, token.ExtrapolationWord,
		token.ExtrapolationClose,
		token.Dot,
	})
	expectCoverage(t, input, toks)
	if !st.Normal() {
		t.Errorf("extrapolation should be closed, got %+v", st)
	}
}

func TestConfigLexerUnterminatedExtrapolationCarriesOver(t *testing.T) {
	toks, st := lexer.LexConfigLine(`$x{`, 0, 0, lexer.ConfigState{})
	expectTags(t, `$x{`, toks, []token.Tag{
		token.ExtrapolationMarker, token.ExtrapolationWord, token.ExtrapolationOpen,
	})
	if !st.InsideExtrapolation {
		t.Fatalf("expected InsideExtrapolation, got %+v", st)
	}

	// quotes and comments are extrapolation words while the span is open
	toks, st = lexer.LexConfigLine(`"#}=`, 4, 0, st)
	expectTags(t, `"#}=`, toks, []token.Tag{
		token.ExtrapolationWord, token.ExtrapolationWord, token.ExtrapolationClose, token.Eq,
	})
	if !st.Normal() {
		t.Errorf("expected Normal state, got %+v", st)
	}
}

func TestConfigLexerBracesAndDots(t *testing.T) {
	input := `a.b { }`
	toks, _ := lexer.LexConfigLine(input, 0, 0, lexer.ConfigState{})
	expectTags(t, input, toks, []token.Tag{
		token.Word, token.Dot, token.Word, token.Word,
		token.OpenBrace, token.Word, token.CloseBrace,
	})
}

func TestConfigLexerEmptyStringLiteral(t *testing.T) {
	input := `""`
	toks, st := lexer.LexConfigLine(input, 0, 0, lexer.ConfigState{})
	expectTags(t, input, toks, []token.Tag{token.String, token.String})
	if !st.Normal() {
		t.Errorf("expected Normal state, got %+v", st)
	}
}

func TestHL7LexerSegment(t *testing.T) {
	input := "ABC|D^E&F"
	toks := lexer.LexHL7Line(input, 0, 0)
	expectTags(t, input, toks, []token.Tag{
		token.SegmentName, token.SegmentName, token.SegmentName,
		token.FieldSeparator, token.None,
		token.ComponentSeparator, token.None,
		token.SubcomponentSeparator, token.None,
	})
	expectCoverage(t, input, toks)
}

func TestHL7LexerContinuationIsUntagged(t *testing.T) {
	input := "PID|a~b,c"
	toks := lexer.LexHL7Line(input, 0, 0)
	for _, tok := range toks[4:] {
		if tok.Tag != token.None && tok.Tag != token.FieldSeparator {
			t.Errorf("unexpected tag %q for %q", tok.Tag, tok.Text)
		}
	}
	if toks[5].Text != "~" || toks[5].Tag != token.None {
		t.Errorf("continuation character must stay untagged, got %+v", toks[5])
	}
}

func TestHL7LexerSeparatorsInsideSegmentName(t *testing.T) {
	// the first three columns are segment name whatever the character
	toks := lexer.LexHL7Line("|^&|", 0, 0)
	expectTags(t, "|^&|", toks, []token.Tag{
		token.SegmentName, token.SegmentName, token.SegmentName, token.FieldSeparator,
	})
}

func TestHL7LexerColumnResetsPerLine(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.hl7", []byte("MSH|1\nPID|2\rOBX|3"))
	doc := lexer.LexDocument(fs.Get(id), lexer.ModeHL7v2, lexer.ConfigState{})

	if len(doc.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(doc.Lines))
	}
	for _, l := range doc.Lines {
		expectTags(t, "segment line", l.Tokens, []token.Tag{
			token.SegmentName, token.SegmentName, token.SegmentName, token.FieldSeparator, token.None,
		})
	}
	if got := doc.Lines[1].Tokens[0].Span.Start; got != 6 {
		t.Errorf("second line should start at byte 6, got %d", got)
	}
}

func TestTokenColumnCountsRunes(t *testing.T) {
	toks := lexer.LexHL7Line("αβγ|x", 0, 0)
	if len(toks) != 5 {
		t.Fatalf("expected one token per rune, got %d", len(toks))
	}
	for i, tok := range toks {
		if tok.Column != i {
			t.Errorf("token %d: column %d", i, tok.Column)
		}
	}
	if toks[3].Tag != token.FieldSeparator || toks[3].Span.Start != 6 {
		t.Errorf("separator at byte 6, column 3 expected: %+v", toks[3])
	}
}

func TestLexDocumentCRLFIsOneBreak(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.hl7", []byte("MSH|1\r\nPID"))
	doc := lexer.LexDocument(fs.Get(id), lexer.ModeHL7v2, lexer.ConfigState{})
	if len(doc.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(doc.Lines))
	}
	if n := len(doc.Lines[0].Tokens); n != 5 {
		t.Errorf("the CR of CRLF must not become a token, line 1 has %d", n)
	}
	if got := doc.Lines[1].Tokens[0]; got.Span.Start != 7 || got.Column != 0 {
		t.Errorf("line 2 starts wrong: %+v", got)
	}
}

func TestLexLinesRestoresState(t *testing.T) {
	doc := lexer.LexLines(lexer.ModeConfig, []string{`rest" a`, "b"}, lexer.ConfigState{InsideString: true})
	if doc.Lines[0].Tokens[0].Tag != token.String {
		t.Errorf("first line must continue the string, got %q", doc.Lines[0].Tokens[0].Tag)
	}
	if doc.Lines[1].Number != 2 || doc.Lines[1].Tokens[0].Span.Start != uint32(len(`rest" a`)+1) {
		t.Errorf("unexpected line 2 %+v", doc.Lines[1])
	}
	if !doc.Final.Normal() {
		t.Errorf("expected Normal final state, got %+v", doc.Final)
	}

	// для hl7v2 состояние не переносится
	hl7 := lexer.LexLines(lexer.ModeHL7v2, []string{"PID"}, lexer.ConfigState{InsideString: true})
	if hl7.Lines[0].Tokens[0].Tag != token.SegmentName || !hl7.Final.Normal() {
		t.Errorf("hl7v2 must ignore the restored state: %+v", hl7)
	}
}

func TestLexDocumentThreadsConfigState(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.conf", []byte("a = \"open\nstill\"\nb = 1"))
	doc := lexer.LexDocument(fs.Get(id), lexer.ModeConfig, lexer.ConfigState{})

	if len(doc.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(doc.Lines))
	}
	if !doc.Lines[0].State.InsideString {
		t.Error("line 1 should end inside a string")
	}
	for i, tok := range doc.Lines[1].Tokens {
		if tok.Tag != token.String {
			t.Errorf("line 2 token %d: expected string, got %q", i, tok.Tag)
		}
	}
	if !doc.Lines[1].State.Normal() || !doc.Final.Normal() {
		t.Errorf("expected Normal state after line 2, got %+v / %+v", doc.Lines[1].State, doc.Final)
	}
	if got := len(doc.Tokens()); got != 5+6+5 {
		t.Errorf("expected 16 tokens overall, got %d", got)
	}
}

func TestSessionFeed(t *testing.T) {
	sess := lexer.NewSession(lexer.ModeConfig, 0)

	first := sess.Feed(`k = "unterminated`)
	if !first.State.InsideString || !sess.State().InsideString {
		t.Fatalf("expected carried string state, got %+v", first.State)
	}
	second := sess.Feed(`x`)
	if second.Number != 2 || second.Tokens[0].Tag != token.String {
		t.Fatalf("expected line 2 to continue the string, got %+v", second)
	}
	if second.Tokens[0].Span.Start != uint32(len(`k = "unterminated`)+1) {
		t.Errorf("unexpected offset of line 2: %d", second.Tokens[0].Span.Start)
	}

	sess.Restore(lexer.ConfigState{})
	if !sess.State().Normal() {
		t.Fatal("Restore must replace carried state")
	}
	third := sess.Feed(`x`)
	if third.Number != 3 || third.Tokens[0].Tag != token.Word {
		t.Errorf("expected a line 3 word, got %+v", third)
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]lexer.Mode{
		"config": lexer.ModeConfig,
		"CONF":   lexer.ModeConfig,
		"hl7v2":  lexer.ModeHL7v2,
		" hl7 ":  lexer.ModeHL7v2,
	}
	for in, want := range cases {
		got, err := lexer.ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := lexer.ParseMode("xml"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
