package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"hl7play/internal/issue"
	"hl7play/internal/lexer"
	"hl7play/internal/source"
	"hl7play/internal/token"
)

func lexText(t *testing.T, text string, mode lexer.Mode) lexer.Document {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("buffer", []byte(text)))
	return lexer.LexDocument(f, mode, lexer.ConfigState{})
}

func TestFormatTokensPretty(t *testing.T) {
	doc := lexText(t, "MSH|^\nPID", lexer.ModeHL7v2)
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, doc, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 token lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[3], "field-separator") || !strings.Contains(lines[3], `"|"`) {
		t.Errorf("line 4 = %q", lines[3])
	}
	if !strings.Contains(lines[4], "component-separator") {
		t.Errorf("line 5 = %q", lines[4])
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[5]), "2:0") {
		t.Errorf("second document line must restart columns: %q", lines[5])
	}
}

func TestFormatTokensPrettyNoneTag(t *testing.T) {
	doc := lexText(t, "MSH~", lexer.ModeHL7v2)
	var buf bytes.Buffer
	_ = FormatTokensPretty(&buf, doc, PrettyOpts{})
	if !strings.Contains(buf.String(), " -  ") {
		t.Errorf("untagged tokens must be shown as '-':\n%s", buf.String())
	}
}

func TestFormatTokensPrettyCarriedState(t *testing.T) {
	doc := lexText(t, "a = \"open\nclose\"", lexer.ModeConfig)
	var buf bytes.Buffer
	_ = FormatTokensPretty(&buf, doc, PrettyOpts{})
	if strings.Count(buf.String(), "(string continues)") != 1 {
		t.Errorf("expected one carried-state marker:\n%s", buf.String())
	}
}

func TestFormatTokensJSON(t *testing.T) {
	doc := lexText(t, "x = ${a.b}", lexer.ModeConfig)
	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, "tpl.conf", doc, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	var out DocumentOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Path != "tpl.conf" || out.Mode != lexer.ModeConfig || len(out.Lines) != 1 {
		t.Fatalf("unexpected output %+v", out)
	}
	toks := out.Lines[0].Tokens
	if toks[0].Tag != string(token.Word) || toks[0].Column != 0 {
		t.Errorf("first token %+v", toks[0])
	}

	limited := DocumentJSON("", doc, JSONOpts{Max: 2})
	if len(limited.Lines[0].Tokens) != 2 {
		t.Errorf("Max not applied: %+v", limited.Lines[0].Tokens)
	}
}

func TestHighlightPlain(t *testing.T) {
	text := "a = \"s\" # c\n${x.y}"
	doc := lexText(t, text, lexer.ModeConfig)
	var buf bytes.Buffer
	if err := Highlight(&buf, doc, DefaultTheme(), PrettyOpts{Color: false}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != text+"\n" {
		t.Errorf("plain highlight = %q", buf.String())
	}
}

func TestDefaultThemeCoversTags(t *testing.T) {
	theme := DefaultTheme()
	for _, tag := range append(token.ConfigTags(), token.HL7Tags()...) {
		if tag == token.None {
			continue
		}
		if _, ok := theme[tag]; !ok {
			t.Errorf("no style for %q", tag)
		}
	}
}

func TestFormatIssuesPretty(t *testing.T) {
	groups := issue.Aggregate([]issue.Finding{
		{Classification: "Error", Category: "Usage", Description: "R field missing", Line: 2, Column: 4, Path: "PID-3"},
		{Classification: "Warning", Category: "", Description: "w", Line: 1, Column: 1},
		{Classification: "Error", Category: "Usage", Description: "again", Line: 3, Column: 1},
	})
	var buf bytes.Buffer
	if err := FormatIssuesPretty(&buf, groups, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	want := "Error (2)\n" +
		"  Usage (2)\n" +
		"    2:4 PID-3  R field missing\n" +
		"    3:1  again\n" +
		"Warning (1)\n" +
		"  \"\" (1)\n" +
		"    1:1  w\n"
	if buf.String() != want {
		t.Errorf("pretty issues:\n%s\nwant:\n%s", buf.String(), want)
	}

	buf.Reset()
	_ = FormatIssuesPretty(&buf, nil, PrettyOpts{})
	if buf.String() != "no issues\n" {
		t.Errorf("empty = %q", buf.String())
	}
}

func TestFormatIssuesPrettyColor(t *testing.T) {
	groups := issue.Aggregate([]issue.Finding{{Classification: "Error", Category: "c"}})
	var buf bytes.Buffer
	_ = FormatIssuesPretty(&buf, groups, PrettyOpts{Color: true})
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI escapes, got %q", buf.String())
	}
}

func TestFormatIssuesJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatIssuesJSON(&buf, nil, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("nil groups = %q", buf.String())
	}

	buf.Reset()
	groups := issue.Aggregate([]issue.Finding{{Classification: "Error", Category: "Usage"}})
	_ = FormatIssuesJSON(&buf, groups, JSONOpts{})
	for _, key := range []string{`"class": "Error"`, `"size": 1`, `"categories"`, `"entries"`} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("json lacks %s:\n%s", key, buf.String())
		}
	}
}

func TestFormatPath(t *testing.T) {
	fs := source.NewFileSetWithBase("/data")
	f := fs.Get(fs.Add("/data/sub/msg.hl7", []byte("MSH|"), 0))
	if got := FormatPath(fs, f, PathModeRelative); got != "sub/msg.hl7" {
		t.Errorf("relative = %q", got)
	}
	if got := FormatPath(fs, f, PathModeBasename); got != "msg.hl7" {
		t.Errorf("basename = %q", got)
	}
}
