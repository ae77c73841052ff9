package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("msg.hl7", []byte("MSH|^~\\&"), 0)
	id2 := fs.Add("msg.hl7", []byte("PID|1"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}

	if fs.Len() != 2 {
		t.Fatalf("expected 2 documents, got %d", fs.Len())
	}
	if got := string(fs.Get(id1).Content); got != "MSH|^~\\&" {
		t.Errorf("old version lost, got %q", got)
	}
}

func TestLinesSplitsOnNewlineAndCarriageReturn(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("m.hl7", []byte("MSH|a\rPID|b\nOBX|c\n"), 0)

	lines := fs.Get(id).Lines()
	want := []Line{
		{Number: 1, Start: 0, Text: "MSH|a"},
		{Number: 2, Start: 6, Text: "PID|b"},
		{Number: 3, Start: 12, Text: "OBX|c"},
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %+v", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %+v, got %+v", i, want[i], lines[i])
		}
	}
}

func TestLinesOfEmptyDocument(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("empty.conf", nil, 0)

	lines := fs.Get(id).Lines()
	if len(lines) != 1 || lines[0].Text != "" || lines[0].Number != 1 {
		t.Fatalf("expected a single empty line, got %+v", lines)
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("a.conf", []byte("ab\ncd"), 0)

	start, end := fs.Resolve(Span{File: id, Start: 3, End: 5})
	if start != (LineCol{Line: 2, Col: 1}) {
		t.Errorf("unexpected start %+v", start)
	}
	if end != (LineCol{Line: 2, Col: 3}) {
		t.Errorf("unexpected end %+v", end)
	}

	// the newline itself belongs to the line it terminates
	start, _ = fs.Resolve(Span{File: id, Start: 2, End: 2})
	if start != (LineCol{Line: 1, Col: 3}) {
		t.Errorf("unexpected newline position %+v", start)
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.conf")
	// BOM + CRLF + decomposed "é"
	raw := []byte("\xEF\xBB\xBFkey = \"e\u0301\"\r\nnext = 1\r\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	f := fs.Get(id)
	if got := string(f.Content); got != "key = \"\u00e9\"\nnext = 1\n" {
		t.Errorf("unexpected content %q", got)
	}
	for _, flag := range []FileFlags{FileHadBOM, FileNormalizedCRLF, FileNormalizedNFC} {
		if f.Flags&flag == 0 {
			t.Errorf("expected flag %b to be set, flags=%b", flag, f.Flags)
		}
	}
}

func TestAddVirtualKeepsRawBytes(t *testing.T) {
	fs := NewFileSet()
	raw := "\ufeffMSH|e\u0301\r\nPID\rOBX\n"
	f := fs.Get(fs.AddVirtual("buffer", []byte(raw)))
	if string(f.Content) != raw {
		t.Fatalf("content changed: %q", f.Content)
	}
	if f.Flags != FileVirtual {
		t.Errorf("only FileVirtual expected, flags=%b", f.Flags)
	}

	lines := f.Lines()
	want := []Line{
		{Number: 1, Start: 0, Text: "\ufeffMSH|e\u0301"},
		{Number: 2, Start: 12, Text: "PID"},
		{Number: 3, Start: 16, Text: "OBX"},
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %+v", len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %+v, got %+v", i, want[i], lines[i])
		}
	}

	// "\r\n" is one break: the "\n" resolves to the end of line 1
	pos, _ := fs.Resolve(Span{File: f.ID, Start: 11, End: 11})
	if pos.Line != 1 {
		t.Errorf("CRLF split into two lines: %+v", pos)
	}
}

func TestAddVirtualSetsFlag(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("<stdin>", []byte("x = 1"))
	if fs.Get(id).Flags&FileVirtual == 0 {
		t.Fatal("expected FileVirtual flag")
	}
	if got := fs.Get(id).GetLine(1); got != "x = 1" {
		t.Errorf("GetLine(1) = %q", got)
	}
	if got := fs.Get(id).GetLine(2); got != "" {
		t.Errorf("GetLine(2) = %q, want empty", got)
	}
}
