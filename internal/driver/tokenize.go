package driver

import (
	"fmt"
	"path/filepath"
	"strings"

	"hl7play/internal/lexer"
	"hl7play/internal/source"
	"hl7play/internal/trace"
)

// TokenizeResult is the outcome of lexing one document.
type TokenizeResult struct {
	Path     string
	FileSet  *source.FileSet
	File     *source.File
	Document lexer.Document
	Err      error // ошибка загрузки файла (только TokenizeDir)
}

// ModeForPath infers the lexer mode from a file extension. Plain text is
// config, as ParseMode("text") is.
func ModeForPath(path string) (lexer.Mode, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hl7", ".er7":
		return lexer.ModeHL7v2, true
	case ".conf", ".txt":
		return lexer.ModeConfig, true
	}
	return "", false
}

func resolveMode(path string, mode lexer.Mode) (lexer.Mode, error) {
	if mode != "" {
		return mode, nil
	}
	if m, ok := ModeForPath(path); ok {
		return m, nil
	}
	return "", fmt.Errorf("%s: %w: cannot infer mode from extension, pass --mode", path, lexer.ErrUnknownMode)
}

// TokenizeFile loads path and lexes it in mode; an empty mode is inferred
// from the extension.
func TokenizeFile(path string, mode lexer.Mode) (*TokenizeResult, error) {
	mode, err := resolveMode(path, mode)
	if err != nil {
		return nil, err
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(id)
	return &TokenizeResult{
		Path:     path,
		FileSet:  fs,
		File:     file,
		Document: lexer.LexDocument(file, mode, lexer.ConfigState{}),
	}, nil
}

// TokenizeText lexes an in-memory buffer exactly as given, as the editor
// sidecar does: no BOM stripping, line-break rewriting or Unicode
// normalization happens before lexing.
func TokenizeText(name, text string, mode lexer.Mode, start lexer.ConfigState) *TokenizeResult {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, []byte(text)))
	return &TokenizeResult{
		Path:     name,
		FileSet:  fs,
		File:     file,
		Document: lexer.LexDocument(file, mode, start),
	}
}

func tokenizeLoaded(t trace.Tracer, fs *source.FileSet, id source.FileID, path string, mode lexer.Mode) TokenizeResult {
	span := trace.Begin(t, trace.ScopeDocument, "file:"+filepath.Base(path), 0)
	file := fs.Get(id)
	doc := lexer.LexDocument(file, mode, lexer.ConfigState{})
	span.WithExtra("lines", fmt.Sprint(len(doc.Lines))).End(string(mode))
	return TokenizeResult{Path: path, FileSet: fs, File: file, Document: doc}
}
