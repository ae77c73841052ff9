// Package stream provides the character cursor lexers consume one line at a time.
package stream

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"hl7play/internal/source"
)

// Stream это курсор по одной строке документа.
// A new Stream is created for every line, so the column restarts at zero and
// nothing carries over between lines. Lexers that need cross-line state keep
// it in their own state value.
type Stream struct {
	file source.FileID
	line string
	base uint32 // смещение строки в документе

	start    int // байтовое смещение начала текущего токена
	startCol int // колонка начала текущего токена
	pos      int // байтовое смещение курсора
	col      int // колонка курсора, в рунах
}

// New returns a stream over line, which begins at byte offset base of file.
func New(line string, base uint32, file source.FileID) *Stream {
	return &Stream{file: file, line: line, base: base}
}

// EOL reports whether the whole line has been consumed.
func (s *Stream) EOL() bool {
	return s.pos >= len(s.line)
}

// Peek возвращает следующую руну, не потребляя её; 0 в конце строки.
func (s *Stream) Peek() rune {
	if s.EOL() {
		return 0
	}
	r, _ := s.decode()
	return r
}

// Next потребляет и возвращает следующую руну; 0 в конце строки.
func (s *Stream) Next() rune {
	if s.EOL() {
		return 0
	}
	r, size := s.decode()
	s.pos += size
	s.col++
	return r
}

// EatWhile advances while pred holds for the next rune. No tokens are
// produced for the skipped runes; they become part of the current token.
// It reports whether anything was consumed.
func (s *Stream) EatWhile(pred func(rune) bool) bool {
	from := s.pos
	for !s.EOL() && pred(s.Peek()) {
		s.Next()
	}
	return s.pos > from
}

// SkipToEnd consumes the rest of the line.
func (s *Stream) SkipToEnd() {
	for !s.EOL() {
		s.Next()
	}
}

// Start marks the beginning of a new token at the cursor.
func (s *Stream) Start() {
	s.start = s.pos
	s.startCol = s.col
}

// Column returns the 0-based column of the current token start.
// It is measured in runes and resets to zero on every line.
func (s *Stream) Column() int {
	return s.startCol
}

// Current returns the text consumed since the last Start.
func (s *Stream) Current() string {
	return s.line[s.start:s.pos]
}

// Span returns the document span of the text consumed since the last Start.
func (s *Stream) Span() source.Span {
	return source.Span{
		File:  s.file,
		Start: s.base + offset(s.start),
		End:   s.base + offset(s.pos),
	}
}

func (s *Stream) decode() (rune, int) {
	b := s.line[s.pos]
	if b < utf8.RuneSelf { // fast-path ASCII
		return rune(b), 1
	}
	return utf8.DecodeRuneInString(s.line[s.pos:])
}

func offset(n int) uint32 {
	off, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("stream offset overflow: %w", err))
	}
	return off
}
