package token

import (
	"hl7play/internal/source"
)

// Token is one tagged span of a line.
type Token struct {
	Tag  Tag         `json:"tag"`
	Span source.Span `json:"span"`
	Text string      `json:"text"`
	// Column is the 0-based rune column of the token start within its line,
	// the same column the lexer classified it by.
	Column int `json:"column"`
}
