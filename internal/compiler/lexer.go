// Completion: 100% - Lexer complete, tracks positions for diagnostics
package compiler

import (
	"strings"

	"github.com/xyproto/bfjit/internal/diag"
)

// Alphabet holds the eight recognized instruction symbols.
// Every other byte in the source is a comment.
const Alphabet = "+-<>[].,"

// Token is one recognized symbol together with where it was found
type Token struct {
	Symbol byte
	Pos    diag.SourceLocation
}

// Lexer walks the source text and yields only the recognized symbols
type Lexer struct {
	input     string
	pos       int
	line      int
	lineStart int // Position where current line starts
}

func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1}

	// Skip shebang line if present (#!/usr/bin/env bfjit)
	if strings.HasPrefix(input, "#!") {
		for l.pos < len(l.input) && l.input[l.pos] != '\n' {
			l.pos++
		}
	}

	return l
}

// Next returns the next recognized symbol, or false at the end of input
func (l *Lexer) Next() (Token, bool) {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		pos := diag.SourceLocation{
			Line:   l.line,
			Column: l.pos - l.lineStart + 1,
			Offset: l.pos,
		}
		l.pos++
		if ch == '\n' {
			l.line++
			l.lineStart = l.pos
			continue
		}
		if isSymbol(ch) {
			return Token{Symbol: ch, Pos: pos}, true
		}
	}
	return Token{}, false
}

func isSymbol(ch byte) bool {
	return strings.IndexByte(Alphabet, ch) >= 0
}

// Tokenize returns every recognized symbol of source, in order
func Tokenize(source string) []Token {
	l := NewLexer(source)
	tokens := make([]Token, 0, len(source))
	for {
		tok, ok := l.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Minify drops everything that is not an instruction symbol.
// Minifying already minified source returns it unchanged.
func Minify(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	for _, tok := range Tokenize(source) {
		sb.WriteByte(tok.Symbol)
	}
	return sb.String()
}
