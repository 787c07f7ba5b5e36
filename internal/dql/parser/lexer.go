package parser

import (
	"fmt"
	"strings"
	"unicode"
)

// LexError reports an unrecognized character or unterminated literal.
type LexError struct {
	Line   int
	Column int
	Msg    string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

type lexer struct {
	src    []rune
	pos    int
	line   int
	column int
	tokens []Token
}

// Tokenize scans DSL source into a token stream ending in an EOF marker.
// Whitespace and '#' comments are discarded.
func Tokenize(source string) ([]Token, error) {
	lx := &lexer{src: []rune(source), line: 1, column: 1}
	for !lx.atEnd() {
		if err := lx.scan(); err != nil {
			return nil, err
		}
	}
	lx.emit(TokEOF, "", lx.line, lx.column)
	return lx.tokens, nil
}

func (lx *lexer) scan() error {
	startLine, startCol := lx.line, lx.column
	ch := lx.advance()

	switch {
	case ch == '\n' || ch == '\r' || ch == '\t' || ch == ' ':
		return nil

	case ch == '#':
		for !lx.atEnd() && lx.peek() != '\n' {
			lx.advance()
		}
		return nil

	case ch == '"':
		return lx.string(startLine, startCol)

	case unicode.IsLetter(ch) || ch == '_':
		lx.word(ch, startLine, startCol)
		return nil

	case unicode.IsDigit(ch) || (ch == '-' && !lx.atEnd() && unicode.IsDigit(lx.peek())):
		lx.number(ch, startLine, startCol)
		return nil
	}

	switch ch {
	case '{':
		lx.emit(TokLBrace, "{", startLine, startCol)
	case '}':
		lx.emit(TokRBrace, "}", startLine, startCol)
	case '(':
		lx.emit(TokLParen, "(", startLine, startCol)
	case ')':
		lx.emit(TokRParen, ")", startLine, startCol)
	case ',':
		lx.emit(TokComma, ",", startLine, startCol)
	case ';':
		lx.emit(TokSemicolon, ";", startLine, startCol)
	case '=':
		lx.emit(TokEquals, "=", startLine, startCol)
	default:
		return &LexError{Line: startLine, Column: startCol,
			Msg: fmt.Sprintf("unexpected character %q", ch)}
	}
	return nil
}

// string scans the remainder of a double-quoted literal. The opening
// quote has already been consumed. '\"' and '\\' escapes are unwrapped.
func (lx *lexer) string(line, col int) error {
	var b strings.Builder
	for {
		if lx.atEnd() {
			return &LexError{Line: line, Column: col, Msg: "unterminated string"}
		}
		ch := lx.advance()
		switch ch {
		case '"':
			lx.emit(TokString, b.String(), line, col)
			return nil
		case '\\':
			if lx.atEnd() {
				return &LexError{Line: line, Column: col, Msg: "unterminated string"}
			}
			esc := lx.advance()
			switch esc {
			case '"', '\\':
				b.WriteRune(esc)
			default:
				b.WriteRune('\\')
				b.WriteRune(esc)
			}
		default:
			b.WriteRune(ch)
		}
	}
}

func (lx *lexer) word(first rune, line, col int) {
	var b strings.Builder
	b.WriteRune(first)
	for !lx.atEnd() {
		ch := lx.peek()
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' {
			break
		}
		b.WriteRune(lx.advance())
	}
	// Keyword keys are stored uppercase, so mixed-case words fall
	// through to identifiers on their own.
	text := b.String()
	if kind, ok := keywords[text]; ok {
		lx.emit(kind, text, line, col)
		return
	}
	lx.emit(TokIdent, text, line, col)
}

func (lx *lexer) number(first rune, line, col int) {
	var b strings.Builder
	b.WriteRune(first)
	for !lx.atEnd() && unicode.IsDigit(lx.peek()) {
		b.WriteRune(lx.advance())
	}
	lx.emit(TokNumber, b.String(), line, col)
}

func (lx *lexer) emit(kind TokenKind, text string, line, col int) {
	lx.tokens = append(lx.tokens, Token{Kind: kind, Text: text, Line: line, Column: col})
}

func (lx *lexer) advance() rune {
	ch := lx.src[lx.pos]
	lx.pos++
	if ch == '\n' {
		lx.line++
		lx.column = 1
	} else {
		lx.column++
	}
	return ch
}

func (lx *lexer) peek() rune { return lx.src[lx.pos] }

func (lx *lexer) atEnd() bool { return lx.pos >= len(lx.src) }
