// Copyright (c) 2024 The shardc Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.
package frontend

import (
	"github.com/cserra/shardc/internal/token"
)

// Scanner turns expanded C source text into a flat token.Token stream. It is
// a hand-rolled byte scanner in the style of y1yang0-falcon's ast.Lexer —
// simple on purpose, since spec.md treats lexical analysis as an external
// collaborator the core never sees.
type Scanner struct {
	src    string
	pos    int
	line   int
	tokens []token.Token
}

// NewScanner creates a Scanner over already-preprocessed C source text.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src, pos: 0, line: 1}
}

func (s *Scanner) peekByte() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *Scanner) peekByteAt(off int) byte {
	if s.pos+off >= len(s.src) {
		return 0
	}
	return s.src[s.pos+off]
}

func (s *Scanner) advance() byte {
	c := s.peekByte()
	s.pos++
	if c == '\n' {
		s.line++
	}
	return c
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}
func isAlnum(c byte) bool { return isAlpha(c) || isDigit(c) }

func (s *Scanner) skipTrivia() {
	for {
		switch c := s.peekByte(); {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			s.advance()
		case c == '/' && s.peekByteAt(1) == '/':
			for s.peekByte() != '\n' && s.peekByte() != 0 {
				s.advance()
			}
		case c == '/' && s.peekByteAt(1) == '*':
			s.advance()
			s.advance()
			for !(s.peekByte() == '*' && s.peekByteAt(1) == '/') && s.peekByte() != 0 {
				s.advance()
			}
			if s.peekByte() != 0 {
				s.advance()
				s.advance()
			}
		case c == '#':
			// A '#' can never start real syntax in this language subset: it's
			// a GNU line marker left behind by preprocessing (`# 12 "f.c"`),
			// so it's skipped just like a comment.
			for s.peekByte() != '\n' && s.peekByte() != 0 {
				s.advance()
			}
		default:
			return
		}
	}
}

// two describes a two-character operator and the Kind it produces, with an
// optional third `=` extending it to a compound-assignment Kind.
type two struct {
	second byte
	kind   token.Kind
	eqKind token.Kind // 0 if no `<op>=` form exists
}

var twoCharOps = map[byte][]two{
	'<': {{second: '<', kind: token.LSHIFT, eqKind: token.LSHIFT_EQ}, {second: '=', kind: token.LE}},
	'>': {{second: '>', kind: token.RSHIFT, eqKind: token.RSHIFT_EQ}, {second: '=', kind: token.GE}},
	'&': {{second: '&', kind: token.AMP_AMP}, {second: '=', kind: token.AMP_EQ}},
	'|': {{second: '|', kind: token.PIPE_PIPE}, {second: '=', kind: token.PIPE_EQ}},
	'=': {{second: '=', kind: token.EQ_EQ}},
	'!': {{second: '=', kind: token.BANG_EQ}},
	'+': {{second: '=', kind: token.PLUS_EQ}},
	'-': {{second: '=', kind: token.MINUS_EQ}},
	'*': {{second: '=', kind: token.STAR_EQ}},
	'/': {{second: '=', kind: token.SLASH_EQ}},
	'%': {{second: '=', kind: token.PERCENT_EQ}},
	'^': {{second: '=', kind: token.CARET_EQ}},
}

var singleCharOps = map[byte]token.Kind{
	'(': token.LPAREN, ')': token.RPAREN, '{': token.LBRACE, '}': token.RBRACE,
	';': token.SEMI, ',': token.COMMA, '?': token.QUESTION, ':': token.COLON,
	'+': token.PLUS, '-': token.MINUS, '*': token.STAR, '/': token.SLASH,
	'%': token.PERCENT, '~': token.TILDE, '!': token.BANG, '&': token.AMP,
	'|': token.PIPE, '^': token.CARET, '<': token.LT, '>': token.GT,
	'=': token.ASSIGN,
}

// Scan tokenizes the full input, always ending with a single EOF token.
func (s *Scanner) Scan() ([]token.Token, error) {
	for {
		s.skipTrivia()
		line := s.line
		c := s.peekByte()
		if c == 0 {
			s.tokens = append(s.tokens, token.Token{Kind: token.EOF, Line: line})
			return s.tokens, nil
		}

		switch {
		case isDigit(c):
			start := s.pos
			for isDigit(s.peekByte()) {
				s.advance()
			}
			if isAlpha(s.peekByte()) {
				return nil, &ScanError{Line: line, Lexeme: s.src[start:s.pos+1], Msg: "invalid identifier"}
			}
			s.tokens = append(s.tokens, token.Token{Kind: token.INT_CONST, Lexeme: s.src[start:s.pos], Line: line})
		case isAlpha(c):
			start := s.pos
			for isAlnum(s.peekByte()) {
				s.advance()
			}
			lexeme := s.src[start:s.pos]
			kind := token.IDENT
			if kw, ok := token.Keywords[lexeme]; ok {
				kind = kw
			}
			s.tokens = append(s.tokens, token.Token{Kind: kind, Lexeme: lexeme, Line: line})
		default:
			if opts, ok := twoCharOps[c]; ok {
				matched := false
				for _, o := range opts {
					if s.peekByteAt(1) == o.second {
						start := s.pos
						s.advance()
						s.advance()
						kind := o.kind
						if o.eqKind != 0 && s.peekByte() == '=' {
							s.advance()
							kind = o.eqKind
						}
						s.tokens = append(s.tokens, token.Token{Kind: kind, Lexeme: s.src[start:s.pos], Line: line})
						matched = true
						break
					}
				}
				if matched {
					continue
				}
			}
			if kind, ok := singleCharOps[c]; ok {
				s.advance()
				s.tokens = append(s.tokens, token.Token{Kind: kind, Lexeme: string(c), Line: line})
				continue
			}
			return nil, &ScanError{Line: line, Lexeme: string(c), Msg: "unrecognised byte"}
		}
	}
}

// ScanError corresponds to spec.md's InvalidToken/InvalidIdentifier taxonomy,
// both raised by this external scanner, never by the core.
type ScanError struct {
	Line   int
	Lexeme string
	Msg    string
}

func (e *ScanError) Error() string {
	return "scan error at line " + itoa(e.Line) + ": " + e.Msg + " (" + e.Lexeme + ")"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
