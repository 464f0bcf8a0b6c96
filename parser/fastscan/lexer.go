// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fastscan

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/bufbuild/protoidl/parser"
)

type tokenType int

const (
	eofToken tokenType = iota
	identifierToken
	stringToken
	periodToken
	semicolonToken
	openParenToken
	closeParenToken
	openBraceToken
	closeBraceToken
	openBracketToken
	closeBracketToken
	openAngleToken
	closeAngleToken
	otherToken
)

var punctTokens = map[rune]tokenType{
	'.': periodToken,
	';': semicolonToken,
	'(': openParenToken,
	')': closeParenToken,
	'{': openBraceToken,
	'}': closeBraceToken,
	'[': openBracketToken,
	']': closeBracketToken,
	'<': openAngleToken,
	'>': closeAngleToken,
}

// lexer is a tolerant tokenizer: it only distinguishes the tokens the scan
// cares about, skips comments, and lumps everything else into otherToken.
// Malformed input never causes an error; only I/O failures do.
type lexer struct {
	in *bufio.Reader
}

func newLexer(r io.Reader) *lexer {
	return &lexer{in: bufio.NewReader(r)}
}

// Lex returns the next token. For identifiers, text is the identifier. For
// strings, text is the value with escapes processed as far as they can be.
func (l *lexer) Lex() (tokenType, string, error) {
	for {
		c, err := l.readRune()
		if errors.Is(err, io.EOF) {
			return eofToken, "", nil
		} else if err != nil {
			return eofToken, "", err
		}

		switch {
		case c == '\uFEFF' || strings.ContainsRune("\n\r\t\f\v ", c):
			continue
		case c == '/':
			next, err := l.peekRune()
			if err != nil && !errors.Is(err, io.EOF) {
				return eofToken, "", err
			}
			switch next {
			case '/':
				if err := l.skipLineComment(); err != nil {
					return eofToken, "", err
				}
				continue
			case '*':
				if err := l.skipBlockComment(); err != nil {
					return eofToken, "", err
				}
				continue
			}
			return otherToken, "/", nil
		case c == '"' || c == '\'':
			s, err := l.readString(c)
			return stringToken, s, err
		case c == '_' || isLetter(c):
			var sb strings.Builder
			sb.WriteRune(c)
			if err := l.readWhile(&sb, func(r rune) bool { return r == '_' || isLetter(r) || isDigit(r) }); err != nil {
				return eofToken, "", err
			}
			return identifierToken, sb.String(), nil
		case isDigit(c):
			// numbers only matter as something that is not an identifier
			var sb strings.Builder
			if err := l.readWhile(&sb, func(r rune) bool { return r == '.' || r == '_' || isLetter(r) || isDigit(r) }); err != nil {
				return eofToken, "", err
			}
			return otherToken, "", nil
		}
		if t, ok := punctTokens[c]; ok {
			return t, string(c), nil
		}
		return otherToken, string(c), nil
	}
}

func (l *lexer) readRune() (rune, error) {
	c, _, err := l.in.ReadRune()
	return c, err
}

func (l *lexer) peekRune() (rune, error) {
	c, _, err := l.in.ReadRune()
	if err != nil {
		return 0, err
	}
	return c, l.in.UnreadRune()
}

func (l *lexer) readWhile(sb *strings.Builder, pred func(rune) bool) error {
	for {
		c, err := l.readRune()
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}
		if !pred(c) {
			return l.in.UnreadRune()
		}
		sb.WriteRune(c)
	}
}

func (l *lexer) skipLineComment() error {
	_, err := l.in.ReadString('\n')
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (l *lexer) skipBlockComment() error {
	// consume the '*' of the opening "/*"
	if _, err := l.readRune(); err != nil {
		return ignoreEOF(err)
	}
	var prev rune
	for {
		c, err := l.readRune()
		if err != nil {
			return ignoreEOF(err)
		}
		if prev == '*' && c == '/' {
			return nil
		}
		prev = c
	}
}

// readString reads the rest of a string literal. An unterminated literal
// ends at the end of the line.
func (l *lexer) readString(quote rune) (string, error) {
	var raw strings.Builder
	raw.WriteRune(quote)
	escaped := false
	for {
		c, err := l.readRune()
		if err != nil {
			return unquote(raw.String(), quote), ignoreEOF(err)
		}
		if c == '\n' {
			return unquote(raw.String(), quote), nil
		}
		raw.WriteRune(c)
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == quote:
			return unquote(raw.String(), quote), nil
		}
	}
}

// unquote processes escapes in the given literal text. If the literal is
// unterminated or its escapes are invalid, the text between the quotes is
// returned as is.
func unquote(text string, quote rune) string {
	if len(text) < 2 || !strings.HasSuffix(text, string(quote)) {
		return strings.TrimPrefix(text, string(quote))
	}
	if s, err := parser.UnquoteString(text); err == nil {
		return s
	}
	return text[1 : len(text)-1]
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}
