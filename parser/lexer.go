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

package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bufbuild/protoidl/ast"
	"github.com/bufbuild/protoidl/reporter"
)

type tokenKind int8

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenKeyword
	tokenInt
	tokenFloat
	tokenString
	tokenPunct
	tokenComment
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "EOF"
	case tokenIdent:
		return "identifier"
	case tokenKeyword:
		return "keyword"
	case tokenInt:
		return "int literal"
	case tokenFloat:
		return "float literal"
	case tokenString:
		return "string literal"
	case tokenPunct:
		return "punctuation"
	case tokenComment:
		return "comment"
	default:
		return fmt.Sprintf("tokenKind(%d)", int(k))
	}
}

// token is a single lexeme. start and end are byte offsets into the file
// contents, with end exclusive.
type token struct {
	kind       tokenKind
	start, end int
	// the raw source text of the token
	text string
	// for string literals, the value after processing escapes
	value string
	// set when the lexer already reported an error for this token, so the
	// parser does not pile on a second diagnostic for the same text
	invalid bool
}

// is reports whether the token is the given keyword or punctuation.
func (t token) is(text string) bool {
	return (t.kind == tokenPunct || t.kind == tokenKeyword) && t.text == text
}

// isIdent reports whether the token can be used as a name. Keywords are
// only reserved in the positions where the grammar expects them, so they
// are valid identifiers everywhere else.
func (t token) isIdent() bool {
	return t.kind == tokenIdent || t.kind == tokenKeyword
}

// describe renders the token for a "found ..." message.
func (t token) describe() string {
	switch t.kind {
	case tokenEOF:
		return "EOF"
	case tokenString:
		return "string literal " + t.text
	case tokenInt, tokenFloat:
		return "number " + t.text
	default:
		return strconv.Quote(t.text)
	}
}

var keywords = map[string]struct{}{
	"syntax":     {},
	"import":     {},
	"weak":       {},
	"public":     {},
	"package":    {},
	"option":     {},
	"true":       {},
	"false":      {},
	"repeated":   {},
	"optional":   {},
	"required":   {},
	"double":     {},
	"float":      {},
	"int32":      {},
	"int64":      {},
	"uint32":     {},
	"uint64":     {},
	"sint32":     {},
	"sint64":     {},
	"fixed32":    {},
	"fixed64":    {},
	"sfixed32":   {},
	"sfixed64":   {},
	"bool":       {},
	"string":     {},
	"bytes":      {},
	"group":      {},
	"oneof":      {},
	"map":        {},
	"extensions": {},
	"to":         {},
	"max":        {},
	"reserved":   {},
	"enum":       {},
	"message":    {},
	"extend":     {},
	"service":    {},
	"rpc":        {},
	"stream":     {},
	"returns":    {},
}

// punctuation is the set of single-character tokens.
const punctuation = "{}()[];,.=<>-+:/"

var utf8Bom = []byte{0xEF, 0xBB, 0xBF}

type runeReader struct {
	data []byte
	pos  int
	mark int
}

// readRune returns the next rune, or -1 at EOF. An invalid UTF-8 byte is
// returned as utf8.RuneError with size 1.
func (rr *runeReader) readRune() (r rune, size int) {
	if rr.pos >= len(rr.data) {
		return -1, 0
	}
	r, size = utf8.DecodeRune(rr.data[rr.pos:])
	rr.pos += size
	return r, size
}

func (rr *runeReader) peekRune() rune {
	if rr.pos >= len(rr.data) {
		return -1
	}
	r, _ := utf8.DecodeRune(rr.data[rr.pos:])
	return r
}

func (rr *runeReader) unreadRune(sz int) {
	newPos := rr.pos - sz
	if newPos < rr.mark {
		panic("unread past mark")
	}
	rr.pos = newPos
}

func (rr *runeReader) setMark() {
	rr.mark = rr.pos
}

func (rr *runeReader) getMark() string {
	return string(rr.data[rr.mark:rr.pos])
}

// lexer converts file contents into a slice of tokens. Errors are sent to
// the handler; after each one the lexer resynchronizes at the next character.
type lexer struct {
	input   *runeReader
	info    *ast.FileInfo
	handler *reporter.Handler
	tokens  []token
}

func newLexer(filename string, contents []byte, handler *reporter.Handler) *lexer {
	// if file has UTF8 byte order marker preface, consume it
	contents = bytes.TrimPrefix(contents, utf8Bom)
	return &lexer{
		input:   &runeReader{data: contents},
		info:    ast.NewFileInfo(filename, contents),
		handler: handler,
	}
}

// lex tokenizes the entire input. The result always ends with an EOF token.
func (l *lexer) lex() []token {
	for l.handler.ReporterError() == nil {
		l.input.setMark()
		start := l.input.pos
		c, sz := l.input.readRune()
		if c < 0 {
			break
		}

		switch {
		case c == '\n':
			l.info.AddLine(l.input.pos)

		case strings.ContainsRune("\r\t\f\v ", c):
			// skip whitespace

		case c == '/' && l.input.peekRune() == '/':
			l.skipToEndOfLineComment()
			l.push(tokenComment, start)

		case c == '/' && l.input.peekRune() == '*':
			l.input.readRune()
			if ok := l.skipToEndOfBlockComment(); !ok {
				l.errorAt(start, '/', errors.New("block comment never terminates, unexpected EOF"))
				l.pushInvalid(tokenComment, start)
			} else {
				l.push(tokenComment, start)
			}

		case c == '.' && isDigit(l.input.peekRune()):
			// decimal literals could start with a dot
			l.readNumber()
			l.pushNumber(start)

		case c == '_' || isLetter(c):
			l.readIdentifier()
			kind := tokenIdent
			if _, ok := keywords[l.input.getMark()]; ok {
				kind = tokenKeyword
			}
			l.push(kind, start)

		case isDigit(c):
			l.readNumber()
			l.pushNumber(start)

		case c == '\'' || c == '"':
			value, ok := l.readStringLiteral(start, c)
			tok := l.newToken(tokenString, start)
			tok.value = value
			tok.invalid = !ok
			l.tokens = append(l.tokens, tok)

		case c < utf8.RuneSelf && strings.ContainsRune(punctuation, c):
			l.push(tokenPunct, start)

		default:
			if c == utf8.RuneError && sz == 1 {
				l.errorAt(start, c, fmt.Errorf("invalid UTF-8 byte %#x", l.input.data[start]))
			} else {
				l.errorAt(start, c, nil)
			}
		}
	}
	l.tokens = append(l.tokens, token{kind: tokenEOF, start: len(l.input.data), end: len(l.input.data)})
	return l.tokens
}

func (l *lexer) newToken(kind tokenKind, start int) token {
	return token{kind: kind, start: start, end: l.input.pos, text: l.input.getMark()}
}

func (l *lexer) push(kind tokenKind, start int) {
	l.tokens = append(l.tokens, l.newToken(kind, start))
}

func (l *lexer) pushInvalid(kind tokenKind, start int) {
	tok := l.newToken(kind, start)
	tok.invalid = true
	l.tokens = append(l.tokens, tok)
}

func (l *lexer) pushNumber(start int) {
	text := l.input.getMark()
	kind, bad := classifyNumber(text)
	if bad >= 0 {
		what := "integer"
		if kind == tokenFloat {
			what = "float"
		}
		r, _ := utf8.DecodeRuneInString(text[bad:])
		l.errorAt(start+bad, r, fmt.Errorf("invalid syntax in %s value: %s", what, text))
		l.pushInvalid(kind, start)
		return
	}
	l.push(kind, start)
}

func (l *lexer) errorAt(offset int, c rune, err error) {
	_ = l.handler.HandleError(&reporter.LexicalError{
		Pos:  l.info.SourcePos(offset),
		Char: c,
		Err:  err,
	})
}

func (l *lexer) readNumber() {
	allowExpSign := false
	for {
		c, sz := l.input.readRune()
		if c < 0 {
			break
		}
		if (c == '-' || c == '+') && !allowExpSign {
			l.input.unreadRune(sz)
			break
		}
		allowExpSign = false
		if c != '.' && c != '_' && !isDigit(c) && !isLetter(c) &&
			c != '-' && c != '+' {
			// no more chars in the number token
			l.input.unreadRune(sz)
			break
		}
		if (c == 'e' || c == 'E') && !strings.HasPrefix(l.input.getMark(), "0x") &&
			!strings.HasPrefix(l.input.getMark(), "0X") {
			// scientific notation char can be followed by
			// an exponent sign
			allowExpSign = true
		}
	}
}

// classifyNumber decides whether text is an int or float literal. The second
// result is the byte index of the first offending character, or -1 if the
// literal is well-formed.
func classifyNumber(text string) (tokenKind, int) {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		if len(text) == 2 {
			return tokenInt, 1
		}
		for i := 2; i < len(text); i++ {
			if !isHexDigit(rune(text[i])) {
				return tokenInt, i
			}
		}
		return tokenInt, -1
	}
	if !strings.ContainsAny(text, ".eE") {
		octal := len(text) > 1 && text[0] == '0'
		for i := range len(text) {
			c := rune(text[i])
			if !isDigit(c) || (octal && c > '7') {
				return tokenInt, i
			}
		}
		return tokenInt, -1
	}

	// float: digits [ "." digits ] [ exponent ], with at least one digit
	// before the exponent
	i, digits := 0, 0
	for i < len(text) && isDigit(rune(text[i])) {
		i++
		digits++
	}
	if i < len(text) && text[i] == '.' {
		i++
		for i < len(text) && isDigit(rune(text[i])) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return tokenFloat, 0
	}
	if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
		i++
		if i < len(text) && (text[i] == '+' || text[i] == '-') {
			i++
		}
		expStart := i
		for i < len(text) && isDigit(rune(text[i])) {
			i++
		}
		if i == expStart {
			return tokenFloat, min(i, len(text)-1)
		}
	}
	if i < len(text) {
		return tokenFloat, i
	}
	return tokenFloat, -1
}

func (l *lexer) readIdentifier() {
	for {
		c, sz := l.input.readRune()
		if c < 0 {
			break
		}
		if c != '_' && !isLetter(c) && !isDigit(c) {
			l.input.unreadRune(sz)
			break
		}
	}
}

// readStringLiteral reads the remainder of a string literal whose opening
// quote is at start. It reports at most one error per literal and always
// consumes up to the closing quote or the end of the line, whichever comes
// first. The second result is false if an error was reported.
func (l *lexer) readStringLiteral(start int, quote rune) (string, bool) {
	var buf bytes.Buffer
	ok := true
	fail := func(offset int, c rune, err error) {
		if ok {
			l.errorAt(offset, c, err)
			ok = false
		}
	}
	for {
		offset := l.input.pos
		c, sz := l.input.readRune()
		if c < 0 {
			fail(start, quote, errors.New("unexpected EOF in string literal"))
			return buf.String(), ok
		}
		if c == '\n' {
			l.input.unreadRune(sz)
			fail(start, quote, errors.New("encountered end-of-line before end of string literal"))
			return buf.String(), ok
		}
		if c == quote {
			return buf.String(), ok
		}
		if c == 0 {
			fail(offset, c, errors.New("null character ('\\0') not allowed in string literal"))
			continue
		}
		if c == utf8.RuneError && sz == 1 {
			fail(offset, c, errors.New("invalid UTF-8 in string literal"))
			continue
		}
		if c != '\\' {
			buf.WriteRune(c)
			continue
		}

		// escape sequence
		c, sz = l.input.readRune()
		if c < 0 || c == '\n' {
			if c == '\n' {
				l.input.unreadRune(sz)
			}
			fail(start, quote, errors.New("encountered end-of-line before end of string literal"))
			return buf.String(), ok
		}
		if err := l.readEscape(c, &buf); err != nil {
			fail(offset, c, err)
		}
	}
}

// readEscape decodes the escape sequence whose first character after the
// backslash is c, writing its value to buf.
func (l *lexer) readEscape(c rune, buf *bytes.Buffer) error {
	switch {
	case c == 'x' || c == 'X':
		hex := l.readWhile(2, isHexDigit)
		if hex == "" {
			return fmt.Errorf("invalid hex escape: \\%c", c)
		}
		i, _ := strconv.ParseUint(hex, 16, 8)
		buf.WriteByte(byte(i))

	case c >= '0' && c <= '7':
		octal := string(c) + l.readWhile(2, isOctalDigit)
		i, _ := strconv.ParseUint(octal, 8, 32)
		if i > 0xff {
			return fmt.Errorf("octal escape is out range, must be between 0 and 377: \\%s", octal)
		}
		buf.WriteByte(byte(i))

	case c == 'u' || c == 'U':
		n := 4
		if c == 'U' {
			n = 8
		}
		digits := l.readWhile(n, isHexDigit)
		if len(digits) != n {
			return fmt.Errorf("invalid unicode escape: \\%c%s", c, digits)
		}
		i, _ := strconv.ParseUint(digits, 16, 64)
		if i > utf8.MaxRune {
			return fmt.Errorf("unicode escape is out of range, must be between 0 and 0x10ffff: \\%c%s", c, digits)
		}
		buf.WriteRune(rune(i))

	default:
		r, ok := simpleEscapes[c]
		if !ok {
			return fmt.Errorf("invalid escape sequence: %q", "\\"+string(c))
		}
		buf.WriteByte(r)
	}
	return nil
}

var simpleEscapes = map[rune]byte{
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'?':  '?',
}

// readWhile consumes up to max runes that satisfy pred.
func (l *lexer) readWhile(max int, pred func(rune) bool) string {
	start := l.input.pos
	for range max {
		c, sz := l.input.readRune()
		if c < 0 {
			break
		}
		if !pred(c) {
			l.input.unreadRune(sz)
			break
		}
	}
	return string(l.input.data[start:l.input.pos])
}

// skipToEndOfLineComment consumes a // comment, leaving the newline for the
// main loop.
func (l *lexer) skipToEndOfLineComment() {
	for {
		c, sz := l.input.readRune()
		if c < 0 {
			return
		}
		if c == '\n' {
			l.input.unreadRune(sz)
			return
		}
	}
}

func (l *lexer) skipToEndOfBlockComment() bool {
	for {
		c, _ := l.input.readRune()
		if c < 0 {
			return false
		}
		if c == '\n' {
			l.info.AddLine(l.input.pos)
		}
		if c == '*' {
			if l.input.peekRune() == '/' {
				l.input.readRune()
				return true
			}
		}
	}
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isOctalDigit(c rune) bool {
	return c >= '0' && c <= '7'
}

func isHexDigit(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
