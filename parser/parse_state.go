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
	"fmt"
	"strconv"
	"strings"

	"github.com/bufbuild/protoidl/ast"
	"github.com/bufbuild/protoidl/reporter"
)

// parser is the state of a single parse. Nothing in it is shared with other
// parses.
type parser struct {
	info   *ast.FileInfo
	data   []byte
	tokens []token
	// index of the next token to consume
	pos int
	// index of the most recently consumed token, or -1
	prev int

	handler  *reporter.Handler
	maxDepth int
	depth    int
	// set once the reporter asks to stop; from then on the parser only sees
	// EOF
	aborted bool
}

// bailout is the panic value used to unwind out of a statement after a
// syntax error has been reported. It is recovered by the enclosing body loop
// in statement.
type bailout struct{}

func (p *parser) eof() token {
	return p.tokens[len(p.tokens)-1]
}

// skipTrivia advances past comment tokens. Comments are only kept as
// elements when they appear between statements; inside a statement they
// are dropped.
func (p *parser) skipTrivia() {
	for !p.aborted && p.tokens[p.pos].kind == tokenComment {
		p.pos++
	}
}

// peek returns the next non-comment token without consuming it.
func (p *parser) peek() token {
	return p.peekN(0)
}

// peekN returns the non-comment token n positions after the next one.
func (p *parser) peekN(n int) token {
	if p.aborted {
		return p.eof()
	}
	for i := p.pos; i < len(p.tokens); i++ {
		if p.tokens[i].kind == tokenComment {
			continue
		}
		if n == 0 || p.tokens[i].kind == tokenEOF {
			return p.tokens[i]
		}
		n--
	}
	return p.eof()
}

// next consumes and returns the next non-comment token. At EOF it returns the
// EOF token without advancing.
func (p *parser) next() token {
	p.skipTrivia()
	tok := p.peek()
	if tok.kind != tokenEOF {
		p.prev = p.pos
		p.pos++
	}
	return tok
}

// mark returns the index of the next non-comment token, for use with textFrom.
func (p *parser) mark() int {
	p.skipTrivia()
	return p.pos
}

// textFrom returns the trimmed source text from the token at index start
// through the most recently consumed token.
func (p *parser) textFrom(start int) string {
	if p.prev < start || start >= len(p.tokens) {
		return ""
	}
	return strings.TrimSpace(string(p.data[p.tokens[start].start:p.tokens[p.prev].end]))
}

func (p *parser) posOf(tok token) ast.SourcePos {
	return p.info.SourcePos(tok.start)
}

// report sends err to the handler. If the reporter asks to stop, the parser
// is switched into the aborted state.
func (p *parser) report(err reporter.ErrorWithPos) {
	if p.aborted {
		return
	}
	if p.handler.HandleError(err) != nil {
		p.aborted = true
	}
}

// unexpected reports a syntax error at the next token.
func (p *parser) unexpected(expected string) {
	tok := p.peek()
	p.report(&reporter.SyntaxError{
		Pos:      p.posOf(tok),
		Expected: expected,
		Found:    tok.describe(),
	})
}

// fail reports a syntax error at the next token and abandons the current
// statement.
func (p *parser) fail(expected string) {
	p.unexpected(expected)
	panic(bailout{})
}

// expect consumes the given keyword or punctuation, failing if the next
// token is something else.
func (p *parser) expect(text string) token {
	if !p.peek().is(text) {
		p.fail(strconv.Quote(text))
	}
	return p.next()
}

// accept consumes the given keyword or punctuation if it is next.
func (p *parser) accept(text string) bool {
	if p.peek().is(text) {
		p.next()
		return true
	}
	return false
}

// expectIdent consumes an identifier. what describes it for error messages.
func (p *parser) expectIdent(what string) token {
	if !p.peek().isIdent() {
		p.fail(what)
	}
	return p.next()
}

// statement runs fn, which parses a single statement. If fn bails out after
// a syntax error, the input is skipped to the end of the statement and nil
// is returned.
func (p *parser) statement(fn func() ast.Element) (elem ast.Element) {
	start := p.mark()
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			p.recoverFrom(start)
			elem = nil
		}
	}()
	return fn()
}

// recoverFrom skips the statement that starts at token index start. It stops
// after the first ';' outside of any braces, or after the '}' that closes a
// block the statement opened. A '}' that closes an enclosing block is left
// for the enclosing body.
func (p *parser) recoverFrom(start int) {
	if p.aborted {
		return
	}
	p.pos = start
	braces, parens := 0, 0
	for {
		tok := p.tokens[p.pos]
		switch {
		case tok.kind == tokenEOF:
			return
		case tok.kind != tokenPunct:
		case tok.text == "(" || tok.text == "[":
			parens++
		case tok.text == ")" || tok.text == "]":
			if parens > 0 {
				parens--
			}
		case tok.text == ";" && braces == 0:
			p.pos++
			return
		case tok.text == "{":
			braces++
		case tok.text == "}":
			if braces == 0 {
				if p.pos == start {
					// stray close brace; consume it so we make progress
					p.pos++
				}
				return
			}
			braces--
			if braces == 0 && parens == 0 {
				p.pos++
				return
			}
		}
		p.pos++
	}
}

// body parses the elements of a brace-delimited block whose '{' has already
// been consumed, through the closing '}'. Comments between statements become
// elements. elem parses one statement; it is only called when the next token
// is not a comment, ';', '}' or EOF.
func (p *parser) body(elem func() ast.Element) []ast.Element {
	var elems []ast.Element
	for {
		if p.aborted {
			return elems
		}
		tok := p.tokens[p.pos]
		switch {
		case tok.kind == tokenComment:
			elems = append(elems, &ast.Comment{Text: strings.TrimSpace(tok.text)})
			p.pos++
		case tok.kind == tokenEOF:
			p.unexpected(`"}"`)
			return elems
		case tok.is("}"):
			p.next()
			return elems
		case tok.is(";"):
			p.next()
		default:
			if e := p.statement(elem); e != nil {
				elems = append(elems, e)
			}
		}
	}
}

// openBlock consumes the '{' that starts a nested block and increments the
// nesting depth. Past the configured limit, it reports an error wrapping
// ErrMaxDepth and abandons the statement, which skips the whole block.
func (p *parser) openBlock(open string) {
	tok := p.peek()
	p.expect(open)
	if p.depth >= p.maxDepth {
		p.report(reporter.Error(p.posOf(tok), fmt.Errorf("%w: blocks may be nested at most %d deep", ErrMaxDepth, p.maxDepth)))
		panic(bailout{})
	}
	p.depth++
}

func (p *parser) closeBlock() {
	p.depth--
}

// withBlock parses a brace-delimited body at one more level of nesting.
func (p *parser) withBlock(elem func() ast.Element) []ast.Element {
	p.openBlock("{")
	defer p.closeBlock()
	return p.body(elem)
}

// parseInt32 converts an int literal token to an int32. neg negates the
// value first. Values that do not fit are reported and come back as zero.
func (p *parser) parseInt32(tok token, neg bool) int32 {
	if tok.invalid {
		// already reported by the lexer
		return 0
	}
	v, err := parseUint(tok.text)
	limit := uint64(1<<31 - 1)
	if neg {
		limit++
	}
	if err != nil || v > limit {
		text := tok.text
		if neg {
			text = "-" + text
		}
		p.report(&reporter.SyntaxError{
			Pos:      p.posOf(tok),
			Expected: "32-bit integer",
			Found:    "out-of-range value " + text,
		})
		return 0
	}
	if neg {
		return int32(-int64(v))
	}
	return int32(v)
}

// parseUint parses an int literal in the forms the lexer accepts: decimal,
// octal with a leading zero and hex with a 0x prefix. strconv's base
// detection would also allow underscores and 0b/0o, which are not valid
// here, so the base is picked explicitly.
func parseUint(text string) (uint64, error) {
	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		return strconv.ParseUint(text[2:], 16, 64)
	case len(text) > 1 && text[0] == '0':
		return strconv.ParseUint(text[1:], 8, 64)
	default:
		return strconv.ParseUint(text, 10, 64)
	}
}
