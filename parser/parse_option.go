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
	"github.com/bufbuild/protoidl/ast"
)

// parseOptionStatement parses "option name = value;". The value is kept as
// source text even when it is a message literal.
func (p *parser) parseOptionStatement() *ast.Option {
	p.expect("option")
	name := p.parseOptionName()
	p.expect("=")
	start := p.mark()
	if p.peek().is("{") {
		p.parseMessageLiteral("{", "}")
	} else {
		p.parseScalar("option value")
	}
	value := p.textFrom(start)
	p.expect(";")
	return &ast.Option{Name: name, Value: value}
}

// parseCompactOptions parses an optional bracketed list of options, as found
// after fields, enum values and extension ranges.
func (p *parser) parseCompactOptions() []ast.CompactOption {
	if !p.accept("[") {
		return nil
	}
	var opts []ast.CompactOption
	for {
		opts = append(opts, p.parseCompactOption())
		if !p.accept(",") {
			break
		}
	}
	p.expect("]")
	return opts
}

// parseCompactOption parses a single "name = value" inside brackets. A value
// in braces becomes a MessageLiteralWithBraces; anything else is an Option
// holding the value's text.
func (p *parser) parseCompactOption() ast.CompactOption {
	name := p.parseOptionName()
	p.expect("=")
	if p.peek().is("{") {
		fields := p.parseMessageLiteral("{", "}")
		return &ast.MessageLiteralWithBraces{Name: name, Fields: fields}
	}
	start := p.mark()
	p.parseScalar("option value")
	return &ast.Option{Name: name, Value: p.textFrom(start)}
}

// parseOptionName parses names like "deprecated", "(foo.bar)" and
// "(foo).bar.(.baz.buzz)".
func (p *parser) parseOptionName() string {
	start := p.mark()
	p.parseOptionNamePart()
	for p.accept(".") {
		p.parseOptionNamePart()
	}
	return p.textFrom(start)
}

func (p *parser) parseOptionNamePart() {
	if p.accept("(") {
		p.parseTypeName("extension name")
		p.expect(")")
		return
	}
	p.expectIdent("option name")
}

// parseScalar parses a scalar value: a possibly signed number or identifier
// (for -inf and the like), one or more adjacent strings, or a dotted
// identifier.
func (p *parser) parseScalar(what string) {
	tok := p.peek()
	switch {
	case tok.is("-") || tok.is("+"):
		p.next()
		switch next := p.peek(); {
		case next.kind == tokenInt || next.kind == tokenFloat || next.isIdent():
			p.next()
		default:
			p.fail("number")
		}
	case tok.kind == tokenInt || tok.kind == tokenFloat:
		p.next()
	case tok.kind == tokenString:
		p.parseStrings(what)
	case tok.isIdent():
		p.parseFullIdent(what)
	default:
		p.fail(what)
	}
}

// parseMessageLiteral parses a message literal delimited by open and close,
// which are either braces or angle brackets. Fields may be separated by
// commas, semicolons or nothing at all.
func (p *parser) parseMessageLiteral(open, closer string) []*ast.MessageLiteralField {
	p.openBlock(open)
	defer p.closeBlock()
	var fields []*ast.MessageLiteralField
	for !p.accept(closer) {
		if p.peek().kind == tokenEOF {
			p.fail(`"` + closer + `"`)
		}
		fields = append(fields, p.parseMessageLiteralField())
		if !p.accept(",") {
			p.accept(";")
		}
	}
	return fields
}

// parseMessageLiteralField parses "name: value". The colon may be left out
// when the value is a message or a list.
func (p *parser) parseMessageLiteralField() *ast.MessageLiteralField {
	start := p.mark()
	if p.accept("[") {
		// extension name or type URL, e.g. [foo.bar] or [type.example.com/foo.Bar]
		p.expectIdent("extension name")
		for p.accept(".") || p.accept("/") {
			p.expectIdent("identifier")
		}
		p.expect("]")
	} else {
		p.expectIdent("field name")
	}
	name := p.textFrom(start)

	hasColon := p.accept(":")
	valStart := p.mark()
	switch tok := p.peek(); {
	case tok.is("{"):
		p.parseMessageLiteral("{", "}")
	case tok.is("<"):
		p.parseMessageLiteral("<", ">")
	case tok.is("["):
		p.parseListLiteral()
	case !hasColon:
		p.fail(`":" or message value`)
	default:
		p.parseScalar("field value")
	}
	return &ast.MessageLiteralField{Name: name, Value: p.textFrom(valStart)}
}

func (p *parser) parseListLiteral() {
	p.expect("[")
	if p.accept("]") {
		return
	}
	for {
		switch tok := p.peek(); {
		case tok.is("{"):
			p.parseMessageLiteral("{", "}")
		case tok.is("<"):
			p.parseMessageLiteral("<", ">")
		default:
			p.parseScalar("list element")
		}
		if !p.accept(",") {
			break
		}
	}
	p.expect("]")
}

func (p *parser) parseExtensionRange() *ast.ExtensionRange {
	p.expect("extensions")
	var ranges []string
	for {
		ranges = append(ranges, p.parseRange(false, "extension range"))
		if !p.accept(",") {
			break
		}
	}
	opts := p.parseCompactOptions()
	p.expect(";")
	return &ast.ExtensionRange{Ranges: ranges, Options: opts}
}

// parseReserved parses a reserved statement. Ranges and names are returned
// as source text in the order they appear; names keep their quotes. Bare
// identifiers are accepted as names too.
func (p *parser) parseReserved(enum bool) (ranges, names []string) {
	p.expect("reserved")
	for {
		switch tok := p.peek(); {
		case tok.kind == tokenString:
			_, text := p.parseStrings("reserved name")
			names = append(names, text)
		case tok.isIdent():
			names = append(names, p.next().text)
		default:
			ranges = append(ranges, p.parseRange(enum, "reserved range or name"))
		}
		if !p.accept(",") {
			break
		}
	}
	p.expect(";")
	return ranges, names
}

// parseRange parses "N", "N to M" or "N to max" and returns its text. Enum
// ranges may have negative bounds.
func (p *parser) parseRange(enum bool, what string) string {
	start := p.mark()
	p.parseRangeBound(enum, what)
	if p.accept("to") {
		if !p.accept("max") {
			p.parseRangeBound(enum, "range end")
		}
	}
	return p.textFrom(start)
}

func (p *parser) parseRangeBound(enum bool, what string) {
	neg := enum && p.accept("-")
	if p.peek().kind != tokenInt {
		p.fail(what)
	}
	p.parseInt32(p.next(), neg)
}
