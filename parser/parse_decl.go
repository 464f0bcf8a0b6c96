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
	"strings"

	"github.com/bufbuild/protoidl/ast"
	"github.com/bufbuild/protoidl/reporter"
)

func (p *parser) parseFile() *ast.File {
	file := &ast.File{}

	// Comments before the syntax statement lead the element list.
	for !p.aborted && p.tokens[p.pos].kind == tokenComment {
		file.Elements = append(file.Elements, &ast.Comment{Text: strings.TrimSpace(p.tokens[p.pos].text)})
		p.pos++
	}

	if p.peek().is("syntax") {
		p.statement(func() ast.Element {
			file.Syntax = p.parseSyntax()
			return nil
		})
	} else if !p.aborted {
		p.handler.HandleWarning(ast.UnknownPos(p.info.Name()), ErrNoSyntax)
	}

	for !p.aborted {
		tok := p.tokens[p.pos]
		switch {
		case tok.kind == tokenEOF:
			return file
		case tok.kind == tokenComment:
			file.Elements = append(file.Elements, &ast.Comment{Text: strings.TrimSpace(tok.text)})
			p.pos++
		case tok.is(";"):
			p.next()
		default:
			if e := p.statement(p.parseFileElement); e != nil {
				file.Elements = append(file.Elements, e)
			}
		}
	}
	return file
}

// parseSyntax parses a syntax statement and returns the syntax level with
// quotes stripped. Unknown levels are reported but still returned.
func (p *parser) parseSyntax() string {
	p.expect("syntax")
	p.expect("=")
	tok := p.peek()
	value, _ := p.parseStrings("syntax level")
	if value != "proto2" && value != "proto3" {
		p.report(&reporter.SyntaxError{
			Pos:      p.posOf(tok),
			Expected: `"proto2" or "proto3"`,
			Found:    tok.describe(),
		})
	}
	p.expect(";")
	return value
}

// parseStrings parses one or more adjacent string literals. It returns their
// concatenated value along with the raw source text.
func (p *parser) parseStrings(what string) (value, text string) {
	if p.peek().kind != tokenString {
		p.fail(what)
	}
	start := p.mark()
	var sb strings.Builder
	for p.peek().kind == tokenString {
		sb.WriteString(p.next().value)
	}
	return sb.String(), p.textFrom(start)
}

// The alternatives of each body are identified by the kind of element they
// produce. classify functions pick the alternative from lookahead, and
// parseElement builds it.

func (p *parser) classifyFileElement() (ast.Kind, bool) {
	tok := p.peek()
	if tok.kind != tokenKeyword {
		return ast.KindInvalid, false
	}
	switch tok.text {
	case "package":
		return ast.KindPackage, true
	case "import":
		return ast.KindImport, true
	case "option":
		return ast.KindOption, true
	case "message":
		return ast.KindMessage, true
	case "enum":
		return ast.KindEnum, true
	case "extend":
		return ast.KindExtension, true
	case "service":
		return ast.KindService, true
	}
	return ast.KindInvalid, false
}

func (p *parser) classifyMessageElement() ast.Kind {
	tok := p.peek()
	if tok.kind == tokenKeyword {
		switch tok.text {
		case "message":
			return ast.KindMessage
		case "enum":
			return ast.KindEnum
		case "extend":
			return ast.KindExtension
		case "option":
			return ast.KindOption
		case "oneof":
			return ast.KindOneOf
		case "extensions":
			return ast.KindExtensionRange
		case "reserved":
			return ast.KindReserved
		case "map":
			if p.peekN(1).is("<") {
				return ast.KindMapField
			}
		}
	}
	return p.classifyField()
}

// classifyField decides between a group and an ordinary field. A group is
// "group Name = N [opts] {", possibly after a label; the same prefix
// followed by ';' is a field whose type is named group.
func (p *parser) classifyField() ast.Kind {
	i := 0
	if isCardinality(p.peek()) {
		i++
	}
	if !p.peekN(i).is("group") || !p.peekN(i+1).isIdent() || !p.peekN(i+2).is("=") {
		return ast.KindField
	}
	// skip the number and any compact options
	i += 4
	if p.peekN(i).is("[") {
		depth := 0
		for ; ; i++ {
			tok := p.peekN(i)
			if tok.kind == tokenEOF {
				return ast.KindField
			}
			if tok.is("[") {
				depth++
			} else if tok.is("]") {
				depth--
				if depth == 0 {
					i++
					break
				}
			}
		}
	}
	if p.peekN(i).is("{") {
		return ast.KindGroup
	}
	return ast.KindField
}

func (p *parser) classifyOneOfElement() ast.Kind {
	if p.peek().is("option") {
		return ast.KindOption
	}
	return p.classifyField()
}

func (p *parser) classifyEnumElement() ast.Kind {
	switch {
	case p.peek().is("option"):
		return ast.KindOption
	case p.peek().is("reserved"):
		return ast.KindEnumReserved
	}
	return ast.KindEnumValue
}

func (p *parser) classifyServiceElement() (ast.Kind, bool) {
	switch {
	case p.peek().is("option"):
		return ast.KindOption, true
	case p.peek().is("rpc"):
		return ast.KindMethod, true
	}
	return ast.KindInvalid, false
}

// parseElement builds the alternative chosen by a classify function. A kind
// with no constructor here means a classify function and this switch have
// gotten out of sync.
func (p *parser) parseElement(kind ast.Kind, label bool) ast.Element {
	switch kind {
	case ast.KindPackage:
		return p.parsePackage()
	case ast.KindImport:
		return p.parseImport()
	case ast.KindOption:
		return p.parseOptionStatement()
	case ast.KindMessage:
		return p.parseMessage()
	case ast.KindField:
		return p.parseField(label)
	case ast.KindMapField:
		return p.parseMapField()
	case ast.KindGroup:
		return p.parseGroup(label)
	case ast.KindOneOf:
		return p.parseOneOf()
	case ast.KindExtensionRange:
		return p.parseExtensionRange()
	case ast.KindReserved:
		ranges, names := p.parseReserved(false)
		return &ast.Reserved{Ranges: ranges, Names: names}
	case ast.KindEnum:
		return p.parseEnum()
	case ast.KindEnumValue:
		return p.parseEnumValue()
	case ast.KindEnumReserved:
		ranges, names := p.parseReserved(true)
		return &ast.EnumReserved{Ranges: ranges, Names: names}
	case ast.KindExtension:
		return p.parseExtend()
	case ast.KindService:
		return p.parseService()
	case ast.KindMethod:
		return p.parseMethod()
	default:
		panic(&InternalError{
			Pos: p.posOf(p.peek()),
			Msg: fmt.Sprintf("no constructor for element alternative %v", kind),
		})
	}
}

func (p *parser) parseFileElement() ast.Element {
	kind, ok := p.classifyFileElement()
	if !ok {
		p.fail(`"package", "import", "option", "message", "enum", "extend" or "service"`)
	}
	return p.parseElement(kind, false)
}

func (p *parser) parseMessageElement() ast.Element {
	return p.parseElement(p.classifyMessageElement(), true)
}

// Fields and groups in a oneof never carry a label.
func (p *parser) parseOneOfElement() ast.Element {
	return p.parseElement(p.classifyOneOfElement(), false)
}

func (p *parser) parseEnumElement() ast.Element {
	return p.parseElement(p.classifyEnumElement(), false)
}

func (p *parser) parseExtendElement() ast.Element {
	kind := p.classifyField()
	return p.parseElement(kind, true)
}

func (p *parser) parseServiceElement() ast.Element {
	kind, ok := p.classifyServiceElement()
	if !ok {
		p.fail(`"rpc" or "option"`)
	}
	return p.parseElement(kind, false)
}

func (p *parser) parseMethodElement() ast.Element {
	if !p.peek().is("option") {
		p.fail(`"option"`)
	}
	return p.parseElement(ast.KindOption, false)
}

func (p *parser) parsePackage() *ast.Package {
	p.expect("package")
	name := p.parseFullIdent("package name")
	p.expect(";")
	return &ast.Package{Name: name}
}

func (p *parser) parseImport() *ast.Import {
	p.expect("import")
	imp := &ast.Import{}
	if p.peekN(1).kind == tokenString {
		switch {
		case p.accept("weak"):
			imp.Weak = true
		case p.accept("public"):
			imp.Public = true
		}
	}
	_, imp.Name = p.parseStrings("import path")
	p.expect(";")
	return imp
}

func (p *parser) parseMessage() *ast.Message {
	p.expect("message")
	name := p.expectIdent("message name")
	elems := p.withBlock(p.parseMessageElement)
	return &ast.Message{Name: name.text, Elements: elems}
}

// parseLabel consumes an optional cardinality keyword.
func (p *parser) parseLabel(allowed bool) ast.Cardinality {
	if !allowed || !isCardinality(p.peek()) {
		return ast.CardinalityNone
	}
	card, _ := ast.CardinalityFromKeyword(p.next().text)
	return card
}

func (p *parser) parseField(label bool) *ast.Field {
	card := p.parseLabel(label)
	typ := p.parseTypeName("field type")
	name := p.expectIdent("field name")
	p.expect("=")
	num := p.parseFieldNumber()
	opts := p.parseCompactOptions()
	p.expect(";")
	return &ast.Field{
		Name:        name.text,
		Number:      num,
		Type:        typ,
		Cardinality: card,
		Options:     opts,
	}
}

func (p *parser) parseGroup(label bool) *ast.Group {
	card := p.parseLabel(label)
	p.expect("group")
	name := p.expectIdent("group name")
	p.expect("=")
	num := p.parseFieldNumber()
	opts := p.parseCompactOptions()
	elems := p.withBlock(p.parseMessageElement)
	return &ast.Group{
		Name:        name.text,
		Number:      num,
		Cardinality: card,
		Options:     opts,
		Elements:    elems,
	}
}

func (p *parser) parseMapField() *ast.MapField {
	p.expect("map")
	p.expect("<")
	key := p.parseTypeName("map key type")
	p.expect(",")
	val := p.parseTypeName("map value type")
	p.expect(">")
	name := p.expectIdent("field name")
	p.expect("=")
	num := p.parseFieldNumber()
	opts := p.parseCompactOptions()
	p.expect(";")
	return &ast.MapField{
		Name:      name.text,
		Number:    num,
		KeyType:   key,
		ValueType: val,
		Options:   opts,
	}
}

func (p *parser) parseFieldNumber() int32 {
	if p.peek().kind != tokenInt {
		p.fail("field number")
	}
	return p.parseInt32(p.next(), false)
}

func (p *parser) parseOneOf() *ast.OneOf {
	p.expect("oneof")
	name := p.expectIdent("oneof name")
	elems := p.withBlock(p.parseOneOfElement)
	return &ast.OneOf{Name: name.text, Elements: elems}
}

func (p *parser) parseEnum() *ast.Enum {
	p.expect("enum")
	name := p.expectIdent("enum name")
	elems := p.withBlock(p.parseEnumElement)
	return &ast.Enum{Name: name.text, Elements: elems}
}

func (p *parser) parseEnumValue() *ast.EnumValue {
	name := p.expectIdent("enum value name")
	p.expect("=")
	neg := p.accept("-")
	if p.peek().kind != tokenInt {
		p.fail("enum value number")
	}
	num := p.parseInt32(p.next(), neg)
	opts := p.parseCompactOptions()
	p.expect(";")
	return &ast.EnumValue{Name: name.text, Number: num, Options: opts}
}

func (p *parser) parseExtend() *ast.Extension {
	p.expect("extend")
	typ := p.parseTypeName("extendee type")
	elems := p.withBlock(p.parseExtendElement)
	return &ast.Extension{TypeName: typ, Elements: elems}
}

func (p *parser) parseService() *ast.Service {
	p.expect("service")
	name := p.expectIdent("service name")
	elems := p.withBlock(p.parseServiceElement)
	return &ast.Service{Name: name.text, Elements: elems}
}

func (p *parser) parseMethod() *ast.Method {
	p.expect("rpc")
	name := p.expectIdent("method name")
	input := p.parseMessageType()
	p.expect("returns")
	output := p.parseMessageType()
	method := &ast.Method{Name: name.text, InputType: input, OutputType: output}
	if p.peek().is("{") {
		method.Elements = p.withBlock(p.parseMethodElement)
		return method
	}
	p.expect(";")
	return method
}

// parseMessageType parses the parenthesized request or response type of a
// method. "stream" only marks a stream when a type name follows it.
func (p *parser) parseMessageType() *ast.MessageType {
	p.expect("(")
	mt := &ast.MessageType{}
	if p.peek().is("stream") && !p.peekN(1).is(")") {
		p.next()
		mt.Stream = true
	}
	mt.Type = p.parseTypeName("message type")
	p.expect(")")
	return mt
}

// parseFullIdent parses a dot-separated identifier and returns its text.
func (p *parser) parseFullIdent(what string) string {
	start := p.mark()
	p.expectIdent(what)
	for p.accept(".") {
		p.expectIdent("identifier")
	}
	return p.textFrom(start)
}

// parseTypeName parses a possibly fully-qualified type name.
func (p *parser) parseTypeName(what string) string {
	start := p.mark()
	if p.accept(".") {
		p.expectIdent("identifier")
	} else {
		p.expectIdent(what)
	}
	for p.accept(".") {
		p.expectIdent("identifier")
	}
	return p.textFrom(start)
}
