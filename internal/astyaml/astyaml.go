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

// Package astyaml renders an AST as YAML in a deterministic manner. This is
// intended for generating golden outputs.
//
// Every element becomes a mapping with a single key, the name of its kind,
// whose value holds the element's fields. Fields with zero values are left
// out, except for names and numbers.
package astyaml

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/bufbuild/protoidl/ast"
)

// Marshal renders file as a YAML document.
func Marshal(file *ast.File) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fileNode(file)); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func fileNode(file *ast.File) *yaml.Node {
	m := mapping()
	if file.Syntax != "" {
		add(m, "syntax", str(file.Syntax))
	}
	addElements(m, file.Elements)
	return m
}

func element(elem ast.Element) *yaml.Node {
	var body *yaml.Node
	switch elem := elem.(type) {
	case *ast.Comment:
		body = str(elem.Text)
	case *ast.Package:
		body = str(elem.Name)
	case *ast.Import:
		body = mapping()
		add(body, "name", str(elem.Name))
		addBool(body, "weak", elem.Weak)
		addBool(body, "public", elem.Public)
	case *ast.Option:
		body = mapping()
		add(body, "name", str(elem.Name))
		add(body, "value", str(elem.Value))
	case *ast.File:
		body = fileNode(elem)
	case *ast.Message:
		body = named(elem.Name, elem.Elements)
	case *ast.Field:
		body = mapping()
		add(body, "name", str(elem.Name))
		add(body, "number", integer(elem.Number))
		add(body, "type", str(elem.Type))
		addCardinality(body, elem.Cardinality)
		addOptions(body, elem.Options)
	case *ast.MapField:
		body = mapping()
		add(body, "name", str(elem.Name))
		add(body, "number", integer(elem.Number))
		add(body, "key_type", str(elem.KeyType))
		add(body, "value_type", str(elem.ValueType))
		addOptions(body, elem.Options)
	case *ast.Group:
		body = mapping()
		add(body, "name", str(elem.Name))
		add(body, "number", integer(elem.Number))
		addCardinality(body, elem.Cardinality)
		addOptions(body, elem.Options)
		addElements(body, elem.Elements)
	case *ast.OneOf:
		body = named(elem.Name, elem.Elements)
	case *ast.ExtensionRange:
		body = mapping()
		add(body, "ranges", strs(elem.Ranges))
		addOptions(body, elem.Options)
	case *ast.Reserved:
		body = reserved(elem.Ranges, elem.Names)
	case *ast.Enum:
		body = named(elem.Name, elem.Elements)
	case *ast.EnumValue:
		body = mapping()
		add(body, "name", str(elem.Name))
		add(body, "number", integer(elem.Number))
		addOptions(body, elem.Options)
	case *ast.EnumReserved:
		body = reserved(elem.Ranges, elem.Names)
	case *ast.Extension:
		body = mapping()
		add(body, "type_name", str(elem.TypeName))
		addElements(body, elem.Elements)
	case *ast.Service:
		body = named(elem.Name, elem.Elements)
	case *ast.Method:
		body = mapping()
		add(body, "name", str(elem.Name))
		if elem.InputType != nil {
			add(body, "input", messageType(elem.InputType))
		}
		if elem.OutputType != nil {
			add(body, "output", messageType(elem.OutputType))
		}
		addElements(body, elem.Elements)
	case *ast.MessageType:
		body = messageType(elem)
	case *ast.MessageLiteralField:
		body = literalField(elem)
	case *ast.MessageLiteralWithBraces:
		body = mapping()
		add(body, "name", str(elem.Name))
		if len(elem.Fields) > 0 {
			fields := sequence()
			for _, field := range elem.Fields {
				fields.Content = append(fields.Content, literalField(field))
			}
			add(body, "fields", fields)
		}
	default:
		panic(fmt.Sprintf("astyaml: unexpected element type %T", elem))
	}
	m := mapping()
	add(m, elem.Kind().String(), body)
	return m
}

func named(name string, elems []ast.Element) *yaml.Node {
	m := mapping()
	add(m, "name", str(name))
	addElements(m, elems)
	return m
}

func reserved(ranges, names []string) *yaml.Node {
	m := mapping()
	if len(ranges) > 0 {
		add(m, "ranges", strs(ranges))
	}
	if len(names) > 0 {
		add(m, "names", strs(names))
	}
	return m
}

func messageType(mt *ast.MessageType) *yaml.Node {
	m := mapping()
	add(m, "type", str(mt.Type))
	addBool(m, "stream", mt.Stream)
	return m
}

func literalField(field *ast.MessageLiteralField) *yaml.Node {
	m := mapping()
	add(m, "name", str(field.Name))
	add(m, "value", str(field.Value))
	return m
}

func addElements(m *yaml.Node, elems []ast.Element) {
	if len(elems) == 0 {
		return
	}
	seq := sequence()
	for _, elem := range elems {
		seq.Content = append(seq.Content, element(elem))
	}
	add(m, "elements", seq)
}

func addOptions(m *yaml.Node, opts []ast.CompactOption) {
	if len(opts) == 0 {
		return
	}
	seq := sequence()
	for _, opt := range opts {
		seq.Content = append(seq.Content, element(opt))
	}
	add(m, "options", seq)
}

func addCardinality(m *yaml.Node, c ast.Cardinality) {
	if c != ast.CardinalityNone {
		add(m, "cardinality", str(c.String()))
	}
}

func addBool(m *yaml.Node, key string, v bool) {
	if v {
		add(m, key, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"})
	}
}

func add(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, str(key), value)
}

func mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode}
}

func sequence() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode}
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func strs(values []string) *yaml.Node {
	seq := sequence()
	seq.Style = yaml.FlowStyle
	for _, v := range values {
		seq.Content = append(seq.Content, str(v))
	}
	return seq
}

func integer(v int32) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(int(v))}
}
