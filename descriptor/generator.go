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

// Package descriptor converts an AST into a descriptor proto.
//
// The conversion is unlinked: type references are copied as written, without
// being resolved, and the Type of a field that refers to a message or enum is
// left unset. Options are not interpreted; each one becomes an
// UninterpretedOption, except for the default and json_name pseudo-options
// of fields. Nothing is validated. Values that cannot be converted, such as a
// range bound that does not fit in 32 bits, are dropped.
package descriptor

import (
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/bufbuild/protoidl/ast"
	"github.com/bufbuild/protoidl/internal/cases"
	"github.com/bufbuild/protoidl/parser"
)

var scalarTypes = map[string]descriptorpb.FieldDescriptorProto_Type{
	"double":   descriptorpb.FieldDescriptorProto_TYPE_DOUBLE,
	"float":    descriptorpb.FieldDescriptorProto_TYPE_FLOAT,
	"int64":    descriptorpb.FieldDescriptorProto_TYPE_INT64,
	"uint64":   descriptorpb.FieldDescriptorProto_TYPE_UINT64,
	"int32":    descriptorpb.FieldDescriptorProto_TYPE_INT32,
	"fixed64":  descriptorpb.FieldDescriptorProto_TYPE_FIXED64,
	"fixed32":  descriptorpb.FieldDescriptorProto_TYPE_FIXED32,
	"bool":     descriptorpb.FieldDescriptorProto_TYPE_BOOL,
	"string":   descriptorpb.FieldDescriptorProto_TYPE_STRING,
	"bytes":    descriptorpb.FieldDescriptorProto_TYPE_BYTES,
	"uint32":   descriptorpb.FieldDescriptorProto_TYPE_UINT32,
	"sfixed32": descriptorpb.FieldDescriptorProto_TYPE_SFIXED32,
	"sfixed64": descriptorpb.FieldDescriptorProto_TYPE_SFIXED64,
	"sint32":   descriptorpb.FieldDescriptorProto_TYPE_SINT32,
	"sint64":   descriptorpb.FieldDescriptorProto_TYPE_SINT64,
}

// FromAST converts file into a descriptor for a file with the given name.
// It never fails; see the package documentation for what is dropped.
func FromAST(name string, file *ast.File) *descriptorpb.FileDescriptorProto {
	g := &generator{proto3: file.Syntax == "proto3"}
	fdp := &descriptorpb.FileDescriptorProto{Name: addr(name)}
	if file.Syntax != "" {
		fdp.Syntax = addr(file.Syntax)
	}

	var options []*descriptorpb.UninterpretedOption
	for _, elem := range file.Elements {
		switch elem := elem.(type) {
		case *ast.Package:
			fdp.Package = addr(elem.Name)
		case *ast.Import:
			path, err := parser.UnquoteString(elem.Name)
			if err != nil {
				continue
			}
			index := int32(len(fdp.Dependency))
			fdp.Dependency = append(fdp.Dependency, path)
			if elem.Public {
				fdp.PublicDependency = append(fdp.PublicDependency, index)
			}
			if elem.Weak {
				fdp.WeakDependency = append(fdp.WeakDependency, index)
			}
		case *ast.Option:
			options = append(options, uninterpretedOption(elem.Name, elem.Value))
		case *ast.Message:
			fdp.MessageType = append(fdp.MessageType, g.message(elem.Name, elem.Elements))
		case *ast.Enum:
			fdp.EnumType = append(fdp.EnumType, g.enum(elem))
		case *ast.Extension:
			fdp.Extension, fdp.MessageType = g.extend(elem, fdp.Extension, fdp.MessageType)
		case *ast.Service:
			fdp.Service = append(fdp.Service, g.service(elem))
		}
	}
	if len(options) > 0 {
		fdp.Options = &descriptorpb.FileOptions{UninterpretedOption: options}
	}
	return fdp
}

type generator struct {
	proto3 bool
}

func (g *generator) message(name string, elems []ast.Element) *descriptorpb.DescriptorProto {
	mdp := &descriptorpb.DescriptorProto{Name: addr(name)}

	var options []*descriptorpb.UninterpretedOption
	var proto3Optional []*descriptorpb.FieldDescriptorProto
	for _, elem := range elems {
		switch elem := elem.(type) {
		case *ast.Option:
			options = append(options, uninterpretedOption(elem.Name, elem.Value))
		case *ast.Field:
			fdp := g.field(elem.Name, elem.Number, elem.Cardinality, elem.Type, elem.Options)
			if g.proto3 && elem.Cardinality == ast.CardinalityOptional {
				proto3Optional = append(proto3Optional, fdp)
			}
			mdp.Field = append(mdp.Field, fdp)
		case *ast.MapField:
			fdp, entry := g.mapField(elem)
			mdp.Field = append(mdp.Field, fdp)
			mdp.NestedType = append(mdp.NestedType, entry)
		case *ast.Group:
			fdp, nested := g.group(elem)
			mdp.Field = append(mdp.Field, fdp)
			mdp.NestedType = append(mdp.NestedType, nested)
		case *ast.OneOf:
			g.oneof(mdp, elem)
		case *ast.Message:
			mdp.NestedType = append(mdp.NestedType, g.message(elem.Name, elem.Elements))
		case *ast.Enum:
			mdp.EnumType = append(mdp.EnumType, g.enum(elem))
		case *ast.Extension:
			mdp.Extension, mdp.NestedType = g.extend(elem, mdp.Extension, mdp.NestedType)
		case *ast.ExtensionRange:
			mdp.ExtensionRange = append(mdp.ExtensionRange, extensionRanges(elem)...)
		case *ast.Reserved:
			for _, text := range elem.Ranges {
				if start, end, ok := parseMessageRange(text); ok {
					mdp.ReservedRange = append(mdp.ReservedRange, &descriptorpb.DescriptorProto_ReservedRange{
						Start: addr(start),
						End:   addr(end + 1), // Exclusive.
					})
				}
			}
			mdp.ReservedName = append(mdp.ReservedName, reservedNames(elem.Names)...)
		}
	}

	// Only now that all of the normal oneofs have been added do we add the
	// synthetic ones.
	for _, fdp := range proto3Optional {
		fdp.Proto3Optional = addr(true)
		fdp.OneofIndex = addr(int32(len(mdp.OneofDecl)))
		mdp.OneofDecl = append(mdp.OneofDecl, &descriptorpb.OneofDescriptorProto{
			Name: addr(syntheticOneofName(mdp, fdp.GetName())),
		})
	}

	if len(options) > 0 {
		mdp.Options = &descriptorpb.MessageOptions{UninterpretedOption: options}
	}
	return mdp
}

// syntheticOneofName names the oneof of a proto3 optional field the way
// protoc does: an underscore and the field name, prefixed with X until it no
// longer collides with a field or oneof of the message.
func syntheticOneofName(mdp *descriptorpb.DescriptorProto, field string) string {
	name := "_" + field
	for taken(mdp, name) {
		name = "X" + name
	}
	return name
}

func taken(mdp *descriptorpb.DescriptorProto, name string) bool {
	for _, fdp := range mdp.Field {
		if fdp.GetName() == name {
			return true
		}
	}
	for _, odp := range mdp.OneofDecl {
		if odp.GetName() == name {
			return true
		}
	}
	return false
}

func (g *generator) field(
	name string,
	number int32,
	cardinality ast.Cardinality,
	typeName string,
	options []ast.CompactOption,
) *descriptorpb.FieldDescriptorProto {
	fdp := &descriptorpb.FieldDescriptorProto{
		Name:     addr(name),
		Number:   addr(number),
		Label:    label(cardinality),
		JsonName: addr(cases.JSONName(name)),
	}
	if t, ok := scalarTypes[typeName]; ok {
		fdp.Type = t.Enum()
	} else {
		fdp.TypeName = addr(typeName)
	}
	fieldOptions(fdp, options)
	return fdp
}

func label(cardinality ast.Cardinality) *descriptorpb.FieldDescriptorProto_Label {
	switch cardinality {
	case ast.CardinalityRequired:
		return descriptorpb.FieldDescriptorProto_LABEL_REQUIRED.Enum()
	case ast.CardinalityRepeated:
		return descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	default:
		return descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum()
	}
}

// mapField returns the repeated field for a map and the synthetic entry
// message it refers to.
func (g *generator) mapField(mf *ast.MapField) (*descriptorpb.FieldDescriptorProto, *descriptorpb.DescriptorProto) {
	entryName := cases.MapEntryName(mf.Name)
	fdp := g.field(mf.Name, mf.Number, ast.CardinalityRepeated, entryName, mf.Options)
	entry := &descriptorpb.DescriptorProto{
		Name: addr(entryName),
		Field: []*descriptorpb.FieldDescriptorProto{
			g.field("key", 1, ast.CardinalityOptional, mf.KeyType, nil),
			g.field("value", 2, ast.CardinalityOptional, mf.ValueType, nil),
		},
		Options: &descriptorpb.MessageOptions{MapEntry: addr(true)},
	}
	return fdp, entry
}

// group returns the field for a group and the nested message holding its
// body. The field is named after the group, in lower case.
func (g *generator) group(grp *ast.Group) (*descriptorpb.FieldDescriptorProto, *descriptorpb.DescriptorProto) {
	fdp := g.field(strings.ToLower(grp.Name), grp.Number, grp.Cardinality, grp.Name, grp.Options)
	fdp.Type = descriptorpb.FieldDescriptorProto_TYPE_GROUP.Enum()
	return fdp, g.message(grp.Name, grp.Elements)
}

func (g *generator) oneof(mdp *descriptorpb.DescriptorProto, oneof *ast.OneOf) {
	index := int32(len(mdp.OneofDecl))
	odp := &descriptorpb.OneofDescriptorProto{Name: addr(oneof.Name)}
	mdp.OneofDecl = append(mdp.OneofDecl, odp)

	var options []*descriptorpb.UninterpretedOption
	for _, elem := range oneof.Elements {
		var fdp *descriptorpb.FieldDescriptorProto
		switch elem := elem.(type) {
		case *ast.Option:
			options = append(options, uninterpretedOption(elem.Name, elem.Value))
			continue
		case *ast.Field:
			fdp = g.field(elem.Name, elem.Number, elem.Cardinality, elem.Type, elem.Options)
		case *ast.Group:
			var nested *descriptorpb.DescriptorProto
			fdp, nested = g.group(elem)
			mdp.NestedType = append(mdp.NestedType, nested)
		default:
			continue
		}
		fdp.OneofIndex = addr(index)
		mdp.Field = append(mdp.Field, fdp)
	}
	if len(options) > 0 {
		odp.Options = &descriptorpb.OneofOptions{UninterpretedOption: options}
	}
}

// extend converts the fields of an extend block, appending them to
// extensions and the messages of any groups to nested.
func (g *generator) extend(
	ext *ast.Extension,
	extensions []*descriptorpb.FieldDescriptorProto,
	nested []*descriptorpb.DescriptorProto,
) ([]*descriptorpb.FieldDescriptorProto, []*descriptorpb.DescriptorProto) {
	for _, elem := range ext.Elements {
		var fdp *descriptorpb.FieldDescriptorProto
		switch elem := elem.(type) {
		case *ast.Field:
			fdp = g.field(elem.Name, elem.Number, elem.Cardinality, elem.Type, elem.Options)
			if g.proto3 && elem.Cardinality == ast.CardinalityOptional {
				fdp.Proto3Optional = addr(true)
			}
		case *ast.Group:
			var msg *descriptorpb.DescriptorProto
			fdp, msg = g.group(elem)
			nested = append(nested, msg)
		default:
			continue
		}
		fdp.Extendee = addr(ext.TypeName)
		extensions = append(extensions, fdp)
	}
	return extensions, nested
}

func (g *generator) enum(enum *ast.Enum) *descriptorpb.EnumDescriptorProto {
	edp := &descriptorpb.EnumDescriptorProto{Name: addr(enum.Name)}
	var options []*descriptorpb.UninterpretedOption
	for _, elem := range enum.Elements {
		switch elem := elem.(type) {
		case *ast.Option:
			options = append(options, uninterpretedOption(elem.Name, elem.Value))
		case *ast.EnumValue:
			evdp := &descriptorpb.EnumValueDescriptorProto{
				Name:   addr(elem.Name),
				Number: addr(elem.Number),
			}
			if opts := compactOptions(elem.Options); len(opts) > 0 {
				evdp.Options = &descriptorpb.EnumValueOptions{UninterpretedOption: opts}
			}
			edp.Value = append(edp.Value, evdp)
		case *ast.EnumReserved:
			for _, text := range elem.Ranges {
				if start, end, ok := parseRange(text, enumRangeMax); ok {
					edp.ReservedRange = append(edp.ReservedRange, &descriptorpb.EnumDescriptorProto_EnumReservedRange{
						Start: addr(start),
						End:   addr(end), // Inclusive.
					})
				}
			}
			edp.ReservedName = append(edp.ReservedName, reservedNames(elem.Names)...)
		}
	}
	if len(options) > 0 {
		edp.Options = &descriptorpb.EnumOptions{UninterpretedOption: options}
	}
	return edp
}

func (g *generator) service(svc *ast.Service) *descriptorpb.ServiceDescriptorProto {
	sdp := &descriptorpb.ServiceDescriptorProto{Name: addr(svc.Name)}
	var options []*descriptorpb.UninterpretedOption
	for _, elem := range svc.Elements {
		switch elem := elem.(type) {
		case *ast.Option:
			options = append(options, uninterpretedOption(elem.Name, elem.Value))
		case *ast.Method:
			sdp.Method = append(sdp.Method, method(elem))
		}
	}
	if len(options) > 0 {
		sdp.Options = &descriptorpb.ServiceOptions{UninterpretedOption: options}
	}
	return sdp
}

func method(m *ast.Method) *descriptorpb.MethodDescriptorProto {
	mdp := &descriptorpb.MethodDescriptorProto{Name: addr(m.Name)}
	if m.InputType != nil {
		mdp.InputType = addr(m.InputType.Type)
		if m.InputType.Stream {
			mdp.ClientStreaming = addr(true)
		}
	}
	if m.OutputType != nil {
		mdp.OutputType = addr(m.OutputType.Type)
		if m.OutputType.Stream {
			mdp.ServerStreaming = addr(true)
		}
	}
	var options []*descriptorpb.UninterpretedOption
	for _, elem := range m.Elements {
		if opt, ok := elem.(*ast.Option); ok {
			options = append(options, uninterpretedOption(opt.Name, opt.Value))
		}
	}
	if len(options) > 0 {
		mdp.Options = &descriptorpb.MethodOptions{UninterpretedOption: options}
	}
	return mdp
}

func reservedNames(names []string) []string {
	var result []string
	for _, name := range names {
		if value, err := parser.UnquoteString(name); err == nil {
			result = append(result, value)
		} else {
			// bare identifiers are kept as written
			result = append(result, name)
		}
	}
	return result
}

func addr[T any](v T) *T { return &v }
