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

package ast

// Element is implemented by every node in the AST. The set of implementations
// is closed; see the package documentation.
type Element interface {
	// Kind reports which variant this element is.
	Kind() Kind
	element()
}

// CompactOption is an option that appears in square brackets after a field,
// map field, enum value or extension range. It is either an *Option, whose
// Value holds scalar source text, or a *MessageLiteralWithBraces, when the
// value is a brace-delimited message literal. Never both.
type CompactOption interface {
	Element
	compactOption()
}

var (
	_ CompactOption = (*Option)(nil)
	_ CompactOption = (*MessageLiteralWithBraces)(nil)
)

// Comment is a line or block comment, with its delimiters.
type Comment struct {
	Text string
}

// Package is a package declaration. Name is the dotted package name.
type Package struct {
	Name string
}

// Import is an import declaration. Name is the imported path as it appears
// in the source, including quotes.
type Import struct {
	Name   string
	Weak   bool
	Public bool
}

// Option is an option statement or a compact option with a scalar value.
// Value is the raw source text of the value; it is never interpreted.
type Option struct {
	Name  string
	Value string
}

// File is the root of the AST. Syntax is "proto2", "proto3", or empty if the
// file has no syntax statement. Elements starts with the comments that lead
// the file, followed by all top-level declarations in source order.
type File struct {
	Syntax   string
	Elements []Element
}

// Message is a message declaration.
type Message struct {
	Name     string
	Elements []Element
}

// Field is a field declaration, in a message, oneof or extend block.
// Cardinality is CardinalityNone if there was no label keyword.
type Field struct {
	Name        string
	Number      int32
	Type        string
	Cardinality Cardinality
	Options     []CompactOption
}

// MapField is a field whose type is map<KeyType, ValueType>.
type MapField struct {
	Name      string
	Number    int32
	KeyType   string
	ValueType string
	Options   []CompactOption
}

// Group is a legacy proto2 group: a field whose type is an inline nested
// message. Name is both the field's name (as written) and the message name.
// Groups declared inside a oneof never carry a cardinality.
type Group struct {
	Name        string
	Number      int32
	Cardinality Cardinality
	Options     []CompactOption
	Elements    []Element
}

// OneOf is a oneof declaration.
type OneOf struct {
	Name     string
	Elements []Element
}

// ExtensionRange is an extensions declaration. Each range is the raw text of
// one comma-separated range, such as "100 to max".
type ExtensionRange struct {
	Ranges  []string
	Options []CompactOption
}

// Reserved is a reserved declaration in a message. Ranges and Names keep
// their source text; names include their quotes.
type Reserved struct {
	Ranges []string
	Names  []string
}

// Enum is an enum declaration.
type Enum struct {
	Name     string
	Elements []Element
}

// EnumValue is a single named value in an enum.
type EnumValue struct {
	Name    string
	Number  int32
	Options []CompactOption
}

// EnumReserved is a reserved declaration in an enum.
type EnumReserved struct {
	Ranges []string
	Names  []string
}

// Extension is an extend block. TypeName is the extended message, as written.
type Extension struct {
	TypeName string
	Elements []Element
}

// Service is a service declaration.
type Service struct {
	Name     string
	Elements []Element
}

// Method is an rpc declaration. Elements holds the options and comments of the
// method body, if the method has one.
type Method struct {
	Name       string
	InputType  *MessageType
	OutputType *MessageType
	Elements   []Element
}

// MessageType is the request or response type of a method.
type MessageType struct {
	Type   string
	Stream bool
}

// MessageLiteralField is one "name: value" entry of a message literal. Value
// is raw source text and may itself be a nested literal or list.
type MessageLiteralField struct {
	Name  string
	Value string
}

// MessageLiteralWithBraces is a compact option whose value is a message
// literal. Name is the option name.
type MessageLiteralWithBraces struct {
	Name   string
	Fields []*MessageLiteralField
}

func (*Comment) Kind() Kind                  { return KindComment }
func (*Package) Kind() Kind                  { return KindPackage }
func (*Import) Kind() Kind                   { return KindImport }
func (*Option) Kind() Kind                   { return KindOption }
func (*File) Kind() Kind                     { return KindFile }
func (*Message) Kind() Kind                  { return KindMessage }
func (*Field) Kind() Kind                    { return KindField }
func (*MapField) Kind() Kind                 { return KindMapField }
func (*Group) Kind() Kind                    { return KindGroup }
func (*OneOf) Kind() Kind                    { return KindOneOf }
func (*ExtensionRange) Kind() Kind           { return KindExtensionRange }
func (*Reserved) Kind() Kind                 { return KindReserved }
func (*Enum) Kind() Kind                     { return KindEnum }
func (*EnumValue) Kind() Kind                { return KindEnumValue }
func (*EnumReserved) Kind() Kind             { return KindEnumReserved }
func (*Extension) Kind() Kind                { return KindExtension }
func (*Service) Kind() Kind                  { return KindService }
func (*Method) Kind() Kind                   { return KindMethod }
func (*MessageType) Kind() Kind              { return KindMessageType }
func (*MessageLiteralField) Kind() Kind      { return KindMessageLiteralField }
func (*MessageLiteralWithBraces) Kind() Kind { return KindMessageLiteralWithBraces }

func (*Comment) element()                  {}
func (*Package) element()                  {}
func (*Import) element()                   {}
func (*Option) element()                   {}
func (*File) element()                     {}
func (*Message) element()                  {}
func (*Field) element()                    {}
func (*MapField) element()                 {}
func (*Group) element()                    {}
func (*OneOf) element()                    {}
func (*ExtensionRange) element()           {}
func (*Reserved) element()                 {}
func (*Enum) element()                     {}
func (*EnumValue) element()                {}
func (*EnumReserved) element()             {}
func (*Extension) element()                {}
func (*Service) element()                  {}
func (*Method) element()                   {}
func (*MessageType) element()              {}
func (*MessageLiteralField) element()      {}
func (*MessageLiteralWithBraces) element() {}

func (*Option) compactOption()                   {}
func (*MessageLiteralWithBraces) compactOption() {}
