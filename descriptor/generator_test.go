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

package descriptor

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/testing/protocmp"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/bufbuild/protoidl/ast"
	"github.com/bufbuild/protoidl/parser"
)

func generate(t *testing.T, source string) *descriptorpb.FileDescriptorProto {
	t.Helper()
	file, diags := parser.ParseString(source)
	require.Empty(t, diags.Strings())
	return FromAST("test.proto", file)
}

func assertDescriptor(t *testing.T, want string, got *descriptorpb.FileDescriptorProto) {
	t.Helper()
	expected := &descriptorpb.FileDescriptorProto{}
	require.NoError(t, prototext.Unmarshal([]byte(want), expected))
	if diff := cmp.Diff(expected, got, protocmp.Transform()); diff != "" {
		t.Errorf("descriptor mismatch (-want +got):\n%s", diff)
	}
}

func TestFromAST(t *testing.T) {
	t.Parallel()
	fdp := generate(t, `
		syntax = "proto2";
		package foo.bar;
		import public "other.proto";
		import weak 'weak.proto';
		option java_package = "com.foo";
		option (my.ext).num = -5;
		message Msg {
		  option deprecated = true;
		  required string name = 1 [default = "x\n", json_name = "N"];
		  optional bytes data = 2 [default = "\001a"];
		  repeated int64 ids = 3 [packed = true, (ext) = { a: 1 b: "x" }];
		  map<string, Msg> children = 4;
		  optional group Result = 5 { optional int32 n = 1; }
		  oneof choice {
		    int32 i = 6;
		    group Opt = 7 { }
		  }
		  optional .foo.Other other = 8 [default = 0x10];
		  optional double d = 9 [default = -inf];
		  extensions 100 to 199, 300 to max [(verify) = true];
		  reserved 10, 20 to 30, "old";
		  extend Other { optional int32 ext_field = 100; }
		  enum Kind { KIND_A = 0; }
		}
		enum Color {
		  option allow_alias = true;
		  RED = 0;
		  BLUE = -1 [deprecated = true];
		  reserved -10 to -5, 100 to max;
		  reserved "GREEN";
		}
		extend Msg { repeated group Ext = 101 {} }
		service Svc {
		  option deprecated = true;
		  rpc Do(Msg) returns (stream .foo.bar.Msg) { option idempotency_level = NO_SIDE_EFFECTS; }
		}
	`)
	assertDescriptor(t, `
		name: "test.proto"
		package: "foo.bar"
		dependency: ["other.proto", "weak.proto"]
		public_dependency: [0]
		weak_dependency: [1]
		syntax: "proto2"
		options {
		  uninterpreted_option {
		    name { name_part: "java_package" is_extension: false }
		    string_value: "com.foo"
		  }
		  uninterpreted_option {
		    name { name_part: "my.ext" is_extension: true }
		    name { name_part: "num" is_extension: false }
		    negative_int_value: -5
		  }
		}
		message_type {
		  name: "Msg"
		  field { name: "name" number: 1 label: LABEL_REQUIRED type: TYPE_STRING default_value: "x\n" json_name: "N" }
		  field { name: "data" number: 2 label: LABEL_OPTIONAL type: TYPE_BYTES default_value: "\\001a" json_name: "data" }
		  field {
		    name: "ids" number: 3 label: LABEL_REPEATED type: TYPE_INT64 json_name: "ids"
		    options {
		      uninterpreted_option {
		        name { name_part: "packed" is_extension: false }
		        identifier_value: "true"
		      }
		      uninterpreted_option {
		        name { name_part: "ext" is_extension: true }
		        aggregate_value: "a: 1 b: \"x\""
		      }
		    }
		  }
		  field { name: "children" number: 4 label: LABEL_REPEATED type_name: "ChildrenEntry" json_name: "children" }
		  field { name: "result" number: 5 label: LABEL_OPTIONAL type: TYPE_GROUP type_name: "Result" json_name: "result" }
		  field { name: "i" number: 6 label: LABEL_OPTIONAL type: TYPE_INT32 json_name: "i" oneof_index: 0 }
		  field { name: "opt" number: 7 label: LABEL_OPTIONAL type: TYPE_GROUP type_name: "Opt" json_name: "opt" oneof_index: 0 }
		  field { name: "other" number: 8 label: LABEL_OPTIONAL type_name: ".foo.Other" default_value: "16" json_name: "other" }
		  field { name: "d" number: 9 label: LABEL_OPTIONAL type: TYPE_DOUBLE default_value: "-inf" json_name: "d" }
		  nested_type {
		    name: "ChildrenEntry"
		    field { name: "key" number: 1 label: LABEL_OPTIONAL type: TYPE_STRING json_name: "key" }
		    field { name: "value" number: 2 label: LABEL_OPTIONAL type_name: "Msg" json_name: "value" }
		    options { map_entry: true }
		  }
		  nested_type {
		    name: "Result"
		    field { name: "n" number: 1 label: LABEL_OPTIONAL type: TYPE_INT32 json_name: "n" }
		  }
		  nested_type { name: "Opt" }
		  enum_type { name: "Kind" value { name: "KIND_A" number: 0 } }
		  extension { name: "ext_field" number: 100 label: LABEL_OPTIONAL type: TYPE_INT32 json_name: "extField" extendee: "Other" }
		  extension_range {
		    start: 100 end: 200
		    options { uninterpreted_option { name { name_part: "verify" is_extension: true } identifier_value: "true" } }
		  }
		  extension_range {
		    start: 300 end: 536870912
		    options { uninterpreted_option { name { name_part: "verify" is_extension: true } identifier_value: "true" } }
		  }
		  oneof_decl { name: "choice" }
		  options { uninterpreted_option { name { name_part: "deprecated" is_extension: false } identifier_value: "true" } }
		  reserved_range { start: 10 end: 11 }
		  reserved_range { start: 20 end: 31 }
		  reserved_name: "old"
		}
		message_type { name: "Ext" }
		enum_type {
		  name: "Color"
		  value { name: "RED" number: 0 }
		  value {
		    name: "BLUE" number: -1
		    options { uninterpreted_option { name { name_part: "deprecated" is_extension: false } identifier_value: "true" } }
		  }
		  options { uninterpreted_option { name { name_part: "allow_alias" is_extension: false } identifier_value: "true" } }
		  reserved_range { start: -10 end: -5 }
		  reserved_range { start: 100 end: 2147483647 }
		  reserved_name: "GREEN"
		}
		extension { name: "ext" number: 101 label: LABEL_REPEATED type: TYPE_GROUP type_name: "Ext" json_name: "ext" extendee: "Msg" }
		service {
		  name: "Svc"
		  method {
		    name: "Do" input_type: "Msg" output_type: ".foo.bar.Msg" server_streaming: true
		    options { uninterpreted_option { name { name_part: "idempotency_level" is_extension: false } identifier_value: "NO_SIDE_EFFECTS" } }
		  }
		  options { uninterpreted_option { name { name_part: "deprecated" is_extension: false } identifier_value: "true" } }
		}
	`, fdp)
}

func TestProto3Optional(t *testing.T) {
	t.Parallel()
	fdp := generate(t, `
		syntax = "proto3";
		message M {
		  optional string name = 1;
		  oneof kind { int32 a = 2; }
		  optional int32 c = 3;
		  int32 _c = 4;
		}
		extend M { optional int32 x = 5; }
	`)
	assertDescriptor(t, `
		name: "test.proto"
		syntax: "proto3"
		message_type {
		  name: "M"
		  field { name: "name" number: 1 label: LABEL_OPTIONAL type: TYPE_STRING json_name: "name" oneof_index: 1 proto3_optional: true }
		  field { name: "a" number: 2 label: LABEL_OPTIONAL type: TYPE_INT32 json_name: "a" oneof_index: 0 }
		  field { name: "c" number: 3 label: LABEL_OPTIONAL type: TYPE_INT32 json_name: "c" oneof_index: 2 proto3_optional: true }
		  field { name: "_c" number: 4 label: LABEL_OPTIONAL type: TYPE_INT32 json_name: "C" }
		  oneof_decl { name: "kind" }
		  oneof_decl { name: "_name" }
		  oneof_decl { name: "X_c" }
		}
		extension { name: "x" number: 5 label: LABEL_OPTIONAL type: TYPE_INT32 json_name: "x" extendee: "M" proto3_optional: true }
	`, fdp)
}

func TestFromASTWithoutSyntax(t *testing.T) {
	t.Parallel()
	fdp := FromAST("empty.proto", &ast.File{})
	assertDescriptor(t, `name: "empty.proto"`, fdp)

	// out-of-range bounds and unreadable imports are dropped
	fdp = FromAST("bad.proto", &ast.File{Elements: []ast.Element{
		&ast.Import{Name: "not quoted"},
		&ast.Message{Name: "M", Elements: []ast.Element{
			&ast.Reserved{Ranges: []string{"1 to 2147483647", "99999999999", "5"}},
		}},
	}})
	assertDescriptor(t, `
		name: "bad.proto"
		message_type { name: "M" reserved_range { start: 5 end: 6 } }
	`, fdp)
}

func TestUninterpretedOptionValues(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		value string
		want  *descriptorpb.UninterpretedOption
	}{
		{"1", &descriptorpb.UninterpretedOption{PositiveIntValue: proto.Uint64(1)}},
		{"+5", &descriptorpb.UninterpretedOption{PositiveIntValue: proto.Uint64(5)}},
		{"0x10", &descriptorpb.UninterpretedOption{PositiveIntValue: proto.Uint64(16)}},
		{"017", &descriptorpb.UninterpretedOption{PositiveIntValue: proto.Uint64(15)}},
		{"18446744073709551615", &descriptorpb.UninterpretedOption{PositiveIntValue: proto.Uint64(math.MaxUint64)}},
		{"18446744073709551616", &descriptorpb.UninterpretedOption{DoubleValue: proto.Float64(18446744073709551616)}},
		{"-9223372036854775808", &descriptorpb.UninterpretedOption{NegativeIntValue: proto.Int64(math.MinInt64)}},
		{"-9223372036854775809", &descriptorpb.UninterpretedOption{DoubleValue: proto.Float64(-9223372036854775809)}},
		{"- 3", &descriptorpb.UninterpretedOption{NegativeIntValue: proto.Int64(-3)}},
		{"-1.5", &descriptorpb.UninterpretedOption{DoubleValue: proto.Float64(-1.5)}},
		{"1e3", &descriptorpb.UninterpretedOption{DoubleValue: proto.Float64(1000)}},
		{".5", &descriptorpb.UninterpretedOption{DoubleValue: proto.Float64(0.5)}},
		{"-inf", &descriptorpb.UninterpretedOption{DoubleValue: proto.Float64(math.Inf(-1))}},
		{"inf", &descriptorpb.UninterpretedOption{IdentifierValue: proto.String("inf")}},
		{"FOO", &descriptorpb.UninterpretedOption{IdentifierValue: proto.String("FOO")}},
		{"foo.Bar", &descriptorpb.UninterpretedOption{IdentifierValue: proto.String("foo.Bar")}},
		{`'a' "b"`, &descriptorpb.UninterpretedOption{StringValue: []byte("ab")}},
		{`"\xff"`, &descriptorpb.UninterpretedOption{StringValue: []byte{0xff}}},
		{"{ a: 1 b { c: 2 } }", &descriptorpb.UninterpretedOption{AggregateValue: proto.String("a: 1 b { c: 2 }")}},
	}
	for _, tc := range testCases {
		got := uninterpretedOption("foo", tc.value)
		tc.want.Name = []*descriptorpb.UninterpretedOption_NamePart{
			{NamePart: proto.String("foo"), IsExtension: proto.Bool(false)},
		}
		if diff := cmp.Diff(tc.want, got, protocmp.Transform()); diff != "" {
			t.Errorf("value %q: mismatch (-want +got):\n%s", tc.value, diff)
		}
	}
}

func TestOptionName(t *testing.T) {
	t.Parallel()
	type part struct {
		name string
		ext  bool
	}
	testCases := []struct {
		name string
		want []part
	}{
		{"foo", []part{{"foo", false}}},
		{"foo.bar", []part{{"foo", false}, {"bar", false}}},
		{"(foo.bar).baz", []part{{"foo.bar", true}, {"baz", false}}},
		{"( .foo.ext ).(bar).baz", []part{{".foo.ext", true}, {"bar", true}, {"baz", false}}},
		{"a.(b)", []part{{"a", false}, {"b", true}}},
	}
	for _, tc := range testCases {
		var got []part
		for _, np := range optionName(tc.name) {
			got = append(got, part{np.GetNamePart(), np.GetIsExtension()})
		}
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestDefaultValue(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		typ   descriptorpb.FieldDescriptorProto_Type
		value string
		want  string
	}{
		{descriptorpb.FieldDescriptorProto_TYPE_INT32, "0x10", "16"},
		{descriptorpb.FieldDescriptorProto_TYPE_INT64, "-017", "-15"},
		{descriptorpb.FieldDescriptorProto_TYPE_UINT64, "+7", "7"},
		{descriptorpb.FieldDescriptorProto_TYPE_DOUBLE, "1e5", "100000"},
		{descriptorpb.FieldDescriptorProto_TYPE_FLOAT, "- .5", "-0.5"},
		{descriptorpb.FieldDescriptorProto_TYPE_DOUBLE, "inf", "inf"},
		{descriptorpb.FieldDescriptorProto_TYPE_DOUBLE, "-inf", "-inf"},
		{descriptorpb.FieldDescriptorProto_TYPE_DOUBLE, "-nan", "nan"},
		{descriptorpb.FieldDescriptorProto_TYPE_BOOL, "true", "true"},
		{descriptorpb.FieldDescriptorProto_TYPE_ENUM, "FOO", "FOO"},
		{descriptorpb.FieldDescriptorProto_TYPE_STRING, `'a b' "c"`, "a bc"},
		{descriptorpb.FieldDescriptorProto_TYPE_BYTES, `"\xff\"\n ok"`, `\377\"\n ok`},
	}
	for _, tc := range testCases {
		fdp := &descriptorpb.FieldDescriptorProto{Type: tc.typ.Enum()}
		assert.Equal(t, tc.want, defaultValue(fdp, tc.value), tc.value)
	}
}

func TestParseRange(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		text       string
		start, end int32
		ok         bool
	}{
		{"5", 5, 5, true},
		{"1 to 10", 1, 10, true},
		{"0x10 to 020", 16, 16, true},
		{"- 5 to -1", -5, -1, true},
		{"7 to max", 7, 100, true},
		{"2147483648", 0, 0, false},
		{"1 to foo", 1, 0, false},
	}
	for _, tc := range testCases {
		start, end, ok := parseRange(tc.text, 100)
		assert.Equal(t, tc.ok, ok, tc.text)
		if ok {
			assert.Equal(t, tc.start, start, tc.text)
			assert.Equal(t, tc.end, end, tc.text)
		}
	}
}
