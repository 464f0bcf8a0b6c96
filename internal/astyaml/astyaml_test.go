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

package astyaml

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bufbuild/protoidl/ast"
)

func TestMarshal(t *testing.T) {
	t.Parallel()
	file := &ast.File{
		Syntax: "proto2",
		Elements: []ast.Element{
			&ast.Comment{Text: "// leading"},
			&ast.Package{Name: "foo"},
			&ast.Import{Name: `"a.proto"`, Public: true},
			&ast.Option{Name: "deprecated", Value: "true"},
			&ast.Message{Name: "M", Elements: []ast.Element{
				&ast.Field{
					Name: "id", Number: 1, Type: "int32", Cardinality: ast.CardinalityOptional,
					Options: []ast.CompactOption{
						&ast.Option{Name: "default", Value: "1"},
						&ast.MessageLiteralWithBraces{Name: "(x)", Fields: []*ast.MessageLiteralField{
							{Name: "a", Value: "null"},
						}},
					},
				},
				&ast.MapField{Name: "m", Number: 2, KeyType: "string", ValueType: "M"},
				&ast.Reserved{Names: []string{`"x"`}},
				&ast.Group{Name: "G", Number: 3, Cardinality: ast.CardinalityRepeated},
			}},
			&ast.Enum{Name: "E", Elements: []ast.Element{
				&ast.EnumValue{Name: "ZERO"},
				&ast.EnumReserved{Ranges: []string{"1 to max"}},
			}},
			&ast.Service{Name: "S", Elements: []ast.Element{
				&ast.Method{
					Name:       "Do",
					InputType:  &ast.MessageType{Type: "M"},
					OutputType: &ast.MessageType{Type: "M", Stream: true},
				},
			}},
		},
	}
	text, err := Marshal(file)
	require.NoError(t, err)

	var got any
	require.NoError(t, yaml.Unmarshal([]byte(text), &got))
	want := map[string]any{
		"syntax": "proto2",
		"elements": []any{
			map[string]any{"Comment": "// leading"},
			map[string]any{"Package": "foo"},
			map[string]any{"Import": map[string]any{"name": `"a.proto"`, "public": true}},
			map[string]any{"Option": map[string]any{"name": "deprecated", "value": "true"}},
			map[string]any{"Message": map[string]any{
				"name": "M",
				"elements": []any{
					map[string]any{"Field": map[string]any{
						"name": "id", "number": 1, "type": "int32", "cardinality": "OPTIONAL",
						"options": []any{
							map[string]any{"Option": map[string]any{"name": "default", "value": "1"}},
							map[string]any{"MessageLiteralWithBraces": map[string]any{
								"name":   "(x)",
								"fields": []any{map[string]any{"name": "a", "value": "null"}},
							}},
						},
					}},
					map[string]any{"MapField": map[string]any{
						"name": "m", "number": 2, "key_type": "string", "value_type": "M",
					}},
					map[string]any{"Reserved": map[string]any{"names": []any{`"x"`}}},
					map[string]any{"Group": map[string]any{
						"name": "G", "number": 3, "cardinality": "REPEATED",
					}},
				},
			}},
			map[string]any{"Enum": map[string]any{
				"name": "E",
				"elements": []any{
					map[string]any{"EnumValue": map[string]any{"name": "ZERO", "number": 0}},
					map[string]any{"EnumReserved": map[string]any{"ranges": []any{"1 to max"}}},
				},
			}},
			map[string]any{"Service": map[string]any{
				"name": "S",
				"elements": []any{
					map[string]any{"Method": map[string]any{
						"name":   "Do",
						"input":  map[string]any{"type": "M"},
						"output": map[string]any{"type": "M", "stream": true},
					}},
				},
			}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("yaml mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalEmpty(t *testing.T) {
	t.Parallel()
	text, err := Marshal(&ast.File{})
	require.NoError(t, err)
	assert.Equal(t, "{}\n", text)
}

func TestMarshalIsDeterministic(t *testing.T) {
	t.Parallel()
	file := &ast.File{Elements: []ast.Element{
		&ast.Message{Name: "A"},
		&ast.Message{Name: "B", Elements: []ast.Element{&ast.Comment{Text: "/*\n * multi\n */"}}},
	}}
	first, err := Marshal(file)
	require.NoError(t, err)
	second, err := Marshal(file)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "- Message:\n")
}
