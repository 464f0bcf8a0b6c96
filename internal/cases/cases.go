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

// Package cases converts field names into the derived names protoc uses for
// JSON names and map entry messages.
//
// Word boundaries are underscores only, which is the naive splitting
// algorithm protoc uses. Letters are never lowercased, so "FOO_BAR" becomes
// "FOOBAR" in both styles.
package cases

import (
	"strings"
	"unicode"
)

// Case is a target case style to convert to.
type Case int

const (
	Camel  Case = iota // camelCase
	Pascal             // PascalCase
)

// Convert converts str to the given case.
func (c Case) Convert(str string) string {
	var buf strings.Builder
	c.Append(&buf, str)
	return buf.String()
}

// Append is like [Case.Convert], but it appends to the given buffer instead.
func (c Case) Append(buf *strings.Builder, str string) {
	upperNext := c == Pascal
	for _, r := range str {
		switch {
		case r == '_':
			upperNext = true
		case upperNext:
			buf.WriteRune(unicode.ToUpper(r))
			upperNext = false
		default:
			buf.WriteRune(r)
		}
	}
}

// JSONName returns the default JSON name of a field.
func JSONName(field string) string {
	return Camel.Convert(field)
}

// MapEntryName returns the name of the synthetic message that holds the
// entries of a map field.
func MapEntryName(field string) string {
	var buf strings.Builder
	Pascal.Append(&buf, field)
	buf.WriteString("Entry")
	return buf.String()
}
