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
	"errors"
	"fmt"

	"github.com/bufbuild/protoidl/reporter"
)

// ErrNotStringLiteral is returned by UnquoteString when its input holds
// something other than string literals.
var ErrNotStringLiteral = errors.New("not a string literal")

// UnquoteString decodes source text holding one or more adjacent string
// literals, such as the Name of an ast.Import, into the string value they
// denote. Comments and whitespace between the literals are ignored.
func UnquoteString(text string) (string, error) {
	handler := reporter.NewHandler(nil)
	tokens := newLexer("", []byte(text), handler).lex()
	if err := handler.Error(); err != nil {
		return "", err
	}
	var value []byte
	var found bool
	for _, tok := range tokens {
		switch tok.kind {
		case tokenEOF, tokenComment:
			continue
		case tokenString:
			value = append(value, tok.value...)
			found = true
		default:
			return "", fmt.Errorf("%w: %s", ErrNotStringLiteral, tok.describe())
		}
	}
	if !found {
		return "", fmt.Errorf("%w: %q", ErrNotStringLiteral, text)
	}
	return string(value), nil
}
