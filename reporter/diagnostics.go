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

package reporter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rivo/uniseg"
)

// TabstopWidth is the distance between tab stops in snippets. It matches the
// tab stops used for the columns of [ast.SourcePos].
const TabstopWidth = 8

// Diagnostics is the ordered list of errors produced by a parse.
type Diagnostics []ErrorWithPos

// Err returns nil if there are no diagnostics, and otherwise an error that
// joins all of them.
func (d Diagnostics) Err() error {
	if len(d) == 0 {
		return nil
	}
	errs := make([]error, len(d))
	for i, e := range d {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// LexicalErrors returns the diagnostics that are lexical errors.
func (d Diagnostics) LexicalErrors() []*LexicalError {
	var found []*LexicalError
	for _, e := range d {
		var lexErr *LexicalError
		if errors.As(e, &lexErr) {
			found = append(found, lexErr)
		}
	}
	return found
}

// SyntaxErrors returns the diagnostics that are syntax errors.
func (d Diagnostics) SyntaxErrors() []*SyntaxError {
	var found []*SyntaxError
	for _, e := range d {
		var synErr *SyntaxError
		if errors.As(e, &synErr) {
			found = append(found, synErr)
		}
	}
	return found
}

// Strings returns the messages of all diagnostics.
func (d Diagnostics) Strings() []string {
	strs := make([]string, len(d))
	for i, e := range d {
		strs[i] = e.Error()
	}
	return strs
}

// Render writes each diagnostic to w, followed by the offending line of src
// and a caret under the reported column:
//
//	test.proto:3:14: syntax error: expected field number, found ";"
//	   3 |   int32 id = ;
//	     |              ^
//
// src must be the text that was parsed.
func (d Diagnostics) Render(w io.Writer, src []byte) error {
	for _, diag := range d {
		if _, err := fmt.Fprintln(w, diag.Error()); err != nil {
			return err
		}
		pos := diag.GetPosition()
		if pos.Line <= 0 || pos.Offset < 0 || pos.Offset > len(src) {
			continue
		}
		start := bytes.LastIndexByte(src[:pos.Offset], '\n') + 1
		end := len(src)
		if i := bytes.IndexByte(src[pos.Offset:], '\n'); i >= 0 {
			end = pos.Offset + i
		}
		line, _ := expandTabs(strings.TrimRight(string(src[start:end]), "\r"))
		_, width := expandTabs(string(src[start:pos.Offset]))

		gutter := fmt.Sprintf("%4d | ", pos.Line)
		blank := strings.Repeat(" ", len(gutter)-2) + "| "
		caret := strings.Repeat(" ", width) + "^"
		if _, err := fmt.Fprintf(w, "%s%s\n%s%s\n", gutter, line, blank, caret); err != nil {
			return err
		}
	}
	return nil
}

// expandTabs replaces each tab in s with spaces up to the next tab stop and
// returns the result along with the number of terminal columns it occupies.
// East Asian wide characters and emoji count as two columns.
func expandTabs(s string) (string, int) {
	var sb strings.Builder
	var col int
	state := -1
	for s != "" {
		var cluster string
		var width int
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		if cluster == "\t" {
			n := TabstopWidth - col%TabstopWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteString(cluster)
		col += width
	}
	return sb.String(), col
}
