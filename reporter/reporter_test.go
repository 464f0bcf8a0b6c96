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
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/protoidl/ast"
)

func pos(line, col, offset int) ast.SourcePos {
	return ast.SourcePos{Filename: "test.proto", Line: line, Col: col, Offset: offset}
}

func TestHandlerFailFastByDefault(t *testing.T) {
	t.Parallel()
	h := NewHandler(nil)
	first := &SyntaxError{Pos: pos(1, 1, 0), Expected: `";"`, Found: "EOF"}
	err := h.HandleError(first)
	require.Equal(t, first, err)

	// once aborted, later errors are not recorded
	err = h.HandleError(&LexicalError{Pos: pos(2, 1, 5), Char: '#'})
	assert.Equal(t, first, err)
	assert.Len(t, h.Diagnostics(), 1)
	assert.Equal(t, first, h.Error())
}

func TestHandlerCollectAll(t *testing.T) {
	t.Parallel()
	h := NewHandler(CollectAll())
	require.NoError(t, h.HandleError(&LexicalError{Pos: pos(1, 3, 2), Char: '#'}))
	require.NoError(t, h.HandleErrorf(pos(2, 1, 10), "value out of range for int32: %s", "99999999999"))
	require.NoError(t, h.HandleError(&SyntaxError{Pos: pos(3, 4, 20), Expected: "field number", Found: `";"`}))

	assert.NoError(t, h.ReporterError())
	assert.ErrorIs(t, h.Error(), ErrInvalidSource)

	diags := h.Diagnostics()
	require.Len(t, diags, 3)
	assert.Len(t, diags.LexicalErrors(), 1)
	assert.Len(t, diags.SyntaxErrors(), 1)
	assert.Equal(t, []string{
		`test.proto:1:3: unexpected character '#'`,
		`test.proto:2:1: value out of range for int32: 99999999999`,
		`test.proto:3:4: syntax error: expected field number, found ";"`,
	}, diags.Strings())
	assert.Error(t, diags.Err())
	assert.NoError(t, Diagnostics(nil).Err())
}

func TestHandlerNonPositionalErrorAborts(t *testing.T) {
	t.Parallel()
	h := NewHandler(CollectAll())
	boom := errors.New("boom")
	assert.Equal(t, boom, h.HandleError(boom))
	assert.Empty(t, h.Diagnostics())
	assert.Equal(t, boom, h.Error())
}

func TestHandlerLimitedReporter(t *testing.T) {
	t.Parallel()
	tooMany := errors.New("too many errors")
	var count int
	h := NewHandler(NewReporter(func(ErrorWithPos) error {
		count++
		if count > 2 {
			return tooMany
		}
		return nil
	}, nil))
	for i := range 5 {
		_ = h.HandleErrorf(pos(i+1, 1, i), "error %d", i)
	}
	assert.Equal(t, 3, count)
	assert.Len(t, h.Diagnostics(), 3)
	assert.Equal(t, tooMany, h.Error())
}

func TestHandlerWarnings(t *testing.T) {
	t.Parallel()
	var warned []ErrorWithPos
	h := NewHandler(NewReporter(nil, func(w ErrorWithPos) {
		warned = append(warned, w)
	}))
	noSyntax := errors.New("no syntax specified")
	h.HandleWarning(ast.UnknownPos("test.proto"), noSyntax)
	require.Len(t, warned, 1)
	assert.ErrorIs(t, warned[0], noSyntax)
	assert.Len(t, h.Warnings(), 1)
	assert.NoError(t, h.Error())
}

func TestRender(t *testing.T) {
	t.Parallel()
	src := []byte("message M {\n\tint32 id = ;\n}\n")
	info := ast.NewFileInfo("test.proto", src)
	info.AddLine(12)
	info.AddLine(26)
	diags := Diagnostics{
		&SyntaxError{Pos: info.SourcePos(24), Expected: "field number", Found: `";"`},
	}
	var sb strings.Builder
	require.NoError(t, diags.Render(&sb, src))
	assert.Equal(t,
		"test.proto:2:20: syntax error: expected field number, found \";\"\n"+
			"   2 |         int32 id = ;\n"+
			"     | "+strings.Repeat(" ", 19)+"^\n",
		sb.String())
}

func TestRenderCaretMatchesColumn(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		src    string
		offset int
	}{
		{name: "leading tab", src: "\tx = ;", offset: 5},
		{name: "tab after text", src: "ab\tc;", offset: 3},
		{name: "tab at stop", src: "abcdefgh\tz;", offset: 9},
		{name: "two tabs", src: "a\t\tb;", offset: 3},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			src := []byte(test.src)
			p := ast.NewFileInfo("test.proto", src).SourcePos(test.offset)
			var sb strings.Builder
			require.NoError(t, Diagnostics{&LexicalError{Pos: p, Char: 'x'}}.Render(&sb, src))
			lines := strings.Split(sb.String(), "\n")
			require.Len(t, lines, 4)
			caret := strings.TrimPrefix(lines[2], "     | ")
			assert.Equal(t, p.Col-1, strings.Index(caret, "^"))
			assert.NotContains(t, lines[1], "\t")
		})
	}
}

func TestRenderWideCharacters(t *testing.T) {
	t.Parallel()
	src := []byte("// 日本\n")
	diags := Diagnostics{&LexicalError{Pos: pos(1, 6, 9), Char: '\n'}}
	var sb strings.Builder
	require.NoError(t, diags.Render(&sb, src))
	lines := strings.Split(sb.String(), "\n")
	require.Len(t, lines, 4)
	// "// " is three columns, each CJK character is two
	assert.Equal(t, "     | "+strings.Repeat(" ", 7)+"^", lines[2])
}
