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

package fastscan

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/protoidl/parser"
)

func TestScan(t *testing.T) {
	t.Parallel()
	res, err := Scan(strings.NewReader(`
		// import "commented/out.proto";
		syntax = "proto3";
		package foo . bar.baz;
		import "google/protobuf/descriptor.proto";
		import public 'other' "/split.proto";
		/* block comment */ import weak "weak.proto";
		message M {
			// not a top-level statement
			message import {}
			option (import) = { import: "nope.proto" };
		}
		import "trailing.proto";
	`))
	require.NoError(t, err)
	assert.Equal(t, "foo.bar.baz", res.PackageName)
	assert.Equal(t, []Import{
		{Path: "google/protobuf/descriptor.proto"},
		{Path: "other/split.proto", Public: true},
		{Path: "weak.proto", Weak: true},
		{Path: "trailing.proto"},
	}, res.Imports)
	assert.Equal(t, []string{
		"google/protobuf/descriptor.proto",
		"other/split.proto",
		"weak.proto",
		"trailing.proto",
	}, res.ImportPaths())
}

func TestScanEscapes(t *testing.T) {
	t.Parallel()
	res, err := Scan(strings.NewReader(`
		import "a\x2fb.proto";
		import 'it\'s.proto';
		import "a\?b.proto";
		import "a\1b.proto";
		import "a\x7.proto";
		import 'say "hi".proto';
		import "bad\qescape.proto";
	`))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"a/b.proto",
		"it's.proto",
		"a?b.proto",
		"a\x01b.proto",
		"a\a.proto",
		`say "hi".proto`,
		`bad\qescape.proto`,
	}, res.ImportPaths())

	// imports decode the same way as in the parser
	for _, imp := range []string{`"a\?b.proto"`, `"a\1b.proto"`, `"a\x7.proto"`} {
		res, err := Scan(strings.NewReader("import " + imp + ";"))
		require.NoError(t, err)
		want, err := parser.UnquoteString(imp)
		require.NoError(t, err)
		assert.Equal(t, []string{want}, res.ImportPaths(), imp)
	}
}

func TestScanToleratesJunk(t *testing.T) {
	t.Parallel()
	inputs := map[string]string{
		"unterminated string":  "package a.b;\nimport \"foo.proto\nmessage M {}",
		"unterminated comment": "package a.b; /* import \"x.proto\";",
		"unbalanced braces":    "package a.b; }}} import \"x.proto\";",
		"stray characters":     "package a.b; # $ @ import \"x.proto\";",
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			res, err := Scan(strings.NewReader(input))
			require.NoError(t, err)
			assert.Equal(t, "a.b", res.PackageName)
		})
	}
}

type failingReader struct {
	data string
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.data == "" {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestScanReadError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	res, err := Scan(&failingReader{data: `package a; import "x.proto"; import "y`, err: boom})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "a", res.PackageName)
	assert.Equal(t, []string{"x.proto"}, res.ImportPaths())

	res, err = Scan(&failingReader{err: io.ErrUnexpectedEOF})
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Empty(t, res.Imports)
}
