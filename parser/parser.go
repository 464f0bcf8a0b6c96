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
	"context"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/bufbuild/protoidl/ast"
	"github.com/bufbuild/protoidl/reporter"
)

// DefaultMaxDepth is the nesting limit used when Parser.MaxDepth is not set.
const DefaultMaxDepth = 100

// Parse parses the contents of r as a proto source file named filename. All
// errors and warnings go to handler.
//
// The returned AST is never nil. If errors were reported, the returned error
// is non-nil and the AST holds whatever could be recovered.
func Parse(filename string, r io.Reader, handler *reporter.Handler) (*ast.File, error) {
	return parse(filename, r, handler, DefaultMaxDepth)
}

// ParseString parses text, collecting every error instead of stopping at the
// first one. The returned AST is never nil; the diagnostics are empty if and
// only if the text is valid.
func ParseString(text string) (*ast.File, reporter.Diagnostics) {
	handler := reporter.NewHandler(reporter.CollectAll())
	file := parseBytes("", []byte(text), handler, DefaultMaxDepth)
	return file, handler.Diagnostics()
}

// Parser holds configuration for parsing proto sources. The zero value is
// ready to use.
type Parser struct {
	// A custom error and warning reporter. If unspecified a default reporter
	// is used, which stops after the first error and ignores warnings. When
	// used with ParseAll, the reporter is called from multiple goroutines.
	Reporter reporter.Reporter
	// The maximum depth to which declarations and message literals may be
	// nested. If unspecified or set to a non-positive value, DefaultMaxDepth
	// is used.
	MaxDepth int
	// The maximum number of sources ParseAll will parse at once. If
	// unspecified or set to a non-positive value, then
	// min(runtime.NumCPU(), runtime.GOMAXPROCS(-1)) will be used.
	MaxParallelism int
}

// Source is a named input for ParseAll.
type Source struct {
	Filename string
	Contents []byte
}

// Parse parses the contents of r as a proto source file named filename.
func (p *Parser) Parse(filename string, r io.Reader) (*ast.File, error) {
	return parse(filename, r, reporter.NewHandler(p.Reporter), p.maxDepth())
}

// ParseAll parses the given sources concurrently. The returned slice has one
// entry per source, in the same order, and every entry is non-nil.
//
// If the reporter aborts on an error, outstanding parses are cancelled and
// that error is returned; files for sources that were never parsed are empty.
// If errors were reported but the reporter never aborted, the error is
// reporter.ErrInvalidSource.
func (p *Parser) ParseAll(ctx context.Context, sources ...Source) ([]*ast.File, error) {
	if len(sources) == 0 {
		return nil, nil
	}

	par := p.MaxParallelism
	if par <= 0 {
		par = min(runtime.GOMAXPROCS(-1), runtime.NumCPU())
	}
	sem := semaphore.NewWeighted(int64(par))
	grp, ctx := errgroup.WithContext(ctx)

	rep := p.Reporter
	if rep == nil {
		rep = reporter.NewReporter(nil, nil)
	}
	files := make([]*ast.File, len(sources))
	handlers := make([]*reporter.Handler, len(sources))
	for i, src := range sources {
		files[i] = &ast.File{}
		handlers[i] = reporter.NewHandler(rep)
		grp.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			h := handlers[i]
			files[i] = parseBytes(src.Filename, src.Contents, h, p.maxDepth())
			return h.ReporterError()
		})
	}
	if err := grp.Wait(); err != nil {
		return files, err
	}
	for _, h := range handlers {
		if err := h.Error(); err != nil {
			return files, err
		}
	}
	return files, nil
}

func (p *Parser) maxDepth() int {
	if p.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return p.MaxDepth
}

func parse(filename string, r io.Reader, handler *reporter.Handler, maxDepth int) (*ast.File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return &ast.File{}, handler.HandleError(err)
	}
	file := parseBytes(filename, data, handler, maxDepth)
	return file, handler.Error()
}

func parseBytes(filename string, data []byte, handler *reporter.Handler, maxDepth int) *ast.File {
	lx := newLexer(filename, data, handler)
	tokens := lx.lex()
	p := &parser{
		info:     lx.info,
		data:     lx.info.Data(),
		tokens:   tokens,
		prev:     -1,
		handler:  handler,
		maxDepth: maxDepth,
		aborted:  handler.ReporterError() != nil,
	}
	return p.parseFile()
}

// isCardinality reports whether the given token is a field label.
func isCardinality(tok token) bool {
	if tok.kind != tokenKeyword {
		return false
	}
	_, ok := ast.CardinalityFromKeyword(tok.text)
	return ok
}
