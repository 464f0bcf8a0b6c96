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
	"fmt"

	"github.com/bufbuild/protoidl/ast"
)

// ErrInvalidSource is a sentinel error that is returned by parse calls in the
// event that lexical or syntax errors are encountered, but the configured
// ErrorReporter always returns nil.
var ErrInvalidSource = errors.New("parse failed: invalid proto source")

// ErrorWithPos is an error about a proto source file that includes information
// about the location in the file that caused the error.
//
// The value of Error() will contain both the SourcePos and Underlying error.
// The value of Unwrap() will only be the Underlying error.
type ErrorWithPos interface {
	error
	GetPosition() ast.SourcePos
	Unwrap() error
}

// Error creates a new ErrorWithPos from the given error and source position.
func Error(pos ast.SourcePos, err error) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: err}
}

// Errorf creates a new ErrorWithPos whose underlying error is created using the
// given message format and arguments (via fmt.Errorf).
func Errorf(pos ast.SourcePos, format string, args ...any) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: fmt.Errorf(format, args...)}
}

// errorWithSourcePos is an error about a proto source file that includes
// information about the location in the file that caused the error.
type errorWithSourcePos struct {
	underlying error
	pos        ast.SourcePos
}

func (e errorWithSourcePos) Error() string {
	return fmt.Sprintf("%s: %v", e.pos, e.underlying)
}

// GetPosition implements the ErrorWithPos interface, supplying a location in
// proto source that caused the error.
func (e errorWithSourcePos) GetPosition() ast.SourcePos {
	return e.pos
}

// Unwrap implements the ErrorWithPos interface, supplying the underlying
// error. This error will not include location information.
func (e errorWithSourcePos) Unwrap() error {
	return e.underlying
}

// LexicalError is reported when the lexer encounters a character it cannot
// make a token from, or a malformed literal or comment. The lexer skips the
// offending character and carries on.
type LexicalError struct {
	Pos ast.SourcePos
	// The offending character.
	Char rune
	// Optional detail. If nil, the error just names the unexpected character.
	Err error
}

func (e *LexicalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Pos, e.Err)
	}
	return fmt.Sprintf("%s: unexpected character %q", e.Pos, e.Char)
}

// GetPosition implements the ErrorWithPos interface.
func (e *LexicalError) GetPosition() ast.SourcePos {
	return e.Pos
}

// Unwrap implements the ErrorWithPos interface.
func (e *LexicalError) Unwrap() error {
	return e.Err
}

// SyntaxError is reported when a sequence of tokens does not match any
// alternative of the grammar. Expected describes what the parser was looking
// for and Found describes the token it got instead.
type SyntaxError struct {
	Pos      ast.SourcePos
	Expected string
	Found    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: syntax error: expected %s, found %s", e.Pos, e.Expected, e.Found)
}

// GetPosition implements the ErrorWithPos interface.
func (e *SyntaxError) GetPosition() ast.SourcePos {
	return e.Pos
}

// Unwrap implements the ErrorWithPos interface. Syntax errors do not wrap
// another error.
func (e *SyntaxError) Unwrap() error {
	return nil
}

var (
	_ ErrorWithPos = errorWithSourcePos{}
	_ ErrorWithPos = (*LexicalError)(nil)
	_ ErrorWithPos = (*SyntaxError)(nil)
)
