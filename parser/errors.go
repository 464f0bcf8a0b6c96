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

	"github.com/bufbuild/protoidl/ast"
)

// ErrNoSyntax is a sentinel error that may be passed to a warning reporter.
// The error the reporter receives will be wrapped with source position that
// indicates the file that had no syntax statement.
var ErrNoSyntax = errors.New("no syntax specified")

// ErrMaxDepth is wrapped by the error reported when declarations or message
// literals are nested more deeply than the parser allows. The offending block
// is skipped.
var ErrMaxDepth = errors.New("maximum nesting depth exceeded")

// InternalError is the value the parser panics with when it reaches a state
// that no input should be able to produce. It is never reported as a
// diagnostic: seeing one means the parser itself is broken.
type InternalError struct {
	Pos ast.SourcePos
	Msg string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: internal error: %s; this is a bug in the parser", e.Pos, e.Msg)
}
