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

// Package parser contains the logic for parsing protobuf source code into an
// AST (abstract syntax tree).
//
// The parser is a hand-written recursive descent parser with one function per
// grammar production. It does not resolve names or validate semantics: type
// names, option values and ranges come back as the text that appeared in the
// source, and a file that declares the same field number twice parses without
// complaint.
//
// Errors are sent to a [reporter.Handler]. If the handler's reporter returns
// nil for an error, the parser resynchronizes at the next statement boundary
// and keeps going, so a single parse can report every problem in a file. The
// returned AST is always non-nil, but after errors it only contains the
// declarations that could be recovered.
package parser
