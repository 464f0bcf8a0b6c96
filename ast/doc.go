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

// Package ast defines types for modeling the AST (Abstract Syntax
// Tree) for the protocol buffers source language.
//
// All nodes of the tree implement the Element interface. The set of
// implementations is closed: Element has an unexported method, so only the
// types in this package satisfy it, and consumers are expected to use a type
// switch (or Element.Kind) over the variants defined here. The root of the
// tree for a proto source file is a *File.
//
// The AST is shallow. Names, type references, option values and
// range expressions are stored as the verbatim (whitespace-trimmed) source
// text that produced them; only field and enum value numbers are converted to
// integers. Nothing is resolved: a field's type is the text that appeared in
// the source, not a reference to a message or enum.
//
// Comments are modeled as *Comment elements that appear in the element list
// of the enclosing body (or of the file), in source order. Comments that
// appear in the middle of a declaration (for example between a field's type
// and its name) are not retained.
//
// Elements are constructed once by the parser and should be treated as
// immutable afterwards. Each element exclusively owns its children; there are
// no back-references, so the tree may be shared freely between goroutines.
package ast
