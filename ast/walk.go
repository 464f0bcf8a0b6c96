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

package ast

import "fmt"

// Children returns the direct children of the given element, in source order.
// For fields and enum values, the children are their compact options. For a
// method, the input and output types come first, followed by the body
// elements.
func Children(e Element) []Element {
	switch e := e.(type) {
	case *File:
		return e.Elements
	case *Message:
		return e.Elements
	case *Field:
		return compactOptions(e.Options)
	case *MapField:
		return compactOptions(e.Options)
	case *Group:
		children := compactOptions(e.Options)
		return append(children, e.Elements...)
	case *OneOf:
		return e.Elements
	case *ExtensionRange:
		return compactOptions(e.Options)
	case *Enum:
		return e.Elements
	case *EnumValue:
		return compactOptions(e.Options)
	case *Extension:
		return e.Elements
	case *Service:
		return e.Elements
	case *Method:
		children := make([]Element, 0, 2+len(e.Elements))
		if e.InputType != nil {
			children = append(children, e.InputType)
		}
		if e.OutputType != nil {
			children = append(children, e.OutputType)
		}
		return append(children, e.Elements...)
	case *MessageLiteralWithBraces:
		children := make([]Element, len(e.Fields))
		for i, f := range e.Fields {
			children[i] = f
		}
		return children
	case *Comment, *Package, *Import, *Option, *Reserved, *EnumReserved,
		*MessageType, *MessageLiteralField:
		return nil
	default:
		panic(fmt.Sprintf("invalid Element type: %T", e))
	}
}

func compactOptions(opts []CompactOption) []Element {
	if len(opts) == 0 {
		return nil
	}
	elems := make([]Element, len(opts))
	for i, opt := range opts {
		elems[i] = opt
	}
	return elems
}

// Walk conducts a pre-order walk of the AST rooted at root: fn is called for
// an element before it is called for that element's descendants. If fn
// returns false, the children of that element are skipped.
func Walk(root Element, fn func(Element) bool) {
	if !fn(root) {
		return
	}
	for _, child := range Children(root) {
		Walk(child, fn)
	}
}

// Collect returns every element of type T in the tree rooted at root, in
// pre-order.
func Collect[T Element](root Element) []T {
	var found []T
	Walk(root, func(e Element) bool {
		if t, ok := e.(T); ok {
			found = append(found, t)
		}
		return true
	})
	return found
}
