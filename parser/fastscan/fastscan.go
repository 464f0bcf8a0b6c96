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

// Package fastscan finds the package and imports of a proto source file
// without parsing it. It is meant for building dependency graphs ahead of a
// full parse, so it never reports syntax errors: whatever it can make sense of
// is returned.
package fastscan

import (
	"io"
	"strings"
)

var closeSymbol = map[tokenType]tokenType{
	openParenToken:   closeParenToken,
	openBraceToken:   closeBraceToken,
	openBracketToken: closeBracketToken,
	openAngleToken:   closeAngleToken,
}

// Import is an import statement found by Scan.
type Import struct {
	// The imported path, with quotes removed and escapes processed.
	Path   string
	Weak   bool
	Public bool
}

// Result is the result of scanning a proto source file.
type Result struct {
	PackageName string
	Imports     []Import
}

// ImportPaths returns the paths of all imports, in the order they appear.
func (r Result) ImportPaths() []string {
	paths := make([]string, len(r.Imports))
	for i, imp := range r.Imports {
		paths[i] = imp.Path
	}
	return paths
}

// Scan reads proto source from r and returns the package and imports it
// declares. Only top-level statements count: an identifier named "import"
// inside a message body is not an import. It returns an error only if
// reading from r fails, in which case the result holds what was found
// before the failure.
func Scan(r io.Reader) (Result, error) {
	var res Result

	var currentImport *Import      // if non-nil, parsing an import statement
	var importParts []string       // adjacent string literals of currentImport
	var packageComponents []string // if non-nil, parsing a package statement

	// current stack of open blocks -- those starting with {, [, (, or < for
	// which we haven't yet encountered the closing }, ], ), or >
	var contextStack []tokenType
	declarationStart := true

	lexer := newLexer(r)
	for {
		token, text, err := lexer.Lex()
		if err != nil {
			return res, err
		}
		if token == eofToken {
			return res, nil
		}

		if currentImport != nil {
			switch {
			case token == stringToken:
				importParts = append(importParts, text)
			case token == identifierToken && len(importParts) == 0 && text == "weak":
				currentImport.Weak = true
			case token == identifierToken && len(importParts) == 0 && text == "public":
				currentImport.Public = true
			default:
				if len(importParts) > 0 {
					currentImport.Path = strings.Join(importParts, "")
					res.Imports = append(res.Imports, *currentImport)
				}
				currentImport, importParts = nil, nil
			}
		}

		if packageComponents != nil {
			switch token {
			case identifierToken:
				packageComponents = append(packageComponents, text)
			case periodToken:
				packageComponents = append(packageComponents, ".")
			default:
				if len(packageComponents) > 0 {
					res.PackageName = strings.Join(packageComponents, "")
				}
				packageComponents = nil
			}
		}

		switch token {
		case openParenToken, openBraceToken, openBracketToken, openAngleToken:
			contextStack = append(contextStack, closeSymbol[token])
		case closeParenToken, closeBraceToken, closeBracketToken, closeAngleToken:
			if len(contextStack) > 0 && contextStack[len(contextStack)-1] == token {
				contextStack = contextStack[:len(contextStack)-1]
			}
		case identifierToken:
			if declarationStart && len(contextStack) == 0 {
				switch text {
				case "import":
					currentImport = &Import{}
				case "package":
					packageComponents = []string{}
				}
			}
		}

		declarationStart = token == closeBraceToken || token == semicolonToken
	}
}
