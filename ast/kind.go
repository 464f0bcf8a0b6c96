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

// Kind identifies which variant of Element a value is.
type Kind int8

const (
	KindInvalid Kind = iota
	KindComment
	KindPackage
	KindImport
	KindOption
	KindFile
	KindMessage
	KindField
	KindMapField
	KindGroup
	KindOneOf
	KindExtensionRange
	KindReserved
	KindEnum
	KindEnumValue
	KindEnumReserved
	KindExtension
	KindService
	KindMethod
	KindMessageType
	KindMessageLiteralField
	KindMessageLiteralWithBraces
)

var kindNames = [...]string{
	KindInvalid:                  "Invalid",
	KindComment:                  "Comment",
	KindPackage:                  "Package",
	KindImport:                   "Import",
	KindOption:                   "Option",
	KindFile:                     "File",
	KindMessage:                  "Message",
	KindField:                    "Field",
	KindMapField:                 "MapField",
	KindGroup:                    "Group",
	KindOneOf:                    "OneOf",
	KindExtensionRange:           "ExtensionRange",
	KindReserved:                 "Reserved",
	KindEnum:                     "Enum",
	KindEnumValue:                "EnumValue",
	KindEnumReserved:             "EnumReserved",
	KindExtension:                "Extension",
	KindService:                  "Service",
	KindMethod:                   "Method",
	KindMessageType:              "MessageType",
	KindMessageLiteralField:      "MessageLiteralField",
	KindMessageLiteralWithBraces: "MessageLiteralWithBraces",
}

// String implements [fmt.Stringer].
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Cardinality is the multiplicity marker of a field. The zero value,
// CardinalityNone, means that no explicit keyword was present in the source.
type Cardinality int8

const (
	CardinalityNone Cardinality = iota
	CardinalityRequired
	CardinalityOptional
	CardinalityRepeated
)

// String implements [fmt.Stringer]. The names match the keywords in upper
// case, plus NONE for the implicit case.
func (c Cardinality) String() string {
	switch c {
	case CardinalityNone:
		return "NONE"
	case CardinalityRequired:
		return "REQUIRED"
	case CardinalityOptional:
		return "OPTIONAL"
	case CardinalityRepeated:
		return "REPEATED"
	default:
		return fmt.Sprintf("Cardinality(%d)", int(c))
	}
}

// CardinalityFromKeyword returns the cardinality named by the given keyword.
// The second result is false if kw is not one of "required", "optional" or
// "repeated".
func CardinalityFromKeyword(kw string) (Cardinality, bool) {
	switch kw {
	case "required":
		return CardinalityRequired, true
	case "optional":
		return CardinalityOptional, true
	case "repeated":
		return CardinalityRepeated, true
	default:
		return CardinalityNone, false
	}
}
