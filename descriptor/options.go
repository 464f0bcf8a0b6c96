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

package descriptor

import (
	"math"
	"strconv"
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/bufbuild/protoidl/ast"
	"github.com/bufbuild/protoidl/parser"
)

// fieldOptions stores options on fdp. The default and json_name
// pseudo-options set the corresponding descriptor fields instead of being
// recorded as options.
func fieldOptions(fdp *descriptorpb.FieldDescriptorProto, options []ast.CompactOption) {
	var uninterpreted []*descriptorpb.UninterpretedOption
	for _, opt := range options {
		if opt, ok := opt.(*ast.Option); ok {
			switch opt.Name {
			case "default":
				fdp.DefaultValue = addr(defaultValue(fdp, opt.Value))
				continue
			case "json_name":
				if name, err := parser.UnquoteString(opt.Value); err == nil {
					fdp.JsonName = addr(name)
					continue
				}
			}
		}
		uninterpreted = append(uninterpreted, compactOption(opt))
	}
	if len(uninterpreted) > 0 {
		fdp.Options = &descriptorpb.FieldOptions{UninterpretedOption: uninterpreted}
	}
}

func compactOptions(options []ast.CompactOption) []*descriptorpb.UninterpretedOption {
	var uninterpreted []*descriptorpb.UninterpretedOption
	for _, opt := range options {
		uninterpreted = append(uninterpreted, compactOption(opt))
	}
	return uninterpreted
}

func compactOption(opt ast.CompactOption) *descriptorpb.UninterpretedOption {
	switch opt := opt.(type) {
	case *ast.Option:
		return uninterpretedOption(opt.Name, opt.Value)
	case *ast.MessageLiteralWithBraces:
		fields := make([]string, len(opt.Fields))
		for i, field := range opt.Fields {
			fields[i] = field.Name + ": " + field.Value
		}
		return &descriptorpb.UninterpretedOption{
			Name:           optionName(opt.Name),
			AggregateValue: addr(strings.Join(fields, " ")),
		}
	default:
		return &descriptorpb.UninterpretedOption{}
	}
}

// uninterpretedOption builds an option from its name and the source text of
// its value, classifying the value the way protoc does.
func uninterpretedOption(name, value string) *descriptorpb.UninterpretedOption {
	opt := &descriptorpb.UninterpretedOption{Name: optionName(name)}
	value = strings.TrimSpace(value)
	switch {
	case value == "":
	case value[0] == '{':
		agg := strings.TrimSuffix(strings.TrimPrefix(value, "{"), "}")
		opt.AggregateValue = addr(strings.TrimSpace(agg))
	case value[0] == '"' || value[0] == '\'':
		if s, err := parser.UnquoteString(value); err == nil {
			opt.StringValue = []byte(s)
		}
	case value[0] == '-' || value[0] == '+':
		negative := value[0] == '-'
		number := strings.TrimSpace(value[1:])
		if isNumber(number) {
			setNumber(opt, number, negative)
			break
		}
		switch number {
		case "inf":
			opt.DoubleValue = addr(math.Inf(sign(negative)))
		case "nan":
			opt.DoubleValue = addr(math.NaN())
		default:
			opt.IdentifierValue = addr(value)
		}
	case isNumber(value):
		setNumber(opt, value, false)
	default:
		opt.IdentifierValue = addr(value)
	}
	return opt
}

func isNumber(text string) bool {
	return text != "" && (text[0] == '.' || (text[0] >= '0' && text[0] <= '9'))
}

// setNumber stores a numeric literal as a positive or negative integer,
// falling back to a double when it is a float or does not fit in 64 bits.
func setNumber(opt *descriptorpb.UninterpretedOption, text string, negative bool) {
	if !isFloat(text) {
		if v, err := strconv.ParseUint(text, 0, 64); err == nil {
			switch {
			case !negative:
				opt.PositiveIntValue = addr(v)
				return
			case v <= 1<<63:
				opt.NegativeIntValue = addr(-int64(v-1) - 1)
				return
			}
		}
	}
	v, err := parseFloat(text)
	if err != nil {
		return
	}
	if negative {
		v = -v
	}
	opt.DoubleValue = addr(v)
}

func isFloat(text string) bool {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		return false
	}
	return strings.ContainsAny(text, ".eE")
}

func parseFloat(text string) (float64, error) {
	if !isFloat(text) {
		v, err := strconv.ParseUint(text, 0, 64)
		if err == nil {
			return float64(v), nil
		}
		if len(text) > 1 && text[0] == '0' {
			// ParseFloat would misread hex and octal
			return 0, err
		}
	}
	return strconv.ParseFloat(text, 64)
}

func sign(negative bool) int {
	if negative {
		return -1
	}
	return 1
}

// optionName splits an option name such as "(foo.bar).baz" into its parts.
// A parenthesized part is an extension name and keeps any leading dot.
func optionName(name string) []*descriptorpb.UninterpretedOption_NamePart {
	name = strings.Join(strings.Fields(name), "")
	var parts []*descriptorpb.UninterpretedOption_NamePart
	for name != "" {
		if name[0] == '(' {
			end := strings.IndexByte(name, ')')
			if end < 0 {
				end = len(name)
			}
			parts = append(parts, &descriptorpb.UninterpretedOption_NamePart{
				NamePart:    addr(name[1:end]),
				IsExtension: addr(true),
			})
			name = strings.TrimPrefix(name[min(end+1, len(name)):], ".")
			continue
		}
		end := strings.IndexAny(name, ".(")
		if end < 0 {
			end = len(name)
		}
		parts = append(parts, &descriptorpb.UninterpretedOption_NamePart{
			NamePart:    addr(name[:end]),
			IsExtension: addr(false),
		})
		name = strings.TrimPrefix(name[end:], ".")
	}
	return parts
}

// defaultValue renders the value of a default pseudo-option in the form
// descriptors use: strings are unquoted, bytes are C-escaped, integers are
// decimal, and special float values are spelled inf, -inf and nan.
func defaultValue(fdp *descriptorpb.FieldDescriptorProto, text string) string {
	text = strings.TrimSpace(text)
	if text != "" && (text[0] == '"' || text[0] == '\'') {
		s, err := parser.UnquoteString(text)
		if err != nil {
			return text
		}
		if fdp.GetType() == descriptorpb.FieldDescriptorProto_TYPE_BYTES {
			return cEscape(s)
		}
		return s
	}

	text = strings.TrimPrefix(strings.Join(strings.Fields(text), ""), "+")
	negative := strings.HasPrefix(text, "-")
	number := strings.TrimPrefix(text, "-")
	switch {
	case number == "nan":
		return "nan"
	case number == "inf", !isNumber(number):
		return text
	}

	switch fdp.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		v, err := parseFloat(number)
		if err != nil {
			return text
		}
		if negative {
			v = -v
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		if isFloat(number) {
			return text
		}
		v, err := strconv.ParseUint(number, 0, 64)
		if err != nil {
			return text
		}
		if negative {
			return "-" + strconv.FormatUint(v, 10)
		}
		return strconv.FormatUint(v, 10)
	}
}

// cEscape escapes bytes the way protoc's CEscape does.
func cEscape(s string) string {
	var buf strings.Builder
	for i := range len(s) {
		c := s[i]
		switch c {
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '"':
			buf.WriteString(`\"`)
		case '\'':
			buf.WriteString(`\'`)
		case '\\':
			buf.WriteString(`\\`)
		default:
			if c < 0x20 || c >= 0x7f {
				buf.WriteByte('\\')
				buf.WriteByte('0' + c>>6)
				buf.WriteByte('0' + (c>>3)&7)
				buf.WriteByte('0' + c&7)
			} else {
				buf.WriteByte(c)
			}
		}
	}
	return buf.String()
}
