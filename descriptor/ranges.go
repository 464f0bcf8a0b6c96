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
)

const (
	messageRangeMax = 536870911
	enumRangeMax    = math.MaxInt32
)

func extensionRanges(decl *ast.ExtensionRange) []*descriptorpb.DescriptorProto_ExtensionRange {
	var ranges []*descriptorpb.DescriptorProto_ExtensionRange
	for _, text := range decl.Ranges {
		start, end, ok := parseMessageRange(text)
		if !ok {
			continue
		}
		er := &descriptorpb.DescriptorProto_ExtensionRange{
			Start: addr(start),
			End:   addr(end + 1), // Exclusive.
		}
		// every range gets its own copy of the options
		if opts := compactOptions(decl.Options); len(opts) > 0 {
			er.Options = &descriptorpb.ExtensionRangeOptions{UninterpretedOption: opts}
		}
		ranges = append(ranges, er)
	}
	return ranges
}

// parseMessageRange is like parseRange, with max meaning the largest field
// number. It also reports false if end+1 would overflow, since message ranges
// are stored with an exclusive end.
func parseMessageRange(text string) (start, end int32, ok bool) {
	start, end, ok = parseRange(text, messageRangeMax)
	return start, end, ok && end < math.MaxInt32
}

// parseRange parses the source text of a range, such as "5", "-3 to 7" or
// "100 to max", returning inclusive bounds. It reports false if either bound
// is not an integer that fits in 32 bits.
func parseRange(text string, maxValue int32) (start, end int32, ok bool) {
	lo, hi, isRange := strings.Cut(text, "to")
	start, ok = parseBound(lo)
	if !ok {
		return 0, 0, false
	}
	if !isRange {
		return start, start, true
	}
	hi = strings.Join(strings.Fields(hi), "")
	if hi == "max" {
		return start, maxValue, true
	}
	end, ok = parseBound(hi)
	return start, end, ok
}

func parseBound(text string) (int32, bool) {
	text = strings.Join(strings.Fields(text), "")
	v, err := strconv.ParseInt(text, 0, 32)
	if err != nil {
		return 0, false
	}
	return int32(v), true
}
