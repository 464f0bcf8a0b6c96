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

package corpora

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareText(t *testing.T) {
	t.Parallel()
	assert.Empty(t, CompareText("a\nb\n", "a\nb\n"))

	diff := CompareText("a\nc\n", "a\nb\n")
	assert.Contains(t, diff, "--- want")
	assert.Contains(t, diff, "+++ got")
	assert.Contains(t, diff, "-b")
	assert.Contains(t, diff, "+c")
}

func TestCompareYAML(t *testing.T) {
	t.Parallel()
	assert.Empty(t, CompareYAML("a: 1\nb: [x, 'y']\n", "b:\n  - \"x\"\n  - y\na: 1\n"))
	assert.Empty(t, CompareYAML("", ""))

	assert.NotEmpty(t, CompareYAML("a: 1\n", "a: \"1\"\n"))
	assert.NotEmpty(t, CompareYAML("a: 1\n", ""))
	assert.Contains(t, CompareYAML("a: [\n", "a: 1\n"), "could not parse output")
}
