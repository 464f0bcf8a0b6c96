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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bufbuild/protoidl/internal/astyaml"
	"github.com/bufbuild/protoidl/internal/corpora"
	"github.com/bufbuild/protoidl/reporter"
)

func TestCorpus(t *testing.T) {
	t.Parallel()

	corpus := corpora.Corpus{
		Root:      "testdata",
		Refresh:   "PROTOIDL_REFRESH",
		Extension: "proto",
		Outputs: []corpora.Output{
			{Extension: "yaml", Compare: corpora.CompareYAML},
			{Extension: "stderr"},
		},
	}

	corpus.Run(t, func(t *testing.T, path, text string, outputs []string) {
		handler := reporter.NewHandler(reporter.CollectAll())
		file, _ := Parse(path, strings.NewReader(text), handler)

		dump, err := astyaml.Marshal(file)
		require.NoError(t, err)
		outputs[0] = dump

		if diags := handler.Diagnostics(); len(diags) > 0 {
			outputs[1] = strings.Join(diags.Strings(), "\n") + "\n"
		}
	})
}
