/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"snilstudio/internal/render"
	"snilstudio/internal/script"
)

// WriteDOT renders all sections as one Graphviz digraph, each section in
// its own cluster so external tooling can lay the whole script out.
func WriteDOT(w *bytes.Buffer, sections []script.Section, reg *render.Registry) error {
	if reg == nil {
		reg = render.NewRegistry()
	}
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(w, format, args...)
	}

	wf("digraph script {\n")
	wf("  rankdir=LR;\n")
	wf("  node [shape=box, style=rounded, fontname=\"sans-serif\"];\n")
	for si, sec := range sections {
		wf("  subgraph cluster_%d {\n", si)
		wf("    label=%q;\n", sec.Name)
		for _, n := range sec.Nodes {
			attrs := ""
			switch reg.Resolve(n) {
			case render.StrategyCondition:
				attrs = ", shape=diamond, style=\"\""
			case render.StrategyVariant:
				attrs = ", style=\"rounded,bold\""
			}
			first, _, _ := strings.Cut(n.Content, "\n")
			wf("    s%d_%s [label=%q%s];\n", si, n.ID, truncate(first, 40), attrs)
		}
		for _, e := range sec.Edges {
			wf("    s%d_%s -> s%d_%s;\n", si, e.From, si, e.To)
		}
		wf("  }\n")
	}
	wf("}\n")
	return werr
}

// ExportDOT writes the whole script graph to a single .dot file.
func ExportDOT(sections []script.Section, outPath string, reg *render.Registry) error {
	var buf bytes.Buffer
	if err := WriteDOT(&buf, sections, reg); err != nil {
		return err
	}
	return os.WriteFile(outPath, buf.Bytes(), 0o644)
}
