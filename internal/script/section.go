/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"fmt"
	"regexp"
	"strings"
)

// Separator delimits sections in a document. The split is exact: the
// separator must sit on its own line.
const Separator = "\n---\n"

var reSectionName = regexp.MustCompile(`(?im)^name:\s*(.+)$`)

// Parse splits a whole document into sections and builds each section's
// graph independently. Blocks that trim to nothing are discarded, not
// emitted as placeholders. A section is named by the first "name:" header
// found anywhere in its block, else "Section N" where N counts only the
// emitted sections.
func Parse(document string, rs *Ruleset) []Section {
	var out []Section
	for _, raw := range strings.Split(document, Separator) {
		block := strings.TrimSpace(raw)
		if block == "" {
			continue
		}
		name := ""
		if m := reSectionName.FindStringSubmatch(block); m != nil {
			name = strings.TrimSpace(m[1])
		}
		if name == "" {
			name = fmt.Sprintf("Section %d", len(out)+1)
		}
		nodes, edges := BuildGraph(strings.Split(block, "\n"), rs)
		out = append(out, Section{Name: name, Nodes: nodes, Edges: edges})
	}
	return out
}
