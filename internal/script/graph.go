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
	"strings"
)

// builder threads the section-scoped node id counter through main-line and
// branch processing so ids stay unique and strictly ordered by emission.
type builder struct {
	rs    *Ruleset
	nodes []Node
	edges []Edge
	next  int
}

func (b *builder) emit(typ, content string) string {
	id := fmt.Sprintf("n_%d", b.next)
	b.next++
	b.nodes = append(b.nodes, Node{ID: id, Type: typ, Content: content})
	return id
}

func (b *builder) link(from, to string) {
	b.edges = append(b.edges, Edge{From: from, To: to})
}

// emitBranch creates one node per non-blank branch line and chains them
// sequentially. Branch lines skip the ignore list on purpose: inside a
// conditional only blank lines are dropped.
func (b *builder) emitBranch(branch []string) []string {
	var ids []string
	for _, line := range branch {
		if line == "" {
			continue
		}
		ids = append(ids, b.emit(b.rs.Classify(line), line))
	}
	for i := 0; i+1 < len(ids); i++ {
		b.link(ids[i], ids[i+1])
	}
	return ids
}

// BuildGraph compiles one section's lines into nodes and edges. The walk
// alternates between normal lines and conditional runs:
//
//   - a normal, non-ignored line becomes a node linked from the previous
//     main-line node, or fanned in from all pending join-sources left by a
//     preceding conditional;
//   - a conditional run becomes an if_show_variant node fanning out to the
//     first node of each non-empty branch. The branch tails (or the
//     condition node itself when a branch is empty) become join-sources for
//     whatever follows.
//
// An empty input yields empty, non-nil node and edge lists.
func BuildGraph(lines []string, rs *Ruleset) ([]Node, []Edge) {
	if rs == nil {
		rs = DefaultRuleset()
	}
	trimmed := make([]string, len(lines))
	for i, l := range lines {
		trimmed[i] = strings.TrimSpace(l)
	}

	b := &builder{rs: rs, nodes: []Node{}, edges: []Edge{}}
	prev := ""
	var joins []string

	i := 0
	for i < len(trimmed) {
		line := trimmed[i]
		if !IsConditionalStart(line) {
			i++
			if rs.Ignored(line) {
				continue
			}
			id := b.emit(rs.Classify(line), line)
			if len(joins) > 0 {
				for _, j := range joins {
					b.link(j, id)
				}
			} else if prev != "" {
				b.link(prev, id)
			}
			joins = nil
			prev = id
			continue
		}

		block, next := extractConditional(trimmed, i)
		i = next
		cond := b.emit(TypeIfShowVariant, block.Condition)
		trueIDs := b.emitBranch(block.True)
		falseIDs := b.emitBranch(block.False)
		if len(trueIDs) > 0 {
			b.link(cond, trueIDs[0])
		}
		if len(falseIDs) > 0 {
			b.link(cond, falseIDs[0])
		}
		if prev != "" {
			b.link(prev, cond)
		}
		// Branch tails await the next main-line node; an empty branch
		// leaves the condition node itself as the join-source.
		trueJoin, falseJoin := cond, cond
		if len(trueIDs) > 0 {
			trueJoin = trueIDs[len(trueIDs)-1]
		}
		if len(falseIDs) > 0 {
			falseJoin = falseIDs[len(falseIDs)-1]
		}
		joins = append(joins, trueJoin, falseJoin)
		prev = ""
	}
	return b.nodes, b.edges
}
