/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "testing"

func hasEdge(edges []Edge, from, to string) bool {
	for _, e := range edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

func nodeByContent(t *testing.T, nodes []Node, content string) Node {
	t.Helper()
	for _, n := range nodes {
		if n.Content == content {
			return n
		}
	}
	t.Fatalf("no node with content %q in %+v", content, nodes)
	return Node{}
}

func TestBuildGraphSequentialFlow(t *testing.T) {
	nodes, edges := BuildGraph([]string{"show bob", "Hello!", "wait 2", "jump to End"}, nil)
	if len(nodes) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(nodes))
	}
	wantTypes := []string{TypeShow, TypeDialogue, TypeWait, TypeJump}
	for i, n := range nodes {
		if n.Type != wantTypes[i] {
			t.Fatalf("node %d: expected type %q, got %q", i, wantTypes[i], n.Type)
		}
	}
	if len(edges) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(edges))
	}
	for i := 0; i+1 < len(nodes); i++ {
		if !hasEdge(edges, nodes[i].ID, nodes[i+1].ID) {
			t.Fatalf("missing edge %s -> %s", nodes[i].ID, nodes[i+1].ID)
		}
	}
}

func TestBuildGraphNodeIDsUniqueAndOrdered(t *testing.T) {
	lines := []string{"A", "if X", "true:", "B", "false:", "C", "endif", "D", "if Y", "endif", "E"}
	nodes, _ := BuildGraph(lines, nil)
	seen := map[string]bool{}
	for i, n := range nodes {
		if seen[n.ID] {
			t.Fatalf("duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
		want := "n_" + string(rune('0'+i))
		if n.ID != want {
			t.Fatalf("node %d: expected id %q, got %q", i, want, n.ID)
		}
	}
}

func TestBuildGraphEdgeReferentialIntegrity(t *testing.T) {
	lines := []string{"A", "if X", "true:", "B", "endif", "C", "if Y", "false:", "D", "endif"}
	nodes, edges := BuildGraph(lines, nil)
	ids := map[string]bool{}
	for _, n := range nodes {
		ids[n.ID] = true
	}
	for _, e := range edges {
		if !ids[e.From] || !ids[e.To] {
			t.Fatalf("edge %+v references a node outside the section", e)
		}
	}
}

func TestBuildGraphConditionalFanInFanOut(t *testing.T) {
	nodes, edges := BuildGraph([]string{"if X", "true:", "A", "false:", "B", "endif", "C"}, nil)
	if len(nodes) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(nodes))
	}
	cond := nodes[0]
	if cond.Type != TypeIfShowVariant {
		t.Fatalf("expected condition node first, got %+v", cond)
	}
	a := nodeByContent(t, nodes, "A")
	b := nodeByContent(t, nodes, "B")
	c := nodeByContent(t, nodes, "C")
	want := []Edge{{cond.ID, a.ID}, {cond.ID, b.ID}, {a.ID, c.ID}, {b.ID, c.ID}}
	if len(edges) != len(want) {
		t.Fatalf("expected %d edges, got %+v", len(want), edges)
	}
	for _, e := range want {
		if !hasEdge(edges, e.From, e.To) {
			t.Fatalf("missing edge %+v in %+v", e, edges)
		}
	}
}

func TestBuildGraphEmptyFalseBranchJoinsFromCondition(t *testing.T) {
	nodes, edges := BuildGraph([]string{"if X", "true:", "A", "endif", "C"}, nil)
	cond := nodes[0]
	a := nodeByContent(t, nodes, "A")
	c := nodeByContent(t, nodes, "C")
	want := []Edge{{cond.ID, a.ID}, {a.ID, c.ID}, {cond.ID, c.ID}}
	if len(edges) != len(want) {
		t.Fatalf("expected %d edges, got %+v", len(want), edges)
	}
	for _, e := range want {
		if !hasEdge(edges, e.From, e.To) {
			t.Fatalf("missing edge %+v in %+v", e, edges)
		}
	}
}

func TestBuildGraphPrecedingNodeLinksToCondition(t *testing.T) {
	nodes, edges := BuildGraph([]string{"show bob", "if X", "true:", "A", "endif"}, nil)
	show := nodes[0]
	cond := nodes[1]
	if cond.Type != TypeIfShowVariant {
		t.Fatalf("expected condition node second, got %+v", cond)
	}
	if !hasEdge(edges, show.ID, cond.ID) {
		t.Fatalf("missing edge from preceding node to condition: %+v", edges)
	}
}

func TestBuildGraphTrailingConditionalIsTerminal(t *testing.T) {
	nodes, edges := BuildGraph([]string{"if X", "true:", "A", "false:", "B", "endif"}, nil)
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	a := nodeByContent(t, nodes, "A")
	b := nodeByContent(t, nodes, "B")
	for _, e := range edges {
		if e.From == a.ID || e.From == b.ID {
			t.Fatalf("branch tails must have no outgoing edges, got %+v", e)
		}
	}
}

func TestBuildGraphBothBranchesEmpty(t *testing.T) {
	nodes, edges := BuildGraph([]string{"if X", "endif"}, nil)
	if len(nodes) != 1 {
		t.Fatalf("expected single condition node, got %+v", nodes)
	}
	if len(edges) != 0 {
		t.Fatalf("expected no edges, got %+v", edges)
	}

	// Anything following fans in from the condition node itself.
	nodes, edges = BuildGraph([]string{"if X", "endif", "C"}, nil)
	cond := nodes[0]
	c := nodeByContent(t, nodes, "C")
	if !hasEdge(edges, cond.ID, c.ID) {
		t.Fatalf("expected condition to join into following node, got %+v", edges)
	}
}

func TestBuildGraphConsecutiveConditionalsAccumulateJoins(t *testing.T) {
	lines := []string{"if X", "true:", "A", "endif", "if Y", "true:", "B", "endif", "C"}
	nodes, edges := BuildGraph(lines, nil)
	c := nodeByContent(t, nodes, "C")
	var into []string
	for _, e := range edges {
		if e.To == c.ID {
			into = append(into, e.From)
		}
	}
	// Tails of both conditionals (branch node or condition) all join into C.
	if len(into) != 4 {
		t.Fatalf("expected 4 join edges into C, got %v", into)
	}
}

func TestBuildGraphIgnorePrecedence(t *testing.T) {
	// "name:" headers match both the ignore list and no type rule; the
	// ignore list wins and no node is created.
	nodes, _ := BuildGraph([]string{"name: Intro", "show bob"}, nil)
	if len(nodes) != 1 {
		t.Fatalf("ignored line must not produce a node, got %+v", nodes)
	}
	if nodes[0].Content != "show bob" {
		t.Fatalf("unexpected surviving node %+v", nodes[0])
	}
}

func TestBuildGraphEmptyInput(t *testing.T) {
	nodes, edges := BuildGraph(nil, nil)
	if nodes == nil || edges == nil {
		t.Fatalf("empty input must yield non-nil empty slices")
	}
	if len(nodes) != 0 || len(edges) != 0 {
		t.Fatalf("expected empty graph, got %d nodes %d edges", len(nodes), len(edges))
	}
}

func TestBuildGraphStrayConditionLinesInContent(t *testing.T) {
	lines := []string{"If Show Variant 2", "Option A", "true:", "A", "endif"}
	nodes, _ := BuildGraph(lines, nil)
	cond := nodes[0]
	if cond.Content != "If Show Variant 2\nOption A" {
		t.Fatalf("unexpected condition content %q", cond.Content)
	}
}

func TestBuildGraphMissingEndifRecovers(t *testing.T) {
	nodes, edges := BuildGraph([]string{"show bob", "if X", "true:", "A"}, nil)
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %+v", nodes)
	}
	cond := nodes[1]
	a := nodeByContent(t, nodes, "A")
	if !hasEdge(edges, cond.ID, a.ID) {
		t.Fatalf("expected condition to link into recovered branch, got %+v", edges)
	}
}
