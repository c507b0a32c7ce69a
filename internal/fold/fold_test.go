/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fold

import "testing"

func TestComputeFunctionEndPairs(t *testing.T) {
	lines := []string{"function Greet", "show bob", "end", "call Greet", "wait 1", "end"}
	r := Compute(lines)
	if r[0] != 2 {
		t.Fatalf("expected function fold 0..2, got %+v", r)
	}
	if r[3] != 5 {
		t.Fatalf("expected call fold 3..5, got %+v", r)
	}
}

func TestComputeNestedFunctionFolds(t *testing.T) {
	lines := []string{"function Outer", "call Inner", "end", "end"}
	r := Compute(lines)
	// Stack discipline: the inner start pops first.
	if r[1] != 2 || r[0] != 3 {
		t.Fatalf("expected nested folds {1:2, 0:3}, got %+v", r)
	}
}

func TestComputeUnmatchedEndIgnored(t *testing.T) {
	r := Compute([]string{"end", "endif", "show bob"})
	if len(r) != 0 {
		t.Fatalf("unmatched terminators must not emit ranges, got %+v", r)
	}
}

func TestComputeIfShowVariantPairs(t *testing.T) {
	lines := []string{"If Show Variant 2", "true:", "A", "endif"}
	r := Compute(lines)
	if r[0] != 3 {
		t.Fatalf("expected variant fold 0..3, got %+v", r)
	}
}

func TestComputeEndifDoesNotCloseFunction(t *testing.T) {
	lines := []string{"function Greet", "endif", "end"}
	r := Compute(lines)
	if r[0] != 2 {
		t.Fatalf("endif must not pop the function stack, got %+v", r)
	}
}

func TestComputeNameHeaderBlock(t *testing.T) {
	lines := []string{"name: Intro", "show bob", "Hello", "---", "name: Next", "bar"}
	r := Compute(lines)
	if r[0] != 2 {
		t.Fatalf("expected header fold 0..2 stopping at separator, got %+v", r)
	}
	if r[4] != 5 {
		t.Fatalf("expected header fold 4..5 running to end of document, got %+v", r)
	}
}

func TestComputeNameHeaderStopsAtNextHeader(t *testing.T) {
	lines := []string{"name: A", "foo", "name: B", "bar"}
	r := Compute(lines)
	if r[0] != 1 {
		t.Fatalf("expected fold 0..1 stopping at next header, got %+v", r)
	}
	if r[2] != 3 {
		t.Fatalf("expected fold 2..3, got %+v", r)
	}
}

func TestComputeNameHeaderNeedsContent(t *testing.T) {
	r := Compute([]string{"name: A", "---", "foo"})
	if _, ok := r[0]; ok {
		t.Fatalf("header directly followed by separator must not fold, got %+v", r)
	}
}

func TestToggleRoundTrip(t *testing.T) {
	s := NewState()
	s.Recompute([]string{"function F", "x", "end"})
	if s.IsFolded(0) {
		t.Fatalf("fresh state must be unfolded")
	}
	if !s.Toggle(0) {
		t.Fatalf("first toggle should fold")
	}
	if s.Toggle(0) {
		t.Fatalf("second toggle should unfold")
	}
	if s.IsFolded(0) {
		t.Fatalf("double toggle must restore original state")
	}
}

func TestToggleUnknownLineNoop(t *testing.T) {
	s := NewState()
	s.Recompute([]string{"function F", "x", "end"})
	if s.Toggle(1) {
		t.Fatalf("toggle on a non-start line must be a no-op")
	}
	if len(s.Folded()) != 0 {
		t.Fatalf("folded set must stay empty, got %v", s.Folded())
	}
}

func TestRecomputePrunesStaleFolds(t *testing.T) {
	s := NewState()
	s.Recompute([]string{"function F", "x", "end"})
	s.Toggle(0)
	if !s.IsFolded(0) {
		t.Fatalf("expected line 0 folded")
	}
	// Remove the lines that produced the range.
	s.Recompute([]string{"show bob"})
	if _, ok := s.Range(0); ok {
		t.Fatalf("stale range must disappear after recompute")
	}
	if s.IsFolded(0) {
		t.Fatalf("stale folded key must be pruned")
	}
}

func TestHiddenLines(t *testing.T) {
	s := NewState()
	s.Recompute([]string{"function F", "a", "b", "end", "after"})
	s.Toggle(0)
	hidden := s.HiddenLines()
	for _, i := range []int{1, 2, 3} {
		if _, ok := hidden[i]; !ok {
			t.Fatalf("expected line %d hidden, got %v", i, hidden)
		}
	}
	if _, ok := hidden[0]; ok {
		t.Fatalf("fold start line must stay visible")
	}
	if _, ok := hidden[4]; ok {
		t.Fatalf("line after the range must stay visible")
	}
}

func TestNameHeaderWinsOverlappingStart(t *testing.T) {
	// A line is never both a header and a function start, but a header
	// range computed last must overwrite any earlier range on the same
	// start key.
	lines := []string{"name: A", "function F", "end", "tail"}
	r := Compute(lines)
	if r[0] != 3 {
		t.Fatalf("expected header range to span to end of document, got %+v", r)
	}
	if r[1] != 2 {
		t.Fatalf("expected function fold 1..2, got %+v", r)
	}
}
