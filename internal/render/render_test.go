/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"testing"

	"snilstudio/internal/script"
)

func TestResolveStockMappings(t *testing.T) {
	r := NewRegistry()
	cases := []struct {
		node script.Node
		want Strategy
	}{
		{script.Node{Type: script.TypeShow, Content: "show bob"}, StrategyStandard},
		{script.Node{Type: script.TypeDialogue, Content: "Hello"}, StrategyStandard},
		{script.Node{Type: script.TypeCondition, Content: "if x > 1"}, StrategyCondition},
		{script.Node{Type: "conditional", Content: "branch"}, StrategyCondition},
		{script.Node{Type: script.TypeIfShowVariant, Content: "If Show Variant 2"}, StrategyVariant},
	}
	for _, c := range cases {
		if got := r.Resolve(c.node); got != c.want {
			t.Fatalf("type %q: expected %q, got %q", c.node.Type, c.want, got)
		}
	}
}

func TestResolveContentSniffOverridesType(t *testing.T) {
	r := NewRegistry()
	n := script.Node{Type: script.TypeDialogue, Content: "If Show Variant 3\nA\nB"}
	if got := r.Resolve(n); got != StrategyVariant {
		t.Fatalf("variant markers in content must win, got %q", got)
	}
	n = script.Node{Type: script.TypeShow, Content: "variants: red, blue"}
	if got := r.Resolve(n); got != StrategyVariant {
		t.Fatalf("variants: marker must win, got %q", got)
	}
}

func TestResolveUnknownTypeFallsBack(t *testing.T) {
	r := NewRegistry()
	n := script.Node{Type: "mystery", Content: "???"}
	if got := r.Resolve(n); got != StrategyStandard {
		t.Fatalf("unknown types fall back to standard, got %q", got)
	}
}

func TestRegisterReplacesMapping(t *testing.T) {
	r := NewRegistry()
	r.Register(script.TypeShow, StrategyCondition)
	n := script.Node{Type: script.TypeShow, Content: "show bob"}
	if got := r.Resolve(n); got != StrategyCondition {
		t.Fatalf("registered override must win, got %q", got)
	}
}

func TestSizeVariantGrowsWithOptions(t *testing.T) {
	r := NewRegistry()
	small := script.Node{Type: script.TypeIfShowVariant, Content: "If Show Variant 2"}
	if h := r.Size(small).Height; h != variantMinHeight {
		t.Fatalf("expected minimum variant height, got %v", h)
	}
	big := script.Node{
		Type:    script.TypeIfShowVariant,
		Content: "If Show Variant 8\nA\nB\nC\nD\nE\nF\nG\nH",
	}
	want := float64(headerHeight + 8*variantRowHeight)
	if h := r.Size(big).Height; h != want {
		t.Fatalf("expected grown height %v, got %v", want, h)
	}
}

func TestSizeStandard(t *testing.T) {
	r := NewRegistry()
	h := r.Size(script.Node{Type: script.TypeShow, Content: "show bob"})
	if h.Width != nodeWidth || h.Height != nodeHeight {
		t.Fatalf("unexpected standard hints %+v", h)
	}
}

func TestLabel(t *testing.T) {
	cases := []struct {
		node script.Node
		want string
	}{
		{script.Node{Type: script.TypeIfShowVariant, Content: "x"}, "If Show Variant"},
		{script.Node{Type: script.TypeShow, Content: "show bob"}, "Show"},
		{script.Node{Type: script.TypeDialogue, Content: "Bob: hi"}, "Bob"},
		{script.Node{Type: script.TypeDialogue, Content: "just text"}, "Dialogue"},
	}
	for _, c := range cases {
		if got := Label(c.node); got != c.want {
			t.Fatalf("node %+v: expected label %q, got %q", c.node, c.want, got)
		}
	}
}
