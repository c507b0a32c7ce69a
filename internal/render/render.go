/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render picks the drawing strategy and sizing hints for graph
// nodes. The registry maps node type tags to strategies; content sniffing
// routes variant-style nodes to the variant strategy even when their type
// tag does not say so, since scripts in the wild spell branching in more
// than one way.
package render

import (
	"strings"

	"snilstudio/internal/script"
)

// Strategy names the renderer a node resolves to.
type Strategy string

const (
	StrategyStandard  Strategy = "standard"
	StrategyCondition Strategy = "condition"
	StrategyVariant   Strategy = "variant"
)

// Hints carries the layout sizing for a node, in scene units.
type Hints struct {
	Width        float64
	Height       float64
	HeaderHeight float64
}

// Default node box sizing. Variant nodes grow with their option count but
// never shrink below the minimum.
const (
	nodeWidth        = 260
	nodeHeight       = 90
	headerHeight     = 32
	variantMinHeight = 160
	variantRowHeight = 24
)

// Registry resolves node types to strategies. The zero value is not
// usable; construct with NewRegistry.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry returns a registry preloaded with the stock type mappings.
func NewRegistry() *Registry {
	r := &Registry{strategies: map[string]Strategy{}}
	for _, t := range []string{
		script.TypeStart, script.TypeEnd, script.TypeFunction,
		script.TypeJump, script.TypeWait, script.TypeShow, script.TypeDialogue,
	} {
		r.Register(t, StrategyStandard)
	}
	r.Register(script.TypeCondition, StrategyCondition)
	r.Register("conditional", StrategyCondition)
	r.Register("if", StrategyCondition)
	r.Register(script.TypeIfShowVariant, StrategyVariant)
	r.Register("variant", StrategyVariant)
	return r
}

// Register maps a node type tag to a strategy, replacing any previous
// mapping. Tags are matched case-insensitively.
func (r *Registry) Register(nodeType string, s Strategy) {
	r.strategies[strings.ToLower(nodeType)] = s
}

// Resolve returns the strategy for a node. Content sniffing runs first:
// nodes whose text carries variant markers render as variants regardless
// of their type tag. Unknown types fall back to the standard strategy.
func (r *Registry) Resolve(n script.Node) Strategy {
	lc := strings.ToLower(n.Content)
	lt := strings.ToLower(n.Type)
	if strings.Contains(lc, "if show variant") || strings.Contains(lc, "variants:") ||
		strings.Contains(lt, "variant") {
		return StrategyVariant
	}
	if s, ok := r.strategies[lt]; ok {
		return s
	}
	return StrategyStandard
}

// Size returns the sizing hints for a node under its resolved strategy.
func (r *Registry) Size(n script.Node) Hints {
	switch r.Resolve(n) {
	case StrategyVariant:
		h := float64(variantMinHeight)
		if rows := variantRows(n.Content); rows > 0 {
			if grown := float64(headerHeight + rows*variantRowHeight); grown > h {
				h = grown
			}
		}
		return Hints{Width: nodeWidth, Height: h, HeaderHeight: headerHeight}
	case StrategyCondition:
		return Hints{Width: nodeWidth, Height: nodeHeight + headerHeight, HeaderHeight: headerHeight}
	default:
		return Hints{Width: nodeWidth, Height: nodeHeight, HeaderHeight: headerHeight}
	}
}

// variantRows counts the option lines of a variant node: every non-empty
// line after the first that is not a branch or terminator marker.
func variantRows(content string) int {
	lines := strings.Split(content, "\n")
	if len(lines) <= 1 {
		return 0
	}
	rows := 0
	for _, l := range lines[1:] {
		t := strings.ToLower(strings.TrimSpace(l))
		if t == "" || t == "true:" || t == "false:" || t == "endif" {
			continue
		}
		rows++
	}
	return rows
}

// Label returns the header text drawn for a node: its type tag in title
// form, with dialogue nodes labeled by their first content word when a
// speaker prefix exists.
func Label(n script.Node) string {
	if n.Type == script.TypeDialogue {
		if name, _, ok := strings.Cut(n.Content, ":"); ok && strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
		return "Dialogue"
	}
	return titleWords(strings.ReplaceAll(n.Type, "_", " "))
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
