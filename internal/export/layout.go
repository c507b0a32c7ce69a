/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders compiled script graphs to SVG, Graphviz DOT and
// PDF files. Layout is a simple left-to-right chain per section: nodes sit
// on a horizontal baseline in emission order, which matches the order the
// editor presents them in.
package export

import (
	"snilstudio/internal/render"
	"snilstudio/internal/script"
)

// Baseline layout constants, in scene units.
const (
	layoutStartX   = 100.0
	layoutBaseline = 300.0
	layoutSpacing  = 120.0
)

// Placed is one node with its resolved box on the scene.
type Placed struct {
	Node     script.Node
	Strategy render.Strategy
	X, Y     float64 // top-left corner
	W, H     float64
}

// Layout places a section's nodes on the baseline in emission order and
// returns them together with the scene extent. Node centers share the
// baseline so boxes of different heights line up visually.
func Layout(sec script.Section, reg *render.Registry) (placed []Placed, width, height float64) {
	if reg == nil {
		reg = render.NewRegistry()
	}
	x := layoutStartX
	maxH := 0.0
	for _, n := range sec.Nodes {
		hints := reg.Size(n)
		placed = append(placed, Placed{
			Node:     n,
			Strategy: reg.Resolve(n),
			X:        x,
			Y:        layoutBaseline - hints.Height/2,
			W:        hints.Width,
			H:        hints.Height,
		})
		x += hints.Width + layoutSpacing
		if hints.Height > maxH {
			maxH = hints.Height
		}
	}
	if len(placed) == 0 {
		return placed, layoutStartX, layoutBaseline
	}
	width = x - layoutSpacing + layoutStartX
	height = layoutBaseline + maxH/2 + layoutStartX
	return placed, width, height
}

// byID indexes placed nodes for edge routing.
func byID(placed []Placed) map[string]Placed {
	m := make(map[string]Placed, len(placed))
	for _, p := range placed {
		m[p.Node.ID] = p
	}
	return m
}
