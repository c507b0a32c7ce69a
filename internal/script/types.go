/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package script compiles SNIL dialogue script text into per-section control
// flow graphs. A document splits into named sections on a "---" separator;
// each section's lines are classified into typed nodes and linked by edges
// that model sequential flow, including the fan-out/fan-in around
// conditional blocks. The package is pure: it performs no I/O and holds no
// state between calls.
package script

// Node type tags assigned by the classifier. The set is configurable; these
// constants cover the built-in default ruleset.
const (
	TypeStart         = "start"
	TypeEnd           = "end"
	TypeFunction      = "function"
	TypeFunctionCall  = "function_call"
	TypeJump          = "jump"
	TypeWait          = "wait"
	TypeShow          = "show"
	TypeCondition     = "condition"
	TypeIfShowVariant = "if_show_variant"
	TypeDialogue      = "dialogue"
)

// Node is one unit of control flow in a section graph: a single classified
// script line, or an aggregated conditional construct.
// IDs are section-local, assigned in creation order ("n_0", "n_1", ...) and
// never renumbered. Pixel layout is owned by the consuming renderer; a node
// only carries what the renderer needs to size it.
type Node struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Edge records that control flows from the node with ID From to the node
// with ID To. Several edges may share a source (conditional fan-out) or a
// destination (fan-in after a branch).
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Section is an independently parsed, named portion of a script together
// with its graph. Node IDs may repeat across sections.
type Section struct {
	Name  string `json:"name"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}
