/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package fold computes foldable line ranges for the editor gutter and
// tracks which ranges are currently collapsed. Three constructs fold:
// function/call ... end pairs, If Show Variant ... endif pairs, and
// "name:" header blocks running until the next separator, next header or
// end of document. Ranges are recomputed wholesale on every document
// change; hiding the lines is the gutter consumer's job.
package fold

import "regexp"

// Ranges maps a fold start line index to its inclusive end line index.
// Lines start+1 .. end may be hidden. end > start always holds.
type Ranges map[int]int

var (
	reFuncStart = regexp.MustCompile(`(?i)^\s*(function|call)\b`)
	reEnd       = regexp.MustCompile(`(?i)^\s*end\b`)
	reIfStart   = regexp.MustCompile(`(?i)^\s*If\s+Show\s+Variant\b`)
	reEndif     = regexp.MustCompile(`(?i)^\s*endif\b`)
	reName      = regexp.MustCompile(`(?i)^\s*name\s*:`)
	reSeparator = regexp.MustCompile(`^\s*---\s*$`)
)

// Compute scans document lines and returns the fold ranges for all three
// construct kinds. Unmatched end/endif lines are ignored. When a single
// line starts more than one construct kind, "name:" header ranges are
// written last and win.
func Compute(lines []string) Ranges {
	ranges := Ranges{}
	var funcStack, ifStack []int
	for i, text := range lines {
		if reFuncStart.MatchString(text) {
			funcStack = append(funcStack, i)
		}
		if reEnd.MatchString(text) && len(funcStack) > 0 {
			start := funcStack[len(funcStack)-1]
			funcStack = funcStack[:len(funcStack)-1]
			ranges[start] = i
		}
		if reIfStart.MatchString(text) {
			ifStack = append(ifStack, i)
		}
		if reEndif.MatchString(text) && len(ifStack) > 0 {
			start := ifStack[len(ifStack)-1]
			ifStack = ifStack[:len(ifStack)-1]
			ranges[start] = i
		}
	}
	for i, text := range lines {
		if !reName.MatchString(text) {
			continue
		}
		end := i
		for j := i + 1; j < len(lines); j++ {
			if reSeparator.MatchString(lines[j]) || reName.MatchString(lines[j]) {
				break
			}
			end = j
		}
		// A header folds only when at least one line follows it.
		if end > i {
			ranges[i] = end
		}
	}
	return ranges
}

// State pairs the current fold ranges of one document with the set of
// folded start lines. A State belongs to a single editor session; callers
// serialize Recompute against Toggle for the same document.
type State struct {
	ranges Ranges
	folded map[int]struct{}
}

// NewState returns an empty fold state.
func NewState() *State {
	return &State{ranges: Ranges{}, folded: map[int]struct{}{}}
}

// Recompute replaces the range mapping from the given document lines and
// prunes folded start lines whose ranges disappeared, so the folded set
// stays a subset of the range keys.
func (s *State) Recompute(lines []string) {
	s.ranges = Compute(lines)
	for start := range s.folded {
		if _, ok := s.ranges[start]; !ok {
			delete(s.folded, start)
		}
	}
}

// Toggle flips the folded state of the range starting at line. It is a
// no-op when no range starts there. It reports whether the line is folded
// after the call.
func (s *State) Toggle(line int) bool {
	if _, ok := s.ranges[line]; !ok {
		return false
	}
	if _, folded := s.folded[line]; folded {
		delete(s.folded, line)
		return false
	}
	s.folded[line] = struct{}{}
	return true
}

// IsFolded reports whether the range starting at line is collapsed.
func (s *State) IsFolded(line int) bool {
	_, ok := s.folded[line]
	return ok
}

// Range returns the inclusive end line of the range starting at line.
func (s *State) Range(line int) (int, bool) {
	end, ok := s.ranges[line]
	return end, ok
}

// Ranges returns a copy of the current range mapping.
func (s *State) Ranges() Ranges {
	out := make(Ranges, len(s.ranges))
	for k, v := range s.ranges {
		out[k] = v
	}
	return out
}

// Folded returns the folded start lines as a fresh slice, unordered.
func (s *State) Folded() []int {
	out := make([]int, 0, len(s.folded))
	for k := range s.folded {
		out = append(out, k)
	}
	return out
}

// HiddenLines returns the set of line indexes hidden by folded ranges
// (start+1 .. end for every folded start). Consumers drive visibility from
// this set.
func (s *State) HiddenLines() map[int]struct{} {
	hidden := map[int]struct{}{}
	for start := range s.folded {
		end := s.ranges[start]
		for i := start + 1; i <= end; i++ {
			hidden[i] = struct{}{}
		}
	}
	return hidden
}
