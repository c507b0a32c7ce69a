/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"regexp"
	"strings"
)

// branchState tracks which branch of a conditional block is currently
// receiving lines.
type branchState int

const (
	branchNone branchState = iota
	branchTrue
	branchFalse
)

// transition returns the state selected by a branch marker line, or the
// current state when the line is not a marker.
func (s branchState) transition(line string) (branchState, bool) {
	switch {
	case strings.EqualFold(line, "true:"):
		return branchTrue, true
	case strings.EqualFold(line, "false:"):
		return branchFalse, true
	default:
		return s, false
	}
}

// ConditionalBlock is a decomposed "if ... / true: / false: / endif"
// construct. Condition holds the condition line plus any stray lines seen
// before the first branch marker, newline-joined in encounter order;
// renderers depend on that exact joined string.
type ConditionalBlock struct {
	Condition string
	True      []string
	False     []string
}

var reIfStart = regexp.MustCompile(`(?i)^\s*if\s+.*`)

// IsConditionalStart reports whether a line opens a conditional block:
// either an "if ..." line or one carrying the literal If Show Variant
// marker.
func IsConditionalStart(line string) bool {
	return reIfStart.MatchString(line) || strings.Contains(line, "If Show Variant")
}

// extractConditional consumes lines[start:] through the terminating endif
// and splits them into condition, true-branch and false-branch groups. The
// marker lines themselves ("true:", "false:", "endif") are discarded. A
// missing endif is recovered by treating end-of-section as an implicit
// close. It returns the block and the index of the first unconsumed line.
func extractConditional(lines []string, start int) (ConditionalBlock, int) {
	b := ConditionalBlock{Condition: strings.TrimSpace(lines[start])}
	state := branchNone
	i := start + 1
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if strings.EqualFold(line, "endif") {
			return b, i + 1
		}
		if next, ok := state.transition(line); ok {
			state = next
			continue
		}
		switch state {
		case branchTrue:
			b.True = append(b.True, line)
		case branchFalse:
			b.False = append(b.False, line)
		default:
			b.Condition += "\n" + line
		}
	}
	return b, i
}
