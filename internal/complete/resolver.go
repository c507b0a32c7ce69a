/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package complete resolves autocomplete contexts for the script editor.
// Given the current line and the cursor offset within it, the resolver
// decides which completion domain applies (jump target, command keyword or
// character name), the partial word to filter candidates by, and the exact
// span the selected candidate must replace. Candidate lists are supplied by
// the host; the resolver holds no state between queries.
package complete

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Domain identifies the candidate category a cursor context resolved to.
type Domain int

const (
	DomainNone Domain = iota
	DomainJumpTarget
	DomainCommand
	DomainCharacter
)

func (d Domain) String() string {
	switch d {
	case DomainJumpTarget:
		return "jump_target"
	case DomainCommand:
		return "command"
	case DomainCharacter:
		return "character"
	default:
		return "none"
	}
}

// DefaultJumpPrefix triggers jump-target completion when it appears before
// the cursor. Configurable at resolver construction.
const DefaultJumpPrefix = "Jump To "

// Span is the half-open [Start, End) offset range within the line that a
// selected candidate replaces verbatim.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Context is one completion query result. Commands and Characters carry
// the prefix-filtered candidate subsets for their domains; the host merges
// them into a single popup (commands first) when both matched.
type Context struct {
	Domain     Domain   `json:"domain"`
	FilterWord string   `json:"filterWord"`
	Span       Span     `json:"span"`
	Commands   []string `json:"commands,omitempty"`
	Characters []string `json:"characters,omitempty"`
}

// Resolver carries the host-supplied configuration and candidate sources.
// All fields are read-only during Resolve; a Resolver is safe to share.
type Resolver struct {
	JumpPrefix string   // defaults to DefaultJumpPrefix when empty
	JumpNames  []string // dialog/section names offered for jump targets
	Commands   []string // command keywords offered on empty-prefix lines
	Characters []string // character names offered anywhere
}

// wordDelimiters terminate the backward scan for the current word.
const wordDelimiters = " :\t\r\n"

// Resolve determines the completion context for a cursor position. line is
// the full text of the current line and cursor the offset within it. It
// returns nil when no domain applies: no jump prefix, no usable word, or
// no candidate matched.
func (r *Resolver) Resolve(line string, cursor int) *Context {
	if cursor < 0 || cursor > len(line) {
		return nil
	}
	before := line[:cursor]

	prefix := r.JumpPrefix
	if prefix == "" {
		prefix = DefaultJumpPrefix
	}
	// Jump context: the most recent prefix occurrence before the cursor
	// wins; everything between it and the cursor is the partial target and
	// will be replaced. The full candidate list is offered unfiltered.
	if at := strings.LastIndex(strings.ToLower(before), strings.ToLower(prefix)); at >= 0 {
		return &Context{
			Domain:     DomainJumpTarget,
			FilterWord: "",
			Span:       Span{Start: at + len(prefix), End: cursor},
		}
	}

	start := cursor
	for start > 0 && !strings.ContainsRune(wordDelimiters, rune(before[start-1])) {
		start--
	}
	word := before[start:cursor]
	if utf8.RuneCountInString(word) < 2 {
		return nil
	}
	if first, _ := utf8.DecodeRuneInString(word); !unicode.IsLetter(first) {
		return nil
	}

	ctx := &Context{FilterWord: word, Span: Span{Start: start, End: cursor}}
	// Command keywords only complete at the start of a line.
	if strings.TrimSpace(before[:start]) == "" {
		ctx.Commands = filterPrefix(r.Commands, word)
	}
	ctx.Characters = filterPrefix(r.Characters, word)

	switch {
	case len(ctx.Commands) > 0:
		ctx.Domain = DomainCommand
	case len(ctx.Characters) > 0:
		ctx.Domain = DomainCharacter
	default:
		return nil
	}
	return ctx
}

// Candidates returns the merged popup list for a context: jump names for
// jump targets, otherwise command matches followed by character matches.
func (r *Resolver) Candidates(ctx *Context) []string {
	if ctx == nil {
		return nil
	}
	if ctx.Domain == DomainJumpTarget {
		return append([]string(nil), r.JumpNames...)
	}
	out := make([]string, 0, len(ctx.Commands)+len(ctx.Characters))
	out = append(out, ctx.Commands...)
	out = append(out, ctx.Characters...)
	return out
}

// Apply replaces the context's span in line with the chosen candidate and
// returns the new line plus the cursor offset at the end of the insertion.
func Apply(line string, ctx *Context, choice string) (string, int) {
	if ctx == nil {
		return line, len(line)
	}
	s := ctx.Span
	if s.Start < 0 || s.End > len(line) || s.Start > s.End {
		return line, len(line)
	}
	out := line[:s.Start] + choice + line[s.End:]
	return out, s.Start + len(choice)
}

func filterPrefix(candidates []string, word string) []string {
	lw := strings.ToLower(word)
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), lw) {
			out = append(out, c)
		}
	}
	return out
}
