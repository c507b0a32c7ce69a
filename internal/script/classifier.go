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
	"regexp"
)

// RuleConfig is one classifier rule as plain configuration data: the node
// type name to assign and the pattern that selects it.
type RuleConfig struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
}

type rule struct {
	name string
	re   *regexp.Regexp
}

// Ruleset is a compiled, ordered classifier configuration. Rules are tried
// in configured order and the first match wins; lines matching an ignore
// pattern produce no node at all. A Ruleset is immutable after construction
// and safe for concurrent use.
type Ruleset struct {
	rules       []rule
	ignore      []*regexp.Regexp
	defaultType string
}

// NewRuleset compiles rule and ignore patterns. Patterns match
// case-insensitively and are anchored at the start of the line. Any invalid
// pattern fails construction; classification itself never fails.
func NewRuleset(rules []RuleConfig, ignorePatterns []string, defaultType string) (*Ruleset, error) {
	if defaultType == "" {
		defaultType = TypeDialogue
	}
	rs := &Ruleset{defaultType: defaultType}
	for _, rc := range rules {
		re, err := compilePattern(rc.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rc.Name, err)
		}
		rs.rules = append(rs.rules, rule{name: rc.Name, re: re})
	}
	for _, p := range ignorePatterns {
		re, err := compilePattern(p)
		if err != nil {
			return nil, fmt.Errorf("ignore pattern %q: %w", p, err)
		}
		rs.ignore = append(rs.ignore, re)
	}
	return rs, nil
}

// compilePattern makes a user pattern case-insensitive and anchored to the
// start of the input, so configured patterns behave the same whether or not
// they carry their own "^".
func compilePattern(p string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)\A(?:` + p + `)`)
}

// DefaultType returns the configured fallback node type.
func (rs *Ruleset) DefaultType() string { return rs.defaultType }

// Ignored reports whether line matches any ignore pattern. Ignored lines
// are dropped entirely by the graph builder: no node is created even when a
// type rule would also match.
func (rs *Ruleset) Ignored(line string) bool {
	for _, re := range rs.ignore {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// Classify maps a script line to a node type tag. Rules are tried in
// configured order and the first matching pattern's name is returned;
// function call-sites normalize onto the function type so definitions and
// calls render alike. Lines no rule matches get the default type.
func (rs *Ruleset) Classify(line string) string {
	for _, r := range rs.rules {
		if !r.re.MatchString(line) {
			continue
		}
		name := r.name
		if name == "" {
			name = rs.defaultType
		}
		if name == TypeFunctionCall {
			name = TypeFunction
		}
		return name
	}
	return rs.defaultType
}

// DefaultRuleset returns the built-in classifier configuration, used when
// no ruleset file is supplied. It mirrors the stock node type config: flow
// keywords first, dialogue as the fallback, headers and blank lines ignored.
func DefaultRuleset() *Ruleset {
	rs, err := NewRuleset(
		[]RuleConfig{
			{Name: TypeStart, Pattern: `^START`},
			{Name: TypeEnd, Pattern: `^END`},
			{Name: TypeFunction, Pattern: `^\s*function\s+`},
			{Name: TypeFunctionCall, Pattern: `^\s*call\s+`},
			{Name: TypeJump, Pattern: `^\s*jump\s+to\s+`},
			{Name: TypeWait, Pattern: `^\s*wait\s+`},
			{Name: TypeShow, Pattern: `^\s*show\s+`},
			{Name: TypeCondition, Pattern: `^\s*if\s+.*`},
		},
		[]string{`^\s*name\s*:`, `^\s*$`},
		TypeDialogue,
	)
	if err != nil {
		// The built-in patterns are constants; a compile failure is a bug.
		panic(err)
	}
	return rs
}
