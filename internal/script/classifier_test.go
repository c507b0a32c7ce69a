/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "testing"

func TestClassifyFirstMatchWins(t *testing.T) {
	rs, err := NewRuleset([]RuleConfig{
		{Name: "jump", Pattern: `^jump`},
		{Name: "show", Pattern: `^.*`},
	}, nil, "dialogue")
	if err != nil {
		t.Fatalf("ruleset: %v", err)
	}
	if got := rs.Classify("jump to X"); got != "jump" {
		t.Fatalf("expected first matching rule to win, got %q", got)
	}
	if got := rs.Classify("anything else"); got != "show" {
		t.Fatalf("expected catch-all rule, got %q", got)
	}
}

func TestClassifyDefaultType(t *testing.T) {
	rs, err := NewRuleset([]RuleConfig{{Name: "wait", Pattern: `^wait\s`}}, nil, "dialogue")
	if err != nil {
		t.Fatalf("ruleset: %v", err)
	}
	if got := rs.Classify("Hello there"); got != "dialogue" {
		t.Fatalf("expected default type, got %q", got)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	rs := DefaultRuleset()
	if got := rs.Classify("JUMP TO Home"); got != TypeJump {
		t.Fatalf("expected jump for upper-case line, got %q", got)
	}
	if got := rs.Classify("Wait 5"); got != TypeWait {
		t.Fatalf("expected wait, got %q", got)
	}
}

func TestClassifyFunctionCallAliasesToFunction(t *testing.T) {
	rs := DefaultRuleset()
	if got := rs.Classify("call Greet"); got != TypeFunction {
		t.Fatalf("expected call-site to classify as function, got %q", got)
	}
	if got := rs.Classify("function Greet"); got != TypeFunction {
		t.Fatalf("expected function, got %q", got)
	}
}

func TestIgnoredLines(t *testing.T) {
	rs := DefaultRuleset()
	for _, line := range []string{"name: Intro", "  name : Intro", "", "   "} {
		if !rs.Ignored(line) {
			t.Fatalf("expected %q to be ignored", line)
		}
	}
	if rs.Ignored("show bob") {
		t.Fatalf("show line must not be ignored")
	}
}

func TestNewRulesetInvalidPattern(t *testing.T) {
	if _, err := NewRuleset([]RuleConfig{{Name: "bad", Pattern: `([`}}, nil, ""); err == nil {
		t.Fatalf("expected error for invalid rule pattern")
	}
	if _, err := NewRuleset(nil, []string{`(`}, ""); err == nil {
		t.Fatalf("expected error for invalid ignore pattern")
	}
}

func TestEmptyRuleNameFallsBackToDefault(t *testing.T) {
	rs, err := NewRuleset([]RuleConfig{{Name: "", Pattern: `^x`}}, nil, "dialogue")
	if err != nil {
		t.Fatalf("ruleset: %v", err)
	}
	if got := rs.Classify("x marks the spot"); got != "dialogue" {
		t.Fatalf("expected default for unnamed rule, got %q", got)
	}
}
