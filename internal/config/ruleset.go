/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"snilstudio/internal/script"
)

// RulesetFile is the on-disk classifier configuration. Order matters: rules
// are tried top to bottom and the first match wins.
type RulesetFile struct {
	NodeTypes      []script.RuleConfig `json:"node_types"`
	IgnorePatterns []string            `json:"ignore_patterns"`
	DefaultType    string              `json:"default_type"`
}

// rulesetSchema validates the shape of a ruleset file before any pattern is
// compiled, so shape errors and pattern errors report separately.
const rulesetSchema = `{
  "type": "object",
  "required": ["node_types"],
  "properties": {
    "node_types": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "pattern"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "pattern": {"type": "string", "minLength": 1}
        }
      }
    },
    "ignore_patterns": {
      "type": "array",
      "items": {"type": "string", "minLength": 1}
    },
    "default_type": {"type": "string"}
  }
}`

// RulesetError reports an invalid ruleset file. The host surfaces it to the
// user and falls back to the built-in ruleset.
type RulesetError struct {
	Path   string
	Detail string
}

func (e *RulesetError) Error() string {
	return fmt.Sprintf("ruleset %s: %s", e.Path, e.Detail)
}

// LoadRuleset reads, validates and compiles a classifier ruleset from a
// JSON file. Validation failures and invalid patterns return a
// *RulesetError; callers typically fall back to script.DefaultRuleset.
func LoadRuleset(path string) (*script.Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &RulesetError{Path: path, Detail: err.Error()}
	}
	return ParseRuleset(path, data)
}

// ParseRuleset validates and compiles ruleset JSON. path is used for error
// reporting only.
func ParseRuleset(path string, data []byte) (*script.Ruleset, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(rulesetSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, &RulesetError{Path: path, Detail: err.Error()}
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, &RulesetError{Path: path, Detail: strings.Join(details, "; ")}
	}

	var file RulesetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &RulesetError{Path: path, Detail: err.Error()}
	}
	rs, err := script.NewRuleset(file.NodeTypes, file.IgnorePatterns, file.DefaultType)
	if err != nil {
		return nil, &RulesetError{Path: path, Detail: err.Error()}
	}
	return rs, nil
}
