/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"snilstudio/internal/render"
	"snilstudio/internal/script"
)

// SVGOptions controls SVG export behavior.
type SVGOptions struct {
	// Registry resolves node strategies and sizes; nil uses the stock one.
	Registry *render.Registry
}

// strategyFill maps render strategies to the header fill colors the editor
// scene uses, so exports look like the on-screen graph.
func strategyFill(s render.Strategy) string {
	switch s {
	case render.StrategyCondition:
		return "#f4b860"
	case render.StrategyVariant:
		return "#8e6bbf"
	default:
		return "#4a90d9"
	}
}

// WriteSectionSVG renders one section's graph as a standalone SVG document.
func WriteSectionSVG(w *bytes.Buffer, sec script.Section, opt SVGOptions) error {
	placed, width, height := Layout(sec, opt.Registry)
	index := byID(placed)

	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(w, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%g\" height=\"%g\" viewBox=\"0 0 %g %g\">\n", width, height, width, height)
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"#ffffff\"/>\n", width, height)
	wf("  <text x=\"%g\" y=\"40\" font-family=\"sans-serif\" font-size=\"24\">%s</text>\n", layoutStartX, xmlEscape(sec.Name))

	// Edges first so node boxes draw over them.
	for _, e := range sec.Edges {
		from, okF := index[e.From]
		to, okT := index[e.To]
		if !okF || !okT {
			continue
		}
		x1 := from.X + from.W
		y1 := from.Y + from.H/2
		x2 := to.X
		y2 := to.Y + to.H/2
		wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"#555555\" stroke-width=\"2\"/>\n", x1, y1, x2, y2)
	}

	for _, p := range placed {
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" rx=\"8\" fill=\"#ffffff\" stroke=\"#333333\" stroke-width=\"1.5\"/>\n", p.X, p.Y, p.W, p.H)
		wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"32\" rx=\"8\" fill=\"%s\"/>\n", p.X, p.Y, p.W, strategyFill(p.Strategy))
		wf("  <text x=\"%g\" y=\"%g\" font-family=\"sans-serif\" font-size=\"14\" fill=\"#ffffff\">%s</text>\n", p.X+10, p.Y+21, xmlEscape(render.Label(p.Node)))
		// First content line under the header; full text belongs in the editor.
		first, _, _ := strings.Cut(p.Node.Content, "\n")
		wf("  <text x=\"%g\" y=\"%g\" font-family=\"sans-serif\" font-size=\"12\">%s</text>\n", p.X+10, p.Y+52, xmlEscape(truncate(first, 34)))
	}
	wf("</svg>\n")
	return werr
}

// ExportSVG writes one SVG file per section into outDir, named
// section-<index+1>.svg.
func ExportSVG(sections []script.Section, outDir string, opt SVGOptions) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	for i, sec := range sections {
		var buf bytes.Buffer
		if err := WriteSectionSVG(&buf, sec, opt); err != nil {
			return fmt.Errorf("render section %d: %w", i, err)
		}
		path := filepath.Join(outDir, fmt.Sprintf("section-%d.svg", i+1))
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}
