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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"snilstudio/internal/script"
)

func sampleSections(t *testing.T) []script.Section {
	t.Helper()
	doc := "name: Intro\nshow bob\nHello!\nif mood > 1\ntrue:\nSmile\nendif\nwait 2\n---\nname: Finale\njump to Intro"
	sections := script.Parse(doc, nil)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	return sections
}

func TestLayoutBaselineAndSpacing(t *testing.T) {
	sections := sampleSections(t)
	placed, width, _ := Layout(sections[0], nil)
	if len(placed) != len(sections[0].Nodes) {
		t.Fatalf("expected %d placed nodes, got %d", len(sections[0].Nodes), len(placed))
	}
	if placed[0].X != layoutStartX {
		t.Fatalf("first node must start at %v, got %v", layoutStartX, placed[0].X)
	}
	for i := 1; i < len(placed); i++ {
		gap := placed[i].X - (placed[i-1].X + placed[i-1].W)
		if gap != layoutSpacing {
			t.Fatalf("node %d: expected gap %v, got %v", i, layoutSpacing, gap)
		}
	}
	for _, p := range placed {
		if center := p.Y + p.H/2; center != layoutBaseline {
			t.Fatalf("node %s: expected center on baseline, got %v", p.Node.ID, center)
		}
	}
	last := placed[len(placed)-1]
	if width < last.X+last.W {
		t.Fatalf("scene width %v too small for last node ending at %v", width, last.X+last.W)
	}
}

func TestLayoutEmptySection(t *testing.T) {
	placed, w, h := Layout(script.Section{Name: "Empty"}, nil)
	if len(placed) != 0 || w <= 0 || h <= 0 {
		t.Fatalf("empty section must yield empty layout with positive extent, got %d %v %v", len(placed), w, h)
	}
}

func TestWriteSectionSVG(t *testing.T) {
	sections := sampleSections(t)
	var buf bytes.Buffer
	if err := WriteSectionSVG(&buf, sections[0], SVGOptions{}); err != nil {
		t.Fatalf("WriteSectionSVG: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<?xml") {
		t.Fatalf("missing XML declaration: %.60s", out)
	}
	if !strings.Contains(out, "Intro") {
		t.Fatalf("section name missing from SVG")
	}
	if strings.Count(out, "<line ") != len(sections[0].Edges) {
		t.Fatalf("expected %d edge lines, got %d", len(sections[0].Edges), strings.Count(out, "<line "))
	}
	if !strings.Contains(out, "show bob") {
		t.Fatalf("node content missing from SVG")
	}
}

func TestExportSVGWritesOneFilePerSection(t *testing.T) {
	sections := sampleSections(t)
	dir := t.TempDir()
	if err := ExportSVG(sections, dir, SVGOptions{}); err != nil {
		t.Fatalf("ExportSVG: %v", err)
	}
	for _, name := range []string{"section-1.svg", "section-2.svg"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}

func TestWriteDOT(t *testing.T) {
	sections := sampleSections(t)
	var buf bytes.Buffer
	if err := WriteDOT(&buf, sections, nil); err != nil {
		t.Fatalf("WriteDOT: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "digraph script {") {
		t.Fatalf("missing digraph header")
	}
	if !strings.Contains(out, "subgraph cluster_0") || !strings.Contains(out, "subgraph cluster_1") {
		t.Fatalf("expected one cluster per section:\n%s", out)
	}
	// Node ids are namespaced per section so clusters cannot collide.
	if !strings.Contains(out, "s0_n_0") || !strings.Contains(out, "s1_n_0") {
		t.Fatalf("expected namespaced node ids:\n%s", out)
	}
	wantEdges := len(sections[0].Edges) + len(sections[1].Edges)
	if got := strings.Count(out, "->"); got != wantEdges {
		t.Fatalf("expected %d edges, got %d", wantEdges, got)
	}
}

func TestTruncateRuneBoundaries(t *testing.T) {
	long := strings.Repeat("あ", 40)
	got := truncate(long, 34)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation split a rune: %q", got)
	}
	if want := strings.Repeat("あ", 31) + "..."; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if short := strings.Repeat("あ", 34); truncate(short, 34) != short {
		t.Fatalf("strings within the limit must pass through unchanged")
	}
}

func TestExportPDF(t *testing.T) {
	sections := sampleSections(t)
	path := filepath.Join(t.TempDir(), "script.pdf")
	if err := ExportPDF(sections, path, PDFOptions{Title: "Demo"}); err != nil {
		t.Fatalf("ExportPDF: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %.8s", data)
	}
}

func TestExportPDFSectionFilter(t *testing.T) {
	if got := sectionIndexes(3, nil); len(got) != 3 {
		t.Fatalf("empty filter must select all, got %v", got)
	}
	if got := sectionIndexes(3, []int{2, 7, -1, 0}); len(got) != 2 || got[0] != 2 || got[1] != 0 {
		t.Fatalf("out-of-range entries must be dropped, got %v", got)
	}
}
