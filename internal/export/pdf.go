/*
 * Copyright (c) 2025 the SNIL Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"snilstudio/internal/render"
	"snilstudio/internal/script"
)

// PDFOptions controls PDF export behavior.
// Units are points (pt). Built-in Helvetica keeps text vector without
// embedding fonts.
type PDFOptions struct {
	Title    string
	Registry *render.Registry
	Sections []int // if empty, export all sections
}

// ExportPDF writes a script outline PDF to outPath: a title page listing
// the sections, then one landscape page per section with its graph drawn
// on the baseline layout, scaled to fit the page.
func ExportPDF(sections []script.Section, outPath string, opt PDFOptions) error {
	reg := opt.Registry
	if reg == nil {
		reg = render.NewRegistry()
	}
	title := opt.Title
	if title == "" {
		title = "Script"
	}

	pdf := gofpdf.New("L", "pt", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAuthor("SNIL Studio", false)

	// Title page with section outline
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 40, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	for i, sec := range sections {
		pdf.CellFormat(0, 18, fmt.Sprintf("%d. %s (%d nodes)", i+1, sec.Name, len(sec.Nodes)), "", 1, "L", false, 0, "")
	}

	pageW, pageH := pdf.GetPageSize()
	margin := 36.0

	for _, si := range sectionIndexes(len(sections), opt.Sections) {
		sec := sections[si]
		placed, width, height := Layout(sec, reg)

		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(0, 24, sec.Name, "", 1, "L", false, 0, "")

		// Scale the scene to fit inside the margins, never enlarging.
		scale := 1.0
		if width > 0 {
			if sx := (pageW - 2*margin) / width; sx < scale {
				scale = sx
			}
		}
		if height > 0 {
			if sy := (pageH - 2*margin - 24) / height; sy < scale {
				scale = sy
			}
		}
		sx := func(v float64) float64 { return margin + v*scale }
		sy := func(v float64) float64 { return margin + 24 + v*scale }

		index := byID(placed)
		pdf.SetDrawColor(85, 85, 85)
		pdf.SetLineWidth(1)
		for _, e := range sec.Edges {
			from, okF := index[e.From]
			to, okT := index[e.To]
			if !okF || !okT {
				continue
			}
			pdf.Line(sx(from.X+from.W), sy(from.Y+from.H/2), sx(to.X), sy(to.Y+to.H/2))
		}

		for _, p := range placed {
			pdf.SetDrawColor(51, 51, 51)
			pdf.SetFillColor(255, 255, 255)
			pdf.Rect(sx(p.X), sy(p.Y), p.W*scale, p.H*scale, "FD")
			r, g, b := strategyRGB(p.Strategy)
			pdf.SetFillColor(r, g, b)
			pdf.Rect(sx(p.X), sy(p.Y), p.W*scale, 32*scale, "F")
			pdf.SetTextColor(255, 255, 255)
			pdf.SetFont("Helvetica", "B", 10*scale+2)
			pdf.Text(sx(p.X+10), sy(p.Y+21), render.Label(p.Node))
			pdf.SetTextColor(0, 0, 0)
			pdf.SetFont("Helvetica", "", 9*scale+2)
			first, _, _ := strings.Cut(p.Node.Content, "\n")
			pdf.Text(sx(p.X+10), sy(p.Y+52), truncate(first, 34))
		}
	}

	return pdf.OutputFileAndClose(outPath)
}

func strategyRGB(s render.Strategy) (int, int, int) {
	switch s {
	case render.StrategyCondition:
		return 244, 184, 96
	case render.StrategyVariant:
		return 142, 107, 191
	default:
		return 74, 144, 217
	}
}

// sectionIndexes returns the requested section indexes, or all of them
// when the filter is empty. Out-of-range entries are dropped.
func sectionIndexes(n int, want []int) []int {
	if len(want) == 0 {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	var out []int
	for _, i := range want {
		if i >= 0 && i < n {
			out = append(out, i)
		}
	}
	return out
}
