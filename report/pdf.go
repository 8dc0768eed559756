/*
Copyright © 2015-2022 Leo Antunes <leo@costela.net>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/


package report

import (
	"fmt"

	"github.com/go-pdf/fpdf"
)

// A4 landscape, in mm.
const (
	pageWidth    = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	titleHeight  = 12.0
	lineHeight   = 6.0
	maxCellWidth = 30.0
)

// WritePDF writes the report as a landscape A4 document: a title, the
// summary and the roll table. Long tables continue on further pages.
func WritePDF(path string, rep Report) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetTitle("Roll gluing plan "+rep.ID, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, titleHeight, "Roll gluing plan", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, kv := range rep.Summary() {
		pdf.CellFormat(40, lineHeight, kv[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, lineHeight, kv[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(lineHeight)

	renderTable(pdf, rep.Table())

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}
	return pdf.OutputFileAndClose(path)
}

func renderTable(pdf *fpdf.Fpdf, table [][]string) {
	if len(table) == 0 || len(table[0]) == 0 {
		return
	}

	width := (pageWidth - marginLeft - marginRight) / float64(len(table[0]))
	if width > maxCellWidth {
		width = maxCellWidth
	}
	size := 9.0
	if width < 15 {
		size = 6
	}

	for i, row := range table {
		if i == 0 {
			pdf.SetFont("Helvetica", "B", size)
			pdf.SetFillColor(220, 220, 220)
		} else {
			pdf.SetFont("Helvetica", "", size)
		}
		for _, cell := range row {
			pdf.CellFormat(width, lineHeight, cell, "1", 0, "R", i == 0, 0, "")
		}
		pdf.Ln(-1)
	}
}
