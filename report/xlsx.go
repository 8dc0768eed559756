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

	"github.com/xuri/excelize/v2"
)

const (
	rollsSheet   = "Rolls"
	summarySheet = "Summary"
)

// WriteXLSX writes a workbook with a "Rolls" sheet holding the roll table
// and a "Summary" sheet.
func WriteXLSX(path string, rep Report) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), rollsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeRolls(f, rep, bold); err != nil {
		return fmt.Errorf("writing %s sheet: %w", rollsSheet, err)
	}
	if err := writeSummary(f, rep, bold); err != nil {
		return fmt.Errorf("writing %s sheet: %w", summarySheet, err)
	}

	return f.SaveAs(path)
}

func writeRolls(f *excelize.File, rep Report, headerStyle int) error {
	header := rep.Header()
	if err := setRow(f, rollsSheet, 1, toCells(header)); err != nil {
		return err
	}
	if err := f.SetRowStyle(rollsSheet, 1, 1, headerStyle); err != nil {
		return err
	}

	for i, roll := range rep.rolls() {
		row := make([]interface{}, 0, len(header))
		row = append(row, roll.Number)
		for _, p := range roll.RolesA {
			row = append(row, p)
		}
		for _, p := range roll.RolesB {
			row = append(row, p)
		}
		if err := setRow(f, rollsSheet, i+2, row); err != nil {
			return err
		}
	}

	return nil
}

func writeSummary(f *excelize.File, rep Report, labelStyle int) error {
	for i, kv := range rep.Summary() {
		if err := setRow(f, summarySheet, i+1, []interface{}{kv[0], kv[1]}); err != nil {
			return err
		}
	}
	if err := f.SetColStyle(summarySheet, "A", labelStyle); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "A", "B", 20)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toCells(ss []string) []interface{} {
	cells := make([]interface{}, len(ss))
	for i, s := range ss {
		cells[i] = s
	}
	return cells
}
