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


// Package report renders rollglue results as text, YAML, spreadsheets and
// PDF documents.
package report

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/costela/rollglue"
)

// Report ties a result to the instance it solves.
type Report struct {
	ID      string    `yaml:"id"`
	Created time.Time `yaml:"created"`

	RollsA    []float64      `yaml:"rolls_a"`
	RollsB    []float64      `yaml:"rolls_b"`
	Costs     rollglue.Costs `yaml:"costs"`
	MaxLength float64        `yaml:"max_length"`

	Result *rollglue.Result `yaml:"result"`
}

// New builds a report for res, which must have been produced from inst.
func New(inst *rollglue.Instance, res *rollglue.Result) Report {
	return Report{
		ID:        uuid.New().String(),
		Created:   time.Now(),
		RollsA:    inst.RollsA(),
		RollsB:    inst.RollsB(),
		Costs:     inst.Costs(),
		MaxLength: inst.MaxLength(),
		Result:    res,
	}
}

// Header returns the column names of Table: Roll, A1..An, B1..Bm.
func (r Report) Header() []string {
	header := make([]string, 0, 1+len(r.RollsA)+len(r.RollsB))
	header = append(header, "Roll")
	for i := range r.RollsA {
		header = append(header, fmt.Sprintf("A%d", i+1))
	}
	for i := range r.RollsB {
		header = append(header, fmt.Sprintf("B%d", i+1))
	}
	return header
}

// Table returns the header followed by one row per composite roll, in
// result order.
func (r Report) Table() [][]string {
	table := [][]string{r.Header()}
	for _, roll := range r.rolls() {
		row := make([]string, 0, 1+len(roll.RolesA)+len(roll.RolesB))
		row = append(row, strconv.Itoa(roll.Number))
		for _, p := range roll.RolesA {
			row = append(row, FormatLength(p))
		}
		for _, p := range roll.RolesB {
			row = append(row, FormatLength(p))
		}
		table = append(table, row)
	}
	return table
}

// Summary returns labelled figures describing the result.
func (r Report) Summary() [][2]string {
	var allocatedA, allocatedB float64
	for _, roll := range r.rolls() {
		allocatedA += roll.LengthA()
		allocatedB += roll.LengthB()
	}

	summary := [][2]string{
		{"Report", r.ID},
		{"Created", r.Created.Format(time.RFC3339)},
	}
	if r.Result == nil {
		return append(summary, [2]string{"Status", "no solution"})
	}

	return append(summary,
		[2]string{"Status", r.Result.Status.String()},
		[2]string{"Objective", FormatLength(r.Result.Objective)},
		[2]string{"Rolls", strconv.Itoa(r.Result.NumRolls)},
		[2]string{"Splices", strconv.Itoa(r.Result.Splices)},
		[2]string{"Short rolls", strconv.Itoa(r.Result.ShortRolls)},
		[2]string{"Unused rolls", strconv.Itoa(r.Result.UnusedRolls)},
		[2]string{"Allocated A", fmt.Sprintf("%s of %s", FormatLength(allocatedA), FormatLength(sum(r.RollsA)))},
		[2]string{"Allocated B", fmt.Sprintf("%s of %s", FormatLength(allocatedB), FormatLength(sum(r.RollsB)))},
		[2]string{"Max length", FormatLength(r.MaxLength)},
	)
}

func (r Report) rolls() []rollglue.CluedRoll {
	if r.Result == nil {
		return nil
	}
	return r.Result.Rolls
}

// FormatLength prints l rounded to two decimals, without trailing zeros.
func FormatLength(l float64) string {
	l = math.Round(l*100) / 100
	if l == 0 {
		l = 0 // drops the sign of -0
	}
	return strconv.FormatFloat(l, 'f', -1, 64)
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}
