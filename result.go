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

package rollglue

import "math"

// Tolerance is the length below which a slot or a piece counts as empty.
const Tolerance = 1e-8

// CluedRoll is one realized composite roll. RolesA and RolesB hold the
// length each source roll contributes, in source order, zeros included.
type CluedRoll struct {
	Number int       `yaml:"number"`
	RolesA []float64 `yaml:"roles_a"`
	RolesB []float64 `yaml:"roles_b"`
}

func (r CluedRoll) LengthA() float64 { return sum(r.RolesA) }

func (r CluedRoll) LengthB() float64 { return sum(r.RolesB) }

// Splices counts the joints on both sides: one less than the number of
// contributing pieces per side.
func (r CluedRoll) Splices() int {
	return joints(r.RolesA) + joints(r.RolesB)
}

func joints(pieces []float64) int {
	n := 0
	for _, p := range pieces {
		if p >= Tolerance {
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return n - 1
}

// Result is a decoded solution. The counters are the solver's values of
// the objective's aggregate variables.
type Result struct {
	Status    Status      `yaml:"status"`
	Objective float64     `yaml:"objective"`
	Rolls     []CluedRoll `yaml:"rolls"`

	Splices     int `yaml:"splices"`
	NumRolls    int `yaml:"num_rolls"`
	ShortRolls  int `yaml:"short_rolls"`
	UnusedRolls int `yaml:"unused_rolls"`
}

func (r *Result) Optimal() bool {
	return r.Status == StatusOptimal
}

// Decode turns a solution into composite rolls. Slots whose A side is
// shorter than Tolerance are dropped; the rest are numbered from 1 in slot
// order.
func (b *Builder) Decode(sol Solution) *Result {
	res := &Result{
		Status:    sol.Status(),
		Objective: sol.ObjectiveValue(),
	}

	if b.step >= stepFractions {
		for j := 0; j < b.slots; j++ {
			piecesA := pieces(sol, b.fractionA, b.rollsA, j)
			if sum(piecesA) < Tolerance {
				continue
			}
			res.Rolls = append(res.Rolls, CluedRoll{
				Number: len(res.Rolls) + 1,
				RolesA: piecesA,
				RolesB: pieces(sol, b.fractionB, b.rollsB, j),
			})
		}
	}

	if b.step >= stepObjective {
		res.Splices = count(sol, b.numSplices)
		res.NumRolls = count(sol, b.numRolls)
		res.ShortRolls = count(sol, b.numShortRolls)
		res.UnusedRolls = count(sol, b.numUnusedRolls)
	}

	return res
}

func pieces(sol Solution, fractions [][]Var, rolls []float64, slot int) []float64 {
	out := make([]float64, len(rolls))
	for i, length := range rolls {
		p := sol.Value(fractions[i][slot]) * length
		if math.Abs(p) < Tolerance {
			p = 0
		}
		out[i] = p
	}
	return out
}

func count(sol Solution, v Var) int {
	return int(math.Round(sol.Value(v)))
}
