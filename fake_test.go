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

import (
	"context"
	"fmt"
	"math"
	"strings"
)

const checkTolerance = 1e-6

type fakeVar struct {
	name         string
	kind         VariableKind
	lower, upper float64
}

type fakeRow struct {
	lower, upper float64
	vars         []Var
	coefs        []float64
}

// fakeModel records what a Builder declares and can check an assignment
// against it.
type fakeModel struct {
	vars     []fakeVar
	rows     []fakeRow
	objVars  []Var
	objCoefs []float64

	// solve answers Solve; nil solves with all zeros
	solve  func(m *fakeModel) (Solution, error)
	solved int
}

func (m *fakeModel) AddVariable(name string, kind VariableKind, lower, upper float64) (Var, error) {
	m.vars = append(m.vars, fakeVar{name: name, kind: kind, lower: lower, upper: upper})
	return Var(len(m.vars) - 1), nil
}

func (m *fakeModel) AddConstraint(lower, upper float64, vars []Var, coefs []float64) error {
	if len(vars) != len(coefs) {
		return fmt.Errorf("%d vars, %d coefs", len(vars), len(coefs))
	}
	m.rows = append(m.rows, fakeRow{lower: lower, upper: upper, vars: vars, coefs: coefs})
	return nil
}

func (m *fakeModel) SetObjective(vars []Var, coefs []float64) error {
	m.objVars, m.objCoefs = vars, coefs
	return nil
}

func (m *fakeModel) Solve(ctx context.Context) (Solution, error) {
	m.solved++
	if m.solve == nil {
		return m.assignment(nil), nil
	}
	return m.solve(m)
}

func (m *fakeModel) lookup(name string) Var {
	for i, v := range m.vars {
		if v.name == name {
			return Var(i)
		}
	}
	panic("no variable " + name)
}

func (m *fakeModel) countPrefix(prefix string) int {
	n := 0
	for _, v := range m.vars {
		if strings.HasPrefix(v.name, prefix) {
			n++
		}
	}
	return n
}

// assignment builds a solution from values keyed by variable name.
func (m *fakeModel) assignment(byName map[string]float64) *fakeSolution {
	sol := &fakeSolution{status: StatusOptimal, values: make([]float64, len(m.vars))}
	for name, x := range byName {
		sol.values[m.lookup(name)] = x
	}
	for i, v := range m.objVars {
		sol.objective += m.objCoefs[i] * sol.values[v]
	}
	return sol
}

// violations lists every bound, integrality or row the solution breaks.
func (m *fakeModel) violations(sol *fakeSolution) []string {
	var out []string
	for i, v := range m.vars {
		x := sol.values[i]
		if x < v.lower-checkTolerance || x > v.upper+checkTolerance {
			out = append(out, fmt.Sprintf("%s=%g outside [%g, %g]", v.name, x, v.lower, v.upper))
		}
		if v.kind != Continuous && math.Abs(x-math.Round(x)) > checkTolerance {
			out = append(out, fmt.Sprintf("%s=%g not integral", v.name, x))
		}
	}
	for i, row := range m.rows {
		var lhs float64
		for k, v := range row.vars {
			lhs += row.coefs[k] * sol.values[v]
		}
		if lhs < row.lower-checkTolerance || lhs > row.upper+checkTolerance {
			out = append(out, fmt.Sprintf("row %d: %g outside [%g, %g]", i, lhs, row.lower, row.upper))
		}
	}
	return out
}

type fakeSolution struct {
	status    Status
	values    []float64
	objective float64
}

func (s *fakeSolution) Status() Status { return s.status }
func (s *fakeSolution) Value(v Var) float64 { return s.values[v] }
func (s *fakeSolution) ObjectiveValue() float64 { return s.objective }
