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
)

// VariableKind is the domain of a model variable.
type VariableKind int

const (
	Continuous VariableKind = iota
	Integer
	Binary
)

func (k VariableKind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Binary:
		return "binary"
	default:
		return "continuous"
	}
}

// Var is a handle to a variable of the Model that created it.
type Var int

// Model is the solver side of the problem: the Builder declares variables
// and rows on it and asks it for a minimizing solution.
//
// Solve reports ErrInfeasible, ErrUnbounded and ErrNoSolution as such and
// wraps anything else in a *SolverError. A budget-limited solve that found
// some solution returns it with StatusSuboptimal.
type Model interface {
	AddVariable(name string, kind VariableKind, lower, upper float64) (Var, error)
	// AddConstraint adds lower <= sum(coefs[i] * vars[i]) <= upper.
	AddConstraint(lower, upper float64, vars []Var, coefs []float64) error
	// SetObjective replaces the objective to minimize.
	SetObjective(vars []Var, coefs []float64) error
	Solve(ctx context.Context) (Solution, error)
}

// Solution is a variable assignment returned by Model.Solve.
type Solution interface {
	Status() Status
	Value(v Var) float64
	ObjectiveValue() float64
}

type Status int

const (
	StatusOptimal Status = iota
	// StatusSuboptimal is the best solution found before the budget ran out.
	StatusSuboptimal
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusSuboptimal:
		return "suboptimal"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func (s Status) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}
