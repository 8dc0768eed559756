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

package lpsolve

// #cgo CFLAGS: -I/usr/include/lpsolve
// #cgo linux LDFLAGS: -llpsolve55
// #cgo darwin LDFLAGS: -L/usr/local/lib -llpsolve55
// #cgo darwin CFLAGS: -I/usr/local/include
// #include <lp_lib.h>
import "C"

import (
	"math"
)

type Variable struct {
	model *Model
	index int
}

type VariableType int

const (
	ContinuousVariable VariableType = iota
	IntegerVariable
	BinaryVariable
)

func (t VariableType) String() string {
	switch t {
	case IntegerVariable:
		return "integer"
	case BinaryVariable:
		return "binary"
	default:
		return "continuous"
	}
}

/* Variable-related functions (model variables, as opposed to Go variables) */

// column is the 1-based lp_solve column of the variable.
func (v *Variable) column() C.int {
	return C.int(v.index + 1)
}

// Index is the 0-based position of the variable in its model.
func (v *Variable) Index() int {
	return v.index
}

func (v *Variable) Name() string {
	v.model.mu.RLock()
	defer v.model.mu.RUnlock()

	return C.GoString(C.get_col_name(v.model.prob, v.column()))
}

func (v *Variable) Type() VariableType {
	v.model.mu.RLock()
	defer v.model.mu.RUnlock()

	switch {
	case C.is_binary(v.model.prob, v.column()) == C.TRUE:
		return BinaryVariable
	case C.is_int(v.model.prob, v.column()) == C.TRUE:
		return IntegerVariable
	default:
		return ContinuousVariable
	}
}

// SetType changes the variable's type. Turning a variable into a
// BinaryVariable also resets its bounds to [0, 1].
func (v *Variable) SetType(varType VariableType) {
	v.model.mu.Lock()
	defer v.model.mu.Unlock()

	v.setType(varType)
}

func (v *Variable) setType(varType VariableType) {
	switch varType {
	case BinaryVariable:
		C.set_binary(v.model.prob, v.column(), C.TRUE)
	case IntegerVariable:
		C.set_int(v.model.prob, v.column(), C.TRUE)
	default:
		C.set_int(v.model.prob, v.column(), C.FALSE)
	}
}

// Bounds returns the variable's bounds, with lp_solve's infinity
// translated to math.Inf.
func (v *Variable) Bounds() (lower, upper float64) {
	v.model.mu.RLock()
	defer v.model.mu.RUnlock()

	lower = v.model.fromC(C.get_lowbo(v.model.prob, v.column()))
	upper = v.model.fromC(C.get_upbo(v.model.prob, v.column()))
	return
}

// SetBounds sets the boundaries for the given variable.
// To leave a side unbounded, pass math.Inf(-1) or math.Inf(1).
func (v *Variable) SetBounds(lower, upper float64) {
	v.model.mu.Lock()
	defer v.model.mu.Unlock()

	v.setBounds(lower, upper)
}

func (v *Variable) setBounds(lower, upper float64) {
	if math.IsInf(lower, -1) && math.IsInf(upper, 1) {
		C.set_unbounded(v.model.prob, v.column())
		return
	}
	C.set_bounds(v.model.prob, v.column(), v.model.toC(lower), v.model.toC(upper))
}

// Coefficient returns the variable's coefficient in the objective function.
func (v *Variable) Coefficient() float64 {
	v.model.mu.RLock()
	defer v.model.mu.RUnlock()

	// row 0 holds the objective
	return float64(C.get_mat(v.model.prob, 0, v.column()))
}

func (v *Variable) SetObjectiveCoefficient(coef float64) {
	v.model.mu.Lock()
	defer v.model.mu.Unlock()

	v.setObjectiveCoefficient(coef)
}

func (v *Variable) setObjectiveCoefficient(coef float64) {
	C.set_mat(v.model.prob, 0, v.column(), C.REAL(coef))
}

// toC maps math.Inf onto lp_solve's own notion of infinity.
func (model *Model) toC(x float64) C.REAL {
	switch {
	case math.IsInf(x, 1):
		return C.get_infinite(model.prob)
	case math.IsInf(x, -1):
		return -C.get_infinite(model.prob)
	default:
		return C.REAL(x)
	}
}

func (model *Model) fromC(x C.REAL) float64 {
	if C.is_infinite(model.prob, x) == C.TRUE {
		return math.Inf(int(math.Copysign(1, float64(x))))
	}
	return float64(x)
}
