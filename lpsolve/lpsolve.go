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

/*
Package lpsolve is a thin binding to the lp_solve 5.5 mixed-integer linear
programming library.

A model is populated column by column and row by row, then solved:

	model, _ := lpsolve.NewModel("example", lpsolve.Maximize, lpsolve.WithTimeout(time.Minute))
	x, _ := model.AddDefinedVariable("x", lpsolve.ContinuousVariable, 1, 0, 40)
	y, _ := model.AddDefinedVariable("y", lpsolve.IntegerVariable, 2, 0, math.Inf(1))

	model.AddConstraint(math.Inf(-1), 20, []*lpsolve.Variable{x, y}, []float64{1, 3})

	result, err := model.SolveWithContext(ctx)
	if err != nil {
		// typed SolveError values, possibly joined with ctx.Err()
	}
	fmt.Println(result.Status(), result.ObjectiveValue(), result.Value(x))

Solving copies the primal values out of the C model, so a SolveResult stays
valid after the model is modified or collected.
*/
package lpsolve

// #cgo CFLAGS: -I/usr/include/lpsolve
// #cgo linux LDFLAGS: -llpsolve55
// #cgo darwin LDFLAGS: -L/usr/local/lib -llpsolve55
// #cgo darwin CFLAGS: -I/usr/local/include
// #include <lp_lib.h>
// #include <stdlib.h>
/*
// https://golang.org/issue/19837
extern int abortCallback(lprec *lp, void *userhandle);
extern void logCallback(lprec *lp, void *userhandle, char *buf);
*/
import "C"

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"
	"unsafe"
)

/* Types */

type Model struct {
	mu     sync.RWMutex
	prob   *C.lprec
	vars   []*Variable
	logger Logger
	logRef unsafe.Pointer

	verbose bool
	timeout time.Duration
	gap     *mipGap
}

type mipGap struct {
	absolute bool
	value    float64
}

type Direction C.uchar

const (
	Minimize = Direction(C.FALSE)
	Maximize = Direction(C.TRUE)
)

func (dir Direction) String() string {
	if dir == Maximize {
		return "maximize"
	}
	return "minimize"
}

/* Model related functions */

// NewModel instantiates a new linear programming model, providing a
// name (purely informational) and an optimization direction (either
// Minimize or Maximize).
func NewModel(name string, dir Direction, opts ...Option) (*Model, error) {
	model := &Model{
		logger: noopLogger{},
	}

	for _, opt := range opts {
		if err := opt(model); err != nil {
			return nil, fmt.Errorf("applying model option: %w", err)
		}
	}

	prob := C.make_lp(0, 0)
	if prob == nil {
		return nil, ErrNoMemory
	}
	model.prob = prob

	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	C.set_lp_name(prob, cName)
	C.set_sense(prob, C.MYBOOL(dir))

	model.finishInitialization()

	return model, nil
}

// finishInitialization pushes the collected options down to lp_solve and
// hooks up logging and cleanup.
func (model *Model) finishInitialization() {
	// the log handle references only the logger, so the model itself stays
	// collectable and its finalizer can run
	model.logRef = saveRef(model.logger)
	C.put_logfunc(model.prob, (*C.lphandlestr_func)(C.logCallback), model.logRef)

	empty := C.CString("")
	defer C.free(unsafe.Pointer(empty))
	C.set_outputfile(model.prob, empty)

	if model.verbose {
		C.set_verbose(model.prob, C.DETAILED)
	} else {
		C.set_verbose(model.prob, C.NEUTRAL)
	}

	if model.timeout > 0 {
		C.set_timeout(model.prob, C.long(math.Ceil(model.timeout.Seconds())))
	}

	if model.gap != nil {
		absolute := C.MYBOOL(C.FALSE)
		if model.gap.absolute {
			absolute = C.MYBOOL(C.TRUE)
		}
		C.set_mip_gap(model.prob, absolute, C.REAL(model.gap.value))
	}

	runtime.SetFinalizer(model, finalizeModel)
}

//export logCallback
func logCallback(prob *C.lprec, ref unsafe.Pointer, msg *C.char) {
	logger, ok := loadRef(ref).(Logger)
	if !ok {
		return
	}

	logger.Print(C.GoString(msg))
}

// finalizeModel frees the C side of a model once the Go value is unreachable.
func finalizeModel(model *Model) {
	C.delete_lp(model.prob)
	releaseRef(model.logRef)
}

// Name returns the name provided upon instantiation of a model
func (model *Model) Name() string {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return C.GoString(C.get_lp_name(model.prob))
}

// Direction returns the model's current optimization direction
func (model *Model) Direction() Direction {
	model.mu.RLock()
	defer model.mu.RUnlock()

	if C.is_maxim(model.prob) == C.TRUE {
		return Maximize
	}
	return Minimize
}

// SetDirection changes the direction of the model's optimization
func (model *Model) SetDirection(dir Direction) {
	model.mu.Lock()
	defer model.mu.Unlock()

	C.set_sense(model.prob, C.MYBOOL(dir))
}

/* Column-related functions */

func (model *Model) VariableCount() int {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return int(C.get_Ncolumns(model.prob))
}

// Variables returns the model's variables in creation order.
func (model *Model) Variables() []*Variable {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return append([]*Variable(nil), model.vars...)
}

// AddVariable adds a variable to the model and returns a reference to it.
// A freshly added variable is continuous, unbounded and has an objective
// coefficient of 1.
//
// Empty names are replaced by a unique name.
func (model *Model) AddVariable(name string) (*Variable, error) {
	return model.AddDefinedVariable(name, ContinuousVariable, 1, math.Inf(-1), math.Inf(1))
}

// AddBinaryVariable adds a binary variable with an objective coefficient of 1.
func (model *Model) AddBinaryVariable(name string) (*Variable, error) {
	return model.AddDefinedVariable(name, BinaryVariable, 1, 0, 1)
}

// AddIntegerVariable adds an unbounded integer variable with an objective
// coefficient of 1.
func (model *Model) AddIntegerVariable(name string) (*Variable, error) {
	return model.AddDefinedVariable(name, IntegerVariable, 1, math.Inf(-1), math.Inf(1))
}

// AddDefinedVariable adds a variable with all of its attributes given at
// once. The bounds of a BinaryVariable are always [0, 1].
//
// A variable is bound to its model; passing it to another model's
// methods returns an error.
func (model *Model) AddDefinedVariable(name string, varType VariableType, coefficient, lowerBound, upperBound float64) (*Variable, error) {
	if lowerBound > upperBound {
		return nil, fmt.Errorf("variable %q: lower bound %g above upper bound %g", name, lowerBound, upperBound)
	}

	model.mu.Lock()
	defer model.mu.Unlock()

	v := &Variable{
		model: model,
		index: len(model.vars),
	}

	// a zero-length column: the new variable takes no part in the rows that
	// were added before it
	if C.add_columnex(model.prob, 0, nil, nil) != C.TRUE {
		return nil, ErrNoMemory
	}
	model.vars = append(model.vars, v)

	if name == "" {
		name = fmt.Sprintf("V%d", v.index)
	}

	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	C.set_col_name(model.prob, v.column(), cName)

	v.setType(varType)
	v.setObjectiveCoefficient(coefficient)
	if varType != BinaryVariable {
		v.setBounds(lowerBound, upperBound)
	}

	return v, nil
}

// SetObjectiveFunction defines the objective as a slice of coefficients
// and a slice of their respective variables. Variables not listed keep
// their current coefficient.
// E.g.: an objective of the form 2x+3y is passed as:
//
//	SetObjectiveFunction([]float64{2, 3}, []*Variable{x, y})
func (model *Model) SetObjectiveFunction(coefs []float64, vars []*Variable) error {
	if len(vars) != len(coefs) {
		return fmt.Errorf("inconsistent number of variables and coefficients: %d != %d", len(vars), len(coefs))
	}

	model.mu.Lock()
	defer model.mu.Unlock()

	for i, v := range vars {
		if v.model != model {
			return fmt.Errorf("variable %d belongs to a different model", i)
		}
		v.setObjectiveCoefficient(coefs[i])
	}

	return nil
}

/* Constraint-related functions */

// ConstraintCount returns the number of rows in the model. A ranged
// constraint is stored as two rows.
func (model *Model) ConstraintCount() int {
	model.mu.RLock()
	defer model.mu.RUnlock()

	return int(C.get_Nrows(model.prob))
}

// AddConstraint adds the row lower <= sum(coefs[i] * vars[i]) <= upper.
// Either bound may be infinite; a row with two infinite bounds is dropped.
func (model *Model) AddConstraint(lower, upper float64, vars []*Variable, coefs []float64) error {
	if len(vars) != len(coefs) {
		return fmt.Errorf("inconsistent number of variables and coefficients: %d != %d", len(vars), len(coefs))
	}
	if len(vars) == 0 {
		return errors.New("constraint without variables")
	}
	if lower > upper {
		return fmt.Errorf("constraint lower bound %g above upper bound %g", lower, upper)
	}

	model.mu.Lock()
	defer model.mu.Unlock()

	row := make([]C.REAL, len(vars))
	colno := make([]C.int, len(vars))
	for i, v := range vars {
		if v.model != model {
			return fmt.Errorf("variable %d belongs to a different model", i)
		}
		colno[i] = v.column()
		row[i] = C.REAL(coefs[i])
	}

	add := func(kind C.int, rhs float64) error {
		if C.add_constraintex(model.prob, C.int(len(vars)), &row[0], &colno[0], kind, C.REAL(rhs)) != C.TRUE {
			return fmt.Errorf("adding constraint row %d: %w", int(C.get_Nrows(model.prob))+1, ErrNoMemory)
		}
		return nil
	}

	switch {
	case math.IsInf(lower, 0) && math.IsInf(upper, 0):
		return nil
	case math.IsInf(lower, 0):
		return add(C.LE, upper)
	case math.IsInf(upper, 0):
		return add(C.GE, lower)
	case upper == lower:
		return add(C.EQ, upper)
	default:
		if err := add(C.LE, upper); err != nil {
			return err
		}
		return add(C.GE, lower)
	}
}

/* Solving */

// Solve attempts to find an optimal solution to the model.
// Information about the solution can be queried from the returned
// SolveResult value.
func (model *Model) Solve() (*SolveResult, error) {
	model.mu.Lock()
	defer model.mu.Unlock()

	return model.solve()
}

// solve must be called with model.mu held.
func (model *Model) solve() (*SolveResult, error) {
	ret := C.solve(model.prob)

	switch ret {
	case C.OPTIMAL, C.SUBOPTIMAL:
		return model.snapshot(SolveStatus(ret)), nil
	case C.INFEASIBLE, C.UNBOUNDED, C.DEGENERATE, C.NUMFAILURE,
		C.USERABORT, C.TIMEOUT, C.PRESOLVED, C.PROCFAIL, C.PROCBREAK,
		C.FEASFOUND, C.NOFEASFOUND, C.NOMEMORY:
		return nil, SolveError(ret)
	default:
		return nil, fmt.Errorf("unrecognized lp_solve result %d", int(ret))
	}
}

// snapshot copies the current primal solution out of the C model.
func (model *Model) snapshot(status SolveStatus) *SolveResult {
	res := &SolveResult{
		status:    status,
		objective: float64(C.get_objective(model.prob)),
		values:    make([]float64, len(model.vars)),
	}

	if len(model.vars) > 0 {
		buf := make([]C.REAL, len(model.vars))
		C.get_variables(model.prob, &buf[0])
		for i, x := range buf {
			res.values[i] = float64(x)
		}
	}

	return res
}

//export abortCallback
func abortCallback(prob *C.lprec, ref unsafe.Pointer) C.int {
	ctx, ok := loadRef(ref).(context.Context)
	if ok && ctx.Err() != nil {
		return C.TRUE
	}

	return C.FALSE
}

// SolveWithContext wraps Solve() with a context. If the context is
// cancelled or times out, the search is aborted. When no solution was
// found yet the returned error matches both ErrUserAbort and ctx.Err();
// otherwise the best solution so far is returned with SolutionSuboptimal.
func (model *Model) SolveWithContext(ctx context.Context) (*SolveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUserAbort, err)
	}

	model.mu.Lock()
	defer model.mu.Unlock()

	ref := saveRef(ctx)
	defer releaseRef(ref)

	C.put_abortfunc(model.prob, (*C.lphandle_intfunc)(C.abortCallback), ref)
	defer C.put_abortfunc(model.prob, nil, nil)

	res, err := model.solve()
	if errors.Is(err, ErrUserAbort) && ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", err, ctx.Err())
	}

	return res, err
}
