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
Package rollglue plans how to splice two pools of material rolls into
composite rolls whose A side and B side have the same length.

The problem is modelled as a mixed-integer linear program. A Builder
declares the variables and constraint families on a Model, which by default
is an lp_solve model:

	inst := rollglue.NewInstance(rollglue.Config{
		RollsA:           []float64{120, 100, 240},
		RollsB:           []float64{80, 310, 90},
		Costs:            rollglue.Costs{Splice: 4, NewRoll: 8, ShortRoll: 8, UnusedRoll: 8},
		MaxLength:        1000,
		MaxNumberOfRolls: 10,
	})

	result, err := rollglue.Solve(ctx, inst, rollglue.WithTimeout(time.Minute))
	switch {
	case errors.Is(err, rollglue.ErrInfeasible):
		// relax max_length or raise max_number_of_rolls
	case err != nil:
		// invalid instance, no solution in time, or solver failure
	}

	for _, roll := range result.Rolls {
		fmt.Println(roll.Number, roll.RolesA, roll.RolesB)
	}

The steps of the Builder can also be driven one by one against any Model
implementation.
*/
package rollglue

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/costela/rollglue/lpsolve"
)

// Solve builds the model for inst on a fresh lp_solve model and solves it.
func Solve(ctx context.Context, inst *Instance, opts ...Option) (*Result, error) {
	if inst == nil {
		return nil, fmt.Errorf("%w: nil instance", ErrInvalidInstance)
	}
	// fail before allocating anything in C
	if err := inst.Validate(); err != nil {
		return nil, err
	}

	model, err := NewLPSolveModel("rollglue", opts...)
	if err != nil {
		return nil, err
	}

	builder, err := NewBuilder(inst, model, opts...)
	if err != nil {
		return nil, err
	}
	if err := builder.Build(); err != nil {
		return nil, err
	}

	return builder.Solve(ctx)
}

type lpSolveModel struct {
	model *lpsolve.Model
	vars  []*lpsolve.Variable
}

// NewLPSolveModel returns a minimizing Model backed by lp_solve. It honors
// WithLogger, WithTimeout and WithMIPGap.
func NewLPSolveModel(name string, opts ...Option) (Model, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}

	lpOpts := []lpsolve.Option{lpsolve.WithTimeout(s.timeout)}
	if _, quiet := s.logger.(noopLogger); !quiet {
		lpOpts = append(lpOpts, lpsolve.WithLogger(s.logger))
	}
	if s.mipGap > 0 {
		lpOpts = append(lpOpts, lpsolve.WithMIPGap(false, s.mipGap))
	}

	model, err := lpsolve.NewModel(name, lpsolve.Minimize, lpOpts...)
	if err != nil {
		return nil, &SolverError{Err: err}
	}

	return &lpSolveModel{model: model}, nil
}

func (m *lpSolveModel) AddVariable(name string, kind VariableKind, lower, upper float64) (Var, error) {
	var varType lpsolve.VariableType
	switch kind {
	case Continuous:
		varType = lpsolve.ContinuousVariable
	case Integer:
		varType = lpsolve.IntegerVariable
	case Binary:
		varType = lpsolve.BinaryVariable
	default:
		return 0, fmt.Errorf("unknown variable kind %d", kind)
	}

	v, err := m.model.AddDefinedVariable(name, varType, 0, lower, upper)
	if err != nil {
		return 0, err
	}
	m.vars = append(m.vars, v)

	return Var(len(m.vars) - 1), nil
}

func (m *lpSolveModel) lookup(vars []Var) ([]*lpsolve.Variable, error) {
	out := make([]*lpsolve.Variable, len(vars))
	for i, v := range vars {
		if int(v) < 0 || int(v) >= len(m.vars) {
			return nil, fmt.Errorf("unknown variable %d", v)
		}
		out[i] = m.vars[v]
	}
	return out, nil
}

func (m *lpSolveModel) AddConstraint(lower, upper float64, vars []Var, coefs []float64) error {
	lpVars, err := m.lookup(vars)
	if err != nil {
		return err
	}
	return m.model.AddConstraint(lower, upper, lpVars, coefs)
}

func (m *lpSolveModel) SetObjective(vars []Var, coefs []float64) error {
	lpVars, err := m.lookup(vars)
	if err != nil {
		return err
	}

	// replace rather than merge
	zeros := make([]float64, len(m.vars))
	if err := m.model.SetObjectiveFunction(zeros, m.vars); err != nil {
		return err
	}
	return m.model.SetObjectiveFunction(coefs, lpVars)
}

func (m *lpSolveModel) Solve(ctx context.Context) (Solution, error) {
	res, err := m.model.SolveWithContext(ctx)
	switch {
	case err == nil:
	case errors.Is(err, lpsolve.ErrModelInfeasible), errors.Is(err, lpsolve.ErrNoFeasibleFound):
		return nil, fmt.Errorf("%w: %w", ErrInfeasible, err)
	case errors.Is(err, lpsolve.ErrModelUnbounded):
		return nil, fmt.Errorf("%w: %w", ErrUnbounded, err)
	case errors.Is(err, lpsolve.ErrTimeout), errors.Is(err, lpsolve.ErrUserAbort):
		return nil, fmt.Errorf("%w: %w", ErrNoSolution, err)
	default:
		return nil, &SolverError{Err: err}
	}

	status := StatusOptimal
	if res.Status() != lpsolve.SolutionOptimal {
		status = StatusSuboptimal
	}

	return &lpSolveSolution{model: m, result: res, status: status}, nil
}

type lpSolveSolution struct {
	model  *lpSolveModel
	result *lpsolve.SolveResult
	status Status
}

func (s *lpSolveSolution) Status() Status { return s.status }

func (s *lpSolveSolution) Value(v Var) float64 {
	if int(v) < 0 || int(v) >= len(s.model.vars) {
		return math.NaN()
	}
	return s.result.Value(s.model.vars[v])
}

func (s *lpSolveSolution) ObjectiveValue() float64 { return s.result.ObjectiveValue() }
