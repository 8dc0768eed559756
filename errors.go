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
	"errors"
	"fmt"
)

var (
	// ErrInvalidInstance is returned before any model is built.
	ErrInvalidInstance = errors.New("invalid instance")
	// ErrInfeasible means no allocation satisfies the constraints. Raising
	// max_length or max_number_of_rolls, or dropping full consumption, may help.
	ErrInfeasible = errors.New("instance is infeasible")
	ErrUnbounded  = errors.New("model is unbounded")
	// ErrNoSolution means the solve budget ran out before any feasible
	// allocation was found.
	ErrNoSolution = errors.New("no solution found within budget")
	// ErrBuildOrder is returned when a builder step runs before the steps
	// it depends on.
	ErrBuildOrder = errors.New("model build steps out of order")
)

// SolverError carries an unexpected failure of the solver.
type SolverError struct {
	Err error
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("solver failure: %v", e.Err)
}

func (e *SolverError) Unwrap() error {
	return e.Err
}
