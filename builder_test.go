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
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInstance(rollsA, rollsB []float64, slots int) *Instance {
	cfg := DefaultConfig()
	cfg.RollsA = rollsA
	cfg.RollsB = rollsB
	cfg.MaxNumberOfRolls = slots
	return NewInstance(cfg)
}

func builtFake(t *testing.T, inst *Instance) (*Builder, *fakeModel) {
	t.Helper()

	model := &fakeModel{}
	b, err := NewBuilder(inst, model)
	require.NoError(t, err)
	require.NoError(t, b.Build())

	return b, model
}

func TestBuilderRejectsInvalidInstance(t *testing.T) {
	model := &fakeModel{}

	_, err := NewBuilder(newTestInstance([]float64{100}, nil, 3), model)
	assert.ErrorIs(t, err, ErrInvalidInstance)

	_, err = NewBuilder(newTestInstance([]float64{100}, []float64{100}, 0), model)
	assert.ErrorIs(t, err, ErrInvalidInstance)

	_, err = NewBuilder(nil, model)
	assert.ErrorIs(t, err, ErrInvalidInstance)

	assert.Empty(t, model.vars)
	assert.Empty(t, model.rows)
	assert.Zero(t, model.solved)
}

func TestBuilderRejectsNilModel(t *testing.T) {
	_, err := NewBuilder(newTestInstance([]float64{100}, []float64{100}, 1), nil)
	assert.Error(t, err)
}

func TestBuilderStepOrder(t *testing.T) {
	b, err := NewBuilder(newTestInstance([]float64{100}, []float64{100}, 1), &fakeModel{})
	require.NoError(t, err)

	assert.ErrorIs(t, b.DeclareFractionVariables(), ErrBuildOrder)
	assert.ErrorIs(t, b.DeclareUsageVariables(), ErrBuildOrder)
	assert.ErrorIs(t, b.AddObjective(), ErrBuildOrder)
	_, err = b.Solve(context.Background())
	assert.ErrorIs(t, err, ErrBuildOrder)

	require.NoError(t, b.DeclareLengthVariables())
	assert.ErrorIs(t, b.DeclareLengthVariables(), ErrBuildOrder)
	require.NoError(t, b.DeclareFractionVariables())
	assert.ErrorIs(t, b.AddObjective(), ErrBuildOrder)
	require.NoError(t, b.DeclareUsageVariables())
	require.NoError(t, b.AddObjective())

	_, err = b.Solve(context.Background())
	assert.NoError(t, err)
	assert.ErrorIs(t, b.Build(), ErrBuildOrder)
}

func TestBuilderModelSize(t *testing.T) {
	inst := newTestInstance([]float64{100, 200}, []float64{150, 50, 100}, 3)
	_, model := builtFake(t, inst)

	assert.Equal(t, 3, model.countPrefix("length_"))
	assert.Equal(t, 6, model.countPrefix("fraction_a_"))
	assert.Equal(t, 9, model.countPrefix("fraction_b_"))
	assert.Equal(t, 6, model.countPrefix("used_a_"))
	assert.Equal(t, 9, model.countPrefix("used_b_"))
	assert.Equal(t, 3, model.countPrefix("active_"))
	assert.Equal(t, 6, model.countPrefix("splices_"))
	assert.Equal(t, 0, model.countPrefix("short_"))
	assert.Equal(t, 5, model.countPrefix("unused_"))
	assert.Equal(t, 4, model.countPrefix("num_"))
	assert.Len(t, model.vars, 51)

	// material 2, slot lengths 6, capacity 5, usage 15, activity 3,
	// slot order 2, splices 6, unused 5, counters 4
	assert.Len(t, model.rows, 48)
}

func TestBuilderOptionalFamilies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RollsA = []float64{100, 200}
	cfg.RollsB = []float64{150, 50, 100}
	cfg.MaxNumberOfRolls = 3
	cfg.ShortLength = 80
	cfg.FullConsumption = true

	_, model := builtFake(t, NewInstance(cfg))

	assert.Equal(t, 3, model.countPrefix("short_"))
	assert.Len(t, model.vars, 54)
	assert.Len(t, model.rows, 48+3+1)
}

func TestBuilderVariableDomains(t *testing.T) {
	inst := newTestInstance([]float64{100}, []float64{100}, 2)
	_, model := builtFake(t, inst)

	for _, v := range model.vars {
		switch {
		case v.name == "length_0":
			assert.Equal(t, Continuous, v.kind)
			assert.Equal(t, 0.0, v.lower)
			assert.Equal(t, inst.MaxLength(), v.upper)
		case v.name == "fraction_a_0_1":
			assert.Equal(t, Continuous, v.kind)
			assert.Equal(t, 0.0, v.lower)
			assert.True(t, math.IsInf(v.upper, 1))
		case v.name == "used_b_0_0", v.name == "active_1", v.name == "unused_a_0":
			assert.Equal(t, Binary, v.kind)
		case v.name == "splices_a_0", v.name == "num_rolls":
			assert.Equal(t, Integer, v.kind)
			assert.Equal(t, 0.0, v.lower)
		}
	}
}

func TestBuilderObjective(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RollsA = []float64{100}
	cfg.RollsB = []float64{100}
	cfg.Costs = Costs{Splice: 4, NewRoll: 8, ShortRoll: 2, UnusedRoll: 1}

	_, model := builtFake(t, NewInstance(cfg))

	require.Len(t, model.objVars, 4)
	names := make([]string, 0, 4)
	for _, v := range model.objVars {
		names = append(names, model.vars[v].name)
	}
	assert.Equal(t, []string{"num_agglutinations", "num_rolls", "num_short_rolls", "num_unused_rolls"}, names)
	assert.Equal(t, []float64{4, 8, 2, 1}, model.objCoefs)
}

func TestBuilderAcceptsMatchedAllocation(t *testing.T) {
	inst := newTestInstance([]float64{100}, []float64{60, 40}, 2)
	_, model := builtFake(t, inst)

	matched := map[string]float64{
		"length_0":           100,
		"fraction_a_0_0":     1,
		"fraction_b_0_0":     1,
		"fraction_b_1_0":     1,
		"used_a_0_0":         1,
		"used_b_0_0":         1,
		"used_b_1_0":         1,
		"active_0":           1,
		"splices_b_0":        1,
		"num_agglutinations": 1,
		"num_rolls":          1,
	}
	sol := model.assignment(matched)
	assert.Empty(t, model.violations(sol))
	assert.InDelta(t, 5+8, sol.ObjectiveValue(), checkTolerance)

	// the B side falls 40 short of the slot length
	matched["fraction_b_1_0"] = 0
	assert.NotEmpty(t, model.violations(model.assignment(matched)))
}

func TestBuilderRejectsHiddenUsage(t *testing.T) {
	inst := newTestInstance([]float64{100}, []float64{100}, 1)
	_, model := builtFake(t, inst)

	sol := model.assignment(map[string]float64{
		"length_0":       100,
		"fraction_a_0_0": 1,
		"fraction_b_0_0": 1,
		"used_a_0_0":     1,
		// used_b_0_0 left at 0 although B contributes
		"active_0":  1,
		"num_rolls": 1,
	})
	assert.NotEmpty(t, model.violations(sol))
}

func TestBuilderCountsUnusedRolls(t *testing.T) {
	inst := newTestInstance([]float64{100}, []float64{60, 40}, 2)
	_, model := builtFake(t, inst)

	assert.NotEmpty(t, model.violations(model.assignment(nil)))

	empty := model.assignment(map[string]float64{
		"unused_a_0":       1,
		"unused_b_0":       1,
		"unused_b_1":       1,
		"num_unused_rolls": 3,
	})
	assert.Empty(t, model.violations(empty))
	assert.InDelta(t, 3*7, empty.ObjectiveValue(), checkTolerance)
}

func TestBuilderCountsShortRolls(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RollsA = []float64{30}
	cfg.RollsB = []float64{30}
	cfg.MaxNumberOfRolls = 1
	cfg.ShortLength = 50

	_, model := builtFake(t, NewInstance(cfg))

	values := map[string]float64{
		"length_0":       30,
		"fraction_a_0_0": 1,
		"fraction_b_0_0": 1,
		"used_a_0_0":     1,
		"used_b_0_0":     1,
		"active_0":       1,
		"num_rolls":      1,
	}
	assert.NotEmpty(t, model.violations(model.assignment(values)))

	values["short_0"] = 1
	values["num_short_rolls"] = 1
	assert.Empty(t, model.violations(model.assignment(values)))
}

func TestBuilderFullConsumption(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RollsA = []float64{100}
	cfg.RollsB = []float64{50}
	cfg.MaxNumberOfRolls = 1
	cfg.FullConsumption = true

	_, model := builtFake(t, NewInstance(cfg))

	// leaving everything unused is no longer an option
	assert.NotEmpty(t, model.violations(model.assignment(map[string]float64{
		"unused_a_0":       1,
		"unused_b_0":       1,
		"num_unused_rolls": 2,
	})))
}

func TestDecode(t *testing.T) {
	inst := newTestInstance([]float64{100, 50}, []float64{150}, 3)
	b, model := builtFake(t, inst)

	sol := model.assignment(map[string]float64{
		// slot 0 stays empty apart from numerical noise
		"fraction_a_0_0":     1e-12,
		"fraction_a_0_1":     0.4,
		"fraction_a_1_1":     1,
		"fraction_b_0_1":     0.6,
		"fraction_b_0_2":     0.4,
		"fraction_a_0_2":     0.6,
		"num_rolls":          2,
		"num_agglutinations": 1,
		"num_unused_rolls":   0,
	})

	res := b.Decode(sol)

	want := []CluedRoll{
		{Number: 1, RolesA: []float64{40, 50}, RolesB: []float64{90}},
		{Number: 2, RolesA: []float64{60, 0}, RolesB: []float64{60}},
	}
	if diff := cmp.Diff(want, res.Rolls, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("decoded rolls mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, StatusOptimal, res.Status)
	assert.True(t, res.Optimal())
	assert.Equal(t, 2, res.NumRolls)
	assert.Equal(t, 1, res.Splices)
	assert.Equal(t, 1, res.Rolls[0].Splices())
	assert.Equal(t, 0, res.Rolls[1].Splices())
	assert.InDelta(t, 90, res.Rolls[0].LengthA(), 1e-9)
	assert.InDelta(t, 90, res.Rolls[0].LengthB(), 1e-9)
}

func TestDecodeSuboptimal(t *testing.T) {
	inst := newTestInstance([]float64{100}, []float64{100}, 1)
	b, model := builtFake(t, inst)

	sol := model.assignment(nil)
	sol.status = StatusSuboptimal

	res := b.Decode(sol)
	assert.False(t, res.Optimal())
	assert.Empty(t, res.Rolls)
}

func TestBuilderSolvePropagatesErrors(t *testing.T) {
	for _, want := range []error{ErrInfeasible, ErrUnbounded, ErrNoSolution, &SolverError{Err: errors.New("boom")}} {
		model := &fakeModel{
			solve: func(*fakeModel) (Solution, error) { return nil, want },
		}
		b, err := NewBuilder(newTestInstance([]float64{100}, []float64{100}, 1), model)
		require.NoError(t, err)
		require.NoError(t, b.Build())

		res, err := b.Solve(context.Background())
		assert.Nil(t, res)
		assert.ErrorIs(t, err, want)
		assert.Equal(t, 1, model.solved)
	}
}

func TestSolverErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	var err error = &SolverError{Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}
