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
	"fmt"
	"math"
)

type buildStep int

const (
	stepNone buildStep = iota
	stepLengths
	stepFractions
	stepUsage
	stepObjective
)

func (s buildStep) String() string {
	switch s {
	case stepLengths:
		return "length variables"
	case stepFractions:
		return "fraction variables"
	case stepUsage:
		return "usage variables"
	case stepObjective:
		return "objective"
	default:
		return "nothing"
	}
}

// Builder translates an Instance into a MILP on a Model and decodes the
// solution. Variables are indexed [source roll][slot]; slots are
// interchangeable until Decode numbers the realized ones.
type Builder struct {
	inst   *Instance
	model  Model
	logger Logger

	rollsA []float64
	rollsB []float64
	slots  int
	step   buildStep

	lengths   []Var
	fractionA [][]Var
	fractionB [][]Var
	usedA     [][]Var
	usedB     [][]Var

	active   []Var
	splicesA []Var
	splicesB []Var
	short    []Var
	unusedA  []Var
	unusedB  []Var

	numSplices     Var
	numRolls       Var
	numShortRolls  Var
	numUnusedRolls Var
}

// NewBuilder validates inst and binds it to model. Invalid instances are
// rejected here, before anything is added to the model. Only WithLogger
// is relevant to a Builder.
func NewBuilder(inst *Instance, model Model, opts ...Option) (*Builder, error) {
	if inst == nil {
		return nil, fmt.Errorf("%w: nil instance", ErrInvalidInstance)
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, errors.New("nil model")
	}

	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}

	return &Builder{
		inst:   inst,
		model:  model,
		logger: s.logger,
		rollsA: inst.RollsA(),
		rollsB: inst.RollsB(),
		slots:  inst.MaxNumberOfRolls(),
	}, nil
}

// Build runs every declaration step in order.
func (b *Builder) Build() error {
	steps := []func() error{
		b.DeclareLengthVariables,
		b.DeclareFractionVariables,
		b.DeclareUsageVariables,
		b.AddObjective,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) enter(step buildStep) error {
	if b.step != step-1 {
		return fmt.Errorf("%w: cannot add %s after %s", ErrBuildOrder, step, b.step)
	}
	return nil
}

func (b *Builder) addVariable(kind VariableKind, lower, upper float64, format string, args ...interface{}) (Var, error) {
	name := fmt.Sprintf(format, args...)
	v, err := b.model.AddVariable(name, kind, lower, upper)
	if err != nil {
		return 0, fmt.Errorf("adding variable %s: %w", name, err)
	}
	return v, nil
}

func (b *Builder) addConstraint(lower, upper float64, vars []Var, coefs []float64, what string) error {
	if err := b.model.AddConstraint(lower, upper, vars, coefs); err != nil {
		return fmt.Errorf("adding %s constraint: %w", what, err)
	}
	return nil
}

// DeclareLengthVariables adds one length per slot, bounded by the maximum
// roll length, and caps the total by each pool's material.
func (b *Builder) DeclareLengthVariables() error {
	if err := b.enter(stepLengths); err != nil {
		return err
	}

	b.lengths = make([]Var, b.slots)
	for j := range b.lengths {
		v, err := b.addVariable(Continuous, 0, b.inst.MaxLength(), "length_%d", j)
		if err != nil {
			return err
		}
		b.lengths[j] = v
	}

	ones := repeat(1, b.slots)
	if err := b.addConstraint(math.Inf(-1), b.inst.TotalA(), b.lengths, ones, "A material"); err != nil {
		return err
	}
	if err := b.addConstraint(math.Inf(-1), b.inst.TotalB(), b.lengths, ones, "B material"); err != nil {
		return err
	}

	if b.inst.FullConsumption() {
		target := math.Min(b.inst.TotalA(), b.inst.TotalB())
		if err := b.addConstraint(target, target, b.lengths, ones, "full consumption"); err != nil {
			return err
		}
	}

	b.step = stepLengths
	b.logger.Print(fmt.Sprintf("declared %d slot lengths", b.slots))
	return nil
}

// DeclareFractionVariables splits every source roll over the slots. Each
// slot's length equals both its A pieces and its B pieces, and no roll is
// handed out beyond 100%.
func (b *Builder) DeclareFractionVariables() error {
	if err := b.enter(stepFractions); err != nil {
		return err
	}

	var err error
	if b.fractionA, err = b.declareFractions("a", b.rollsA); err != nil {
		return err
	}
	if b.fractionB, err = b.declareFractions("b", b.rollsB); err != nil {
		return err
	}

	b.step = stepFractions
	b.logger.Print(fmt.Sprintf("declared %d fraction variables", b.slots*(len(b.rollsA)+len(b.rollsB))))
	return nil
}

func (b *Builder) declareFractions(pool string, rolls []float64) ([][]Var, error) {
	fractions := make([][]Var, len(rolls))
	for i := range rolls {
		fractions[i] = make([]Var, b.slots)
		for j := range fractions[i] {
			v, err := b.addVariable(Continuous, 0, math.Inf(1), "fraction_%s_%d_%d", pool, i, j)
			if err != nil {
				return nil, err
			}
			fractions[i][j] = v
		}
	}

	for j := 0; j < b.slots; j++ {
		vars := []Var{b.lengths[j]}
		coefs := []float64{1}
		for i, length := range rolls {
			vars = append(vars, fractions[i][j])
			coefs = append(coefs, -length)
		}
		if err := b.addConstraint(0, 0, vars, coefs, "slot length "+pool); err != nil {
			return nil, err
		}
	}

	ones := repeat(1, b.slots)
	for i := range rolls {
		if err := b.addConstraint(math.Inf(-1), 1, fractions[i], ones, "roll capacity "+pool); err != nil {
			return nil, err
		}
	}

	return fractions, nil
}

// DeclareUsageVariables adds a binary per fraction that is forced to 1
// whenever the fraction is positive.
func (b *Builder) DeclareUsageVariables() error {
	if err := b.enter(stepUsage); err != nil {
		return err
	}

	var err error
	if b.usedA, err = b.declareUsage("a", b.fractionA); err != nil {
		return err
	}
	if b.usedB, err = b.declareUsage("b", b.fractionB); err != nil {
		return err
	}

	b.step = stepUsage
	return nil
}

func (b *Builder) declareUsage(pool string, fractions [][]Var) ([][]Var, error) {
	used := make([][]Var, len(fractions))
	for i := range fractions {
		used[i] = make([]Var, b.slots)
		for j, fraction := range fractions[i] {
			v, err := b.addVariable(Binary, 0, 1, "used_%s_%d_%d", pool, i, j)
			if err != nil {
				return nil, err
			}
			used[i][j] = v

			// fractions never exceed 1, so this alone pins used to 1
			if err := b.addConstraint(0, math.Inf(1), []Var{v, fraction}, []float64{1, -1}, "usage "+pool); err != nil {
				return nil, err
			}
		}
	}
	return used, nil
}

// AddObjective ties the four cost counters to the slot and roll states and
// sets the objective to their weighted sum.
func (b *Builder) AddObjective() error {
	if err := b.enter(stepObjective); err != nil {
		return err
	}

	steps := []func() error{
		b.declareActivity,
		b.declareSplices,
		b.declareShortRolls,
		b.declareUnusedRolls,
		b.declareCounters,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	counters := []Var{b.numSplices, b.numRolls, b.numShortRolls, b.numUnusedRolls}
	if err := b.model.SetObjective(counters, b.inst.Costs().Vector()); err != nil {
		return fmt.Errorf("setting objective: %w", err)
	}

	b.step = stepObjective
	b.logger.Print("objective set")
	return nil
}

// declareActivity marks slots with a positive length as active and only
// lets slot j+1 be active when slot j is.
func (b *Builder) declareActivity() error {
	maxLength := b.inst.MaxLength()

	b.active = make([]Var, b.slots)
	for j := range b.active {
		v, err := b.addVariable(Binary, 0, 1, "active_%d", j)
		if err != nil {
			return err
		}
		b.active[j] = v

		if err := b.addConstraint(math.Inf(-1), 0, []Var{b.lengths[j], v}, []float64{1, -maxLength}, "activity"); err != nil {
			return err
		}
	}

	for j := 0; j+1 < b.slots; j++ {
		if err := b.addConstraint(0, math.Inf(1), []Var{b.active[j], b.active[j+1]}, []float64{1, -1}, "slot order"); err != nil {
			return err
		}
	}
	return nil
}

// declareSplices counts, per slot and side, the contributors beyond the first.
func (b *Builder) declareSplices() error {
	var err error
	if b.splicesA, err = b.declareSideSplices("a", b.usedA); err != nil {
		return err
	}
	b.splicesB, err = b.declareSideSplices("b", b.usedB)
	return err
}

func (b *Builder) declareSideSplices(pool string, used [][]Var) ([]Var, error) {
	splices := make([]Var, b.slots)
	for j := range splices {
		v, err := b.addVariable(Integer, 0, math.Inf(1), "splices_%s_%d", pool, j)
		if err != nil {
			return nil, err
		}
		splices[j] = v

		vars := []Var{v}
		coefs := []float64{1}
		for i := range used {
			vars = append(vars, used[i][j])
			coefs = append(coefs, -1)
		}
		if err := b.addConstraint(-1, math.Inf(1), vars, coefs, "splices "+pool); err != nil {
			return nil, err
		}
	}
	return splices, nil
}

// declareShortRolls lets an active slot fall below the short length only
// by flagging it short. Nothing is declared when the short length is 0.
func (b *Builder) declareShortRolls() error {
	shortLength := b.inst.ShortLength()
	if shortLength <= 0 {
		return nil
	}

	b.short = make([]Var, b.slots)
	for j := range b.short {
		v, err := b.addVariable(Binary, 0, 1, "short_%d", j)
		if err != nil {
			return err
		}
		b.short[j] = v

		// length >= shortLength * (active - short)
		vars := []Var{b.lengths[j], b.active[j], v}
		coefs := []float64{1, -shortLength, shortLength}
		if err := b.addConstraint(0, math.Inf(1), vars, coefs, "short roll"); err != nil {
			return err
		}
	}
	return nil
}

// declareUnusedRolls flags every source roll that is not consumed completely.
func (b *Builder) declareUnusedRolls() error {
	var err error
	if b.unusedA, err = b.declarePoolUnused("a", b.fractionA); err != nil {
		return err
	}
	b.unusedB, err = b.declarePoolUnused("b", b.fractionB)
	return err
}

func (b *Builder) declarePoolUnused(pool string, fractions [][]Var) ([]Var, error) {
	unused := make([]Var, len(fractions))
	for i := range fractions {
		v, err := b.addVariable(Binary, 0, 1, "unused_%s_%d", pool, i)
		if err != nil {
			return nil, err
		}
		unused[i] = v

		vars := append([]Var{v}, fractions[i]...)
		if err := b.addConstraint(1, math.Inf(1), vars, repeat(1, len(vars)), "unused "+pool); err != nil {
			return nil, err
		}
	}
	return unused, nil
}

func (b *Builder) declareCounters() error {
	counters := []struct {
		name  string
		dst   *Var
		terms [][]Var
	}{
		{"num_agglutinations", &b.numSplices, [][]Var{b.splicesA, b.splicesB}},
		{"num_rolls", &b.numRolls, [][]Var{b.active}},
		{"num_short_rolls", &b.numShortRolls, [][]Var{b.short}},
		{"num_unused_rolls", &b.numUnusedRolls, [][]Var{b.unusedA, b.unusedB}},
	}

	for _, c := range counters {
		v, err := b.addVariable(Integer, 0, math.Inf(1), "%s", c.name)
		if err != nil {
			return err
		}
		*c.dst = v

		vars := []Var{v}
		coefs := []float64{1}
		for _, group := range c.terms {
			vars = append(vars, group...)
			coefs = append(coefs, repeat(-1, len(group))...)
		}
		if err := b.addConstraint(0, 0, vars, coefs, c.name); err != nil {
			return err
		}
	}
	return nil
}

// Solve hands the built model to the solver and decodes its answer.
func (b *Builder) Solve(ctx context.Context) (*Result, error) {
	if b.step != stepObjective {
		return nil, fmt.Errorf("%w: cannot solve after %s", ErrBuildOrder, b.step)
	}

	sol, err := b.model.Solve(ctx)
	if err != nil {
		return nil, err
	}

	res := b.Decode(sol)
	b.logger.Print(fmt.Sprintf("solved: %s, objective %g, %d rolls", res.Status, res.Objective, len(res.Rolls)))
	return res, nil
}

func repeat(x float64, n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = x
	}
	return xs
}
