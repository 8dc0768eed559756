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
	"fmt"
	"math"
)

const (
	DefaultMaxLength        = 10000
	DefaultMaxNumberOfRolls = 10
)

// Costs weighs the terms of the objective function.
type Costs struct {
	Splice     float64 `yaml:"splice"`
	NewRoll    float64 `yaml:"new_roll"`
	ShortRoll  float64 `yaml:"short_roll"`
	UnusedRoll float64 `yaml:"unused_roll"`
}

func DefaultCosts() Costs {
	return Costs{Splice: 5, NewRoll: 8, ShortRoll: 7, UnusedRoll: 7}
}

// CostsFromVector maps the positional form (splice, new roll, short roll,
// unused roll) onto Costs.
func CostsFromVector(v []float64) (Costs, error) {
	if len(v) != 4 {
		return Costs{}, fmt.Errorf("%w: cost vector needs 4 entries, got %d", ErrInvalidInstance, len(v))
	}
	return Costs{Splice: v[0], NewRoll: v[1], ShortRoll: v[2], UnusedRoll: v[3]}, nil
}

// Vector is the inverse of CostsFromVector.
func (c Costs) Vector() []float64 {
	return []float64{c.Splice, c.NewRoll, c.ShortRoll, c.UnusedRoll}
}

// Config holds everything an Instance is built from.
type Config struct {
	RollsA           []float64
	RollsB           []float64
	Costs            Costs
	MaxLength        float64
	MaxNumberOfRolls int

	// ShortLength marks realized rolls below it as short; 0 turns the
	// short-roll penalty off.
	ShortLength float64
	// FullConsumption requires the shorter pool to be allocated completely.
	FullConsumption bool
}

// DefaultConfig returns a Config with empty roll pools and every other
// field at its default.
func DefaultConfig() Config {
	return Config{
		Costs:            DefaultCosts(),
		MaxLength:        DefaultMaxLength,
		MaxNumberOfRolls: DefaultMaxNumberOfRolls,
	}
}

// Instance is an immutable problem instance.
type Instance struct {
	cfg Config
}

// NewInstance copies cfg into a new Instance. It does not validate;
// see Validate.
func NewInstance(cfg Config) *Instance {
	cfg.RollsA = append([]float64(nil), cfg.RollsA...)
	cfg.RollsB = append([]float64(nil), cfg.RollsB...)
	return &Instance{cfg: cfg}
}

func (inst *Instance) RollsA() []float64 { return append([]float64(nil), inst.cfg.RollsA...) }

func (inst *Instance) RollsB() []float64 { return append([]float64(nil), inst.cfg.RollsB...) }

func (inst *Instance) Costs() Costs { return inst.cfg.Costs }

func (inst *Instance) MaxLength() float64 { return inst.cfg.MaxLength }

func (inst *Instance) MaxNumberOfRolls() int { return inst.cfg.MaxNumberOfRolls }

func (inst *Instance) ShortLength() float64 { return inst.cfg.ShortLength }

func (inst *Instance) FullConsumption() bool { return inst.cfg.FullConsumption }

// TotalA is the combined length of the A pool.
func (inst *Instance) TotalA() float64 { return sum(inst.cfg.RollsA) }

// TotalB is the combined length of the B pool.
func (inst *Instance) TotalB() float64 { return sum(inst.cfg.RollsB) }

// Config returns a copy of the configuration the instance was built from.
func (inst *Instance) Config() Config { return NewInstance(inst.cfg).cfg }

// Validate reports why the instance cannot be modelled, wrapping
// ErrInvalidInstance, or nil.
func (inst *Instance) Validate() error {
	cfg := inst.cfg

	if err := validatePool("rolls_a", cfg.RollsA); err != nil {
		return err
	}
	if err := validatePool("rolls_b", cfg.RollsB); err != nil {
		return err
	}
	if cfg.MaxNumberOfRolls <= 0 {
		return fmt.Errorf("%w: max_number_of_rolls must be positive, got %d", ErrInvalidInstance, cfg.MaxNumberOfRolls)
	}
	if !finite(cfg.MaxLength) || cfg.MaxLength <= 0 {
		return fmt.Errorf("%w: max_length must be positive, got %g", ErrInvalidInstance, cfg.MaxLength)
	}
	for i, c := range cfg.Costs.Vector() {
		if !finite(c) || c < 0 {
			return fmt.Errorf("%w: cost %d must be non-negative, got %g", ErrInvalidInstance, i, c)
		}
	}
	if !finite(cfg.ShortLength) || cfg.ShortLength < 0 {
		return fmt.Errorf("%w: short length must be non-negative, got %g", ErrInvalidInstance, cfg.ShortLength)
	}

	return nil
}

func validatePool(name string, rolls []float64) error {
	if len(rolls) == 0 {
		return fmt.Errorf("%w: %s is empty", ErrInvalidInstance, name)
	}
	for i, l := range rolls {
		if !finite(l) || l <= 0 {
			return fmt.Errorf("%w: %s[%d] must be positive, got %g", ErrInvalidInstance, name, i, l)
		}
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}
