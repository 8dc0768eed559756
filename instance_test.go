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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, Costs{Splice: 5, NewRoll: 8, ShortRoll: 7, UnusedRoll: 7}, cfg.Costs)
	assert.Equal(t, 10000.0, cfg.MaxLength)
	assert.Equal(t, 10, cfg.MaxNumberOfRolls)
	assert.Empty(t, cfg.RollsA)
	assert.Empty(t, cfg.RollsB)
	assert.Zero(t, cfg.ShortLength)
	assert.False(t, cfg.FullConsumption)
}

func TestCostsVector(t *testing.T) {
	costs, err := CostsFromVector([]float64{4, 8, 8, 8})
	require.NoError(t, err)
	assert.Equal(t, Costs{Splice: 4, NewRoll: 8, ShortRoll: 8, UnusedRoll: 8}, costs)
	assert.Equal(t, []float64{4, 8, 8, 8}, costs.Vector())

	_, err = CostsFromVector([]float64{4, 8})
	assert.ErrorIs(t, err, ErrInvalidInstance)
}

func TestInstanceIsImmutable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RollsA = []float64{120, 100, 240}
	cfg.RollsB = []float64{80, 310, 90}

	inst := NewInstance(cfg)
	cfg.RollsA[0] = 1

	rolls := inst.RollsA()
	assert.Equal(t, []float64{120, 100, 240}, rolls)
	rolls[1] = 1
	assert.Equal(t, []float64{120, 100, 240}, inst.RollsA())

	copied := inst.Config()
	copied.RollsB[0] = 1
	assert.Equal(t, []float64{80, 310, 90}, inst.RollsB())

	assert.Equal(t, 460.0, inst.TotalA())
	assert.Equal(t, 480.0, inst.TotalB())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.RollsA = []float64{100}
		cfg.RollsB = []float64{100}
		return cfg
	}

	require.NoError(t, NewInstance(valid()).Validate())

	tests := map[string]func(*Config){
		"empty A pool":        func(c *Config) { c.RollsA = nil },
		"empty B pool":        func(c *Config) { c.RollsB = []float64{} },
		"zero length roll":    func(c *Config) { c.RollsA = []float64{100, 0} },
		"negative roll":       func(c *Config) { c.RollsB = []float64{-5} },
		"NaN roll":            func(c *Config) { c.RollsB = []float64{math.NaN()} },
		"no slots":            func(c *Config) { c.MaxNumberOfRolls = 0 },
		"negative slots":      func(c *Config) { c.MaxNumberOfRolls = -1 },
		"zero max length":     func(c *Config) { c.MaxLength = 0 },
		"infinite max length": func(c *Config) { c.MaxLength = math.Inf(1) },
		"negative cost":       func(c *Config) { c.Costs.Splice = -1 },
		"negative short":      func(c *Config) { c.ShortLength = -1 },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(&cfg)
			assert.ErrorIs(t, NewInstance(cfg).Validate(), ErrInvalidInstance)
		})
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "optimal", StatusOptimal.String())
	assert.Equal(t, "suboptimal", StatusSuboptimal.String())
	assert.Equal(t, "binary", Binary.String())
}
