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


// Package loader builds rollglue configurations from loosely typed
// mappings, YAML or JSON files and spreadsheets.
package loader

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/costela/rollglue"
)

// Keys recognized by FromMap. Anything else in the mapping is ignored.
const (
	KeyRollsA           = "rolls_a"
	KeyRollsB           = "rolls_b"
	KeyCosts            = "costs"
	KeyMaxLength        = "max_length"
	KeyMaxNumberOfRolls = "max_number_of_rolls"
)

type rawConfig struct {
	RollsA           []float64 `mapstructure:"rolls_a"`
	RollsB           []float64 `mapstructure:"rolls_b"`
	Costs            []float64 `mapstructure:"costs"`
	MaxLength        float64   `mapstructure:"max_length"`
	MaxNumberOfRolls int       `mapstructure:"max_number_of_rolls"`
}

// FromMap decodes m into a Config. Missing keys take their defaults and
// missing pools are left empty. Lists may be given as sequences of numbers
// or numeric strings, or as a single comma-separated string.
func FromMap(m map[string]interface{}) (rollglue.Config, error) {
	def := rollglue.DefaultConfig()
	raw := rawConfig{
		MaxLength:        def.MaxLength,
		MaxNumberOfRolls: def.MaxNumberOfRolls,
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       LengthsHookFunc(),
		WeaklyTypedInput: true,
		ZeroFields:       true,
		Result:           &raw,
	})
	if err != nil {
		return rollglue.Config{}, err
	}
	if err := decoder.Decode(m); err != nil {
		return rollglue.Config{}, fmt.Errorf("%w: %w", rollglue.ErrInvalidInstance, err)
	}

	cfg := def
	cfg.RollsA = raw.RollsA
	cfg.RollsB = raw.RollsB
	cfg.MaxLength = raw.MaxLength
	cfg.MaxNumberOfRolls = raw.MaxNumberOfRolls
	if raw.Costs != nil {
		if cfg.Costs, err = rollglue.CostsFromVector(raw.Costs); err != nil {
			return rollglue.Config{}, err
		}
	}

	return cfg, nil
}

// LengthsHookFunc returns a decode hook turning comma-separated strings
// into float slices.
func LengthsHookFunc() mapstructure.DecodeHookFunc {
	return lengthsHookFunc
}

func lengthsHookFunc(f, t reflect.Type, data interface{}) (interface{}, error) {
	if f.Kind() != reflect.String || t != reflect.TypeOf([]float64(nil)) {
		return data, nil
	}
	return ParseLengths(data.(string))
}

// ParseLengths parses a comma-separated list such as "100, 250.5,80".
// A blank string yields an empty list; blank or non-numeric entries are
// errors.
func ParseLengths(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return []float64{}, nil
	}

	fields := strings.Split(s, ",")
	lengths := make([]float64, 0, len(fields))
	for i, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			return nil, fmt.Errorf("%w: entry %d of %q is empty", rollglue.ErrInvalidInstance, i, s)
		}
		l, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d of %q: %w", rollglue.ErrInvalidInstance, i, s, err)
		}
		lengths = append(lengths, l)
	}

	return lengths, nil
}

// FromFile reads a YAML (or JSON) mapping from path and decodes it with
// FromMap.
func FromFile(path string) (rollglue.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rollglue.Config{}, err
	}

	m := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return rollglue.Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	return FromMap(m)
}

// FromExcel reads roll pools from the first sheet of a workbook: column A
// holds the A lengths and column B the B lengths. A leading header row is
// skipped, as are blank cells. Every other field takes its default.
func FromExcel(path string) (rollglue.Config, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return rollglue.Config{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return rollglue.Config{}, fmt.Errorf("%w: %s has no sheets", rollglue.ErrInvalidInstance, path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return rollglue.Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := rollglue.DefaultConfig()
	cfg.RollsA, cfg.RollsB, err = poolsFromRows(rows)
	if err != nil {
		return rollglue.Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func poolsFromRows(rows [][]string) (a, b []float64, err error) {
	first := 0
	if len(rows) > 0 && isHeader(rows[0]) {
		first = 1
	}

	for r := first; r < len(rows); r++ {
		row := rows[r]
		for col, pool := range []*[]float64{&a, &b} {
			cell := cellAt(row, col)
			if cell == "" {
				continue
			}
			l, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				name, _ := excelize.CoordinatesToCellName(col+1, r+1)
				return nil, nil, fmt.Errorf("%w: cell %s: %w", rollglue.ErrInvalidInstance, name, err)
			}
			*pool = append(*pool, l)
		}
	}

	return a, b, nil
}

// isHeader reports whether any of the first two cells is non-numeric text.
func isHeader(row []string) bool {
	for col := 0; col < 2; col++ {
		cell := cellAt(row, col)
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return true
		}
	}
	return false
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
