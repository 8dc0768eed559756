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


package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/costela/rollglue"
	"github.com/costela/rollglue/loader"
	"github.com/costela/rollglue/report"
)

const envPrefix = "ROLLGLUE"

// timeoutGrace is how long the context outlives the solver's own budget,
// so a timed out run can still hand back its incumbent.
const timeoutGrace = 5 * time.Second

type options struct {
	configFile      string
	excel           string
	shortLength     float64
	fullConsumption bool
	timeout         time.Duration
	mipGap          float64
	format          string
	xlsx            string
	pdf             string
	verbose         bool
}

// instanceFlags maps the instance keys onto their flag names.
var instanceFlags = map[string]string{
	loader.KeyRollsA:           "rolls-a",
	loader.KeyRollsB:           "rolls-b",
	loader.KeyCosts:            "costs",
	loader.KeyMaxLength:        "max-length",
	loader.KeyMaxNumberOfRolls: "max-number-of-rolls",
}

func newRootCmd() *cobra.Command {
	o := options{}
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "rollglue",
		Short: "Plans how to glue two pools of rolls into composite rolls",
		Long: `rollglue splices rolls of material A and material B into composite rolls
whose A and B sides have the same length, minimizing the weighted number of
splices, composite rolls, short rolls and unused rolls.

Instance settings are read from flags, then ROLLGLUE_* environment variables,
then the --config file, then defaults.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logrus.New()
			logger.SetOutput(cmd.ErrOrStderr())
			if o.verbose {
				logger.SetLevel(logrus.DebugLevel)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			err := o.run(ctx, v, cmd.OutOrStdout(), logger)
			if errors.Is(err, rollglue.ErrInfeasible) {
				logger.Warn("no plan satisfies the constraints; try a larger max_length or max_number_of_rolls")
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.String(instanceFlags[loader.KeyRollsA], "", "comma-separated lengths of the A rolls")
	flags.String(instanceFlags[loader.KeyRollsB], "", "comma-separated lengths of the B rolls")
	flags.String(instanceFlags[loader.KeyCosts], "", "comma-separated costs of a splice, a composite roll, a short roll and an unused roll")
	flags.Float64(instanceFlags[loader.KeyMaxLength], 0, fmt.Sprintf("maximum length of a composite roll (default %d)", rollglue.DefaultMaxLength))
	flags.Int(instanceFlags[loader.KeyMaxNumberOfRolls], 0, fmt.Sprintf("maximum number of composite rolls (default %d)", rollglue.DefaultMaxNumberOfRolls))

	flags.StringVar(&o.configFile, "config", "", "YAML or JSON file with instance settings")
	flags.StringVar(&o.excel, "excel", "", "workbook whose first two columns replace the A and B rolls")
	flags.Float64Var(&o.shortLength, "short-length", 0, "composite rolls shorter than this count as short; 0 disables the penalty")
	flags.BoolVar(&o.fullConsumption, "full-consumption", false, "require the shorter pool to be used up completely")
	flags.DurationVar(&o.timeout, "timeout", 0, "solver time budget; 0 means unbounded")
	flags.Float64Var(&o.mipGap, "mip-gap", 0, "relative gap at which a solution counts as optimal")
	flags.StringVar(&o.format, "format", "text", "output format: text or yaml")
	flags.StringVar(&o.xlsx, "xlsx", "", "also write the plan to this workbook")
	flags.StringVar(&o.pdf, "pdf", "", "also write the plan to this PDF file")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "log model and solver progress")

	if err := bindInstance(v, flags); err != nil {
		logrus.Panic(err.Error())
	}

	return cmd
}

func bindInstance(v *viper.Viper, flags *pflag.FlagSet) error {
	v.SetDefault(loader.KeyRollsA, "")
	v.SetDefault(loader.KeyRollsB, "")
	v.SetDefault(loader.KeyCosts, rollglue.DefaultCosts().Vector())
	v.SetDefault(loader.KeyMaxLength, rollglue.DefaultMaxLength)
	v.SetDefault(loader.KeyMaxNumberOfRolls, rollglue.DefaultMaxNumberOfRolls)

	for key, name := range instanceFlags {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	return nil
}

func (o *options) config(v *viper.Viper) (rollglue.Config, error) {
	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
		if err := v.ReadInConfig(); err != nil {
			return rollglue.Config{}, fmt.Errorf("reading %s: %w", o.configFile, err)
		}
	}

	settings := make(map[string]interface{}, len(instanceFlags))
	for key := range instanceFlags {
		settings[key] = v.Get(key)
	}

	cfg, err := loader.FromMap(settings)
	if err != nil {
		return rollglue.Config{}, err
	}

	if o.excel != "" {
		pools, err := loader.FromExcel(o.excel)
		if err != nil {
			return rollglue.Config{}, err
		}
		cfg.RollsA, cfg.RollsB = pools.RollsA, pools.RollsB
	}

	cfg.ShortLength = o.shortLength
	cfg.FullConsumption = o.fullConsumption

	return cfg, nil
}

func (o *options) run(ctx context.Context, v *viper.Viper, out io.Writer, logger *logrus.Logger) error {
	if o.format != "text" && o.format != "yaml" {
		return fmt.Errorf("unknown format %q", o.format)
	}

	cfg, err := o.config(v)
	if err != nil {
		return err
	}
	inst := rollglue.NewInstance(cfg)

	opts := []rollglue.Option{rollglue.WithMIPGap(o.mipGap)}
	if o.timeout > 0 {
		opts = append(opts, rollglue.WithTimeout(o.timeout))

		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout+timeoutGrace)
		defer cancel()
	}
	if o.verbose {
		opts = append(opts, rollglue.WithLogger(logger))
	}

	logger.WithFields(logrus.Fields{
		"rolls_a":    len(cfg.RollsA),
		"rolls_b":    len(cfg.RollsB),
		"max_length": cfg.MaxLength,
		"max_rolls":  cfg.MaxNumberOfRolls,
	}).Debug("solving")

	start := time.Now()
	res, err := rollglue.Solve(ctx, inst, opts...)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"status":    res.Status,
		"objective": res.Objective,
		"elapsed":   time.Since(start).Round(time.Millisecond),
	}).Info("solved")

	rep := report.New(inst, res)

	switch o.format {
	case "yaml":
		err = report.WriteYAML(out, rep)
	default:
		err = report.WriteText(out, rep)
	}
	if err != nil {
		return err
	}

	if o.xlsx != "" {
		if err := report.WriteXLSX(o.xlsx, rep); err != nil {
			return err
		}
		logger.WithField("path", o.xlsx).Info("wrote workbook")
	}
	if o.pdf != "" {
		if err := report.WritePDF(o.pdf, rep); err != nil {
			return err
		}
		logger.WithField("path", o.pdf).Info("wrote pdf")
	}

	return nil
}
