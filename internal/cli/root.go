// Package cli wires the fastqpp command-line surface: pflag-defined flags
// bound through cobra, with viper layering a config file and built-in
// defaults underneath them, following the same flags-then-config-then-
// defaults composition as scttfrdmn-cicada's internal/cli/internal/config.
package cli

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fastqpp/fastqpp/internal/evaluator"
	"github.com/fastqpp/fastqpp/internal/logx"
	"github.com/fastqpp/fastqpp/internal/options"
	"github.com/fastqpp/fastqpp/internal/pipeline"
	"github.com/fastqpp/fastqpp/internal/report"
)

// Execute builds the root command and runs it, returning any error the run
// produced (invalid arguments, I/O failures, malformed input).
func Execute(version string) error {
	return NewRootCmd(version).Execute()
}

var cfgFile string

// NewRootCmd assembles the fastqpp root command. There is a single command
// (no subcommands): the whole CLI surface from spec.md section 6 is one
// flat flag set, matching the teacher's own single-binary shape.
func NewRootCmd(version string) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "fastqpp",
		Short:   "A high-throughput preprocessor for short-read FASTQ sequencing data",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return errors.Wrap(err, "reading config file")
				}
			}
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return errors.Wrap(err, "binding flags")
			}
			o, err := buildOptions(v, version, cmd.CalledAs())
			if err != nil {
				return err
			}
			return run(o)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file overlaying defaults beneath CLI flags")
	registerFlags(cmd)

	return cmd
}

// run evaluates the input (read length, platform and record count always;
// overrepresentation and adapter detection when enabled), executes the
// pipeline, and writes the JSON/HTML reports and console summary.
func run(o *options.Options) error {
	if err := o.Validate(); err != nil {
		return errors.Wrap(err, "invalid options")
	}

	log := logx.New(nil)
	log.Info("evaluating input %s", o.In1)

	if err := evaluator.EvaluateReadLen(o); err != nil {
		return err
	}
	if err := evaluator.EvaluateTwoColorSystem(o); err != nil {
		return err
	}
	if o.Estimate.TwoColorSystem {
		o.PolyG.Enabled = true
	}
	if err := evaluator.EvaluateReadNum(o); err != nil {
		return err
	}
	if o.OverrepAnalysis.Enabled {
		if err := evaluator.EvaluateOverRepSeqs(o); err != nil {
			return err
		}
	}
	if o.Adapter.EnableTrimming && o.Adapter.EnableDetectForPE && !o.Adapter.SeqR1Provided {
		if err := evaluator.EvaluateAdapterSeq(o, false); err != nil {
			return err
		}
		if o.IsPaired() {
			if err := evaluator.EvaluateAdapterSeq(o, true); err != nil {
				return err
			}
		}
	}

	log.Info("processing with %d thread(s)", o.Thread)
	res, err := pipeline.Run(o)
	if err != nil {
		return err
	}

	if err := writeReports(o, res); err != nil {
		return err
	}

	var verdicts []logx.NamedCount
	for v, count := range res.Filter.Verdicts {
		verdicts = append(verdicts, logx.NamedCount{Name: verdictName(v), Count: count})
	}
	logx.Summary(res.TotalPairs, res.Filter.PassedPairs(), res.Filter.MergedPairs, verdicts)

	return nil
}

func writeReports(o *options.Options, res *pipeline.Result) error {
	summary := report.BuildSummary(o, res)

	if o.JSONFile != "" {
		f, err := createFile(o.JSONFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := report.JSON(f, summary); err != nil {
			return errors.Wrap(err, "writing JSON report")
		}
	}
	if o.HTMLFile != "" {
		f, err := createFile(o.HTMLFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := report.HTML(f, summary, o.ReportTitle); err != nil {
			return errors.Wrap(err, "writing HTML report")
		}
	}
	return nil
}

func verdictName(i int) string {
	names := []string{"PASS", "LOW_QUALITY", "TOO_SHORT", "TOO_LONG", "TOO_MANY_N", "LOW_COMPLEXITY", "INDEX_MATCH"}
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("VERDICT_%d", i)
	}
	return names[i]
}
