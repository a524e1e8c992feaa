/*
Copyright 2022 GramLabs, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package commander

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/thestormforge/optimize-search/internal/config"
	"github.com/thestormforge/optimize-search/internal/trial"
)

// ConfigGlobals sets up persistent globals for the supplied configuration
func ConfigGlobals(cfg *config.Config, cmd *cobra.Command) {
	// Make sure we get the root to make these globals
	root := cmd.Root()
	pf := root.PersistentFlags()

	pf.StringVar(&cfg.Filename, "config", cfg.Filename, "configuration `file` to load")
	pf.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "print the evaluator command lines and output")
	pf.BoolVarP(&cfg.Force, "force", "f", cfg.Force, "remove previously generated models and training data")
	pf.BoolVarP(&cfg.KeepData, "keep-data", "k", cfg.KeepData, "keep the generated training data")
	pf.IntVarP(&cfg.Concurrency, "concurrency", "c", cfg.Concurrency, "maximum `number` of concurrent evaluations")
	pf.StringVar(&cfg.Evaluator, "evaluator", cfg.Evaluator, "path to the training `program`")
	pf.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "`directory` for the generated training data")
	pf.StringVar(&cfg.ModelDir, "model-dir", cfg.ModelDir, "`directory` for the saved models")
	pf.IntVar(&cfg.Arches, "arches", cfg.Arches, "`number` of target architecture labels on each datapoint")
	pf.Float64Var(&cfg.LaunchRate, "launch-rate", cfg.LaunchRate, "maximum evaluator launches per `second`, unlimited when zero")
	pf.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "`file` to write the run metrics to")
	pf.StringVar(&cfg.Report, "report", cfg.Report, "`file` to write the results to")

	_ = root.MarkPersistentFlagFilename("config", "yml", "yaml", "json")
	_ = root.MarkPersistentFlagFilename("evaluator")
	_ = root.MarkPersistentFlagDirname("data-dir")
	_ = root.MarkPersistentFlagDirname("model-dir")

	// Set the persistent pre-run on the root, individual commands can bypass this by supplying their own persistent pre-run
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := cfg.Load(); err != nil {
			return err
		}
		return cfg.Validate()
	}
}

// NeuralNetworkFlags adds the neural network hyperparameter flags to the supplied command
func NeuralNetworkFlags(nn *config.NeuralNetwork, cmd *cobra.Command) {
	cmd.Flags().Float64SliceVarP(&nn.Rates, "rates", "r", nn.Rates, "learning `rates` to try")
	cmd.Flags().Float64SliceVarP(&nn.Momentums, "momentums", "m", nn.Momentums, "`momentums` to try")
	cmd.Flags().VarP(&trial.PCAList{Values: &nn.PCA}, "pca", "p", "principal component analysis `dimensions` to try, or "+trial.NoPCA)
	cmd.Flags().IntSliceVarP(&nn.HiddenLayers, "hidden", "d", nn.HiddenLayers, "hidden layer `widths` to try")
	cmd.Flags().IntVarP(&nn.Iterations, "iterations", "i", nn.Iterations, "`number` of training iterations")
}

// UnknownFlags removes the flags the target command does not recognize from the
// argument list, reporting each one to the supplied writer.
func UnknownFlags(root *cobra.Command, args []string, w io.Writer) []string {
	if len(args) > 0 && strings.HasPrefix(args[0], cobra.ShellCompRequestCmd) {
		return args
	}

	cmd, _, err := root.Find(args)
	if err != nil || cmd == nil {
		cmd = root
	}
	cmd.InitDefaultHelpFlag()
	lookup := func(name string) *flag.Flag {
		if f := cmd.LocalFlags().Lookup(name); f != nil {
			return f
		}
		return cmd.InheritedFlags().Lookup(name)
	}
	shorthand := func(c string) *flag.Flag {
		if f := cmd.LocalFlags().ShorthandLookup(c); f != nil {
			return f
		}
		return cmd.InheritedFlags().ShorthandLookup(c)
	}

	result := make([]string, 0, len(args))
	var positional, dangling []int
	var afterUnknown bool
scan:
	for i := 0; i < len(args); i++ {
		arg := args[i]
		follows := afterUnknown
		afterUnknown = false
		var f *flag.Flag
		var attached bool

		switch {
		case arg == "--":
			for j := i + 1; j < len(args); j++ {
				positional = append(positional, len(result)+j-i)
			}
			result = append(result, args[i:]...)
			break scan

		case strings.HasPrefix(arg, "--"):
			name := strings.TrimPrefix(arg, "--")
			if j := strings.IndexByte(name, '='); j >= 0 {
				name, attached = name[:j], true
			}
			f = lookup(name)

		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			f = shorthand(arg[1:2])
			attached = len(arg) > 2

		default:
			if follows {
				dangling = append(dangling, len(result))
			}
			positional = append(positional, len(result))
			result = append(result, arg)
			continue
		}

		if f == nil {
			_, _ = fmt.Fprintf(w, "WARNING: unknown argument: %s\n", arg)
			afterUnknown = !attached
			continue
		}

		result = append(result, arg)
		if !attached && f.NoOptDefVal == "" && i+1 < len(args) {
			i++
			result = append(result, args[i])
		}
	}
	return dropDangling(cmd, result, positional, dangling, w)
}

// dropDangling removes the values that directly followed an unknown flag, last
// first, for as long as the command rejects its positional arguments.
func dropDangling(cmd *cobra.Command, result []string, positional, dangling []int, w io.Writer) []string {
	// Command names come first and are never arguments
	names := strings.Count(cmd.CommandPath(), " ")
	if names > len(positional) {
		names = len(positional)
	}
	positional = positional[names:]

	dropped := make(map[int]bool, len(dangling))
	for ; len(dangling) > 0; dangling = dangling[:len(dangling)-1] {
		last := dangling[len(dangling)-1]
		if len(positional) == 0 || last < positional[0] {
			break
		}

		var cmdArgs []string
		for _, p := range positional {
			if !dropped[p] {
				cmdArgs = append(cmdArgs, result[p])
			}
		}
		if cmd.ValidateArgs(cmdArgs) == nil {
			break
		}

		dropped[last] = true
		_, _ = fmt.Fprintf(w, "WARNING: unknown argument: %s\n", result[last])
	}
	if len(dropped) == 0 {
		return result
	}

	kept := result[:0]
	for i, arg := range result {
		if !dropped[i] {
			kept = append(kept, arg)
		}
	}
	return kept
}
