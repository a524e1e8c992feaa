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

package selection

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/thestormforge/optimize-search/cli/internal/commander"
	"github.com/thestormforge/optimize-search/internal/config"
	"github.com/thestormforge/optimize-search/internal/evaluator"
	"github.com/thestormforge/optimize-search/internal/experiment"
	"github.com/thestormforge/optimize-search/internal/features"
	"github.com/thestormforge/optimize-search/internal/metric"
)

// Options are the options for selecting features
type Options struct {
	// Config is the search configuration
	Config *config.Config
	// IOStreams are used to access the standard process streams
	commander.IOStreams
	// Evaluator overrides the training program, if set
	Evaluator evaluator.Evaluator
}

// NewCommand creates a new command for greedy feature selection
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select FILE",
		Short: "Select the most predictive features",
		Long:  "Grow a feature set one feature at a time, keeping the candidate that best improves the neural network",

		Example: `# Select up to ten features, starting from instructions and loads
optimize-search select features.arff -g 10 --seed 0,7

# Rank the candidates by classification accuracy instead of speed-up
optimize-search select features.arff -j percent --progression progression.txt`,

		Args: cobra.MaximumNArgs(1),

		PreRun: func(cmd *cobra.Command, args []string) {
			commander.SetStreams(&o.IOStreams, cmd)
			if len(args) > 0 {
				o.Config.FeatureFile = args[0]
			}
		},
		RunE: commander.WithContextE(o.selectFeatures),
	}

	sel := &o.Config.Selection
	cmd.Flags().IntVarP(&sel.MaxSelected, "max-selected", "g", sel.MaxSelected, "maximum `number` of selected features")
	cmd.Flags().StringVarP((*string)(&sel.Metric), "metric", "j", string(sel.Metric), "`metric` used to rank the candidates")
	cmd.Flags().IntSliceVar(&sel.Seed, "seed", sel.Seed, "initially selected feature `indices`")
	cmd.Flags().IntSliceVar(&sel.Exclude, "exclude", sel.Exclude, "feature `indices` that are never candidates")
	cmd.Flags().StringVar(&sel.Vocabulary, "vocabulary", sel.Vocabulary, "feature `names` used in the output")
	cmd.Flags().BoolVar(&sel.CarryBaseline, "carry-baseline", sel.CarryBaseline, "require each round to beat the previous best instead of zero")
	cmd.Flags().StringVar(&sel.Report, "progression", sel.Report, "`file` to write the selection progression to")
	commander.NeuralNetworkFlags(&o.Config.NeuralNetwork, cmd)

	commander.SetFlagValues(cmd, "metric", string(metric.NameSpeedup), string(metric.NamePercent))
	commander.SetFlagValues(cmd, "vocabulary", features.Names()...)
	_ = cmd.MarkFlagFilename("progression")

	return cmd
}

func (o *Options) selectFeatures(ctx context.Context) error {
	cfg := o.Config
	if cfg.FeatureFile == "" {
		return &config.Error{Field: "featureFile", Message: "a feature file is required"}
	}
	if err := cfg.RequireSinglePoint(); err != nil {
		return err
	}

	vocab, err := features.Lookup(cfg.Selection.Vocabulary)
	if err != nil {
		return &config.Error{Field: "selection.vocabulary", Message: err.Error()}
	}

	log := commander.NewLogger(o.ErrOut, cfg.Verbose)
	runID := uuid.New().String()
	log.V(1).Info("Starting feature selection", "run", runID, "seed", cfg.Selection.Seed)

	s := experiment.NewSession(cfg, log)
	// Every run stages fresh round directories
	s.Workspace.Force = true
	if o.Evaluator != nil {
		s.Evaluator = o.Evaluator
	}
	if err := s.Open(); err != nil {
		return err
	}

	fs := &experiment.FeatureSelector{
		Config:     cfg,
		Dataset:    s.Dataset,
		Evaluator:  s.Evaluator,
		Vocabulary: vocab,
		Log:        log,
		RunID:      runID,
	}
	p, err := fs.Run(ctx)
	if err := s.Close(err); err != nil {
		return err
	}

	return p.Write(o.Out, vocab)
}
