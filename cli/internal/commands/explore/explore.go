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

package explore

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/thestormforge/optimize-search/cli/internal/commander"
	"github.com/thestormforge/optimize-search/internal/config"
	"github.com/thestormforge/optimize-search/internal/evaluator"
	"github.com/thestormforge/optimize-search/internal/experiment"
)

// Options are the options for exploring model configurations
type Options struct {
	// Config is the search configuration
	Config *config.Config
	// IOStreams are used to access the standard process streams
	commander.IOStreams
	// Printer is the resource printer used to render the results
	Printer commander.ResourcePrinter
	// Evaluator overrides the training program, if set
	Evaluator evaluator.Evaluator
}

// NewCommand creates a new command for exploring model configurations
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore FILE",
		Short: "Explore model configurations",
		Long:  "Train and evaluate every combination of the supplied model parameters",

		Example: `# Compare two learning rates and three hidden layer widths
optimize-search explore features.arff --nn -r 0.1,0.3 -d 5,10,20

# Add a decision tree using four concurrent evaluations
optimize-search explore features.arff --nn --dtree -c 4`,

		Args: cobra.MaximumNArgs(1),

		PreRun: func(cmd *cobra.Command, args []string) {
			commander.SetStreams(&o.IOStreams, cmd)
			if len(args) > 0 {
				o.Config.FeatureFile = args[0]
			}
		},
		RunE: commander.WithContextE(o.explore),
	}

	nn := &o.Config.NeuralNetwork
	dt := &o.Config.DecisionTree
	cmd.Flags().BoolVar(&nn.Enabled, "nn", nn.Enabled, "train neural networks")
	cmd.Flags().BoolVar(&dt.Enabled, "dtree", dt.Enabled, "train a decision tree")
	commander.NeuralNetworkFlags(nn, cmd)
	cmd.Flags().BoolVarP(&nn.SaveModels, "save-models", "s", nn.SaveModels, "keep the trained networks in the model directory")
	cmd.Flags().IntVarP(&dt.MaxDepth, "max-depth", "a", dt.MaxDepth, "maximum decision tree `depth`")
	cmd.Flags().IntVarP(&dt.MinSamples, "min-samples", "b", dt.MinSamples, "minimum `number` of samples per category")
	cmd.Flags().IntVarP(&dt.MaxCategories, "max-categories", "e", dt.MaxCategories, "maximum `number` of categories")

	commander.SetPrinter(&resultsMeta{}, &o.Printer, cmd)
	return cmd
}

func (o *Options) explore(ctx context.Context) error {
	cfg := o.Config
	if cfg.FeatureFile == "" {
		return &config.Error{Field: "featureFile", Message: "a feature file is required"}
	}

	log := commander.NewLogger(o.ErrOut, cfg.Verbose)
	log.V(1).Info("Starting exploration", "run", uuid.New().String())

	s := experiment.NewSession(cfg, log)
	if o.Evaluator != nil {
		s.Evaluator = o.Evaluator
	}
	if err := s.Open(); err != nil {
		return err
	}

	g := &experiment.GridSearch{
		Config:    cfg,
		Dataset:   s.Dataset,
		Evaluator: s.Evaluator,
		Log:       log,
	}
	results, err := g.Run(ctx)
	if err := s.Close(err); err != nil {
		return err
	}

	return o.Printer.PrintObj(newResultList(results), o.Out)
}
