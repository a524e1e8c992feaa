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

package check

import (
	"github.com/spf13/cobra"
	"github.com/thestormforge/optimize-search/cli/internal/commander"
	"github.com/thestormforge/optimize-search/internal/config"
	"github.com/thestormforge/optimize-search/internal/dataset"
	"github.com/thestormforge/optimize-search/internal/setup"
)

// Options are the options for checking a feature file
type Options struct {
	// Config is the search configuration
	Config *config.Config
	// IOStreams are used to access the standard process streams
	commander.IOStreams
	// Printer is the resource printer used to render the summary
	Printer commander.ResourcePrinter
}

// NewCommand creates a new command for checking a feature file
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Check a feature file",
		Long:  "Check a feature file and summarize the benchmark functions it contains",

		Args: cobra.MaximumNArgs(1),

		PreRun: func(cmd *cobra.Command, args []string) {
			commander.SetStreams(&o.IOStreams, cmd)
			if len(args) > 0 {
				o.Config.FeatureFile = args[0]
			}
		},
		RunE: commander.WithoutArgsE(o.check),
	}

	commander.SetPrinter(&summaryMeta{}, &o.Printer, cmd)
	return cmd
}

func (o *Options) check() error {
	if o.Config.FeatureFile == "" {
		return &config.Error{Field: "featureFile", Message: "a feature file is required"}
	}

	log := commander.NewLogger(o.ErrOut, o.Config.Verbose)
	w := setup.NewWorkspace(o.Config, log)
	if err := w.Check(); err != nil {
		// The summary is still useful without the training program
		log.Info("WARNING: " + err.Error())
	}

	p := &dataset.Parser{Arches: o.Config.Arches, Log: log}
	ds, err := p.Load(o.Config.FeatureFile)
	if err != nil {
		return err
	}

	return o.Printer.PrintObj(newSummary(ds), o.Out)
}
