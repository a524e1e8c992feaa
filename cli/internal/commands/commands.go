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

package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thestormforge/optimize-search/cli/internal/commander"
	"github.com/thestormforge/optimize-search/cli/internal/commands/check"
	"github.com/thestormforge/optimize-search/cli/internal/commands/completion"
	"github.com/thestormforge/optimize-search/cli/internal/commands/configure"
	"github.com/thestormforge/optimize-search/cli/internal/commands/explore"
	"github.com/thestormforge/optimize-search/cli/internal/commands/selection"
	"github.com/thestormforge/optimize-search/cli/internal/commands/version"
	"github.com/thestormforge/optimize-search/internal/config"
	"github.com/thestormforge/optimize-search/internal/evaluator"
)

// NewRootCommand creates a new top-level command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "optimize-search",
		Short:             "Search for predictive models of benchmark performance",
		Long:              "Train and compare architecture prediction models using an external training program",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	// Create a global configuration
	cfg := &config.Config{}
	commander.ConfigGlobals(cfg, rootCmd)

	// Search Commands
	rootCmd.AddCommand(explore.NewCommand(&explore.Options{Config: cfg}))
	rootCmd.AddCommand(selection.NewCommand(&selection.Options{Config: cfg}))
	rootCmd.AddCommand(check.NewCommand(&check.Options{Config: cfg}))

	// Administrative Commands
	rootCmd.AddCommand(configure.NewCommand(&configure.Options{Config: cfg}))
	rootCmd.AddCommand(completion.NewCommand(&completion.Options{}))
	rootCmd.AddCommand(version.NewCommand(&version.Options{}))

	commander.MapErrors(rootCmd, mapError)
	return rootCmd
}

// mapError intercepts errors returned by commands before they are reported.
func mapError(err error) error {
	// It's really annoying to just get an "exit status was one" message.
	var e *evaluator.ProcessFailure
	if errors.As(err, &e) && e.Stderr != "" {
		return fmt.Errorf("%w\n%s\n%s", err, e.CommandLine(), e.Stderr)
	}

	return err
}
