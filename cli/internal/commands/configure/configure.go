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

package configure

import (
	"github.com/spf13/cobra"
	"github.com/thestormforge/optimize-search/internal/config"
)

// Options includes the configuration for the subcommands
type Options struct {
	// Config is the search configuration
	Config *config.Config
}

// NewCommand creates a new configuration command
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Work with the configuration",
		Long:  "View the effective search configuration",
	}

	cmd.AddCommand(NewViewCommand(&ViewOptions{Config: o.Config}))
	cmd.AddCommand(NewEnvCommand(&EnvOptions{Config: o.Config}))

	return cmd
}
