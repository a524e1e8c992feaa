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

// Package config holds the parameters of a search run. A configuration is
// populated once (flags, then an optional file, then the environment, then the
// defaults) and is treated as immutable afterwards.
package config

import (
	"fmt"

	"github.com/thestormforge/optimize-search/internal/metric"
	"github.com/thestormforge/optimize-search/internal/trial"
)

// Loader is used to initially populate a search configuration
type Loader func(cfg *Config) error

// Config is the structure used to manage the search parameters
type Config struct {
	// Filename is the path to an optional configuration file
	Filename string `json:"-"`

	// FeatureFile is the path to the input feature file
	FeatureFile string `json:"featureFile,omitempty"`
	// Evaluator is the path to the training program
	Evaluator string `json:"evaluator,omitempty"`
	// ModelDir receives the trained model artifacts
	ModelDir string `json:"modelDir,omitempty"`
	// DataDir receives the staged data files
	DataDir string `json:"dataDir,omitempty"`
	// Report is the path of the grid search report
	Report string `json:"report,omitempty"`
	// ReportTemplate overrides the header of each report block
	ReportTemplate string `json:"reportTemplate,omitempty"`
	// MetricsFile receives the run metrics in the Prometheus text format
	MetricsFile string `json:"metricsFile,omitempty"`

	// Concurrency is the maximum number of evaluators running at once
	Concurrency int `json:"concurrency,omitempty"`
	// Arches is the number of target architectures (label columns)
	Arches int `json:"arches,omitempty"`
	// LaunchRate limits evaluator launches per second, zero is unlimited
	LaunchRate float64 `json:"launchRate,omitempty"`

	Verbose  bool `json:"verbose,omitempty"`
	Force    bool `json:"force,omitempty"`
	KeepData bool `json:"keepData,omitempty"`

	NeuralNetwork NeuralNetwork `json:"neuralNetwork,omitempty"`
	DecisionTree  DecisionTree  `json:"decisionTree,omitempty"`
	Selection     Selection     `json:"selection,omitempty"`
}

// NeuralNetwork holds the neural network hyperparameters to explore
type NeuralNetwork struct {
	Enabled      bool                 `json:"enabled,omitempty"`
	SaveModels   bool                 `json:"saveModels,omitempty"`
	Rates        []float64            `json:"rates,omitempty"`
	Momentums    []float64            `json:"momentums,omitempty"`
	PCA          []trial.PCADimension `json:"pca,omitempty"`
	HiddenLayers []int                `json:"hiddenLayers,omitempty"`
	Iterations   int                  `json:"iterations,omitempty"`
}

// DecisionTree holds the decision tree parameters
type DecisionTree struct {
	Enabled       bool `json:"enabled,omitempty"`
	MaxDepth      int  `json:"maxDepth,omitempty"`
	MinSamples    int  `json:"minSamples,omitempty"`
	MaxCategories int  `json:"maxCategories,omitempty"`
}

// Selection holds the greedy feature selection parameters
type Selection struct {
	MaxSelected   int         `json:"maxSelected,omitempty"`
	Metric        metric.Name `json:"metric,omitempty"`
	Seed          []int       `json:"seed,omitempty"`
	Exclude       []int       `json:"exclude,omitempty"`
	Vocabulary    string      `json:"vocabulary,omitempty"`
	CarryBaseline bool        `json:"carryBaseline,omitempty"`
	Report        string      `json:"report,omitempty"`
}

// Error describes an unusable configuration value
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// Load will populate the configuration, values already present take precedence
func (cfg *Config) Load(extra ...Loader) error {
	var loaders []Loader
	loaders = append(loaders, fileLoader)
	loaders = append(loaders, extra...)
	loaders = append(loaders, envLoader, defaultLoader)
	for i := range loaders {
		if err := loaders[i](cfg); err != nil {
			return err
		}
	}
	return nil
}

// NeuralNetworkConfigurations returns the cross product of the neural network
// hyperparameters, nested in rate, momentum, PCA and hidden layer order.
func (cfg *Config) NeuralNetworkConfigurations() []trial.Configuration {
	nn := &cfg.NeuralNetwork
	result := make([]trial.Configuration, 0, len(nn.Rates)*len(nn.Momentums)*len(nn.PCA)*len(nn.HiddenLayers))
	for _, r := range nn.Rates {
		for _, m := range nn.Momentums {
			for _, p := range nn.PCA {
				for _, h := range nn.HiddenLayers {
					result = append(result, trial.Configuration{
						Model:       trial.NeuralNetwork,
						Rate:        r,
						Momentum:    m,
						PCA:         p,
						HiddenLayer: h,
						Iterations:  nn.Iterations,
					})
				}
			}
		}
	}
	return result
}

// DecisionTreeConfiguration returns the single decision tree configuration.
func (cfg *Config) DecisionTreeConfiguration() trial.Configuration {
	return trial.Configuration{
		Model:                 trial.DecisionTree,
		MaxDepth:              cfg.DecisionTree.MaxDepth,
		MinSamplesPerCategory: cfg.DecisionTree.MinSamples,
		MaxCategories:         cfg.DecisionTree.MaxCategories,
	}
}

// RequireSinglePoint checks that exactly one value is configured for each of
// the neural network hyperparameter lists.
func (cfg *Config) RequireSinglePoint() error {
	nn := &cfg.NeuralNetwork
	for _, l := range []struct {
		field string
		count int
	}{
		{"neuralNetwork.rates", len(nn.Rates)},
		{"neuralNetwork.momentums", len(nn.Momentums)},
		{"neuralNetwork.pca", len(nn.PCA)},
		{"neuralNetwork.hiddenLayers", len(nn.HiddenLayers)},
	} {
		if l.count != 1 {
			return &Error{Field: l.field, Message: fmt.Sprintf("feature selection requires exactly one value, got %d", l.count)}
		}
	}
	return nil
}
