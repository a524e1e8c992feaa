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

package config

import (
	"fmt"

	"github.com/thestormforge/optimize-search/internal/features"
	"github.com/thestormforge/optimize-search/internal/metric"
	"github.com/thestormforge/optimize-search/internal/trial"
)

// DefaultSeed is the initial selected feature set: vector and bitwise operations,
// built-in math, jumps, parallel regions and the architecture compatibility flags.
var DefaultSeed = []int{2, 4, 6, 10, 13, 14, 18, 19, 20}

func defaultLoader(cfg *Config) error {
	defaultString(&cfg.Evaluator, "./train")
	defaultString(&cfg.ModelDir, "./models")
	defaultString(&cfg.DataDir, "./training_data")
	defaultString(&cfg.Report, "training_output.txt")
	defaultInt(&cfg.Concurrency, 1)
	defaultInt(&cfg.Arches, 2)

	nn := &cfg.NeuralNetwork
	if len(nn.Rates) == 0 {
		nn.Rates = []float64{0.1}
	}
	if len(nn.Momentums) == 0 {
		nn.Momentums = []float64{0.1}
	}
	if len(nn.PCA) == 0 {
		nn.PCA = []trial.PCADimension{8}
	}
	if len(nn.HiddenLayers) == 0 {
		nn.HiddenLayers = []int{10}
	}
	defaultInt(&nn.Iterations, 500)

	dt := &cfg.DecisionTree
	defaultInt(&dt.MaxDepth, 50)
	defaultInt(&dt.MinSamples, 10)
	defaultInt(&dt.MaxCategories, 5)

	sel := &cfg.Selection
	defaultInt(&sel.MaxSelected, 21)
	if sel.Metric == "" {
		sel.Metric = metric.NameSpeedup
	}
	if len(sel.Seed) == 0 {
		sel.Seed = append([]int(nil), DefaultSeed...)
	}
	defaultString(&sel.Vocabulary, features.VocabularyStatic)

	return nil
}

// Validate checks the ranges of the configuration values
func (cfg *Config) Validate() error {
	positive := []struct {
		field string
		value int
	}{
		{"concurrency", cfg.Concurrency},
		{"arches", cfg.Arches},
		{"neuralNetwork.iterations", cfg.NeuralNetwork.Iterations},
		{"decisionTree.maxDepth", cfg.DecisionTree.MaxDepth},
		{"decisionTree.minSamples", cfg.DecisionTree.MinSamples},
		{"decisionTree.maxCategories", cfg.DecisionTree.MaxCategories},
		{"selection.maxSelected", cfg.Selection.MaxSelected},
	}
	for _, p := range positive {
		if p.value < 1 {
			return &Error{Field: p.field, Message: fmt.Sprintf("must be at least 1, got %d", p.value)}
		}
	}

	if cfg.LaunchRate < 0 {
		return &Error{Field: "launchRate", Message: fmt.Sprintf("must not be negative, got %g", cfg.LaunchRate)}
	}

	nn := &cfg.NeuralNetwork
	if len(nn.Rates) == 0 || len(nn.Momentums) == 0 || len(nn.PCA) == 0 || len(nn.HiddenLayers) == 0 {
		return &Error{Field: "neuralNetwork", Message: "every hyperparameter list requires at least one value"}
	}
	for _, h := range nn.HiddenLayers {
		if h < 1 {
			return &Error{Field: "neuralNetwork.hiddenLayers", Message: fmt.Sprintf("must be at least 1, got %d", h)}
		}
	}

	if _, err := metric.ParseName(string(cfg.Selection.Metric)); err != nil {
		return &Error{Field: "selection.metric", Message: err.Error()}
	}
	if _, err := features.Lookup(cfg.Selection.Vocabulary); err != nil {
		return &Error{Field: "selection.vocabulary", Message: err.Error()}
	}
	for _, f := range append(append([]int(nil), cfg.Selection.Seed...), cfg.Selection.Exclude...) {
		if f < 0 {
			return &Error{Field: "selection", Message: fmt.Sprintf("invalid feature index %d", f)}
		}
	}

	return nil
}

// defaultString overwrites an empty s1 with the value of s2
func defaultString(s1 *string, s2 string) {
	if *s1 == "" {
		*s1 = s2
	}
}

// defaultInt overwrites a zero i1 with the value of i2
func defaultInt(i1 *int, i2 int) {
	if *i1 == 0 {
		*i1 = i2
	}
}
