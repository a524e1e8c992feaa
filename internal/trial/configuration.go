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

// Package trial describes a single evaluation: the model configuration under
// test, the arguments used to run the evaluator and the captured result.
package trial

import (
	"strconv"
	"strings"
)

// Model is the kind of predictor being trained.
type Model string

const (
	// NeuralNetwork trains a multi-layer perceptron.
	NeuralNetwork Model = "neural network"
	// DecisionTree trains a classification tree.
	DecisionTree Model = "decision tree"
)

// Configuration is one concrete assignment of model hyperparameters. It is a
// value type, copies never share state except for the extra arguments slice
// which must not be modified after construction.
type Configuration struct {
	Model Model

	// Neural network
	Rate        float64
	Momentum    float64
	PCA         PCADimension
	HiddenLayer int
	Iterations  int

	// Decision tree
	MaxDepth              int
	MinSamplesPerCategory int
	MaxCategories         int

	// Tag identifies the candidate feature of a feature selection trial.
	Tag string
	// ExtraArgs are appended to the generated evaluator arguments.
	ExtraArgs []string
}

// Field is a single named value used to describe a configuration.
type Field struct {
	Key   string
	Value string
}

// Fields returns the ordered description of the configuration, excluding the model.
func (c Configuration) Fields() []Field {
	switch c.Model {
	case DecisionTree:
		return []Field{
			{Key: "maxDepth", Value: strconv.Itoa(c.MaxDepth)},
			{Key: "minSamplesPerCat", Value: strconv.Itoa(c.MinSamplesPerCategory)},
			{Key: "maxCategories", Value: strconv.Itoa(c.MaxCategories)},
		}
	default:
		extra := c.Tag
		if extra == "" {
			extra = "n/a"
		}
		return []Field{
			{Key: "rate", Value: formatFloat(c.Rate)},
			{Key: "momentum", Value: formatFloat(c.Momentum)},
			{Key: "pcaDim", Value: c.PCA.String()},
			{Key: "hiddenDim", Value: strconv.Itoa(c.HiddenLayer)},
			{Key: "extraConfig", Value: extra},
		}
	}
}

// String returns a single line description of the configuration.
func (c Configuration) String() string {
	var sb strings.Builder
	sb.WriteString("{model: ")
	sb.WriteString(string(c.Model))
	for _, f := range c.Fields() {
		sb.WriteString(", ")
		sb.WriteString(f.Key)
		sb.WriteString(": ")
		sb.WriteString(f.Value)
	}
	sb.WriteString("}")
	return sb.String()
}

// WithTag returns a copy of the configuration tagged for a feature selection trial.
func (c Configuration) WithTag(tag string, extraArgs ...string) Configuration {
	c.Tag = tag
	c.ExtraArgs = append(append([]string(nil), c.ExtraArgs...), extraArgs...)
	return c
}

// Args returns the evaluator arguments for the configuration, one data flag
// per path followed by the model specific flags.
func Args(c Configuration, dataPaths []string, arches int, saveModels bool) []string {
	args := make([]string, 0, 2*len(dataPaths)+16+len(c.ExtraArgs))
	for _, p := range dataPaths {
		args = append(args, "--data", p)
	}

	switch c.Model {
	case DecisionTree:
		args = append(args,
			"--no-cut-bad",
			"--no-cut-prof",
			"--no-cut-empty",
			"--no-pca",
			"--dtree",
			"--depth", strconv.Itoa(c.MaxDepth),
			"--min-samples", strconv.Itoa(c.MinSamplesPerCategory),
			"--max-cat", strconv.Itoa(c.MaxCategories),
			"--arches", strconv.Itoa(arches))

	default:
		args = append(args,
			"--rate", formatFloat(c.Rate),
			"--momentum", formatFloat(c.Momentum),
			"--layer", strconv.Itoa(c.HiddenLayer),
			"--iter", strconv.Itoa(c.Iterations),
			"--arches", strconv.Itoa(arches))

		if saveModels {
			args = append(args, "--save-nn", "--save-trans")
		}

		if c.PCA.Disabled() {
			args = append(args, "--no-pca")
		} else {
			args = append(args, "--pca", c.PCA.String())
		}
	}

	return append(args, c.ExtraArgs...)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
