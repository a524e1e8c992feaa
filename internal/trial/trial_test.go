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

package trial

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thestormforge/optimize-search/internal/metric"
)

func TestArgs(t *testing.T) {
	testCases := []struct {
		desc       string
		config     Configuration
		dataPaths  []string
		saveModels bool
		expected   []string
	}{
		{
			desc: "neural network",
			config: Configuration{
				Model:       NeuralNetwork,
				Rate:        0.1,
				Momentum:    0.5,
				PCA:         8,
				HiddenLayer: 10,
				Iterations:  500,
			},
			dataPaths: []string{"d/a.csv", "d/b.csv"},
			expected: []string{
				"--data", "d/a.csv", "--data", "d/b.csv",
				"--rate", "0.1", "--momentum", "0.5", "--layer", "10", "--iter", "500", "--arches", "2",
				"--pca", "8",
			},
		},
		{
			desc: "neural network saved without pca",
			config: Configuration{
				Model:       NeuralNetwork,
				Rate:        1e-05,
				Momentum:    1,
				HiddenLayer: 4,
				Iterations:  10,
				ExtraArgs:   []string{"--no-cut-bad"},
			},
			dataPaths:  []string{"a.csv"},
			saveModels: true,
			expected: []string{
				"--data", "a.csv",
				"--rate", "1e-05", "--momentum", "1", "--layer", "4", "--iter", "10", "--arches", "2",
				"--save-nn", "--save-trans",
				"--no-pca",
				"--no-cut-bad",
			},
		},
		{
			desc: "decision tree",
			config: Configuration{
				Model:                 DecisionTree,
				MaxDepth:              50,
				MinSamplesPerCategory: 10,
				MaxCategories:         5,
			},
			dataPaths:  []string{"a.csv"},
			saveModels: true,
			expected: []string{
				"--data", "a.csv",
				"--no-cut-bad", "--no-cut-prof", "--no-cut-empty", "--no-pca", "--dtree",
				"--depth", "50", "--min-samples", "10", "--max-cat", "5", "--arches", "2",
			},
		},
	}
	for _, c := range testCases {
		t.Run(c.desc, func(t *testing.T) {
			assert.Equal(t, c.expected, Args(c.config, c.dataPaths, 2, c.saveModels))
		})
	}
}

func TestConfigurationString(t *testing.T) {
	nn := Configuration{Model: NeuralNetwork, Rate: 0.1, Momentum: 0.1, PCA: 8, HiddenLayer: 10}
	assert.Equal(t, "{model: neural network, rate: 0.1, momentum: 0.1, pcaDim: 8, hiddenDim: 10, extraConfig: n/a}", nn.String())

	tagged := nn.WithTag("3", "--no-cut-bad")
	assert.Equal(t, "3", tagged.Tag)
	assert.Equal(t, []string{"--no-cut-bad"}, tagged.ExtraArgs)
	assert.Empty(t, nn.Tag)
	assert.Empty(t, nn.ExtraArgs)

	dt := Configuration{Model: DecisionTree, MaxDepth: 50, MinSamplesPerCategory: 10, MaxCategories: 5}
	assert.Equal(t, "{model: decision tree, maxDepth: 50, minSamplesPerCat: 10, maxCategories: 5}", dt.String())
}

func TestPCADimension(t *testing.T) {
	testCases := []struct {
		desc     string
		dim      PCADimension
		features int
		expected PCADimension
	}{
		{desc: "fewer features", dim: 8, features: 5, expected: 0},
		{desc: "equal features", dim: 8, features: 8, expected: 0},
		{desc: "more features", dim: 8, features: 9, expected: 8},
		{desc: "disabled", dim: 0, features: 30, expected: 0},
	}
	for _, c := range testCases {
		t.Run(c.desc, func(t *testing.T) {
			assert.Equal(t, c.expected, c.dim.ForFeatures(c.features))
		})
	}
}

func TestPCADimensionJSON(t *testing.T) {
	var dims []PCADimension
	if assert.NoError(t, json.Unmarshal([]byte(`[8, "no-pca", "4"]`), &dims)) {
		assert.Equal(t, []PCADimension{8, 0, 4}, dims)
	}

	b, err := json.Marshal(dims)
	if assert.NoError(t, err) {
		assert.JSONEq(t, `[8, "no-pca", 4]`, string(b))
	}

	assert.Error(t, json.Unmarshal([]byte(`["eight"]`), &dims))
	assert.Error(t, json.Unmarshal([]byte(`[-1]`), &dims))
}

func TestPCAList(t *testing.T) {
	var dims []PCADimension
	l := &PCAList{Values: &dims}

	assert.NoError(t, l.Set("4,8"))
	assert.Equal(t, []PCADimension{4, 8}, dims)
	assert.Equal(t, "4,8", l.String())

	assert.NoError(t, l.Set("no-pca"))
	assert.Equal(t, []PCADimension{0}, dims)
	assert.Equal(t, "no-pca", l.String())

	assert.Error(t, l.Set("4,x"))
	assert.Error(t, l.Set("0"))
	assert.Equal(t, "pcaList", l.Type())
}

func TestResultMetrics(t *testing.T) {
	r := Result{Report: "# Correctly classified 187/200 (93.5%)\n# Speed-up: 2.1 (oracle: 2.5)\n"}

	pc, ok := r.PercentCorrect()
	assert.True(t, ok)
	assert.Equal(t, 93.5, pc)

	su, ok := r.Value(metric.NameSpeedup)
	assert.True(t, ok)
	assert.Equal(t, 2.1, su)

	_, ok = Result{}.Speedup()
	assert.False(t, ok)
}
