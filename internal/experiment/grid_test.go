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

package experiment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thestormforge/optimize-search/internal/config"
	"github.com/thestormforge/optimize-search/internal/evaluator"
	"github.com/thestormforge/optimize-search/internal/trial"
)

func TestGridSearch(t *testing.T) {
	testCases := []struct {
		desc          string
		rates         []float64
		momentums     []float64
		pca           []trial.PCADimension
		hidden        []int
		neuralNetwork bool
		decisionTree  bool
		concurrency   int
		expected      int
	}{
		{
			desc:          "single point",
			rates:         []float64{0.1},
			momentums:     []float64{0.1},
			pca:           []trial.PCADimension{8},
			hidden:        []int{10},
			neuralNetwork: true,
			concurrency:   1,
			expected:      1,
		},
		{
			desc:          "cross product",
			rates:         []float64{0.1, 0.2},
			momentums:     []float64{0.1, 0.5, 0.9},
			pca:           []trial.PCADimension{0, 8},
			hidden:        []int{10, 20},
			neuralNetwork: true,
			concurrency:   4,
			expected:      2 * 3 * 2 * 2,
		},
		{
			desc:          "cross product with decision tree",
			rates:         []float64{0.1, 0.2},
			momentums:     []float64{0.1},
			pca:           []trial.PCADimension{4, 8},
			hidden:        []int{10},
			neuralNetwork: true,
			decisionTree:  true,
			concurrency:   3,
			expected:      2*1*2*1 + 1,
		},
		{
			desc:         "decision tree only",
			decisionTree: true,
			concurrency:  2,
			expected:     1,
		},
	}
	for _, c := range testCases {
		t.Run(c.desc, func(t *testing.T) {
			cfg := testConfig(t, func(cfg *config.Config) {
				cfg.Concurrency = c.concurrency
				cfg.NeuralNetwork.Enabled = c.neuralNetwork
				cfg.NeuralNetwork.Rates = c.rates
				cfg.NeuralNetwork.Momentums = c.momentums
				cfg.NeuralNetwork.PCA = c.pca
				cfg.NeuralNetwork.HiddenLayers = c.hidden
				cfg.DecisionTree.Enabled = c.decisionTree
			})
			eval := &fakeEvaluator{report: func(c trial.Configuration, _ []string) (string, error) {
				return speedupReport(c.Rate), nil
			}}

			g := &GridSearch{Config: cfg, Dataset: testDataset(3), Evaluator: eval, Log: logr.Discard()}
			results, err := g.Run(context.Background())
			require.NoError(t, err)

			assert.Len(t, results, c.expected)
			assert.Equal(t, c.expected, eval.calls())

			report, err := os.ReadFile(cfg.Report)
			require.NoError(t, err)
			assert.Equal(t, c.expected, strings.Count(string(report), "Results for "))

			decisionTrees := 0
			for _, r := range results {
				if r.Configuration.Model == trial.DecisionTree {
					decisionTrees++
				}
			}
			if c.decisionTree {
				assert.Equal(t, 1, decisionTrees)
			} else {
				assert.Zero(t, decisionTrees)
			}
		})
	}
}

func TestGridSearchStaging(t *testing.T) {
	cfg := testConfig(t, func(cfg *config.Config) {
		cfg.NeuralNetwork.Enabled = true
	})
	eval := &fakeEvaluator{report: func(trial.Configuration, []string) (string, error) { return "", nil }}

	g := &GridSearch{Config: cfg, Dataset: testDataset(3), Evaluator: eval, Log: logr.Discard()}
	_, err := g.Run(context.Background())
	require.NoError(t, err)

	expected := []string{filepath.Join(cfg.DataDir, "fft_fft.csv"), filepath.Join(cfg.DataDir, "lu_lu.csv")}
	if assert.Len(t, eval.paths, 1) {
		assert.Equal(t, expected, eval.paths[0])
	}

	b, err := os.ReadFile(expected[1])
	require.NoError(t, err)
	assert.Equal(t, "1000.0,1001.0,1002.0,1003.0,1004.0\n", string(b))

	// A second run leaves the staged data alone
	_, err = g.Run(context.Background())
	require.NoError(t, err)
	b2, err := os.ReadFile(expected[1])
	require.NoError(t, err)
	assert.Equal(t, b, b2)
}

func TestGridSearchReport(t *testing.T) {
	cfg := testConfig(t, func(cfg *config.Config) {
		cfg.Concurrency = 1
		cfg.NeuralNetwork.Enabled = true
		cfg.DecisionTree.Enabled = true
	})
	eval := &fakeEvaluator{report: func(c trial.Configuration, _ []string) (string, error) {
		if c.Model == trial.DecisionTree {
			return "", nil
		}
		return "# Speed-up: 2.1 (oracle: 2.5)\n", nil
	}}

	g := &GridSearch{Config: cfg, Dataset: testDataset(3), Evaluator: eval, Log: logr.Discard()}
	_, err := g.Run(context.Background())
	require.NoError(t, err)

	report, err := os.ReadFile(cfg.Report)
	require.NoError(t, err)
	assert.Equal(t, "Results for neural network, rate - 0.1, momentum - 0.1, pcaDim - 8, hiddenDim - 10, extraConfig - n/a\n"+
		"# Speed-up: 2.1 (oracle: 2.5)\n"+
		"\n"+
		"Results for decision tree, maxDepth - 50, minSamplesPerCat - 10, maxCategories - 5\n"+
		"\n", string(report))
}

func TestGridSearchFailure(t *testing.T) {
	for _, concurrency := range []int{1, 2, 8} {
		cfg := testConfig(t, func(cfg *config.Config) {
			cfg.Concurrency = concurrency
			cfg.NeuralNetwork.Enabled = true
			cfg.NeuralNetwork.Rates = []float64{0.1, 0.2, 0.3, 0.4}
			cfg.NeuralNetwork.HiddenLayers = []int{5, 10, 15}
			cfg.DecisionTree.Enabled = true
		})
		eval := &fakeEvaluator{report: func(c trial.Configuration, _ []string) (string, error) {
			if c.Rate == 0.2 && c.HiddenLayer == 10 {
				return "", exitFailure(c)
			}
			return speedupReport(1), nil
		}}

		g := &GridSearch{Config: cfg, Dataset: testDataset(3), Evaluator: eval, Log: logr.Discard()}
		results, err := g.Run(context.Background())

		var failure *evaluator.ProcessFailure
		assert.True(t, errors.As(err, &failure), "concurrency %d", concurrency)
		assert.Nil(t, results)
		_, statErr := os.Stat(cfg.Report)
		assert.True(t, os.IsNotExist(statErr), "no report for concurrency %d", concurrency)
	}
}

func TestGridSearchNoModel(t *testing.T) {
	cfg := testConfig(t, nil)
	eval := &fakeEvaluator{}

	g := &GridSearch{Config: cfg, Dataset: testDataset(3), Evaluator: eval, Log: logr.Discard()}
	_, err := g.Run(context.Background())

	var cerr *config.Error
	assert.True(t, errors.As(err, &cerr))
	assert.Zero(t, eval.calls())
}
