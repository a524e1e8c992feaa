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

package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thestormforge/optimize-search/internal/trial"
)

func TestEngine_RenderResult(t *testing.T) {
	eng := New()

	nn := trial.Result{
		Configuration: trial.Configuration{Model: trial.NeuralNetwork, Rate: 0.1, Momentum: 0.1, PCA: 8, HiddenLayer: 10, Iterations: 500},
		Report:        "# Correctly classified 187/200 (93.5%)\n# Speed-up: 2.1 (oracle: 2.5)\n",
	}
	dt := trial.Result{
		Configuration: trial.Configuration{Model: trial.DecisionTree, MaxDepth: 50, MinSamplesPerCategory: 10, MaxCategories: 5},
	}
	tagged := trial.Result{
		Configuration: trial.Configuration{Model: trial.NeuralNetwork, Tag: "4"},
	}

	cases := []struct {
		desc     string
		template string
		result   trial.Result
		expected string
	}{
		{
			desc:     "default neural network",
			result:   nn,
			expected: "Results for neural network, rate - 0.1, momentum - 0.1, pcaDim - 8, hiddenDim - 10, extraConfig - n/a\n# Correctly classified 187/200 (93.5%)\n# Speed-up: 2.1 (oracle: 2.5)\n",
		},
		{
			desc:     "default decision tree",
			result:   dt,
			expected: "Results for decision tree, maxDepth - 50, minSamplesPerCat - 10, maxCategories - 5\n",
		},
		{
			desc:     "sprig functions",
			template: `{{ .Model | upper }} {{ .Values.rate }} {{ percent 1 .PercentCorrect }}`,
			result:   nn,
			expected: "NEURAL NETWORK 0.1 93.5%",
		},
		{
			desc:     "missing metric",
			template: `{{ percent 2 .Speedup }}`,
			result:   dt,
			expected: "n/a",
		},
		{
			desc:     "feature name",
			template: `{{ featureName .Tag }}`,
			result:   tagged,
			expected: "vector floating-point",
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			tmpl, err := eng.Parse(c.template)
			if assert.NoError(t, err) {
				actual, err := eng.RenderResult(tmpl, &c.result)
				if assert.NoError(t, err) {
					assert.Equal(t, c.expected, actual)
				}
			}
		})
	}
}

func TestFuncMap(t *testing.T) {
	f := FuncMap()
	assert.NotContains(t, f, "env")
	assert.NotContains(t, f, "expandenv")
	assert.Contains(t, f, "percent")
	assert.Contains(t, f, "trim")
}
