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

package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTrial(t *testing.T) {
	success := testutil.ToFloat64(Trials.WithLabelValues("decision tree", "success"))
	failure := testutil.ToFloat64(Trials.WithLabelValues("decision tree", "failure"))

	done := ObserveTrial("decision tree")
	assert.Equal(t, 1.0, testutil.ToFloat64(ActiveTrials))
	done(nil)
	assert.Equal(t, 0.0, testutil.ToFloat64(ActiveTrials))

	ObserveTrial("decision tree")(errors.New("exit status 1"))

	assert.Equal(t, success+1, testutil.ToFloat64(Trials.WithLabelValues("decision tree", "success")))
	assert.Equal(t, failure+1, testutil.ToFloat64(Trials.WithLabelValues("decision tree", "failure")))
}

func TestObserveRound(t *testing.T) {
	rounds := testutil.ToFloat64(SelectionRounds)
	ObserveRound("speedup", 2.5, 10)

	assert.Equal(t, rounds+1, testutil.ToFloat64(SelectionRounds))
	assert.Equal(t, 2.5, testutil.ToFloat64(SelectionBest.WithLabelValues("speedup")))
	assert.Equal(t, 10.0, testutil.ToFloat64(SelectedFeatures))
}

func TestWriteFile(t *testing.T) {
	ObserveRound("percent", 93.5, 11)

	name := filepath.Join(t.TempDir(), "metrics.prom")
	require.NoError(t, WriteFile(name))

	b, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Contains(t, string(b), "# TYPE optimize_search_selection_rounds_total counter")
	assert.Contains(t, string(b), `optimize_search_selection_best{metric="percent"} 93.5`)
}
