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

// Package telemetry holds the Prometheus collectors describing a search run.
package telemetry

import (
	"bytes"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Registry contains every collector of this package.
var Registry = prometheus.NewRegistry()

var (
	// Trials is a Prometheus counter metric which holds the total number of
	// evaluator invocations by model and outcome
	Trials = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optimize_search_trials_total",
		Help: "Total number of evaluated configurations",
	}, []string{"model", "result"})

	// TrialDuration is a Prometheus histogram metric of evaluator run times
	TrialDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "optimize_search_trial_duration_seconds",
		Help:    "Time spent running the evaluator",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	}, []string{"model"})

	// ActiveTrials is a Prometheus gauge metric which holds the number of
	// evaluators currently running
	ActiveTrials = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "optimize_search_active_trials",
		Help: "Number of evaluators currently running",
	})

	// SelectionRounds is a Prometheus counter metric which holds the number of
	// completed feature selection rounds
	SelectionRounds = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optimize_search_selection_rounds_total",
		Help: "Total number of completed feature selection rounds",
	})

	// SelectionBest is a Prometheus gauge metric which holds the best metric
	// value found by feature selection so far
	SelectionBest = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "optimize_search_selection_best",
		Help: "Best selection metric value found so far",
	}, []string{"metric"})

	// SelectedFeatures is a Prometheus gauge metric which holds the size of
	// the selected feature set
	SelectedFeatures = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "optimize_search_selected_features",
		Help: "Number of features in the selected set",
	})
)

func init() {
	Registry.MustRegister(
		Trials,
		TrialDuration,
		ActiveTrials,
		SelectionRounds,
		SelectionBest,
		SelectedFeatures,
	)
}

// ObserveTrial records the start of an evaluator run, the returned function
// must be called with the outcome once the run completes.
func ObserveTrial(model string) func(error) {
	start := time.Now()
	ActiveTrials.Inc()
	return func(err error) {
		ActiveTrials.Dec()
		TrialDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
		result := "success"
		if err != nil {
			result = "failure"
		}
		Trials.WithLabelValues(model, result).Inc()
	}
}

// ObserveRound records a completed feature selection round.
func ObserveRound(metric string, best float64, selected int) {
	SelectionRounds.Inc()
	SelectionBest.WithLabelValues(metric).Set(best)
	SelectedFeatures.Set(float64(selected))
}

// Encode returns the current values in the Prometheus text exposition format.
func Encode(g prometheus.Gatherer) ([]byte, error) {
	mfs, err := g.Gather()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// WriteFile writes the current values of the registry to the named file.
func WriteFile(name string) error {
	b, err := Encode(Registry)
	if err != nil {
		return err
	}
	return os.WriteFile(name, b, 0644)
}
