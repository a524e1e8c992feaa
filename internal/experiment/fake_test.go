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
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/require"
	"github.com/thestormforge/optimize-search/internal/config"
	"github.com/thestormforge/optimize-search/internal/dataset"
	"github.com/thestormforge/optimize-search/internal/evaluator"
	"github.com/thestormforge/optimize-search/internal/trial"
)

// fakeEvaluator records each configuration and produces a report from a function.
type fakeEvaluator struct {
	mu      sync.Mutex
	configs []trial.Configuration
	paths   [][]string
	report  func(c trial.Configuration, paths []string) (string, error)
}

var _ evaluator.Evaluator = &fakeEvaluator{}

func (f *fakeEvaluator) Evaluate(_ context.Context, c trial.Configuration, paths []string) (trial.Result, error) {
	f.mu.Lock()
	f.configs = append(f.configs, c)
	f.paths = append(f.paths, paths)
	f.mu.Unlock()

	report, err := f.report(c, paths)
	if err != nil {
		return trial.Result{}, err
	}
	return trial.Result{Configuration: c, Report: report}, nil
}

func (f *fakeEvaluator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.configs)
}

// configsByTag returns the recorded configurations keyed by round and tag.
func (f *fakeEvaluator) configsByTag() map[string]trial.Configuration {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make(map[string]trial.Configuration, len(f.configs))
	for i, c := range f.configs {
		result[filepath.Base(filepath.Dir(f.paths[i][0]))] = c
	}
	return result
}

func speedupReport(v float64) string {
	return fmt.Sprintf("# Correctly classified 1/2 (50%%)\n# Speed-up: %g (oracle: 9)\n", v)
}

func exitFailure(c trial.Configuration) error {
	return &evaluator.ProcessFailure{Binary: "./train", Args: trial.Args(c, nil, 2, false), ExitCode: 1, Stderr: "training failed"}
}

// roundOf returns the round number encoded in the staged data directory.
func roundOf(paths []string) int {
	dir := filepath.Base(filepath.Dir(paths[0]))
	r, _ := strconv.Atoi(dir[:strings.IndexByte(dir, '_')])
	return r
}

func featureOf(c trial.Configuration) int {
	f, _ := strconv.Atoi(c.Tag)
	return f
}

// testDataset returns a dataset with two benchmark functions.
func testDataset(features int) *dataset.Dataset {
	dp := func(offset float64) dataset.Datapoint {
		values := make(dataset.Datapoint, features+2)
		for i := range values {
			values[i] = offset + float64(i)
		}
		return values
	}

	return &dataset.Dataset{
		Arches: 2,
		Functions: []*dataset.BenchmarkFunction{
			{Benchmark: "fft", Functions: []string{"fft.c"}, Datapoints: []dataset.Datapoint{dp(0), dp(100)}},
			{Benchmark: "lu", Functions: []string{"lu.c"}, Datapoints: []dataset.Datapoint{dp(1000)}},
		},
	}
}

func testConfig(t *testing.T, modify func(*config.Config)) *config.Config {
	dir := t.TempDir()
	cfg := &config.Config{
		DataDir: filepath.Join(dir, "training_data"),
		Report:  filepath.Join(dir, "training_output.txt"),
	}
	if modify != nil {
		modify(cfg)
	}
	require.NoError(t, cfg.Load())
	require.NoError(t, cfg.Validate())
	return cfg
}

// logCapture keeps the formatted key/value pairs of every log line.
type logCapture struct {
	mu    sync.Mutex
	lines []string
}

func (l *logCapture) logger(verbosity int) logr.Logger {
	return funcr.New(func(_, args string) {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.lines = append(l.lines, args)
	}, funcr.Options{Verbosity: verbosity})
}

func (l *logCapture) last() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.lines) == 0 {
		return ""
	}
	return l.lines[len(l.lines)-1]
}
