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

package explore_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thestormforge/optimize-search/cli/internal/commands/explore"
	"github.com/thestormforge/optimize-search/internal/config"
	"github.com/thestormforge/optimize-search/internal/evaluator"
	"github.com/thestormforge/optimize-search/internal/trial"
)

const features = `@attribute instructions numeric
@attribute loads numeric
@attribute x86 numeric
@attribute gpu numeric
@data
% nbody ['nbody.c']
10,2,0.5,1.5
% fft ['fft.c']
4,1,1.0,2.0
`

type rateEvaluator struct {
	fail bool
}

func (e *rateEvaluator) Evaluate(_ context.Context, c trial.Configuration, _ []string) (trial.Result, error) {
	if e.fail {
		return trial.Result{}, &evaluator.ProcessFailure{Binary: "./train", ExitCode: 2, Stderr: "out of memory"}
	}
	if c.Model == trial.DecisionTree {
		return trial.Result{Configuration: c, Report: "# Correctly classified 3/4 (75%)\n"}, nil
	}
	return trial.Result{Configuration: c, Report: fmt.Sprintf("# Speed-up: %g (oracle: 9)\n", c.Rate*10)}, nil
}

func newCommand(t *testing.T, e evaluator.Evaluator) (*config.Config, *bytes.Buffer, func(args ...string) error) {
	dir := t.TempDir()
	cfg := &config.Config{
		Evaluator: filepath.Join(dir, "train"),
		ModelDir:  filepath.Join(dir, "models"),
		DataDir:   filepath.Join(dir, "training_data"),
		Report:    filepath.Join(dir, "training_output.txt"),
	}
	require.NoError(t, cfg.Load())

	filename := filepath.Join(dir, "features.arff")
	require.NoError(t, os.WriteFile(filename, []byte(features), 0644))
	require.NoError(t, os.WriteFile(cfg.Evaluator, nil, 0755))

	var out, errOut bytes.Buffer
	cmd := explore.NewCommand(&explore.Options{Config: cfg, Evaluator: e})
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return cfg, &out, func(args ...string) error {
		cmd.SetArgs(append([]string{filename}, args...))
		return cmd.Execute()
	}
}

func TestExplore(t *testing.T) {
	cfg, out, run := newCommand(t, &rateEvaluator{})
	require.NoError(t, run("--nn", "--dtree", "-r", "0.1,0.2", "-p", "no-pca", "-o", "csv"))

	assert.Equal(t, "MODEL,CONFIGURATION,PERCENT,SPEEDUP\n"+
		"neural network,\"rate=0.1,momentum=0.1,pcaDim=no-pca,hiddenDim=10,extraConfig=n/a\",n/a,1\n"+
		"neural network,\"rate=0.2,momentum=0.1,pcaDim=no-pca,hiddenDim=10,extraConfig=n/a\",n/a,2\n"+
		"decision tree,\"maxDepth=50,minSamplesPerCat=10,maxCategories=5\",75,n/a\n", out.String())

	report, err := os.ReadFile(cfg.Report)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(report), "Results for "))
	assert.NoDirExists(t, cfg.DataDir)
}

func TestExploreKeepData(t *testing.T) {
	cfg, _, run := newCommand(t, &rateEvaluator{})
	cfg.KeepData = true
	require.NoError(t, run("--dtree", "-a", "7"))

	assert.FileExists(t, filepath.Join(cfg.DataDir, "nbody_nbody.csv"))
	report, err := os.ReadFile(cfg.Report)
	require.NoError(t, err)
	assert.Contains(t, string(report), "Results for decision tree, maxDepth - 7, ")
}

func TestExploreFailure(t *testing.T) {
	cfg, out, run := newCommand(t, &rateEvaluator{fail: true})
	err := run("--nn")

	var failure *evaluator.ProcessFailure
	assert.True(t, errors.As(err, &failure))
	assert.Empty(t, out.String())
	assert.NoFileExists(t, cfg.Report)
}

func TestExploreNoModel(t *testing.T) {
	_, _, run := newCommand(t, &rateEvaluator{})

	var cerr *config.Error
	assert.True(t, errors.As(run(), &cerr))
}
