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

// Package experiment contains the search drivers. Both drivers fan out one
// evaluator run per configuration to a bounded pool and collect the results
// in a sink that is only drained once the pool is idle.
package experiment

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/thestormforge/optimize-search/internal/config"
	"github.com/thestormforge/optimize-search/internal/dataset"
	"github.com/thestormforge/optimize-search/internal/evaluator"
	"github.com/thestormforge/optimize-search/internal/trial"
)

// GridSearch evaluates the cross product of the configured hyperparameters.
type GridSearch struct {
	Config    *config.Config
	Dataset   *dataset.Dataset
	Evaluator evaluator.Evaluator
	Log       logr.Logger
}

// Run evaluates every configuration and writes the report. No report is
// written if any evaluation fails.
func (g *GridSearch) Run(ctx context.Context) ([]trial.Result, error) {
	cfg := g.Config
	if !cfg.NeuralNetwork.Enabled && !cfg.DecisionTree.Enabled {
		return nil, &config.Error{Field: "model", Message: "at least one of neural networks or decision trees must be enabled"}
	}

	paths, err := g.Dataset.Stage(cfg.DataDir, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to stage data: %w", err)
	}

	pool := NewPool(cfg.Concurrency)
	sink := &ResultSink{}

	var configs []trial.Configuration
	if cfg.NeuralNetwork.Enabled {
		configs = append(configs, cfg.NeuralNetworkConfigurations()...)
	}
	if cfg.DecisionTree.Enabled {
		configs = append(configs, cfg.DecisionTreeConfiguration())
	}

	var model trial.Model
	for i := range configs {
		c := configs[i]
		if c.Model != model {
			model = c.Model
			g.Log.Info(trainingHeader(model))
		}

		submitted := pool.Submit(func() error {
			g.Log.Info("+++ Testing", "configuration", c.String())
			r, err := g.Evaluator.Evaluate(ctx, c, paths)
			if err != nil {
				return err
			}
			sink.Put(r)
			return nil
		})
		if !submitted {
			break
		}
	}

	if err := pool.Wait(); err != nil {
		g.Log.V(1).Info("Evaluation failed", "completed", sink.Len(), "configurations", len(configs))
		return nil, err
	}

	results := sink.Drain()
	if cfg.Report != "" {
		if err := SaveReport(cfg.Report, cfg.ReportTemplate, results); err != nil {
			return nil, err
		}
		g.Log.V(1).Info("Wrote report", "filename", cfg.Report, "results", len(results))
	}
	return results, nil
}

func trainingHeader(model trial.Model) string {
	switch model {
	case trial.DecisionTree:
		return "Training decision trees"
	default:
		return "Training neural networks"
	}
}
