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

	"github.com/go-logr/logr"
	"github.com/thestormforge/optimize-search/internal/config"
	"github.com/thestormforge/optimize-search/internal/dataset"
	"github.com/thestormforge/optimize-search/internal/evaluator"
	"github.com/thestormforge/optimize-search/internal/features"
	"github.com/thestormforge/optimize-search/internal/telemetry"
	"github.com/thestormforge/optimize-search/internal/trial"
)

// selectionArgs disable the pre-filtering of the training data.
var selectionArgs = []string{"--no-cut-bad", "--no-cut-prof", "--no-cut-empty"}

// FeatureSelector performs greedy forward feature selection: each round tries
// every remaining candidate feature alongside the selected set and keeps the
// single best performer.
type FeatureSelector struct {
	Config     *config.Config
	Dataset    *dataset.Dataset
	Evaluator  evaluator.Evaluator
	Vocabulary features.Vocabulary
	Log        logr.Logger
	// RunID identifies the run in the persisted progression.
	RunID string
}

// Run executes rounds until no candidate improves on the best metric value,
// the candidates are exhausted or the selected set is full.
func (fs *FeatureSelector) Run(ctx context.Context) (*Progression, error) {
	cfg := fs.Config
	if err := cfg.RequireSinglePoint(); err != nil {
		return nil, err
	}

	selected, remaining, err := fs.seed()
	if err != nil {
		return nil, err
	}

	name := cfg.Selection.Metric
	p := &Progression{
		RunID:  fs.RunID,
		Metric: name,
		Seed:   append([]int(nil), selected...),
	}

	fs.Log.Info("Performing greedy feature selection analysis", "selected", len(selected), "candidates", len(remaining))

	best := 0.0
	improved := true
	for round := 1; improved && len(remaining) > 0 && len(selected) < cfg.Selection.MaxSelected; round++ {
		improved = false
		if !cfg.Selection.CarryBaseline {
			best = 0
		}

		results, err := fs.runRound(ctx, round, selected, remaining)
		if err != nil {
			return nil, err
		}

		r := Round{Number: round}
		winner := -1
		for _, res := range results {
			feature, err := strconv.Atoi(res.Configuration.Tag)
			if err != nil {
				return nil, fmt.Errorf("result is not attributed to a feature: %q", res.Configuration.Tag)
			}

			c := Candidate{Feature: feature, Name: fs.Vocabulary.Name(feature)}
			c.Value, c.Valid = res.Value(name)
			if !c.Valid {
				fs.Log.Info("WARNING: no metric in evaluator report", "metric", name, "feature", c.Name)
			}
			r.Candidates = append(r.Candidates, c)

			if c.Valid && c.Value > best {
				best = c.Value
				winner = len(r.Candidates) - 1
			}
		}

		if winner >= 0 {
			improved = true
			r.Winner = &r.Candidates[winner]
			selected = append(selected, r.Winner.Feature)
			remaining = without(remaining, r.Winner.Feature)
			fs.Log.Info("+++ Selected", "feature", r.Winner.Name, "value", r.Winner.Value, "round", round)
		}

		r.Selected = append([]int(nil), selected...)
		r.Remaining = append([]int(nil), remaining...)
		p.Rounds = append(p.Rounds, r)
		telemetry.ObserveRound(string(name), best, len(selected))
	}

	p.Selected = selected
	if best := p.Best(); best != nil {
		fs.Log.Info("Selection converged", "best", best.Name, "value", best.Value, "rounds", len(p.Rounds))
	}
	if cfg.Selection.Report != "" {
		if err := p.Save(cfg.Selection.Report, fs.Vocabulary); err != nil {
			return nil, err
		}
		fs.Log.V(1).Info("Wrote progression", "filename", cfg.Selection.Report, "rounds", len(p.Rounds))
	}
	return p, nil
}

// seed returns the initial selected and candidate feature sets.
func (fs *FeatureSelector) seed() ([]int, []int, error) {
	n := fs.Dataset.NumFeatures()
	inSelected := make(map[int]bool, n)
	var selected []int
	for _, f := range fs.Config.Selection.Seed {
		if f < 0 || f >= n {
			return nil, nil, &config.Error{Field: "selection.seed", Message: fmt.Sprintf("feature %d is out of range, the data has %d features", f, n)}
		}
		if !inSelected[f] {
			inSelected[f] = true
			selected = append(selected, f)
		}
	}

	excluded := make(map[int]bool, len(fs.Config.Selection.Exclude))
	for _, f := range fs.Config.Selection.Exclude {
		excluded[f] = true
	}

	var remaining []int
	for f := 0; f < n; f++ {
		if !inSelected[f] && !excluded[f] {
			remaining = append(remaining, f)
		}
	}
	return selected, remaining, nil
}

// runRound evaluates every candidate alongside the selected features.
func (fs *FeatureSelector) runRound(ctx context.Context, round int, selected, remaining []int) ([]trial.Result, error) {
	cfg := fs.Config
	base := trial.Configuration{
		Model:       trial.NeuralNetwork,
		Rate:        cfg.NeuralNetwork.Rates[0],
		Momentum:    cfg.NeuralNetwork.Momentums[0],
		HiddenLayer: cfg.NeuralNetwork.HiddenLayers[0],
		Iterations:  cfg.NeuralNetwork.Iterations,
	}
	pca := cfg.NeuralNetwork.PCA[0]

	pool := NewPool(cfg.Concurrency)
	sink := &ResultSink{}
	for _, s := range remaining {
		s := s
		keep := append(append(make([]int, 0, len(selected)+1), selected...), s)

		submitted := pool.Submit(func() error {
			dir := filepath.Join(cfg.DataDir, fmt.Sprintf("%d_%d", round, s))
			paths, err := fs.Dataset.Stage(dir, keep)
			if err != nil {
				return fmt.Errorf("unable to stage data: %w", err)
			}

			c := base.WithTag(strconv.Itoa(s), selectionArgs...)
			c.PCA = pca.ForFeatures(len(keep))

			fs.Log.Info("+++ Testing", "configuration", c.String())
			r, err := fs.Evaluator.Evaluate(ctx, c, paths)
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
		fs.Log.V(1).Info("Evaluation failed", "round", round, "completed", sink.Len(), "candidates", len(remaining))
		return nil, err
	}
	return sink.Drain(), nil
}

func without(features []int, f int) []int {
	result := make([]int, 0, len(features))
	for _, ff := range features {
		if ff != f {
			result = append(result, ff)
		}
	}
	return result
}
