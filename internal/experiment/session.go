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
	"fmt"

	"github.com/go-logr/logr"
	"github.com/thestormforge/optimize-search/internal/config"
	"github.com/thestormforge/optimize-search/internal/dataset"
	"github.com/thestormforge/optimize-search/internal/evaluator"
	"github.com/thestormforge/optimize-search/internal/setup"
	"github.com/thestormforge/optimize-search/internal/telemetry"
	"golang.org/x/time/rate"
)

// Session is the state shared by the search drivers during a single run.
type Session struct {
	Config    *config.Config
	Log       logr.Logger
	Workspace *setup.Workspace
	Dataset   *dataset.Dataset
	Evaluator evaluator.Evaluator
}

// NewSession returns a session for the configuration, the evaluator runs the
// configured training program.
func NewSession(cfg *config.Config, log logr.Logger) *Session {
	p := &evaluator.Process{
		Binary:     cfg.Evaluator,
		Arches:     cfg.Arches,
		SaveModels: cfg.NeuralNetwork.SaveModels,
		Log:        log,
	}
	if cfg.LaunchRate > 0 {
		p.Limiter = rate.NewLimiter(rate.Limit(cfg.LaunchRate), 1)
	}

	return &Session{
		Config:    cfg,
		Log:       log,
		Workspace: setup.NewWorkspace(cfg, log),
		Evaluator: p,
	}
}

// Open checks and prepares the workspace and then loads the dataset.
func (s *Session) Open() error {
	if err := s.Workspace.Check(); err != nil {
		return err
	}
	if err := s.Workspace.Prepare(); err != nil {
		return fmt.Errorf("unable to prepare workspace: %w", err)
	}

	p := &dataset.Parser{Arches: s.Config.Arches, Log: s.Log}
	ds, err := p.Load(s.Config.FeatureFile)
	if err != nil {
		return err
	}
	s.Dataset = ds

	s.Log.V(1).Info("Loaded dataset", "functions", len(ds.Functions), "datapoints", ds.NumDatapoints(), "features", ds.NumFeatures())
	return nil
}

// Close cleans up the workspace after a successful run and writes the metrics
// file. The workspace is left untouched after a failure.
func (s *Session) Close(runErr error) error {
	if runErr == nil {
		if err := s.Workspace.Cleanup(); err != nil {
			return err
		}
	}

	if s.Config.MetricsFile != "" {
		if err := telemetry.WriteFile(s.Config.MetricsFile); err != nil {
			return fmt.Errorf("unable to write metrics: %w", err)
		}
	}

	return runErr
}
