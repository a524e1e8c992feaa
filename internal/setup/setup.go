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

// Package setup manages the directories shared with the training program:
// the staged training data and the saved models.
package setup

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/thestormforge/optimize-search/internal/config"
)

// ModelPattern matches the files written by the training program when models are saved.
const ModelPattern = "*.xml"

// Workspace is the set of directories used by a single search run.
type Workspace struct {
	FeatureFile string
	Evaluator   string
	ModelDir    string
	DataDir     string
	// WorkDir is the working directory of the training program, empty for the current directory.
	WorkDir string

	Force      bool
	KeepData   bool
	SaveModels bool

	Log logr.Logger
}

// NewWorkspace returns the workspace described by the configuration.
func NewWorkspace(cfg *config.Config, log logr.Logger) *Workspace {
	return &Workspace{
		FeatureFile: cfg.FeatureFile,
		Evaluator:   cfg.Evaluator,
		ModelDir:    cfg.ModelDir,
		DataDir:     cfg.DataDir,
		Force:       cfg.Force,
		KeepData:    cfg.KeepData,
		SaveModels:  cfg.NeuralNetwork.SaveModels,
		Log:         log,
	}
}

// Check verifies the feature file and the training program exist.
func (w *Workspace) Check() error {
	if _, err := os.Stat(w.FeatureFile); err != nil {
		return fmt.Errorf("could not find feature file %s: %w", w.FeatureFile, err)
	}

	// Bare names are resolved against the PATH, anything else is relative to the working directory
	if strings.ContainsRune(w.Evaluator, filepath.Separator) {
		if _, err := os.Stat(w.evaluatorPath()); err != nil {
			return fmt.Errorf("could not find training program %s: %w", w.Evaluator, err)
		}
	} else if _, err := exec.LookPath(w.Evaluator); err != nil {
		return fmt.Errorf("could not find training program %s: %w", w.Evaluator, err)
	}

	return nil
}

// Prepare creates the data directory. When forced, previously saved models and
// staged data are removed first.
func (w *Workspace) Prepare() error {
	if w.Force && exists(w.ModelDir) {
		w.Log.Info("WARNING: cleaning up previously generated neural networks", "directory", w.ModelDir)
		if err := os.RemoveAll(w.ModelDir); err != nil {
			return err
		}
	}

	if w.Force && exists(w.DataDir) {
		w.Log.Info("WARNING: cleaning up previously generated training data", "directory", w.DataDir)
		if err := os.RemoveAll(w.DataDir); err != nil {
			return err
		}
	}

	return os.MkdirAll(w.DataDir, 0755)
}

// Cleanup moves saved models into the model directory, replacing files with
// the same name, and removes the staged data unless it should be kept.
func (w *Workspace) Cleanup() error {
	if w.SaveModels {
		if err := w.moveModels(); err != nil {
			return err
		}
	}

	if !w.KeepData {
		w.Log.V(1).Info("Removing training data", "directory", w.DataDir)
		if err := os.RemoveAll(w.DataDir); err != nil {
			return err
		}
	}

	return nil
}

func (w *Workspace) moveModels() error {
	models, err := filepath.Glob(filepath.Join(w.WorkDir, ModelPattern))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(w.ModelDir, 0755); err != nil {
		return err
	}

	for _, m := range models {
		dst := filepath.Join(w.ModelDir, filepath.Base(m))
		if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
			return err
		}
		if err := os.Rename(m, dst); err != nil {
			return fmt.Errorf("unable to save model: %w", err)
		}
		w.Log.V(1).Info("Saved model", "filename", dst)
	}
	return nil
}

func (w *Workspace) evaluatorPath() string {
	if w.WorkDir == "" || filepath.IsAbs(w.Evaluator) {
		return w.Evaluator
	}
	return filepath.Join(w.WorkDir, w.Evaluator)
}

func exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
