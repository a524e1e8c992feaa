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

// Package evaluator runs the external training program for a configuration.
package evaluator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/go-logr/logr"
	"github.com/thestormforge/optimize-search/internal/metric"
	"github.com/thestormforge/optimize-search/internal/telemetry"
	"github.com/thestormforge/optimize-search/internal/trial"
	"golang.org/x/time/rate"
)

// Evaluator trains and tests a model for a single configuration.
type Evaluator interface {
	// Evaluate returns the result of training on the supplied data files.
	Evaluate(ctx context.Context, cfg trial.Configuration, dataPaths []string) (trial.Result, error)
}

// ProcessFailure is returned when the evaluator cannot be started or exits
// with a non-zero status.
type ProcessFailure struct {
	// Binary is the path of the evaluator.
	Binary string
	// Args are the arguments the evaluator was invoked with.
	Args []string
	// ExitCode is the exit status, or -1 if the process never ran.
	ExitCode int
	// Stderr is the captured error output of the evaluator.
	Stderr string
	// Err is the underlying cause.
	Err error
}

func (e *ProcessFailure) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("training failed: unable to run %s: %v", e.Binary, e.Err)
	}
	return fmt.Sprintf("training failed: %s exited with status %d", e.Binary, e.ExitCode)
}

func (e *ProcessFailure) Unwrap() error {
	return e.Err
}

// CommandLine returns the full command line of the failed invocation.
func (e *ProcessFailure) CommandLine() string {
	return strings.Join(append([]string{e.Binary}, e.Args...), " ")
}

// Process evaluates configurations by running the training program.
type Process struct {
	// Binary is the path to the training program.
	Binary string
	// Dir is the working directory of the training program, the current
	// directory is used if empty.
	Dir string
	// Arches is the number of label columns in the data files.
	Arches int
	// SaveModels asks the training program to keep the trained artifacts.
	SaveModels bool
	// Limiter throttles the rate at which processes are launched.
	Limiter *rate.Limiter
	// Log receives the command lines and, at higher verbosity, the raw output.
	Log logr.Logger

	// Command allows the process construction to be overridden.
	Command func(ctx context.Context, name string, arg ...string) *exec.Cmd
}

var _ Evaluator = &Process{}

// Evaluate runs the training program and extracts the report from its output.
func (p *Process) Evaluate(ctx context.Context, cfg trial.Configuration, dataPaths []string) (trial.Result, error) {
	if p.Limiter != nil {
		if err := p.Limiter.Wait(ctx); err != nil {
			return trial.Result{}, err
		}
	}

	args := trial.Args(cfg, dataPaths, p.Arches, p.SaveModels)
	p.Log.V(1).Info("Running evaluator", "command", strings.Join(append([]string{p.Binary}, args...), " "))

	command := p.Command
	if command == nil {
		command = exec.CommandContext
	}

	var stdout, stderr bytes.Buffer
	cmd := command(ctx, p.Binary, args...)
	cmd.Dir = p.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	done := telemetry.ObserveTrial(string(cfg.Model))
	err := cmd.Run()
	done(err)

	p.Log.V(1).Info("Evaluator output", "stdout", stdout.String(), "stderr", stderr.String())

	if err != nil {
		failure := &ProcessFailure{
			Binary:   p.Binary,
			Args:     args,
			ExitCode: -1,
			Stderr:   stderr.String(),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			failure.ExitCode = exitErr.ExitCode()
		}
		return trial.Result{}, failure
	}

	return trial.Result{
		Configuration: cfg,
		Report:        metric.ExtractReport(stdout.String()),
	}, nil
}
