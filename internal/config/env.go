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

package config

import (
	"os"
	"strconv"
)

// EnvPrefix is the prefix of the environment variables used by the environment loader
const EnvPrefix = "OPTIMIZE_SEARCH_"

// envLoader adds environment variable overrides to the configuration
func envLoader(cfg *Config) error {
	defaultString(&cfg.Evaluator, os.Getenv(EnvPrefix+"EVALUATOR"))
	defaultString(&cfg.ModelDir, os.Getenv(EnvPrefix+"MODEL_DIR"))
	defaultString(&cfg.DataDir, os.Getenv(EnvPrefix+"DATA_DIR"))
	defaultString(&cfg.Report, os.Getenv(EnvPrefix+"REPORT"))
	defaultString(&cfg.MetricsFile, os.Getenv(EnvPrefix+"METRICS_FILE"))

	if err := envInt(&cfg.Concurrency, EnvPrefix+"CONCURRENCY"); err != nil {
		return err
	}
	if err := envInt(&cfg.Arches, EnvPrefix+"ARCHES"); err != nil {
		return err
	}

	if v := os.Getenv(EnvPrefix + "LAUNCH_RATE"); v != "" && cfg.LaunchRate == 0 {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return &Error{Field: EnvPrefix + "LAUNCH_RATE", Message: err.Error()}
		}
		cfg.LaunchRate = f
	}

	return nil
}

// envInt overwrites a zero i with the integer value of the named variable
func envInt(i *int, name string) error {
	v := os.Getenv(name)
	if v == "" || *i != 0 {
		return nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return &Error{Field: name, Message: err.Error()}
	}
	*i = n
	return nil
}

// EnvironmentMapping returns the environment variables that reproduce the
// current values of the environment backed settings.
func (cfg *Config) EnvironmentMapping() map[string]string {
	env := make(map[string]string)
	setString := func(name, value string) {
		if value != "" {
			env[EnvPrefix+name] = value
		}
	}
	setInt := func(name string, value int) {
		if value != 0 {
			env[EnvPrefix+name] = strconv.Itoa(value)
		}
	}

	setString("EVALUATOR", cfg.Evaluator)
	setString("MODEL_DIR", cfg.ModelDir)
	setString("DATA_DIR", cfg.DataDir)
	setString("REPORT", cfg.Report)
	setString("METRICS_FILE", cfg.MetricsFile)
	setInt("CONCURRENCY", cfg.Concurrency)
	setInt("ARCHES", cfg.Arches)
	if cfg.LaunchRate != 0 {
		env[EnvPrefix+"LAUNCH_RATE"] = strconv.FormatFloat(cfg.LaunchRate, 'g', -1, 64)
	}
	return env
}
