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

package configure_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thestormforge/optimize-search/cli/internal/commands/configure"
	"github.com/thestormforge/optimize-search/internal/config"
)

func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := configure.NewCommand(&configure.Options{Config: cfg})
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestView(t *testing.T) {
	cfg := &config.Config{Concurrency: 4}
	require.NoError(t, cfg.Load())

	testCases := []struct {
		desc     string
		args     []string
		expected []string
	}{
		{
			desc:     "yaml",
			args:     []string{"view"},
			expected: []string{"evaluator: ./train\n", "concurrency: 4\n", "  - 8\n"},
		},
		{
			desc:     "json",
			args:     []string{"view", "-o", "json"},
			expected: []string{"\"evaluator\": \"./train\"", "\"concurrency\": 4", "\"vocabulary\": \"static\""},
		},
	}
	for _, c := range testCases {
		t.Run(c.desc, func(t *testing.T) {
			out, err := execute(t, cfg, c.args...)
			require.NoError(t, err)
			for _, e := range c.expected {
				assert.Contains(t, out, e)
			}
		})
	}
}

func TestViewRaw(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "search.yaml")
	raw := "evaluator: /opt/train\nconcurrency: 2\n"
	require.NoError(t, os.WriteFile(filename, []byte(raw), 0644))

	cfg := &config.Config{Filename: filename}
	require.NoError(t, cfg.Load())
	out, err := execute(t, cfg, "view", "--raw")
	require.NoError(t, err)
	assert.Equal(t, raw, out)

	_, err = execute(t, &config.Config{}, "view", "--raw")
	assert.Error(t, err)
}

func TestEnv(t *testing.T) {
	cfg := &config.Config{}
	require.NoError(t, cfg.Load())

	out, err := execute(t, cfg, "env")
	require.NoError(t, err)
	assert.Equal(t, "OPTIMIZE_SEARCH_ARCHES=2\n"+
		"OPTIMIZE_SEARCH_CONCURRENCY=1\n"+
		"OPTIMIZE_SEARCH_DATA_DIR=./training_data\n"+
		"OPTIMIZE_SEARCH_EVALUATOR=./train\n"+
		"OPTIMIZE_SEARCH_MODEL_DIR=./models\n"+
		"OPTIMIZE_SEARCH_REPORT=training_output.txt\n", out)
}
