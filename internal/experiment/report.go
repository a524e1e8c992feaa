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
	"bytes"
	"io"
	"os"

	"github.com/thestormforge/optimize-search/internal/template"
	"github.com/thestormforge/optimize-search/internal/trial"
)

// WriteReport renders one block per result, each followed by a blank line.
func WriteReport(w io.Writer, text string, results []trial.Result) error {
	eng := template.New()
	tmpl, err := eng.Parse(text)
	if err != nil {
		return err
	}

	for i := range results {
		block, err := eng.RenderResult(tmpl, &results[i])
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, block+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// SaveReport writes the report to the named file, replacing any previous content.
func SaveReport(filename, text string, results []trial.Result) error {
	var buf bytes.Buffer
	if err := WriteReport(&buf, text, results); err != nil {
		return err
	}
	return os.WriteFile(filename, buf.Bytes(), 0644)
}
