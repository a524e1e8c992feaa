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

package template

import (
	"bytes"
	"text/template"

	"github.com/thestormforge/optimize-search/internal/trial"
)

// DefaultResultTemplate renders the configuration followed by the report body.
const DefaultResultTemplate = `Results for {{ .Model }}{{ range .Fields }}, {{ .Key }} - {{ .Value }}{{ end }}
{{ .Report }}`

// ResultData represents an evaluation result during report rendering
type ResultData struct {
	// Model is the kind of predictor
	Model string
	// Fields are the ordered configuration values
	Fields []trial.Field
	// Values are the configuration values by key
	Values map[string]string
	// Tag is the candidate feature of a feature selection trial
	Tag string
	// Report is the retained evaluator output
	Report string
	// PercentCorrect is the percentage of correctly classified instances, if available
	PercentCorrect *float64
	// Speedup is the speed-up ratio, if available
	Speedup *float64
}

func newResultData(r *trial.Result) *ResultData {
	d := &ResultData{
		Model:  string(r.Configuration.Model),
		Fields: r.Configuration.Fields(),
		Tag:    r.Configuration.Tag,
		Report: r.Report,
	}

	d.Values = make(map[string]string, len(d.Fields))
	for _, f := range d.Fields {
		d.Values[f.Key] = f.Value
	}

	if v, ok := r.PercentCorrect(); ok {
		d.PercentCorrect = &v
	}
	if v, ok := r.Speedup(); ok {
		d.Speedup = &v
	}

	return d
}

// Engine is used to render Go text templates
type Engine struct {
	FuncMap template.FuncMap
}

// New creates a new template engine
func New() *Engine {
	return &Engine{
		FuncMap: FuncMap(),
	}
}

// Parse returns a parsed result template; an empty text uses the default template
func (e *Engine) Parse(text string) (*template.Template, error) {
	if text == "" {
		text = DefaultResultTemplate
	}
	return template.New("result").Funcs(e.FuncMap).Parse(text)
}

// RenderResult returns the report block of a single evaluation result
func (e *Engine) RenderResult(tmpl *template.Template, r *trial.Result) (string, error) {
	b := &bytes.Buffer{}
	if err := tmpl.Execute(b, newResultData(r)); err != nil {
		return "", err
	}
	return b.String(), nil
}
