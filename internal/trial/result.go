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

package trial

import (
	"github.com/thestormforge/optimize-search/internal/metric"
)

// Result pairs a configuration with the report produced by the evaluator.
type Result struct {
	Configuration Configuration
	// Report is the retained section of the evaluator output.
	Report string
}

// PercentCorrect returns the percentage of correctly classified instances.
func (r Result) PercentCorrect() (float64, bool) {
	return metric.PercentCorrect(r.Report)
}

// Speedup returns the speed-up ratio of the predictions.
func (r Result) Speedup() (float64, bool) {
	return metric.Speedup(r.Report)
}

// Value returns the named metric.
func (r Result) Value(name metric.Name) (float64, bool) {
	return name.Capture(r.Report)
}
