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

// Package dataset contains the corpus of benchmark functions used to train and
// evaluate the predictors. A dataset is built once from a feature file and is
// read-only afterwards, it is safe to share between goroutines.
package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Datapoint is one observation: the feature values followed by one label value
// per target architecture.
type Datapoint []float64

// String returns the CSV representation of every column.
func (dp Datapoint) String() string {
	values := make([]string, len(dp))
	for i := range dp {
		values[i] = formatValue(dp[i])
	}
	return strings.Join(values, ",")
}

// Subset returns the CSV representation of the kept feature columns (in the
// order given) followed by the trailing label columns.
func (dp Datapoint) Subset(keep []int, arches int) string {
	values := make([]string, 0, len(keep)+arches)
	for _, i := range keep {
		values = append(values, formatValue(dp[i]))
	}
	for i := len(dp) - arches; i < len(dp); i++ {
		values = append(values, formatValue(dp[i]))
	}
	return strings.Join(values, ",")
}

// BenchmarkFunction identifies one function of one benchmark along with the
// datapoints collected for it.
type BenchmarkFunction struct {
	// Benchmark is the name of the benchmark program.
	Benchmark string
	// Functions are the source names listed on the benchmark header.
	Functions []string
	// Datapoints are never empty for a parsed dataset.
	Datapoints []Datapoint
}

// Name returns the identifier used for the data file of the benchmark function.
func (bf *BenchmarkFunction) Name() string {
	fn := ""
	if len(bf.Functions) > 0 {
		fn = bf.Functions[0]
		if i := strings.IndexByte(fn, '.'); i >= 0 {
			fn = fn[:i]
		}
	}
	return bf.Benchmark + "_" + fn
}

// String returns a short description of the benchmark function.
func (bf *BenchmarkFunction) String() string {
	return bf.Benchmark + " - [" + strings.Join(bf.Functions, ", ") + "]"
}

// Data returns the newline separated datapoints. A nil keep list renders every
// column, otherwise only the kept features and the labels are rendered.
func (bf *BenchmarkFunction) Data(keep []int, arches int) string {
	rows := make([]string, len(bf.Datapoints))
	for i, dp := range bf.Datapoints {
		if keep == nil {
			rows[i] = dp.String()
		} else {
			rows[i] = dp.Subset(keep, arches)
		}
	}
	return strings.Join(rows, "\n")
}

// Dataset is the parsed feature file.
type Dataset struct {
	// Features are the attribute names declared by the feature file.
	Features []string
	// Functions are the benchmark functions in file order.
	Functions []*BenchmarkFunction
	// Arches is the number of trailing label columns on each datapoint.
	Arches int
}

// Width returns the number of values in each datapoint.
func (d *Dataset) Width() int {
	for _, bf := range d.Functions {
		if len(bf.Datapoints) > 0 {
			return len(bf.Datapoints[0])
		}
	}
	return 0
}

// NumFeatures returns the number of feature columns in each datapoint.
func (d *Dataset) NumFeatures() int {
	if n := d.Width() - d.Arches; n > 0 {
		return n
	}
	return 0
}

// NumDatapoints returns the total number of datapoints.
func (d *Dataset) NumDatapoints() int {
	var n int
	for _, bf := range d.Functions {
		n += len(bf.Datapoints)
	}
	return n
}

// formatValue renders a value the way the feature extractor writes them: whole
// numbers keep a ".0" suffix and very large or small magnitudes use exponents.
func formatValue(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	var s string
	if a := math.Abs(v); a == 0 || (a >= 1e-4 && a < 1e16) {
		s = strconv.FormatFloat(v, 'f', -1, 64)
	} else {
		s = strconv.FormatFloat(v, 'g', -1, 64)
	}

	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
