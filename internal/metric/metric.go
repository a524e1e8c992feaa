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

// Package metric extracts the quality metrics from the text report of the
// evaluator. Extraction is position based and follows the exact output format
// of the evaluator: a report without a recognizable metric line is not an
// error, the value is simply reported as missing.
package metric

import (
	"fmt"
	"strconv"
	"strings"
)

// Name identifies a metric that can be captured from a report.
type Name string

const (
	// NameSpeedup is the average speed-up of the predicted architecture.
	NameSpeedup Name = "speedup"
	// NamePercent is the percentage of correctly classified instances.
	NamePercent Name = "percent"
)

// ParseName returns the named metric.
func ParseName(s string) (Name, error) {
	switch n := Name(strings.ToLower(strings.TrimSpace(s))); n {
	case NameSpeedup, NamePercent:
		return n, nil
	default:
		return "", fmt.Errorf("unknown metric %q, expected one of: %s, %s", s, NameSpeedup, NamePercent)
	}
}

// Capture extracts the metric value from a report.
func (n Name) Capture(report string) (float64, bool) {
	switch n {
	case NamePercent:
		return PercentCorrect(report)
	case NameSpeedup, "":
		return Speedup(report)
	default:
		return 0, false
	}
}

const (
	sectionMarker = "EVALUATE PREDICTOR"
	percentMarker = "Correctly classified"
	speedupMarker = "Speed-up"
)

var discardMarkers = []string{"WARNING", "BENCHMARK"}

// ExtractReport returns the lines of the evaluator output following the first
// line containing the report marker. Blank lines, repeated markers and lines
// with warnings or per-benchmark details are discarded, each retained line ends
// with a newline.
func ExtractReport(stdout string) string {
	var sb strings.Builder
	inSection := false
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.Contains(line, sectionMarker) {
			inSection = true
			continue
		}
		if !inSection || line == "" || containsAny(line, discardMarkers) {
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// PercentCorrect returns the percentage from the first "Correctly classified"
// line, e.g. `# Correctly classified 187/200 (93.5%)`.
func PercentCorrect(report string) (float64, bool) {
	fields, ok := findLine(report, percentMarker)
	if !ok {
		return 0, false
	}

	if len(fields) >= 5 {
		if v, ok := parsePercent(fields[4]); ok {
			return v, true
		}
	}

	for _, f := range fields {
		if strings.HasSuffix(f, "%)") {
			return parsePercent(f)
		}
	}
	return 0, false
}

// Speedup returns the ratio from the first "Speed-up" line, e.g.
// `# Speed-up: 2.1 (oracle: 2.5)`.
func Speedup(report string) (float64, bool) {
	fields, ok := findLine(report, speedupMarker)
	if !ok {
		return 0, false
	}

	if len(fields) >= 3 {
		if v, err := strconv.ParseFloat(fields[2], 64); err == nil {
			return v, true
		}
	}

	after := false
	for _, f := range fields {
		if !after {
			after = strings.Contains(f, speedupMarker)
			continue
		}
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

func findLine(report, marker string) ([]string, bool) {
	for _, line := range strings.Split(report, "\n") {
		if strings.Contains(line, marker) {
			return strings.Fields(line), true
		}
	}
	return nil, false
}

func parsePercent(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "("), "%)")
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func containsAny(s string, substrs []string) bool {
	for _, substr := range substrs {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}
