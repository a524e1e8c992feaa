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

package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
)

const (
	attributeMarker = "@attribute"
	dataMarker      = "@data"
	benchmarkMarker = "% "
)

// ParseError is returned when the feature file is malformed.
type ParseError struct {
	// Line is the one-based line number of the offending line.
	Line int
	// Message describes the problem.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Message, e.Err)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parser reads feature files.
type Parser struct {
	// Arches is the number of trailing label columns on each datapoint.
	Arches int
	// Log receives warnings about suspicious input.
	Log logr.Logger
}

// Load parses the named feature file.
func (p *Parser) Load(filename string) (*Dataset, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return ds, nil
}

// Parse reads a feature file: attribute declarations up to the data marker,
// then benchmark headers each followed by their comma separated datapoints.
func (p *Parser) Parse(r io.Reader) (*Dataset, error) {
	if p.Arches < 1 {
		return nil, fmt.Errorf("invalid number of architectures: %d", p.Arches)
	}

	ds := &Dataset{Arches: p.Arches}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0

	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.Contains(text, dataMarker) {
			break
		}
		if strings.Contains(text, attributeMarker) {
			fields := strings.Fields(text)
			if len(fields) < 2 {
				return nil, &ParseError{Line: line, Message: "missing attribute name"}
			}
			ds.Features = append(ds.Features, fields[1])
		}
	}

	var current *BenchmarkFunction
	flush := func() {
		if current == nil {
			return
		}
		if len(current.Datapoints) == 0 {
			p.Log.Info("WARNING: ignoring benchmark without datapoints", "benchmark", current.String())
			return
		}
		ds.Functions = append(ds.Functions, current)
	}

	width := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		switch {
		case strings.Contains(text, benchmarkMarker):
			flush()
			bf, err := parseHeader(text)
			if err != nil {
				return nil, &ParseError{Line: line, Message: "invalid benchmark header", Err: err}
			}
			current = bf

		case strings.TrimSpace(text) != "":
			if current == nil {
				return nil, &ParseError{Line: line, Message: "datapoint before the first benchmark header"}
			}
			dp, err := parseDatapoint(text)
			if err != nil {
				return nil, &ParseError{Line: line, Message: "invalid datapoint", Err: err}
			}
			if len(ds.Features) > 0 && len(dp) > len(ds.Features) {
				return nil, &ParseError{Line: line, Message: fmt.Sprintf("datapoint has %d values but only %d attributes are declared", len(dp), len(ds.Features))}
			}
			if width == 0 {
				if len(dp) <= p.Arches {
					return nil, &ParseError{Line: line, Message: fmt.Sprintf("datapoint has %d values, expected more than %d labels", len(dp), p.Arches)}
				}
				width = len(dp)
			} else if len(dp) != width {
				return nil, &ParseError{Line: line, Message: fmt.Sprintf("datapoint has %d values, expected %d", len(dp), width)}
			}
			current.Datapoints = append(current.Datapoints, dp)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()

	p.Log.V(1).Info("Parsed feature file", "features", len(ds.Features), "benchmarkFunctions", len(ds.Functions), "datapoints", ds.NumDatapoints())
	return ds, nil
}

// parseHeader parses a benchmark header of the form `% <bench> ['f1.c', ...]`.
func parseHeader(text string) (*BenchmarkFunction, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return nil, fmt.Errorf("missing benchmark name")
	}

	start, end := strings.IndexByte(text, '['), strings.LastIndexByte(text, ']')
	if start < 0 || end < start {
		return nil, fmt.Errorf("missing function list")
	}

	funcs, err := ParseStringList(text[start : end+1])
	if err != nil {
		return nil, err
	}
	if len(funcs) == 0 {
		return nil, fmt.Errorf("empty function list")
	}

	return &BenchmarkFunction{Benchmark: fields[1], Functions: funcs}, nil
}

func parseDatapoint(text string) (Datapoint, error) {
	values := strings.Split(strings.TrimSpace(text), ",")
	dp := make(Datapoint, len(values))
	for i, v := range values {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		dp[i] = f
	}
	return dp, nil
}
