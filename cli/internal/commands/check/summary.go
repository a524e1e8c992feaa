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

package check

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thestormforge/optimize-search/internal/dataset"
)

// summary describes the contents of a feature file
type summary struct {
	Features   []string          `json:"features,omitempty"`
	Width      int               `json:"width"`
	Arches     int               `json:"arches"`
	Datapoints int               `json:"datapoints"`
	Functions  []functionSummary `json:"functions"`
}

type functionSummary struct {
	Name       string   `json:"name"`
	Benchmark  string   `json:"benchmark"`
	Functions  []string `json:"functions"`
	Datapoints int      `json:"datapoints"`
}

func newSummary(ds *dataset.Dataset) *summary {
	s := &summary{
		Features:   ds.Features,
		Width:      ds.Width(),
		Arches:     ds.Arches,
		Datapoints: ds.NumDatapoints(),
		Functions:  make([]functionSummary, 0, len(ds.Functions)),
	}
	for _, bf := range ds.Functions {
		s.Functions = append(s.Functions, functionSummary{
			Name:       bf.Name(),
			Benchmark:  bf.Benchmark,
			Functions:  bf.Functions,
			Datapoints: len(bf.Datapoints),
		})
	}
	return s
}

// summaryMeta renders one row per benchmark function
type summaryMeta struct{}

func (summaryMeta) ExtractList(obj interface{}) ([]interface{}, error) {
	switch o := obj.(type) {
	case *summary:
		list := make([]interface{}, len(o.Functions))
		for i := range o.Functions {
			list[i] = &o.Functions[i]
		}
		return list, nil
	case *functionSummary:
		return []interface{}{o}, nil
	}
	return nil, fmt.Errorf("unable to summarize %T", obj)
}

func (summaryMeta) Columns(_ interface{}, outputFormat string) []string {
	switch outputFormat {
	case "wide", "csv":
		return []string{"name", "benchmark", "functions", "datapoints"}
	}
	return []string{"name", "datapoints"}
}

func (summaryMeta) ExtractValue(obj interface{}, column string) (string, error) {
	fs, ok := obj.(*functionSummary)
	if !ok {
		return "", fmt.Errorf("unable to summarize %T", obj)
	}

	switch column {
	case "name":
		return fs.Name, nil
	case "benchmark":
		return fs.Benchmark, nil
	case "functions":
		return strings.Join(fs.Functions, ","), nil
	case "datapoints":
		return strconv.Itoa(fs.Datapoints), nil
	}
	return "", fmt.Errorf("unable to extract: %s", column)
}

func (summaryMeta) Header(_ string, column string) string {
	return strings.ToUpper(column)
}
