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

package explore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thestormforge/optimize-search/internal/trial"
)

// resultItem is the printable form of an evaluation result
type resultItem struct {
	Model          string            `json:"model"`
	Configuration  map[string]string `json:"configuration"`
	PercentCorrect *float64          `json:"percentCorrect,omitempty"`
	Speedup        *float64          `json:"speedup,omitempty"`

	fields []trial.Field
}

type resultList struct {
	Items []resultItem `json:"items"`
}

func newResultList(results []trial.Result) *resultList {
	l := &resultList{Items: make([]resultItem, 0, len(results))}
	for _, r := range results {
		item := resultItem{
			Model:         string(r.Configuration.Model),
			Configuration: make(map[string]string),
			fields:        r.Configuration.Fields(),
		}
		for _, f := range item.fields {
			item.Configuration[f.Key] = f.Value
		}
		if v, ok := r.PercentCorrect(); ok {
			item.PercentCorrect = &v
		}
		if v, ok := r.Speedup(); ok {
			item.Speedup = &v
		}
		l.Items = append(l.Items, item)
	}
	return l
}

// resultsMeta renders one row per result
type resultsMeta struct{}

func (resultsMeta) ExtractList(obj interface{}) ([]interface{}, error) {
	l, ok := obj.(*resultList)
	if !ok {
		return nil, fmt.Errorf("expected results, got %T", obj)
	}
	list := make([]interface{}, len(l.Items))
	for i := range l.Items {
		list[i] = &l.Items[i]
	}
	return list, nil
}

func (resultsMeta) Columns(_ interface{}, outputFormat string) []string {
	switch outputFormat {
	case "wide", "csv":
		return []string{"model", "configuration", "percent", "speedup"}
	}
	return []string{"model", "configuration", "speedup"}
}

func (resultsMeta) ExtractValue(obj interface{}, column string) (string, error) {
	item, ok := obj.(*resultItem)
	if !ok {
		return "", fmt.Errorf("expected result, got %T", obj)
	}

	switch column {
	case "name", "configuration":
		values := make([]string, len(item.fields))
		for i, f := range item.fields {
			values[i] = f.Key + "=" + f.Value
		}
		return strings.Join(values, ","), nil
	case "model":
		return item.Model, nil
	case "percent":
		return formatValue(item.PercentCorrect), nil
	case "speedup":
		return formatValue(item.Speedup), nil
	}
	return "", fmt.Errorf("unable to extract: %s", column)
}

func (resultsMeta) Header(_ string, column string) string {
	return strings.ToUpper(column)
}

func formatValue(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
