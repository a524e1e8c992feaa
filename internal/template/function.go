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
	"strconv"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/thestormforge/optimize-search/internal/features"
)

// FuncMap returns the functions used for template evaluation
func FuncMap() template.FuncMap {
	f := sprig.TxtFuncMap()
	delete(f, "env")
	delete(f, "expandenv")

	extra := template.FuncMap{
		"percent":     percent,
		"featureName": featureName,
	}

	for k, v := range extra {
		f[k] = v
	}

	return f
}

// percent formats an optional percentage with the supplied precision
func percent(precision int, value *float64) string {
	if value == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*value, 'f', precision, 64) + "%"
}

// featureName returns the static vocabulary name of a feature tag
func featureName(tag string) string {
	i, err := strconv.Atoi(tag)
	if err != nil {
		return tag
	}
	return features.Static.Name(i)
}
