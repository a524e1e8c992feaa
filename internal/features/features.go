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

// Package features holds the display names of the features produced by the
// feature extractor. The search engine only works with feature indices, these
// tables exist so people can read the results.
package features

import (
	"fmt"
	"sort"
	"strings"
)

// Vocabulary maps a feature index to a human readable name.
type Vocabulary []string

const (
	// VocabularyStatic is the name of the statically extracted feature set.
	VocabularyStatic = "static"
	// VocabularyDynamic is the name of the dynamically extracted feature set.
	VocabularyDynamic = "dynamic"
)

// Static features are computed from source code alone.
var Static = Vocabulary{
	"instructions",
	"scalar integer",
	"vector integer",
	"scalar floating-point",
	"vector floating-point",
	"scalar bitwise",
	"vector bitwise",
	"loads",
	"stores",
	"function calls",
	"built-in math",
	"cyclomatic complexity",
	"branches",
	"jumps",
	"parallel regions",
	"bytes in",
	"bytes out",
	"number of tasks",
	"x86 compatibility",
	"GPU compatibility",
	"Tilera compatibility",
}

// Dynamic features add run-time system state to the static features.
var Dynamic = Vocabulary{
	"instructions",
	"scalar integer",
	"vector integer",
	"scalar floating-point",
	"vector floating-point",
	"scalar bitwise",
	"vector bitwise",
	"loads",
	"stores",
	"function calls",
	"built-in math",
	"cyclomatic complexity",
	"branches",
	"jumps",
	"parallel regions",
	"/proc/loadavg",
	"x86 run-queue",
	"GPU run-queue",
	"Tilera run-queue",
	"bytes in",
	"bytes out",
	"number of tasks",
	"x86 compatibility",
	"GPU compatibility",
	"Tilera compatibility",
}

var vocabularies = map[string]Vocabulary{
	VocabularyStatic:  Static,
	VocabularyDynamic: Dynamic,
}

// Lookup returns the named vocabulary.
func Lookup(name string) (Vocabulary, error) {
	if v, ok := vocabularies[strings.ToLower(name)]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("unknown feature vocabulary %q, expected one of: %s", name, strings.Join(Names(), ", "))
}

// Names returns the sorted list of known vocabulary names.
func Names() []string {
	names := make([]string, 0, len(vocabularies))
	for k := range vocabularies {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Name returns the display name of a feature, falling back to a generic name
// for indices the vocabulary does not cover.
func (v Vocabulary) Name(index int) string {
	if index >= 0 && index < len(v) {
		return v[index]
	}
	return fmt.Sprintf("feature %d", index)
}
