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
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NoPCA is the textual form of a disabled PCA step.
const NoPCA = "no-pca"

// PCADimension is the target dimensionality of the PCA step, zero disables it.
type PCADimension int

// Disabled returns true if the PCA step is skipped.
func (d PCADimension) Disabled() bool {
	return d <= 0
}

// ForFeatures returns the dimension to use when training on the specified
// number of features: PCA only runs when it actually reduces the feature count.
func (d PCADimension) ForFeatures(count int) PCADimension {
	if d.Disabled() || count <= int(d) {
		return 0
	}
	return d
}

func (d PCADimension) String() string {
	if d.Disabled() {
		return NoPCA
	}
	return strconv.Itoa(int(d))
}

// ParsePCADimension parses a positive dimension or "no-pca".
func ParsePCADimension(s string) (PCADimension, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, NoPCA) {
		return 0, nil
	}

	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid PCA dimension %q, expected a positive integer or %s", s, NoPCA)
	}
	if i <= 0 {
		return 0, fmt.Errorf("invalid PCA dimension %d, expected a positive integer or %s", i, NoPCA)
	}
	return PCADimension(i), nil
}

// MarshalJSON encodes a disabled dimension as a string.
func (d PCADimension) MarshalJSON() ([]byte, error) {
	if d.Disabled() {
		return json.Marshal(NoPCA)
	}
	return json.Marshal(int(d))
}

// UnmarshalJSON accepts either a number or a string.
func (d *PCADimension) UnmarshalJSON(b []byte) error {
	var i int
	if err := json.Unmarshal(b, &i); err == nil {
		if i < 0 {
			return fmt.Errorf("invalid PCA dimension %d, expected a positive integer or %s", i, NoPCA)
		}
		*d = PCADimension(i)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid PCA dimension %s", string(b))
	}

	v, err := ParsePCADimension(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// PCAList is a flag value holding a comma separated list of PCA dimensions.
type PCAList struct {
	Values *[]PCADimension
}

// Set replaces the list.
func (l *PCAList) Set(s string) error {
	var values []PCADimension
	for _, item := range strings.Split(s, ",") {
		v, err := ParsePCADimension(item)
		if err != nil {
			return err
		}
		values = append(values, v)
	}
	*l.Values = values
	return nil
}

func (l *PCAList) String() string {
	if l.Values == nil {
		return ""
	}
	items := make([]string, len(*l.Values))
	for i, v := range *l.Values {
		items[i] = v.String()
	}
	return strings.Join(items, ",")
}

// Type returns the flag type name.
func (l *PCAList) Type() string {
	return "pcaList"
}
