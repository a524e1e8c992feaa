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

package experiment

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/thestormforge/optimize-search/internal/features"
	"github.com/thestormforge/optimize-search/internal/metric"
)

// Candidate is the outcome of trying one feature during a round.
type Candidate struct {
	Feature int     `json:"feature"`
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	// Valid is false when the evaluator report did not contain the metric.
	Valid bool `json:"valid"`
}

func (c *Candidate) String() string {
	if !c.Valid {
		return "(" + c.Name + ", n/a)"
	}
	return "(" + c.Name + ", " + strconv.FormatFloat(c.Value, 'g', -1, 64) + ")"
}

// Round records every candidate tried during one feature selection round.
type Round struct {
	Number     int         `json:"round"`
	Candidates []Candidate `json:"candidates"`
	// Winner is nil when no candidate improved on the best value.
	Winner *Candidate `json:"winner,omitempty"`
	// Selected is the selected feature set at the end of the round.
	Selected []int `json:"selected"`
	// Remaining is the candidate feature set at the end of the round.
	Remaining []int `json:"remaining"`
}

// Progression is the history of a feature selection run.
type Progression struct {
	RunID    string      `json:"runID,omitempty"`
	Metric   metric.Name `json:"metric"`
	Seed     []int       `json:"seed"`
	Rounds   []Round     `json:"rounds"`
	Selected []int       `json:"selected"`
}

// Best returns the last winning candidate, if any.
func (p *Progression) Best() *Candidate {
	for i := len(p.Rounds) - 1; i >= 0; i-- {
		if p.Rounds[i].Winner != nil {
			return p.Rounds[i].Winner
		}
	}
	return nil
}

// Write renders one line per round followed by the final selected features.
func (p *Progression) Write(w io.Writer, vocabulary features.Vocabulary) error {
	var buf bytes.Buffer
	if p.RunID != "" {
		fmt.Fprintf(&buf, "run %s, metric %s\n", p.RunID, p.Metric)
	}

	for i := range p.Rounds {
		r := &p.Rounds[i]
		candidates := make([]string, len(r.Candidates))
		for j := range r.Candidates {
			candidates[j] = r.Candidates[j].String()
		}

		winner := "none"
		if r.Winner != nil {
			winner = r.Winner.String()
		}
		fmt.Fprintf(&buf, "round %d: [%s] selected: %s\n", r.Number, strings.Join(candidates, ", "), winner)
	}

	names := make([]string, len(p.Selected))
	for i, f := range p.Selected {
		names[i] = vocabulary.Name(f)
	}
	fmt.Fprintf(&buf, "selected features: %s\n", strings.Join(names, ", "))

	_, err := w.Write(buf.Bytes())
	return err
}

// Save writes the progression to the named file.
func (p *Progression) Save(filename string, vocabulary features.Vocabulary) error {
	var buf bytes.Buffer
	if err := p.Write(&buf, vocabulary); err != nil {
		return err
	}
	return os.WriteFile(filename, buf.Bytes(), 0644)
}
