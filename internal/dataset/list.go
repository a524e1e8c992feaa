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
	"fmt"
	"strings"
)

// ParseStringList parses a bracketed list of quoted strings, for example
// `['main.c', "util.c"]`. Only string literals are accepted; escapes inside a
// literal are limited to the quote character and the backslash.
func ParseStringList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("expected a bracketed list: %q", s)
	}

	var result []string
	body := s[1 : len(s)-1]
	i := 0
	expectItem := true
	for {
		i = skipSpace(body, i)
		if i >= len(body) {
			break
		}

		if !expectItem {
			if body[i] != ',' {
				return nil, fmt.Errorf("expected ',' at offset %d: %q", i+1, s)
			}
			i++
			expectItem = true
			continue
		}

		quote := body[i]
		if quote != '\'' && quote != '"' {
			return nil, fmt.Errorf("expected a quoted string at offset %d: %q", i+1, s)
		}

		var item strings.Builder
		closed := false
		for i++; i < len(body); i++ {
			c := body[i]
			if c == '\\' && i+1 < len(body) && (body[i+1] == quote || body[i+1] == '\\') {
				i++
				item.WriteByte(body[i])
				continue
			}
			if c == quote {
				closed = true
				i++
				break
			}
			item.WriteByte(c)
		}
		if !closed {
			return nil, fmt.Errorf("unterminated string: %q", s)
		}

		result = append(result, item.String())
		expectItem = false
	}

	return result, nil
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}
