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
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Stage writes one CSV file per benchmark function into dir and returns the
// file paths in dataset order. A nil keep list writes every column. Files that
// already exist are left untouched. Each file ends with a newline.
func (d *Dataset) Stage(dir string, keep []int) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(d.Functions))
	for _, bf := range d.Functions {
		p := filepath.Join(dir, bf.Name()+".csv")
		if _, err := WriteOnce(p, bf.Data(keep, d.Arches)+"\n"); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// WriteOnce creates the named file with the supplied content, doing nothing if
// the file already exists. The returned boolean indicates if the file was
// written.
func WriteOnce(name, content string) (bool, error) {
	return writeOnce(name, strings.NewReader(content))
}

// writeOnce removes the file again if it cannot be completely written so a
// later run never mistakes a partial file for staged data.
func writeOnce(name string, r io.Reader) (bool, error) {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(name)
		return false, err
	}
	return true, nil
}
