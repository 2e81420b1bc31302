// File: report/discover.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package report

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/momentics/refbench/control"
)

// ResultFile is a discovered <label>_result.json.
type ResultFile struct {
	Label string
	Path  string
}

// Discover walks dir for result files, sorted by label then path.
func Discover(dir string) ([]ResultFile, error) {
	var out []ResultFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		label, ok := strings.CutSuffix(name, control.ResultSuffix)
		if !ok || label == "" {
			return nil
		}
		out = append(out, ResultFile{Label: label, Path: path})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].Path < out[j].Path
	})
	return out, nil
}
