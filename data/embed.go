// Package data embeds the bundled demonstration catalogue. The same files
// serve the fs driver's default root.
package data

import (
	"embed"
	"io/fs"
)

//go:embed *.json
var files embed.FS

// Objects returns the bundled collections keyed by file name, ready for the
// memory blob driver.
func Objects() (map[string][]byte, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(entries))
	for _, e := range entries {
		b, err := fs.ReadFile(files, e.Name())
		if err != nil {
			return nil, err
		}
		out[e.Name()] = b
	}
	return out, nil
}
