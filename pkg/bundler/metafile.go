package bundler

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
)

// Metafile represents the esbuild metafile JSON structure
type Metafile struct {
	Inputs  map[string]MetafileInput  `json:"inputs"`
	Outputs map[string]MetafileOutput `json:"outputs"`
}

// MetafileInput represents an input file in the metafile
type MetafileInput struct {
	Bytes   int              `json:"bytes"`
	Imports []MetafileImport `json:"imports"`
	Format  string           `json:"format,omitempty"`
}

// MetafileImport represents an import in the metafile
type MetafileImport struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	External bool   `json:"external,omitempty"`
	Original string `json:"original,omitempty"`
}

// MetafileOutput represents an output file in the metafile
type MetafileOutput struct {
	Bytes      int                     `json:"bytes"`
	Inputs     map[string]InputContrib `json:"inputs"`
	Imports    []MetafileImport        `json:"imports"`
	Exports    []string                `json:"exports"`
	EntryPoint string                  `json:"entryPoint,omitempty"`
	CSSBundle  string                  `json:"cssBundle,omitempty"`
}

// InputContrib represents the contribution of an input to an output
type InputContrib struct {
	BytesInOutput int `json:"bytesInOutput"`
}

// ParseMetafile decodes the metafile esbuild returns as a JSON string
func ParseMetafile(data string) (*Metafile, error) {
	var meta Metafile
	if data == "" {
		return &meta, nil
	}
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, fmt.Errorf("parse metafile: %w", err)
	}
	return &meta, nil
}

// OutputPaths returns the absolute path of every emitted file, sorted.
// Metafile keys are relative to workingDir.
func (m *Metafile) OutputPaths(workingDir string) []string {
	paths := make([]string, 0, len(m.Outputs))
	for key := range m.Outputs {
		p := filepath.FromSlash(key)
		if !filepath.IsAbs(p) {
			p = filepath.Join(workingDir, p)
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
