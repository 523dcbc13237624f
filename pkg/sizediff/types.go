// Package sizediff snapshots compressed asset sizes and computes per-asset
// deltas between two builds.
package sizediff

import (
	"strings"

	"github.com/yuya-takeyama/buildsize/internal/compress"
)

// SizeMap maps a normalized asset key to its compressed size in bytes
type SizeMap map[string]int64

// Lookup returns the size recorded for key, or nil when the asset is untracked
func (m SizeMap) Lookup(key string) *int64 {
	size, ok := m[key]
	if !ok {
		return nil
	}
	return &size
}

// Extensions lists the asset types that are measured
var Extensions = []string{".js", ".css"}

type Change string

const (
	ChangeNone              Change = "none"
	ChangeGrewSlightly      Change = "grew-slightly"
	ChangeGrewSignificantly Change = "grew-significantly"
	ChangeShrank            Change = "shrank"
)

// Asset is the size delta record of one emitted file
type Asset struct {
	Folder       string `json:"folder" yaml:"folder"`
	Name         string `json:"name" yaml:"name"`
	Key          string `json:"key" yaml:"key"`
	Size         int64  `json:"size" yaml:"size"`
	PreviousSize *int64 `json:"previousSize,omitempty" yaml:"previousSize,omitempty"`
	Difference   int64  `json:"difference" yaml:"difference"`
	Change       Change `json:"change" yaml:"change"`
	Label        string `json:"label,omitempty" yaml:"label,omitempty"`
}

// IsStyle reports whether the asset is a stylesheet
func (a Asset) IsStyle() bool {
	return strings.HasSuffix(a.Name, ".css")
}

// Options controls how files are measured
type Options struct {
	Algorithm compress.Algorithm
	Excludes  []string
}
