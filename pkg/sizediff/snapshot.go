package sizediff

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"

	"github.com/yuya-takeyama/buildsize/internal/compress"
	"github.com/yuya-takeyama/buildsize/internal/walker"
)

// Snapshot measures every .js and .css file below root. A missing root
// produces an empty map; any unreadable file aborts the snapshot.
func Snapshot(root string, opts Options) (SizeMap, error) {
	w, err := walker.NewWalker(root, Extensions, opts.Excludes)
	if err != nil {
		return nil, fmt.Errorf("create walker: %w", err)
	}

	files, err := w.Walk()
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	rels := make([]string, len(files))
	for i, f := range files {
		rels[i] = f.RelPath
	}
	keys := AssetKeys(rels)

	sizes := make(SizeMap, len(files))
	for _, f := range files {
		size, err := compress.FileSize(f.Path, opts.Algorithm)
		if err != nil {
			return nil, fmt.Errorf("measure %s: %w", f.RelPath, err)
		}
		sizes[keys[f.RelPath]] = size
	}

	return sizes, nil
}

// Measure builds the delta records for freshly emitted files. Outputs that
// are not .js/.css or that match an exclude pattern are skipped. The result
// is sorted by descending size.
func Measure(root string, outputs []string, previous SizeMap, opts Options) ([]Asset, error) {
	paths := make(map[string]string)
	var rels []string
	for _, output := range outputs {
		if !IsMeasured(output) {
			continue
		}

		rel := relativeTo(root, output)
		if walker.IsExcluded(rel, opts.Excludes) {
			continue
		}
		paths[rel] = output
		rels = append(rels, rel)
	}
	keys := AssetKeys(rels)

	assets := make([]Asset, 0, len(rels))
	for _, rel := range rels {
		size, err := compress.FileSize(paths[rel], opts.Algorithm)
		if err != nil {
			return nil, fmt.Errorf("measure %s: %w", rel, err)
		}

		assets = append(assets, newAsset(filepath.Base(root), rel, keys[rel], size, previous))
	}

	SortAssets(assets)
	return assets, nil
}

// NewAsset builds the delta record for the file at rel below an output
// folder named rootName
func NewAsset(rootName, rel string, size int64, previous SizeMap) Asset {
	return newAsset(rootName, rel, StripHash(rel), size, previous)
}

func newAsset(rootName, rel, key string, size int64, previous SizeMap) Asset {
	prev := previous.Lookup(key)
	change, label := Classify(size, prev)

	var difference int64
	if prev != nil {
		difference = size - *prev
	}

	return Asset{
		Folder:       path.Join(rootName, path.Dir(rel)),
		Name:         path.Base(rel),
		Key:          key,
		Size:         size,
		PreviousSize: prev,
		Difference:   difference,
		Change:       change,
		Label:        label,
	}
}

// SortAssets orders assets by descending size, then by key
func SortAssets(assets []Asset) {
	sort.SliceStable(assets, func(i, j int) bool {
		if assets[i].Size != assets[j].Size {
			return assets[i].Size > assets[j].Size
		}
		return assets[i].Key < assets[j].Key
	})
}
