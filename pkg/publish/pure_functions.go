package publish

import (
	"sort"

	"github.com/yuya-takeyama/buildsize/pkg/s3client"
)

// Phase1Compare classifies every path using sizes and listed checksums only
func Phase1Compare(source []ItemMetadata, dest []ItemMetadata, deleteEnabled bool) Phase1Result {
	sourceMap := make(map[string]ItemMetadata)
	for _, item := range source {
		sourceMap[item.Path] = item
	}

	destMap := make(map[string]ItemMetadata)
	for _, item := range dest {
		destMap[item.Path] = item
	}

	result := Phase1Result{
		NewItems:     []ItemRef{},
		DeletedItems: []ItemRef{},
		SizeMismatch: []ItemRef{},
		NeedChecksum: []ItemRef{},
		Identical:    []ItemRef{},
	}

	for path, srcItem := range sourceMap {
		destItem, exists := destMap[path]
		if !exists {
			result.NewItems = append(result.NewItems, ItemRef{Path: path, Size: srcItem.Size})
			continue
		}

		ref := ItemRef{Path: path, Size: srcItem.Size}
		switch {
		case srcItem.Size != destItem.Size:
			result.SizeMismatch = append(result.SizeMismatch, ref)
		case destItem.Checksum != "" && srcItem.Checksum != "" && srcItem.Checksum == destItem.Checksum:
			result.Identical = append(result.Identical, ref)
		default:
			result.NeedChecksum = append(result.NeedChecksum, ref)
		}
	}

	if deleteEnabled {
		for path, destItem := range destMap {
			if _, exists := sourceMap[path]; !exists {
				result.DeletedItems = append(result.DeletedItems, ItemRef{
					Path: path,
					Size: destItem.Size,
				})
			}
		}
	}

	sortPhase1Result(&result)
	return result
}

// Phase3GeneratePlan turns the comparison and the collected checksums into
// upload and delete items, ordered by action then key
func Phase3GeneratePlan(phase1 Phase1Result, checksums []ChecksumData, localBase, bucket, prefix string) []Item {
	items := []Item{}

	upload := func(ref ItemRef, reason string) {
		items = append(items, Item{
			Action:    ActionUpload,
			LocalPath: joinLocal(localBase, ref.Path),
			Bucket:    bucket,
			Key:       s3client.JoinKey(prefix, ref.Path),
			Size:      ref.Size,
			Reason:    reason,
		})
	}

	for _, ref := range phase1.NewItems {
		upload(ref, ReasonNew)
	}

	for _, ref := range phase1.SizeMismatch {
		upload(ref, ReasonSizeDiffers)
	}

	checksumMap := make(map[string]ChecksumData)
	for _, cs := range checksums {
		checksumMap[cs.ItemRef.Path] = cs
	}

	for _, ref := range phase1.NeedChecksum {
		cs, exists := checksumMap[ref.Path]
		if !exists || cs.SourceChecksum != cs.DestChecksum {
			upload(ref, ReasonChecksumDiffers)
		}
	}

	for _, ref := range phase1.DeletedItems {
		items = append(items, Item{
			Action: ActionDelete,
			Bucket: bucket,
			Key:    s3client.JoinKey(prefix, ref.Path),
			Size:   ref.Size,
			Reason: ReasonStale,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Action != items[j].Action {
			return items[i].Action > items[j].Action
		}
		return items[i].Key < items[j].Key
	})

	return items
}

func sortPhase1Result(result *Phase1Result) {
	sortItemRefs := func(refs []ItemRef) {
		sort.Slice(refs, func(i, j int) bool {
			return refs[i].Path < refs[j].Path
		})
	}

	sortItemRefs(result.NewItems)
	sortItemRefs(result.DeletedItems)
	sortItemRefs(result.SizeMismatch)
	sortItemRefs(result.NeedChecksum)
	sortItemRefs(result.Identical)
}
