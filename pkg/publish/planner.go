package publish

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/yuya-takeyama/buildsize/internal/walker"
	"github.com/yuya-takeyama/buildsize/pkg/logger"
	"github.com/yuya-takeyama/buildsize/pkg/s3client"
)

// Planner compares a local build directory with an S3 prefix
type Planner struct {
	client s3client.Client
	logger logger.Logger
}

func NewPlanner(client s3client.Client, log logger.Logger) *Planner {
	if log == nil {
		log = &logger.NullLogger{}
	}
	return &Planner{
		client: client,
		logger: log,
	}
}

// Plan returns the operations that make s3URI mirror localDir
func (p *Planner) Plan(ctx context.Context, localDir, s3URI string, opts Options) ([]Item, error) {
	bucket, prefix, err := s3client.ParseS3URI(s3URI)
	if err != nil {
		return nil, err
	}

	localFiles, err := gatherLocalFiles(localDir, opts.Excludes)
	if err != nil {
		return nil, fmt.Errorf("failed to gather local files: %w", err)
	}

	remote, err := p.client.ListObjects(ctx, &s3client.ListObjectsRequest{
		Bucket: bucket,
		Prefix: prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list S3 objects: %w", err)
	}

	s3Objects := []ItemMetadata{}
	for _, obj := range remote {
		if walker.IsExcluded(obj.Path, opts.Excludes) {
			continue
		}
		s3Objects = append(s3Objects, ItemMetadata{
			Path:     obj.Path,
			Size:     obj.Size,
			Checksum: obj.Checksum,
		})
	}

	p.logger.PhaseStart("compare", len(localFiles))
	phase1Result := Phase1Compare(localFiles, s3Objects, opts.DeleteEnabled)
	for _, ref := range phase1Result.Identical {
		p.logger.ItemProcessed("compare", ref.Path, string(ActionSkip))
	}
	p.logger.PhaseComplete("compare", len(localFiles))

	checksums, err := p.Phase2CollectChecksums(ctx, phase1Result.NeedChecksum, localDir, bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to collect checksums: %w", err)
	}

	items := Phase3GeneratePlan(phase1Result, checksums, localDir, bucket, prefix)

	for i, item := range items {
		if item.Action != ActionUpload {
			continue
		}
		checksum, err := calculateFileChecksum(item.LocalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate checksum for %s: %w", item.LocalPath, err)
		}
		items[i].Checksum = checksum
	}

	return items, nil
}

// maxConcurrentChecksums bounds the parallel HEAD requests of phase 2
const maxConcurrentChecksums = 50

// Phase2CollectChecksums computes local checksums and fetches remote ones
// for items whose sizes match. Results keep the order of items.
func (p *Planner) Phase2CollectChecksums(ctx context.Context, items []ItemRef, localBase, bucket, prefix string) ([]ChecksumData, error) {
	p.logger.PhaseStart("checksum", len(items))

	checksums := make([]ChecksumData, len(items))
	semaphore := make(chan struct{}, maxConcurrentChecksums)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error

	for i, item := range items {
		if err := acquire(ctx, semaphore); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-semaphore }()

			data, err := p.collectChecksum(ctx, item, localBase, bucket, prefix)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}
			checksums[i] = data
		}()
	}
	wg.Wait()

	if len(errs) > 0 {
		return nil, errs[0]
	}

	p.logger.PhaseComplete("checksum", len(checksums))
	return checksums, nil
}

// acquire takes a semaphore slot unless ctx is done first
func acquire(ctx context.Context, semaphore chan struct{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Planner) collectChecksum(ctx context.Context, item ItemRef, localBase, bucket, prefix string) (ChecksumData, error) {
	localPath := joinLocal(localBase, item.Path)
	sourceChecksum, err := calculateFileChecksum(localPath)
	if err != nil {
		return ChecksumData{}, fmt.Errorf("failed to calculate checksum for %s: %w", localPath, err)
	}

	key := s3client.JoinKey(prefix, item.Path)
	objInfo, err := p.client.HeadObject(ctx, &s3client.HeadObjectRequest{
		Bucket: bucket,
		Key:    key,
	})
	if err != nil {
		return ChecksumData{}, fmt.Errorf("failed to head object %s: %w", key, err)
	}

	action := ActionSkip
	if sourceChecksum != objInfo.Checksum {
		action = ActionUpload
	}
	p.logger.ItemProcessed("checksum", item.Path, string(action))

	return ChecksumData{
		ItemRef:        item,
		SourceChecksum: sourceChecksum,
		DestChecksum:   objInfo.Checksum,
	}, nil
}

func gatherLocalFiles(basePath string, excludes []string) ([]ItemMetadata, error) {
	w, err := walker.NewWalker(basePath, nil, excludes)
	if err != nil {
		return nil, err
	}

	files, err := w.Walk()
	if err != nil {
		return nil, err
	}

	items := make([]ItemMetadata, 0, len(files))
	for _, f := range files {
		items = append(items, ItemMetadata{
			Path: f.RelPath,
			Size: f.Size,
		})
	}
	return items, nil
}

func joinLocal(base, rel string) string {
	return filepath.Join(base, filepath.FromSlash(rel))
}
