package publish

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/yuya-takeyama/buildsize/internal/logging"
	"github.com/yuya-takeyama/buildsize/pkg/logger"
	"github.com/yuya-takeyama/buildsize/pkg/s3client"
)

const DefaultConcurrency = 32

// Executor applies a plan with bounded concurrency
type Executor struct {
	client      s3client.Client
	logger      logger.Logger
	concurrency int
	dryRun      bool
}

func NewExecutor(client s3client.Client, log logger.Logger, concurrency int, dryRun bool) *Executor {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if log == nil {
		log = &logger.NullLogger{}
	}
	return &Executor{
		client:      client,
		logger:      log,
		concurrency: concurrency,
		dryRun:      dryRun,
	}
}

type Result struct {
	Item  Item
	Error error
}

// Execute runs every item and returns one result per item in plan order.
// In dry-run mode items are only reported.
func (e *Executor) Execute(ctx context.Context, items []Item) []Result {
	results := make([]Result, len(items))

	e.logger.PhaseStart("publish", len(items))

	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(idx int, itm Item) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			e.logger.ItemProcessed("publish", itm.URI(), string(itm.Action))

			var err error
			if !e.dryRun {
				err = e.executeItem(ctx, itm)
			}

			results[idx] = Result{
				Item:  itm,
				Error: err,
			}
		}(i, item)
	}

	wg.Wait()
	e.logger.PhaseComplete("publish", len(items))
	return results
}

func (e *Executor) executeItem(ctx context.Context, item Item) error {
	switch item.Action {
	case ActionUpload:
		return e.uploadFile(ctx, item)
	case ActionDelete:
		return e.deleteObject(ctx, item)
	default:
		return nil
	}
}

func (e *Executor) uploadFile(ctx context.Context, item Item) error {
	file, err := os.Open(item.LocalPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	err = e.client.PutObject(ctx, &s3client.PutObjectRequest{
		Bucket:       item.Bucket,
		Key:          item.Key,
		Body:         file,
		Size:         item.Size,
		Checksum:     item.Checksum,
		ContentType:  guessContentType(item.LocalPath),
		CacheControl: cacheControl(item.Key),
	})
	if err != nil {
		return fmt.Errorf("failed to upload: %w", err)
	}

	return nil
}

func (e *Executor) deleteObject(ctx context.Context, item Item) error {
	err := e.client.DeleteObject(ctx, &s3client.DeleteObjectRequest{
		Bucket: item.Bucket,
		Key:    item.Key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	return nil
}

// Summarize counts the outcomes of an executed plan
func Summarize(results []Result, duration time.Duration, dryRun bool) logging.PublishSummary {
	s := logging.PublishSummary{Duration: duration, DryRun: dryRun}
	for _, r := range results {
		if r.Error != nil {
			s.Errors++
			continue
		}
		switch r.Item.Action {
		case ActionUpload:
			s.Uploaded++
			s.BytesUploaded += r.Item.Size
		case ActionDelete:
			s.Deleted++
		}
	}
	return s
}
