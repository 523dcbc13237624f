package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yuya-takeyama/buildsize/internal/logging"
	"github.com/yuya-takeyama/buildsize/internal/metrics"
	"github.com/yuya-takeyama/buildsize/internal/session"
	"github.com/yuya-takeyama/buildsize/pkg/logger"
	"github.com/yuya-takeyama/buildsize/pkg/publish"
	"github.com/yuya-takeyama/buildsize/pkg/report"
	"github.com/yuya-takeyama/buildsize/pkg/s3client"
)

func metricsHook(path string) session.Hook {
	m := metrics.NewMetrics()
	return func(ctx context.Context, rep *report.Report) error {
		m.Record(rep)
		if err := m.WriteFile(path); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		log.Debug().Str("file", path).Msg("Metrics written")
		return nil
	}
}

func publishHook(client s3client.Client, outputDir string) session.Hook {
	return func(ctx context.Context, rep *report.Report) error {
		start := time.Now()
		publishLogger := logger.New(verbose, quiet)

		planner := publish.NewPlanner(client, publishLogger)
		items, err := planner.Plan(ctx, outputDir, publishURI, publish.Options{
			DeleteEnabled: deleteFlag,
		})
		if err != nil {
			return fmt.Errorf("failed to generate publish plan: %w", err)
		}

		if publishPlanJSON != "" {
			if err := publish.WriteJSON(publishPlanJSON, publish.NewPlanRecord(items)); err != nil {
				return fmt.Errorf("failed to write plan JSON: %w", err)
			}
		}

		exec := publish.NewExecutor(client, publishLogger, concurrency, dryRun)
		results := exec.Execute(ctx, items)

		summary := publish.Summarize(results, time.Since(start), dryRun)
		logging.PrintSummary(summary)

		if publishResultJSON != "" && !dryRun {
			if err := publish.WriteJSON(publishResultJSON, publish.NewResultRecord(results)); err != nil {
				return fmt.Errorf("failed to write result JSON: %w", err)
			}
		}

		for _, r := range results {
			if r.Error != nil {
				log.Error().Err(r.Error).Str("target", r.Item.URI()).Msg("Publish failed")
			}
		}
		if summary.Errors > 0 {
			return fmt.Errorf("%d publish operations failed", summary.Errors)
		}

		return nil
	}
}
