package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/yuya-takeyama/buildsize/pkg/report"
)

// Metrics holds the Prometheus gauges describing one finished build
type Metrics struct {
	registry *prometheus.Registry

	assetSize      *prometheus.GaugeVec
	assetDelta     *prometheus.GaugeVec
	assetOversized *prometheus.GaugeVec
	buildDuration  prometheus.Gauge
	buildWarnings  prometheus.Gauge
	totalSize      *prometheus.GaugeVec
}

// NewMetrics creates the gauges on a private registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		assetSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "buildsize_asset_size_bytes",
				Help: "Compressed size of an emitted asset in bytes",
			},
			[]string{"asset", "kind"},
		),
		assetDelta: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "buildsize_asset_size_delta_bytes",
				Help: "Compressed size change of an asset since the previous build",
			},
			[]string{"asset"},
		),
		assetOversized: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "buildsize_asset_over_budget",
				Help: "1 when the asset exceeds its size budget",
			},
			[]string{"asset"},
		),
		buildDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "buildsize_build_duration_seconds",
				Help: "Time spent in the bundler",
			},
		),
		buildWarnings: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "buildsize_build_warnings",
				Help: "Number of warnings reported by the bundler",
			},
		),
		totalSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "buildsize_total_size_bytes",
				Help: "Sum of compressed asset sizes by kind",
			},
			[]string{"kind"},
		),
	}
}

// Record replaces the gauges with the values of rep
func (m *Metrics) Record(rep *report.Report) {
	m.assetSize.Reset()
	m.assetDelta.Reset()
	m.assetOversized.Reset()
	m.totalSize.Reset()

	oversized := make(map[string]bool, len(rep.Oversized))
	for _, v := range rep.Oversized {
		oversized[v.Asset.Key] = true
	}

	totals := map[string]float64{"script": 0, "style": 0}
	for _, a := range rep.Assets {
		kind := "script"
		if a.IsStyle() {
			kind = "style"
		}
		m.assetSize.WithLabelValues(a.Key, kind).Set(float64(a.Size))
		if a.PreviousSize != nil {
			m.assetDelta.WithLabelValues(a.Key).Set(float64(a.Difference))
		}
		over := 0.0
		if oversized[a.Key] {
			over = 1
		}
		m.assetOversized.WithLabelValues(a.Key).Set(over)
		totals[kind] += float64(a.Size)
	}

	for kind, total := range totals {
		m.totalSize.WithLabelValues(kind).Set(total)
	}
	m.buildDuration.Set(rep.Duration.Seconds())
	m.buildWarnings.Set(float64(len(rep.Warnings)))
}

// WriteFile writes the gauges in the node_exporter textfile format
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}

// Gatherer exposes the registry for inspection
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
