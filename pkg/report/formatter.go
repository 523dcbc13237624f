package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/yuya-takeyama/buildsize/pkg/sizediff"
)

// Format represents the output format
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a format string
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return FormatText, nil
	case "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %s (valid: text, table, json, yaml)", s)
	}
}

// Report is everything known about one finished build
type Report struct {
	OutputPath  string
	Compression string
	Duration    time.Duration
	Assets      []sizediff.Asset
	Warnings    []string
	Oversized   []Violation
}

// Renderer writes a Report in the configured format
type Renderer struct {
	Format Format
	Writer io.Writer
	Color  bool
	Budget Budget
}

// NewRenderer creates a renderer writing to stdout
func NewRenderer(format Format, useColor bool, budget Budget) *Renderer {
	return &Renderer{
		Format: format,
		Writer: os.Stdout,
		Color:  useColor,
		Budget: budget,
	}
}

// Render fills in budget violations and writes the report
func (r *Renderer) Render(rep *Report) error {
	rep.Oversized = r.Budget.Check(rep.Assets)

	switch r.Format {
	case FormatJSON:
		return r.printJSON(rep)
	case FormatYAML:
		return r.printYAML(rep)
	case FormatTable:
		r.printTable(rep)
		return nil
	default:
		r.printText(rep)
		return nil
	}
}

func (r *Renderer) printJSON(rep *Report) error {
	encoder := json.NewEncoder(r.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(machineReport(rep))
}

func (r *Renderer) printYAML(rep *Report) error {
	encoder := yaml.NewEncoder(r.Writer)
	encoder.SetIndent(2)
	defer func() { _ = encoder.Close() }()
	return encoder.Encode(machineReport(rep))
}

func (r *Renderer) printTable(rep *Report) {
	table := tablewriter.NewWriter(r.Writer)
	table.SetHeader([]string{"File", "Size", "Previous", "Change"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, a := range rep.Assets {
		previous := "-"
		if a.PreviousSize != nil {
			previous = sizediff.FormatSize(*a.PreviousSize)
		}
		table.Append([]string{a.Folder + "/" + a.Name, sizediff.FormatSize(a.Size), previous, a.Label})
	}
	table.Render()
}

func (r *Renderer) printText(rep *Report) {
	p := NewPrinter(r.Writer, r.Color)

	compression := rep.Compression
	if compression == "" {
		compression = "gzip"
	}
	_, _ = fmt.Fprintf(r.Writer, "File sizes after %s:\n", compression)
	_, _ = fmt.Fprintln(r.Writer)
	p.Print(rep.Assets)
	_, _ = fmt.Fprintln(r.Writer)

	if len(rep.Oversized) > 0 {
		_, _ = fmt.Fprintln(r.Writer, p.yellow.Sprint("The bundle size is significantly larger than recommended."))
		for _, v := range rep.Oversized {
			_, _ = fmt.Fprintf(r.Writer, "  %s is %s (limit %s)\n",
				v.Asset.Key,
				sizediff.FormatSize(v.Asset.Size),
				sizediff.FormatSize(v.Limit),
			)
		}
		_, _ = fmt.Fprintln(r.Writer, p.yellow.Sprint("Consider reducing it with code splitting or by trimming dependencies."))
		_, _ = fmt.Fprintln(r.Writer)
	}
}

type machineAsset struct {
	sizediff.Asset `yaml:",inline"`
	Oversized      bool `json:"oversized" yaml:"oversized"`
}

type machineOutput struct {
	OutputPath  string         `json:"outputPath" yaml:"outputPath"`
	Compression string         `json:"compression" yaml:"compression"`
	DurationMS  int64          `json:"durationMs" yaml:"durationMs"`
	Assets      []machineAsset `json:"assets" yaml:"assets"`
	Warnings    []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func machineReport(rep *Report) machineOutput {
	oversized := make(map[string]bool, len(rep.Oversized))
	for _, v := range rep.Oversized {
		oversized[v.Asset.Key] = true
	}

	out := machineOutput{
		OutputPath:  rep.OutputPath,
		Compression: rep.Compression,
		DurationMS:  rep.Duration.Milliseconds(),
		Assets:      make([]machineAsset, 0, len(rep.Assets)),
		Warnings:    rep.Warnings,
	}
	for _, a := range rep.Assets {
		out.Assets = append(out.Assets, machineAsset{Asset: a, Oversized: oversized[a.Key]})
	}
	return out
}
