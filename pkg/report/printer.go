// Package report renders build size deltas for the terminal and for machines.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/yuya-takeyama/buildsize/pkg/sizediff"
)

// Printer writes one aligned line per asset
type Printer struct {
	Writer io.Writer
	Color  bool

	red, yellow, green, dim, cyan *color.Color
}

// NewPrinter creates a printer writing to w
func NewPrinter(w io.Writer, useColor bool) *Printer {
	if w == nil {
		w = os.Stdout
	}
	p := &Printer{
		Writer: w,
		Color:  useColor,
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		green:  color.New(color.FgGreen),
		dim:    color.New(color.Faint),
		cyan:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.red, p.yellow, p.green, p.dim, p.cyan} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// SizeLabel renders the size of an asset with its colored difference
func (p *Printer) SizeLabel(a sizediff.Asset) string {
	size := sizediff.FormatSize(a.Size)
	if a.Label == "" {
		return size
	}
	return fmt.Sprintf("%s (%s)", size, p.colorFor(a.Change).Sprint(a.Label))
}

func (p *Printer) colorFor(change sizediff.Change) *color.Color {
	switch change {
	case sizediff.ChangeGrewSignificantly:
		return p.red
	case sizediff.ChangeGrewSlightly:
		return p.yellow
	case sizediff.ChangeShrank:
		return p.green
	default:
		return p.dim
	}
}

// Print writes the assets in the order given. Size labels are right-aligned
// to the widest visible label.
func (p *Printer) Print(assets []sizediff.Asset) {
	labels := make([]string, len(assets))
	longest := 0
	for i, a := range assets {
		labels[i] = p.SizeLabel(a)
		if w := VisibleWidth(labels[i]); w > longest {
			longest = w
		}
	}

	for i, a := range assets {
		_, _ = fmt.Fprintf(p.Writer, "  %s  %s%s\n",
			padLeft(labels[i], longest),
			p.dim.Sprint(a.Folder+"/"),
			p.cyan.Sprint(a.Name),
		)
	}
}
