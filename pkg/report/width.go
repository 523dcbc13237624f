package report

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var ansiPattern = regexp.MustCompile("\x1b\\[[0-9;]*[A-Za-z]")

// StripANSI removes terminal color sequences from s
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// VisibleWidth returns the number of terminal columns s occupies once color
// sequences are removed
func VisibleWidth(s string) int {
	return runewidth.StringWidth(StripANSI(s))
}

// padLeft right-aligns s in a column of the given visible width
func padLeft(s string, width int) string {
	if gap := width - VisibleWidth(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}
