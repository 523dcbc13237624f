package sizediff

import "fmt"

// FiftyKilobytes is the growth at which an asset counts as grown significantly
const FiftyKilobytes = 50 * 1024

// Classify compares the current size against the previous one. An untracked
// previous size or an unchanged size yields ChangeNone and an empty label.
func Classify(current int64, previous *int64) (Change, string) {
	if previous == nil {
		return ChangeNone, ""
	}

	difference := current - *previous
	switch {
	case difference >= FiftyKilobytes:
		return ChangeGrewSignificantly, "+" + FormatSize(difference)
	case difference > 0:
		return ChangeGrewSlightly, "+" + FormatSize(difference)
	case difference < 0:
		return ChangeShrank, "-" + FormatSize(-difference)
	default:
		return ChangeNone, ""
	}
}

// FormatSize formats bytes with decimal units and one fractional digit
func FormatSize(bytes int64) string {
	const unit = 1000
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// SizeLabel renders "1.6 KB (+600 B)" for an asset, without coloring
func (a Asset) SizeLabel() string {
	if a.Label == "" {
		return FormatSize(a.Size)
	}
	return fmt.Sprintf("%s (%s)", FormatSize(a.Size), a.Label)
}
