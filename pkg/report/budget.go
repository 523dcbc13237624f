package report

import "github.com/yuya-takeyama/buildsize/pkg/sizediff"

// Budget holds the compressed sizes above which an asset is reported as too large
type Budget struct {
	Script int64
	Style  int64
}

// Violation is an asset that exceeded its budget
type Violation struct {
	Asset sizediff.Asset `json:"asset" yaml:"asset"`
	Limit int64          `json:"limit" yaml:"limit"`
}

// Check returns every asset larger than its budget. A zero limit disables the check.
func (b Budget) Check(assets []sizediff.Asset) []Violation {
	var violations []Violation
	for _, a := range assets {
		limit := b.Script
		if a.IsStyle() {
			limit = b.Style
		}
		if limit > 0 && a.Size > limit {
			violations = append(violations, Violation{Asset: a, Limit: limit})
		}
	}
	return violations
}
