package sizediff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(n int64) *int64 { return &n }

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		current    int64
		previous   *int64
		wantChange Change
		wantLabel  string
	}{
		{"untracked", 1000, nil, ChangeNone, ""},
		{"unchanged", 1000, ptr(1000), ChangeNone, ""},
		{"grew exactly fifty KiB", 51200 + 100, ptr(100), ChangeGrewSignificantly, "+51.2 KB"},
		{"grew one byte under fifty KiB", 51199 + 100, ptr(100), ChangeGrewSlightly, "+51.2 KB"},
		{"grew slightly", 1600, ptr(1000), ChangeGrewSlightly, "+600 B"},
		{"grew a lot", 500000, ptr(1000), ChangeGrewSignificantly, "+499.0 KB"},
		{"shrank a byte", 999, ptr(1000), ChangeShrank, "-1 B"},
		{"shrank a lot", 1000, ptr(3000000), ChangeShrank, "-3.0 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change, label := Classify(tt.current, tt.previous)
			assert.Equal(t, tt.wantChange, change)
			assert.Equal(t, tt.wantLabel, label)
		})
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{600, "600 B"},
		{999, "999 B"},
		{1000, "1.0 KB"},
		{1600, "1.6 KB"},
		{51200, "51.2 KB"},
		{1500000, "1.5 MB"},
		{2000000000, "2.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSize(tt.in))
		})
	}
}

func TestSizeLabel(t *testing.T) {
	a := NewAsset("dist", "static/js/main.bbb222.js", 1600, SizeMap{"static/js/main.js": 1000})
	assert.Equal(t, "1.6 KB (+600 B)", a.SizeLabel())

	b := NewAsset("dist", "static/js/main.bbb222.js", 1600, nil)
	assert.Equal(t, "1.6 KB", b.SizeLabel())
}
