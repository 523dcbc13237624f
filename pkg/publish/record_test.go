package publish

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlanRecord(t *testing.T) {
	items := []Item{
		{Action: ActionUpload, LocalPath: "/build/static/js/main.abc123.js", Bucket: "site", Key: "static/js/main.abc123.js", Reason: ReasonNew},
		{Action: ActionUpload, LocalPath: "/build/index.html", Bucket: "site", Key: "index.html", Reason: ReasonChecksumDiffers},
		{Action: ActionDelete, Bucket: "site", Key: "static/js/main.old999.js", Reason: ReasonStale},
	}

	plan := NewPlanRecord(items)

	assert.Equal(t, PlanSummary{Create: 1, Update: 1, Delete: 1}, plan.Summary)
	require.Len(t, plan.Files, 3)
	assert.Equal(t, PlanFile{
		Action: "create",
		Source: "/build/static/js/main.abc123.js",
		Target: "s3://site/static/js/main.abc123.js",
		Reason: "new file",
	}, plan.Files[0])
	assert.Equal(t, "update", plan.Files[1].Action)
	assert.Equal(t, "delete", plan.Files[2].Action)
	assert.Empty(t, plan.Files[2].Source)
}

func TestNewResultRecord(t *testing.T) {
	results := []Result{
		{Item: Item{Action: ActionUpload, LocalPath: "/build/a.js", Bucket: "site", Key: "a.js", Reason: ReasonNew}},
		{Item: Item{Action: ActionUpload, LocalPath: "/build/b.js", Bucket: "site", Key: "b.js", Reason: ReasonSizeDiffers}},
		{Item: Item{Action: ActionDelete, Bucket: "site", Key: "c.js", Reason: ReasonStale}},
		{Item: Item{Action: ActionUpload, LocalPath: "/build/d.js", Bucket: "site", Key: "d.js", Reason: ReasonNew}, Error: errors.New("access denied")},
	}

	record := NewResultRecord(results)

	assert.Equal(t, ResultSummary{Created: 1, Updated: 1, Deleted: 1, Failed: 1}, record.Summary)
	assert.Equal(t, []ResultFile{
		{Action: "created", Source: "/build/a.js", Target: "s3://site/a.js"},
		{Action: "updated", Source: "/build/b.js", Target: "s3://site/b.js"},
		{Action: "deleted", Target: "s3://site/c.js"},
	}, record.Files)
	assert.Equal(t, []ErrorFile{
		{Action: "create", Source: "/build/d.js", Target: "s3://site/d.js", Error: "access denied"},
	}, record.Errors)
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")

	require.NoError(t, WriteJSON(path, NewPlanRecord(nil)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded PlanRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Empty(t, decoded.Files)
	assert.NotNil(t, decoded.Files)
}
