package publish

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PlanRecord is the JSON form of a publish plan
type PlanRecord struct {
	Files   []PlanFile  `json:"files"`
	Summary PlanSummary `json:"summary"`
}

type PlanFile struct {
	Action string `json:"action"` // "skip", "create", "update", "delete"
	Source string `json:"source,omitempty"`
	Target string `json:"target"`
	Reason string `json:"reason"`
}

type PlanSummary struct {
	Skip   int `json:"skip"`
	Create int `json:"create"`
	Update int `json:"update"`
	Delete int `json:"delete"`
}

// ResultRecord is the JSON form of an executed plan
type ResultRecord struct {
	Files   []ResultFile  `json:"files"`
	Errors  []ErrorFile   `json:"errors"`
	Summary ResultSummary `json:"summary"`
}

type ResultFile struct {
	Action string `json:"action"` // "created", "updated", "deleted"
	Source string `json:"source,omitempty"`
	Target string `json:"target"`
}

type ErrorFile struct {
	Action string `json:"action"`
	Source string `json:"source,omitempty"`
	Target string `json:"target"`
	Error  string `json:"error"`
}

type ResultSummary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

// NewPlanRecord converts planned items
func NewPlanRecord(items []Item) PlanRecord {
	plan := PlanRecord{Files: []PlanFile{}}

	for _, item := range items {
		file := PlanFile{
			Action: actionName(item),
			Target: item.URI(),
			Reason: item.Reason,
		}
		if item.Action != ActionDelete {
			file.Source = absolutePath(item.LocalPath)
		}

		switch file.Action {
		case "create":
			plan.Summary.Create++
		case "update":
			plan.Summary.Update++
		case "delete":
			plan.Summary.Delete++
		case "skip":
			plan.Summary.Skip++
		}
		plan.Files = append(plan.Files, file)
	}

	return plan
}

// NewResultRecord converts executed results
func NewResultRecord(results []Result) ResultRecord {
	record := ResultRecord{
		Files:  []ResultFile{},
		Errors: []ErrorFile{},
	}

	for _, r := range results {
		action := actionName(r.Item)
		source := ""
		if r.Item.Action == ActionUpload {
			source = absolutePath(r.Item.LocalPath)
		}

		if r.Error != nil {
			record.Errors = append(record.Errors, ErrorFile{
				Action: action,
				Source: source,
				Target: r.Item.URI(),
				Error:  r.Error.Error(),
			})
			record.Summary.Failed++
			continue
		}

		switch action {
		case "create":
			record.Summary.Created++
		case "update":
			record.Summary.Updated++
		case "delete":
			record.Summary.Deleted++
		default:
			continue
		}
		record.Files = append(record.Files, ResultFile{
			Action: action + "d",
			Source: source,
			Target: r.Item.URI(),
		})
	}

	return record
}

// WriteJSON writes v as indented JSON to path
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func actionName(item Item) string {
	switch item.Action {
	case ActionUpload:
		if item.Reason == ReasonNew {
			return "create"
		}
		return "update"
	case ActionDelete:
		return "delete"
	case ActionSkip:
		return "skip"
	default:
		return "unknown"
	}
}

func absolutePath(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}
