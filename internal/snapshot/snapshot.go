// Package snapshot loads task snapshots from disk. A snapshot is the
// read-only input handed to the scheduling engine; TOML and JSON files are
// both accepted so snapshots can be hand-edited or machine-generated.
package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"critpath/internal/core/errors"
	"critpath/internal/task"
)

type fileTask struct {
	ID        string `toml:"id" json:"id"`
	Title     string `toml:"title" json:"title"`
	Status    string `toml:"status" json:"status"`
	StartDate string `toml:"start_date" json:"start_date"`
	DueDate   string `toml:"due_date" json:"due_date"`
}

type fileDependency struct {
	From string `toml:"from" json:"from"`
	To   string `toml:"to" json:"to"`
	Kind string `toml:"kind" json:"kind"`
}

type file struct {
	Tasks        []fileTask       `toml:"tasks" json:"tasks"`
	Dependencies []fileDependency `toml:"dependencies" json:"dependencies"`
}

// Load reads a snapshot file and returns its tasks and dependency edges in
// file order. The format is chosen by extension; anything that is not .json
// is parsed as TOML.
func Load(path string) ([]task.Task, []task.Dependency, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.CodeValidationError, "read snapshot file")
	}

	var f file
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, nil, errors.Wrap(err, errors.CodeValidationError, "parse json snapshot")
		}
	} else {
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, nil, errors.Wrap(err, errors.CodeValidationError, "parse toml snapshot")
		}
	}

	return convert(f)
}

func convert(f file) ([]task.Task, []task.Dependency, error) {
	tasks := make([]task.Task, 0, len(f.Tasks))
	for _, ft := range f.Tasks {
		t := task.Task{
			ID:    strings.TrimSpace(ft.ID),
			Title: strings.TrimSpace(ft.Title),
		}
		if t.ID == "" {
			t.ID = uuid.New().String()
		}

		if ft.Status != "" {
			if !task.IsValidStatus(ft.Status) {
				return nil, nil, errors.New(errors.CodeValidationError, "unknown task status").
					WithContext(errors.CtxTaskID, t.ID).
					WithContext("status", ft.Status)
			}
			t.Status = task.Status(ft.Status)
		}

		start, err := parseDateField(ft.StartDate, "start_date", t.ID)
		if err != nil {
			return nil, nil, err
		}
		t.StartDate = start

		due, err := parseDateField(ft.DueDate, "due_date", t.ID)
		if err != nil {
			return nil, nil, err
		}
		t.DueDate = due

		tasks = append(tasks, t)
	}

	deps := make([]task.Dependency, 0, len(f.Dependencies))
	for _, fd := range f.Dependencies {
		kind := strings.TrimSpace(fd.Kind)
		if kind == "" {
			kind = string(task.KindFinishToStart)
		}
		if !task.IsValidKind(kind) {
			return nil, nil, errors.New(errors.CodeValidationError, "unknown dependency kind").
				WithContext(errors.CtxFrom, fd.From).
				WithContext(errors.CtxTo, fd.To).
				WithContext(errors.CtxKind, kind)
		}
		deps = append(deps, task.Dependency{
			From: strings.TrimSpace(fd.From),
			To:   strings.TrimSpace(fd.To),
			Kind: task.DependencyKind(kind),
		})
	}

	return tasks, deps, nil
}

func parseDateField(value, field, taskID string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed, nil
		}
	}
	return nil, errors.New(errors.CodeValidationError, "unrecognized date in "+field).
		WithContext(errors.CtxTaskID, taskID).
		WithContext("value", value)
}
