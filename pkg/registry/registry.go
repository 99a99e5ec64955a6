// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// Save writes reg as indented JSON and stamps LastUpdated.
func Save(path string, reg *ActivityRegistry) error {
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Find returns the activity bound to taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Validate checks required fields, uniqueness of ids and task types, the
// implementation status and the timeout format. All problems are returned
// together.
func (r *ActivityRegistry) Validate() error {
	var errs []error
	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)

	for i, a := range r.Activities {
		where := fmt.Sprintf("activity %d (%s)", i, a.ID)
		if a.ID == "" || a.TaskType == "" || a.DisplayName == "" || a.Category == "" {
			errs = append(errs, fmt.Errorf("%s: id, taskType, displayName and category are required", where))
		}
		if a.ID != "" {
			if ids[a.ID] {
				errs = append(errs, fmt.Errorf("%s: duplicate id", where))
			}
			ids[a.ID] = true
		}
		if a.TaskType != "" {
			if taskTypes[a.TaskType] {
				errs = append(errs, fmt.Errorf("%s: duplicate taskType %q", where, a.TaskType))
			}
			taskTypes[a.TaskType] = true
		}
		switch a.ImplementationStatus {
		case StatusPlanned, StatusInProgress, StatusCompleted, StatusVerified:
		default:
			errs = append(errs, fmt.Errorf("%s: unknown implementationStatus %q", where, a.ImplementationStatus))
		}
		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid timeout %q", where, a.Timeout))
			}
		}
		if a.Retries < 0 {
			errs = append(errs, fmt.Errorf("%s: retries must not be negative", where))
		}
	}
	return errors.Join(errs...)
}
