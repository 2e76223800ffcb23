package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Status is the stored spelling of a task status. Callers see the hyphenated
// spelling through String and the JSON/YAML encoders.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// statusNames maps every stored status to its external spelling.
var statusNames = map[Status]string{
	StatusNotStarted: "not-started",
	StatusInProgress: "in-progress",
	StatusDone:       "done",
}

// Statuses lists the known statuses in workflow order.
func Statuses() []Status {
	return []Status{StatusNotStarted, StatusInProgress, StatusDone}
}

// ParseStatus accepts either the external or the stored spelling.
func ParseStatus(raw string) (Status, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	for stored, external := range statusNames {
		if s == external || s == string(stored) {
			return stored, nil
		}
	}
	return "", fmt.Errorf("invalid status %q: expected one of not-started, in-progress, done", raw)
}

// String returns the external spelling.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return string(s)
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Status) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

func (s *Status) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseStatus(value.Value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Priority is a task priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority validates a priority; an empty value yields PriorityMedium.
func ParsePriority(raw string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", fmt.Errorf("invalid priority %q: expected one of low, medium, high", raw)
	}
}
