package queue

import (
	"strconv"
	"strings"
	"time"
)

const (
	EventStatusSuccess    = "success"
	EventStatusBestEffort = "best_effort"
	EventStatusError      = "error"
)

// PitchEvent records the outcome of one generation request.
type PitchEvent struct {
	EventID         int64
	RequestID       string
	Repo            string // host/owner/name
	Status          string
	Attempts        int
	InvalidSections []string
	Duration        time.Duration
	ErrorType       string
	StreamID        string // set when read back from the stream
}

func (e PitchEvent) values() map[string]any {
	fields := map[string]any{
		"event_id":    e.EventID,
		"request_id":  e.RequestID,
		"repo":        e.Repo,
		"status":      e.Status,
		"attempts":    e.Attempts,
		"duration_ms": e.Duration.Milliseconds(),
	}
	if len(e.InvalidSections) > 0 {
		fields["invalid_sections"] = strings.Join(e.InvalidSections, ",")
	}
	if e.ErrorType != "" {
		fields["error_type"] = e.ErrorType
	}
	return fields
}

func parseEvent(id string, values map[string]any) PitchEvent {
	e := PitchEvent{
		StreamID:  id,
		RequestID: stringValue(values, "request_id"),
		Repo:      stringValue(values, "repo"),
		Status:    stringValue(values, "status"),
		ErrorType: stringValue(values, "error_type"),
	}
	if v, err := strconv.ParseInt(stringValue(values, "event_id"), 10, 64); err == nil {
		e.EventID = v
	}
	if v, err := strconv.Atoi(stringValue(values, "attempts")); err == nil {
		e.Attempts = v
	}
	if v, err := strconv.ParseInt(stringValue(values, "duration_ms"), 10, 64); err == nil {
		e.Duration = time.Duration(v) * time.Millisecond
	}
	if s := stringValue(values, "invalid_sections"); s != "" {
		e.InvalidSections = strings.Split(s, ",")
	}
	return e
}

func stringValue(values map[string]any, key string) string {
	switch v := values[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}
