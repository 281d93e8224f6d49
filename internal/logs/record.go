package logs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// Record is one decoded line of the JSON log file.
type Record struct {
	Time      time.Time
	Level     slog.Level
	Message   string
	Component string
	RunID     string
	DyadID    string
	EventType string
	// Fields holds every other attribute.
	Fields map[string]any
}

// ParseRecord decodes one JSON log line.
func ParseRecord(line string) (Record, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Record{}, fmt.Errorf("decode log line: %w", err)
	}
	rec := Record{Fields: make(map[string]any)}
	for key, value := range raw {
		text, _ := value.(string)
		switch key {
		case "ts":
			if t, err := time.Parse(time.RFC3339, text); err == nil {
				rec.Time = t
			}
		case "level":
			if err := rec.Level.UnmarshalText([]byte(text)); err != nil {
				rec.Level = slog.LevelInfo
			}
		case "msg":
			rec.Message = text
		case "component":
			rec.Component = text
		case "run_id":
			rec.RunID = text
		case "dyad_id":
			rec.DyadID = text
		case "event_type":
			rec.EventType = text
		default:
			rec.Fields[key] = value
		}
	}
	return rec, nil
}

// Format renders the record on one line for terminal display.
func (r Record) Format() string {
	var b strings.Builder
	if !r.Time.IsZero() {
		b.WriteString(r.Time.Local().Format(time.DateTime))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s ", r.Level.String())
	if r.Component != "" {
		b.WriteString(r.Component)
		b.WriteString(": ")
	}
	if r.DyadID != "" {
		fmt.Fprintf(&b, "[dyad %s] ", r.DyadID)
	}
	b.WriteString(r.Message)

	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, r.Fields[k])
	}
	return b.String()
}

// Filter selects records. Zero fields match everything, debug records
// included.
type Filter struct {
	// RunID matches records whose run ID starts with this value.
	RunID  string
	DyadID string
	// MinLevel, when set, drops records below that level.
	MinLevel *slog.Level
}

// Match reports whether rec passes the filter.
func (f Filter) Match(rec Record) bool {
	if f.MinLevel != nil && rec.Level < *f.MinLevel {
		return false
	}
	if f.RunID != "" && !strings.HasPrefix(rec.RunID, f.RunID) {
		return false
	}
	if f.DyadID != "" && rec.DyadID != f.DyadID {
		return false
	}
	return true
}
