package logger

import (
	"encoding/json"
	"sync"
)

// LogEntry is a parsed zerolog line kept for the recent-logs endpoint.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Component string         `json:"component,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Recorder is an io.Writer that keeps the last N zerolog entries in a
// circular buffer.
type Recorder struct {
	mu      sync.RWMutex
	entries []LogEntry
	next    int
	full    bool
}

// NewRecorder creates a recorder holding at most size entries.
func NewRecorder(size int) *Recorder {
	if size <= 0 {
		size = 1
	}
	return &Recorder{entries: make([]LogEntry, size)}
}

// Write implements io.Writer. Lines that are not JSON objects are dropped.
func (r *Recorder) Write(p []byte) (int, error) {
	entry, ok := parseEntry(p)
	if !ok {
		return len(p), nil
	}

	r.mu.Lock()
	r.entries[r.next] = entry
	r.next = (r.next + 1) % len(r.entries)
	if r.next == 0 {
		r.full = true
	}
	r.mu.Unlock()

	return len(p), nil
}

// Entries returns the buffered entries from oldest to newest.
func (r *Recorder) Entries() []LogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.full {
		return append([]LogEntry(nil), r.entries[:r.next]...)
	}
	out := make([]LogEntry, 0, len(r.entries))
	out = append(out, r.entries[r.next:]...)
	return append(out, r.entries[:r.next]...)
}

// Len returns the number of buffered entries.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.full {
		return len(r.entries)
	}
	return r.next
}

func parseEntry(data []byte) (LogEntry, bool) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return LogEntry{}, false
	}

	entry := LogEntry{}
	take := func(key string) string {
		s, _ := raw[key].(string)
		delete(raw, key)
		return s
	}
	entry.Timestamp = take("time")
	entry.Level = take("level")
	entry.Component = take("component")
	entry.Message = take("message")

	if len(raw) > 0 {
		entry.Fields = raw
	}
	return entry, true
}
