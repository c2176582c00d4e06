package logtail

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Entry is one structured log line as written by the zap JSON encoder.
type Entry struct {
	Time    time.Time
	Level   string
	Logger  string
	Message string
	// Fields holds the remaining keys rendered as key=value, sorted by key.
	Fields []string
	// Raw is set when the line was not JSON.
	Raw string
}

var reservedKeys = map[string]struct{}{
	"ts": {}, "level": {}, "logger": {}, "msg": {}, "caller": {}, "stacktrace": {},
}

// Parse decodes a zap JSON line. Lines that are not JSON objects come back
// with only Raw set.
func Parse(line string) Entry {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return Entry{Raw: line}
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return Entry{Raw: line}
	}

	var e Entry
	if v, ok := payload["ts"]; ok {
		e.Time = parseTime(v)
	}
	e.Level = strings.ToUpper(stringValue(payload["level"]))
	e.Logger = stringValue(payload["logger"])
	e.Message = stringValue(payload["msg"])

	keys := make([]string, 0, len(payload))
	for k := range payload {
		if _, skip := reservedKeys[k]; !skip {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		e.Fields = append(e.Fields, k+"="+fieldValue(payload[k]))
	}
	return e
}

// Part names a segment of a rendered entry.
type Part int

const (
	PartRaw Part = iota
	PartTime
	PartLevel
	PartLogger
	PartMessage
	PartFields
)

// Segment is one piece of a rendered entry.
type Segment struct {
	Part Part
	Text string
}

// Segments splits the entry into the pieces of its one-line form: time,
// level padded to five columns, [logger], message, fields. Entries that were
// not JSON yield a single PartRaw segment.
func (e Entry) Segments() []Segment {
	if e.Raw != "" || (e.Message == "" && e.Level == "") {
		return []Segment{{Part: PartRaw, Text: e.Raw}}
	}
	segs := make([]Segment, 0, 5)
	if !e.Time.IsZero() {
		segs = append(segs, Segment{PartTime, e.Time.Local().Format("15:04:05")})
	}
	segs = append(segs, Segment{PartLevel, fmt.Sprintf("%-5s", e.Level)})
	if e.Logger != "" {
		segs = append(segs, Segment{PartLogger, "[" + e.Logger + "]"})
	}
	segs = append(segs, Segment{PartMessage, e.Message})
	if len(e.Fields) > 0 {
		segs = append(segs, Segment{PartFields, strings.Join(e.Fields, " ")})
	}
	return segs
}

// String renders the entry as a single plain line.
func (e Entry) String() string {
	segs := e.Segments()
	texts := make([]string, len(segs))
	for i, s := range segs {
		texts[i] = s.Text
	}
	return strings.Join(texts, " ")
}

func parseTime(raw json.RawMessage) time.Time {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		for _, layout := range []string{"2006-01-02T15:04:05.000Z0700", time.RFC3339Nano} {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		return time.Time{}
	}
	var secs float64
	if json.Unmarshal(raw, &secs) == nil {
		return time.Unix(0, int64(secs*float64(time.Second)))
	}
	return time.Time{}
}

func stringValue(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return ""
}

func fieldValue(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		if strings.ContainsAny(s, " \t") {
			return fmt.Sprintf("%q", s)
		}
		return s
	}
	return string(raw)
}
