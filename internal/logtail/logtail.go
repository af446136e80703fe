package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// zap's ISO8601 time encoder layout.
const timeLayout = "2006-01-02T15:04:05.000Z0700"

// Entry is one decoded log line. Lines that are not JSON come back with only
// Raw set and Level info.
type Entry struct {
	Time    time.Time
	Level   zapcore.Level
	Logger  string
	Message string
	Caller  string
	Fields  map[string]any
	Raw     string
	Parsed  bool
}

// Parse decodes a zap JSON line.
func Parse(line string) Entry {
	e := Entry{Raw: line, Level: zapcore.InfoLevel}
	var fields map[string]any
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return e
	}
	e.Parsed = true
	if lvl, ok := fields["level"].(string); ok {
		_ = e.Level.UnmarshalText([]byte(lvl))
	}
	if ts, ok := fields["ts"].(string); ok {
		e.Time, _ = time.Parse(timeLayout, ts)
	}
	e.Logger, _ = fields["logger"].(string)
	e.Message, _ = fields["msg"].(string)
	e.Caller, _ = fields["caller"].(string)
	for _, k := range []string{"level", "ts", "logger", "msg", "caller", "stacktrace"} {
		delete(fields, k)
	}
	if len(fields) > 0 {
		e.Fields = fields
	}
	return e
}

// Format renders e on one line: time, level, logger, message, then the
// remaining fields sorted by key.
func (e Entry) Format() string {
	if !e.Parsed {
		return e.Raw
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("2006-01-02 15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s", e.Level.CapitalString())
	if e.Logger != "" {
		b.WriteString(" [" + e.Logger + "]")
	}
	b.WriteString(" " + e.Message)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
	}
	return b.String()
}

// Read returns the last maxLines lines of the file at path, all of them when
// maxLines <= 0. A missing file is empty.
func Read(path string, maxLines int) ([]string, error) {
	entries, err := Tail(path, maxLines, zapcore.DebugLevel)
	if err != nil {
		return nil, err
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Raw
	}
	return lines, nil
}

// Tail returns the last maxLines entries at or above minLevel.
func Tail(path string, maxLines int, minLevel zapcore.Level) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()
	return tail(file, maxLines, minLevel)
}

func tail(r io.Reader, maxLines int, minLevel zapcore.Level) ([]Entry, error) {
	var ring []Entry
	next := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		e := Parse(scanner.Text())
		if e.Level < minLevel {
			continue
		}
		if maxLines <= 0 || len(ring) < maxLines {
			ring = append(ring, e)
			continue
		}
		ring[next] = e
		next = (next + 1) % maxLines
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	// Oldest entry sits at next once the ring has wrapped.
	return slices.Concat(ring[next:], ring[:next]), nil
}
