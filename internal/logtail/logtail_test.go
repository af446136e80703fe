package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestRead(t *testing.T) {
	// Create a temporary log file
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	// Write 10 lines of content
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "read all (0)", maxLines: 0, expected: expectedAll},
		{name: "read all (negative)", maxLines: -1, expected: expectedAll},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read partial (3)", maxLines: 3, expected: expectedAll[7:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Read() = %v, want nothing", got)
	}
}

func TestParse(t *testing.T) {
	line := `{"level":"warn","ts":"2026-10-19T08:30:00.000Z","logger":"navigator.collection","caller":"collection/controller.go:42","msg":"load failed","collection":"user_goals","failures":2}`
	e := Parse(line)

	if !e.Parsed {
		t.Fatal("Parse() did not decode a zap line")
	}
	if e.Level != zapcore.WarnLevel {
		t.Errorf("Level = %v, want warn", e.Level)
	}
	if e.Time.UTC().Hour() != 8 || e.Time.Minute() != 30 {
		t.Errorf("Time = %v", e.Time)
	}
	if e.Logger != "navigator.collection" || e.Message != "load failed" {
		t.Errorf("Logger/Message = %q/%q", e.Logger, e.Message)
	}
	want := map[string]any{"collection": "user_goals", "failures": float64(2)}
	if !reflect.DeepEqual(e.Fields, want) {
		t.Errorf("Fields = %v, want %v", e.Fields, want)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		exact    string
	}{
		{
			name:  "plain text passes through",
			input: "panic: something broke",
			exact: "panic: something broke",
		},
		{
			name:  "empty line",
			input: "",
			exact: "",
		},
		{
			name:  "fields sorted after message",
			input: `{"level":"info","logger":"navigator","msg":"navigator started","z":1,"backend":"sqlite"}`,
			exact: "INFO  [navigator] navigator started backend=sqlite z=1",
		},
		{
			name:     "timestamp rendered",
			input:    `{"level":"error","ts":"2026-10-19T08:30:00.000Z","msg":"boom"}`,
			contains: []string{"2026-10-19", "ERROR boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input).Format()
			if tt.exact != "" || len(tt.contains) == 0 {
				if got != tt.exact {
					t.Errorf("Format() = %q, want %q", got, tt.exact)
				}
				return
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Format() = %q, missing %q", got, want)
				}
			}
		})
	}
}

func TestTailFiltersByLevel(t *testing.T) {
	input := strings.Join([]string{
		`{"level":"debug","msg":"d1"}`,
		`{"level":"warn","msg":"w1"}`,
		`{"level":"info","msg":"i1"}`,
		`{"level":"error","msg":"e1"}`,
		`{"level":"warn","msg":"w2"}`,
		`{"level":"debug","msg":"d2"}`,
	}, "\n")

	got, err := tail(strings.NewReader(input), 2, zapcore.WarnLevel)
	if err != nil {
		t.Fatalf("tail() error = %v", err)
	}
	var msgs []string
	for _, e := range got {
		msgs = append(msgs, e.Message)
	}
	if want := []string{"e1", "w2"}; !reflect.DeepEqual(msgs, want) {
		t.Errorf("tail() = %v, want %v", msgs, want)
	}
}
