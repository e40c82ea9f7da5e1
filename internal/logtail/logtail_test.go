package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "hunter.log")

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
		{
			name:     "zero lines",
			maxLines: 0,
			expected: nil,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
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

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != nil {
		t.Fatalf("Read() = %v, want nil", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		level     logrus.Level
		hasLevel  bool
		message   string
		component string
		fields    map[string]string
	}{
		{
			name:      "logrus text line",
			input:     `time="2026-10-18 09:12:01" level=warning msg="search failed" component=search error="api POST /api/search returned status 500: 模型未加载" query=猫`,
			level:     logrus.WarnLevel,
			hasLevel:  true,
			message:   "search failed",
			component: "search",
			fields: map[string]string{
				"error": "api POST /api/search returned status 500: 模型未加载",
				"query": "猫",
			},
		},
		{
			name:     "escaped quotes",
			input:    `level=info msg="folder \"holiday\" added"`,
			level:    logrus.InfoLevel,
			hasLevel: true,
			message:  `folder "holiday" added`,
		},
		{
			name:    "plain text",
			input:   "panic: something went wrong",
			message: "panic: something went wrong",
		},
		{
			name:    "unterminated quote",
			input:   `level=info msg="oops`,
			message: `level=info msg="oops`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Parse(tt.input)
			if e.HasLevel != tt.hasLevel || (tt.hasLevel && e.Level != tt.level) {
				t.Fatalf("level = %v/%v, want %v/%v", e.Level, e.HasLevel, tt.level, tt.hasLevel)
			}
			if e.Message != tt.message {
				t.Fatalf("Message = %q, want %q", e.Message, tt.message)
			}
			if e.Component != tt.component {
				t.Fatalf("Component = %q, want %q", e.Component, tt.component)
			}
			if !reflect.DeepEqual(e.Fields, tt.fields) {
				t.Fatalf("Fields = %v, want %v", e.Fields, tt.fields)
			}
			if e.Raw != tt.input {
				t.Fatalf("Raw = %q, want input", e.Raw)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	lines := []string{
		`level=debug msg="request sent" component=api`,
		`level=info msg="index started" component=tracker`,
		``,
		`level=warning msg="stats poll failed" component=poller`,
		`level=error msg="boom"`,
		`goroutine 1 [running]:`,
	}

	got := Filter(lines, logrus.WarnLevel)
	var msgs []string
	for _, e := range got {
		msgs = append(msgs, e.Message)
	}
	want := []string{"stats poll failed", "boom", "goroutine 1 [running]:"}
	if !reflect.DeepEqual(msgs, want) {
		t.Fatalf("Filter(warn) = %v, want %v", msgs, want)
	}

	if n := len(Filter(lines, logrus.TraceLevel)); n != 5 {
		t.Fatalf("Filter(trace) kept %d entries, want 5", n)
	}
}
