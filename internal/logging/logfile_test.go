package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGenerateLogFilename(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected string
	}{
		{
			name:     "basic timestamp",
			time:     time.Date(2025, 12, 13, 9, 51, 5, 123000000, time.UTC),
			expected: "octops-20251213-095105-123.log",
		},
		{
			name:     "midnight",
			time:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: "octops-20250101-000000-000.log",
		},
		{
			name:     "milliseconds precision",
			time:     time.Date(2025, 6, 15, 12, 30, 45, 456789000, time.UTC),
			expected: "octops-20250615-123045-456.log",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GenerateLogFilename(tt.time)
			if result != tt.expected {
				t.Errorf("GenerateLogFilename() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"", "info", "DEBUG", "warn", "Error"} {
		if _, err := ParseLevel(s); err != nil {
			t.Errorf("ParseLevel(%q) error = %v", s, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) should fail")
	}
}

func TestSetup_ConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	l, lf, err := Setup(Options{Format: "json", Level: "info"}, &buf)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if lf != nil {
		t.Fatalf("no log file expected without Dir, got %q", lf.Path)
	}
	l.Debug(context.Background(), "hidden")
	l.Info(context.Background(), "shown", "k", "v")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"k":"v"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestSetup_WithDir(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	l, lf, err := Setup(Options{Format: "text", Level: "warn", Dir: dir, RetentionDays: 7}, &buf)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	l = l.With("runId", "r1")
	l.Info(context.Background(), "detail")
	if err := lf.Close(); err != nil {
		t.Fatal(err)
	}

	if strings.Contains(buf.String(), "detail") {
		t.Errorf("console must honor the level: %s", buf.String())
	}
	if filepath.Dir(lf.Path) != dir {
		t.Fatalf("log file %q not in %q", lf.Path, dir)
	}
	b, err := os.ReadFile(lf.Path)
	if err != nil {
		t.Fatal(err)
	}
	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(b), &rec); err != nil {
		t.Fatalf("log file is not JSON: %v: %s", err, b)
	}
	if rec["msg"] != "detail" || rec["runId"] != "r1" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestSetup_BadFormat(t *testing.T) {
	if _, _, err := Setup(Options{Format: "xml"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLogFile_NilSafe(t *testing.T) {
	var lf *LogFile
	if lf.Writer() == nil {
		t.Error("Writer should not be nil")
	}
	if err := lf.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestCleanupOldLogFiles(t *testing.T) {
	dir := t.TempDir()

	oldTime := time.Now().AddDate(0, 0, -10)
	newTime := time.Now().AddDate(0, 0, -3)

	oldFile := filepath.Join(dir, "octops-20251201-120000-000.log")
	newFile := filepath.Join(dir, "octops-20251210-120000-000.log")
	otherFile := filepath.Join(dir, "other.log")
	for _, f := range []string{oldFile, newFile, otherFile} {
		if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	for f, ts := range map[string]time.Time{oldFile: oldTime, newFile: newTime, otherFile: oldTime} {
		if err := os.Chtimes(f, ts, ts); err != nil {
			t.Fatal(err)
		}
	}

	if err := CleanupOldLogFiles(dir, 7); err != nil {
		t.Fatalf("CleanupOldLogFiles() error = %v", err)
	}

	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Error("old file should have been deleted")
	}
	if _, err := os.Stat(newFile); err != nil {
		t.Error("new file should still exist")
	}
	if _, err := os.Stat(otherFile); err != nil {
		t.Error("non-matching file should still exist")
	}
}

func TestCleanupOldLogFiles_NonExistentDir(t *testing.T) {
	if err := CleanupOldLogFiles(filepath.Join(t.TempDir(), "missing"), 7); err != nil {
		t.Errorf("CleanupOldLogFiles() error = %v", err)
	}
}

func TestCleanupOldLogFiles_ZeroRetention(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "octops-20251201-120000-000.log")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().AddDate(0, 0, -100)
	if err := os.Chtimes(file, old, old); err != nil {
		t.Fatal(err)
	}
	if err := CleanupOldLogFiles(dir, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(file); err != nil {
		t.Error("file should be kept with zero retention")
	}
}
