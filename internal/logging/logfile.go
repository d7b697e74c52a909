package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	logFilePrefix = "octops-"
	logFileSuffix = ".log"
)

// Options configures the logger built by Setup.
type Options struct {
	Format        string // "human" (default), "text" or "json"
	Level         string // "DEBUG", "INFO" (default), "WARN", "ERROR"
	Dir           string // When set, every run also writes a JSON log file here
	RetentionDays int    // Days to retain run log files, 0 keeps them all
}

// LogFile is a per-run log file.
type LogFile struct {
	Path string
	file *os.File
}

// OpenLogFile creates a new run log file in dir.
func OpenLogFile(dir string, now time.Time) (*LogFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory %q: %w", dir, err)
	}
	path := filepath.Join(dir, GenerateLogFilename(now.UTC()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", path, err)
	}
	return &LogFile{Path: path, file: f}, nil
}

// Writer returns the io.Writer for log output.
func (lf *LogFile) Writer() io.Writer {
	if lf == nil || lf.file == nil {
		return io.Discard
	}
	return lf.file
}

// Close closes the log file if it was opened.
func (lf *LogFile) Close() error {
	if lf == nil || lf.file == nil {
		return nil
	}
	return lf.file.Close()
}

// Setup builds the logger for one run. Console output goes to stderr in
// the requested format; with Dir set, the same records are also written
// as JSON to a fresh run log file and expired files are pruned.
func Setup(opts Options, stderr io.Writer) (Logger, *LogFile, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	console, err := NewWithWriter(opts.Format, level, stderr)
	if err != nil {
		return nil, nil, err
	}
	if opts.Dir == "" {
		return console, nil, nil
	}
	if err := CleanupOldLogFiles(opts.Dir, opts.RetentionDays); err != nil {
		console.Warn(context.Background(), "log cleanup failed", "dir", opts.Dir, "error", err)
	}
	lf, err := OpenLogFile(opts.Dir, time.Now())
	if err != nil {
		return nil, nil, err
	}
	file := slog.NewJSONHandler(lf.Writer(), &slog.HandlerOptions{Level: slog.LevelDebug})
	return Tee(console, &slogLogger{l: slog.New(file)}), lf, nil
}

// ParseLevel maps a level name to a slog level. Empty means INFO.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "INFO":
		return slog.LevelInfo, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unsupported log level: %s", s)
	}
}

// GenerateLogFilename generates a log filename with format:
// octops-YYYYMMDD-HHMMSS-sss.log
// where sss is milliseconds. Uses UTC timezone.
func GenerateLogFilename(t time.Time) string {
	return fmt.Sprintf("%s%s-%03d%s",
		logFilePrefix,
		t.Format("20060102-150405"),
		t.Nanosecond()/1_000_000,
		logFileSuffix)
}

// CleanupOldLogFiles removes log files older than retentionDays from the directory.
// It only deletes files matching the pattern "octops-*.log".
func CleanupOldLogFiles(dir string, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading log directory %q: %w", dir, err)
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, logFileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
	return nil
}
