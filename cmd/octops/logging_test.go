package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/yaegashi/octops/internal/logging"
	"github.com/yaegashi/octops/internal/metrics"
)

func TestWithCmdRunLogger(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantMsg    string
		wantResult string
	}{
		{name: "success", err: nil, wantMsg: "CMD:provision.remote/EOK", wantResult: metrics.ResultSuccess},
		{name: "failure", err: errors.New("playbook provision/remote-up failed with a long message"), wantMsg: "CMD:provision.remote/EFAIL", wantResult: metrics.ResultFailure},
		{name: "exit code", err: ExitCodeError{Code: 3}, wantMsg: "CMD:provision.remote/EOK", wantResult: metrics.ResultSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := logging.NewWithWriter("text", slog.LevelInfo, &buf)
			if err != nil {
				t.Fatal(err)
			}
			rec := metrics.NewRecorder()
			ctx := withRecorder(logging.WithLogger(context.Background(), l), rec)

			_, cleanup := withCmdRunLogger(ctx, "provision.remote", "ci-host.example.com")
			cleanup(tt.err)

			out := buf.String()
			if !strings.Contains(out, "CMD:provision.remote/S") || !strings.Contains(out, tt.wantMsg) {
				t.Fatalf("log output = %q", out)
			}
			if !strings.Contains(out, "resourceId=ci-host.example.com") {
				t.Errorf("resourceId missing from %q", out)
			}
			if tt.wantResult == metrics.ResultFailure && !strings.Contains(out, "...") {
				t.Errorf("long error not truncated: %q", out)
			}
			n, err := testutil.GatherAndCount(rec.Registry(), "octops_command_total")
			if err != nil {
				t.Fatal(err)
			}
			if n != 1 {
				t.Fatalf("octops_command_total series = %d, want 1", n)
			}
			want := `octops_command_total{operation="provision.remote",result="` + tt.wantResult + `"} 1`
			if got := gatherText(t, rec); !strings.Contains(got, want) {
				t.Errorf("metrics missing %q in:\n%s", want, got)
			}
		})
	}
}

func TestRecorderFrom_Missing(t *testing.T) {
	if r := recorderFrom(context.Background()); r != nil {
		t.Fatalf("recorderFrom() = %v, want nil", r)
	}
	// nil recorder is safe to use
	recorderFrom(context.Background()).Observe("x", nil, 0)
	if lf := logFileFrom(context.Background()); lf != nil {
		t.Fatalf("logFileFrom() = %v, want nil", lf)
	}
}

func gatherText(t *testing.T, rec *metrics.Recorder) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "m.prom")
	if err := rec.WriteTextfile(path); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}
