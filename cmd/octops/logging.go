package main

import (
	"context"
	"errors"
	"time"

	"github.com/yaegashi/octops/internal/logging"
	"github.com/yaegashi/octops/internal/metrics"
)

// withCmdRunLogger implements the Span pattern for CLI command logging.
// It emits a start log line and returns a context with logger attributes attached,
// plus a cleanup function to emit the success or failure log line.
//
// Usage:
//
//	ctx, cleanup := withCmdRunLogger(ctx, "provision.vagrant", hostname)
//	defer func() { cleanup(err) }()
//
// Log message format:
// - Start:   CMD:<operation>/S (with resourceId in logger attributes)
// - Success: CMD:<operation>/EOK (with err, elapsed in logger attributes)
// - Failure: CMD:<operation>/EFAIL (with err, elapsed in logger attributes)
//
// ExitCodeError is treated as EOK. All lines use INFO level. The outcome
// is also observed by the command metrics recorder in ctx.
func withCmdRunLogger(ctx context.Context, operation, resourceID string) (context.Context, func(err error)) {
	startAt := time.Now()

	logger := logging.FromContext(ctx).With("resourceId", resourceID)
	ctx = logging.WithLogger(ctx, logger)

	logger.Info(ctx, "CMD:"+operation+"/S")

	cleanup := func(err error) {
		d := time.Since(startAt)
		elapsed := d.Seconds()
		var msg, errStr string

		var exitCodeErr ExitCodeError
		isExitCodeErr := errors.As(err, &exitCodeErr)

		if err == nil || isExitCodeErr {
			msg = "CMD:" + operation + "/EOK"
			recorderFrom(ctx).Observe(operation, nil, d)
		} else {
			msg = "CMD:" + operation + "/EFAIL"
			errMsg := err.Error()
			if len(errMsg) > 32 {
				errStr = errMsg[:32] + "..."
			} else {
				errStr = errMsg
			}
			recorderFrom(ctx).Observe(operation, err, d)
		}

		if isExitCodeErr {
			logger.Info(ctx, msg, "err", errStr, "exitCode", exitCodeErr.Code, "elapsed", elapsed)
		} else {
			logger.Info(ctx, msg, "err", errStr, "elapsed", elapsed)
		}
	}

	return ctx, cleanup
}

type recorderKey struct{}

type logFileKey struct{}

func withRecorder(ctx context.Context, r *metrics.Recorder) context.Context {
	return context.WithValue(ctx, recorderKey{}, r)
}

// recorderFrom returns the recorder in ctx or nil. Recorder methods are
// nil-safe.
func recorderFrom(ctx context.Context) *metrics.Recorder {
	if ctx == nil {
		return nil
	}
	r, _ := ctx.Value(recorderKey{}).(*metrics.Recorder)
	return r
}

func withLogFile(ctx context.Context, lf *logging.LogFile) context.Context {
	return context.WithValue(ctx, logFileKey{}, lf)
}

func logFileFrom(ctx context.Context) *logging.LogFile {
	if ctx == nil {
		return nil
	}
	lf, _ := ctx.Value(logFileKey{}).(*logging.LogFile)
	return lf
}
