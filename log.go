package keepalive

import (
	"context"
	"log/slog"
)

const (
	cycleTimeFormat = "January 2, 2006, 15:04"
	probeTimeFormat = "15:04:05"
)

// LogReporter writes one log record per cycle step. A nil Logger means slog.Default().
type LogReporter struct {
	Logger *slog.Logger
}

func (this *LogReporter) Type() string {
	return "log"
}

func (this *LogReporter) logger() *slog.Logger {
	if this.Logger == nil {
		return slog.Default()
	}
	return this.Logger
}

func (this *LogReporter) WriteCycle(ctx context.Context, cycle Cycle) error {

	this.logger().InfoContext(ctx, "Keeping service alive",
		slog.String("service", cycle.Target),
		slog.String("on", cycle.Started.Format(cycleTimeFormat)),
		slog.String("cycle", cycle.ID.String()))

	return nil
}

func (this *LogReporter) WriteHeartbeat(ctx context.Context, cycle Cycle, result HeartbeatResult) error {

	switch {

	case result.Up():
		this.logger().InfoContext(ctx, "Heartbeat received",
			slog.String("at", result.Started.Format(probeTimeFormat)),
			slog.Int64("elapsed_ms", result.Elapsed.Milliseconds()),
			slog.String("cycle", cycle.ID.String()))

	case result.Err == nil:
		this.logger().WarnContext(ctx, "Heartbeat failed",
			slog.String("at", result.Started.Format(probeTimeFormat)),
			slog.Int64("elapsed_ms", result.Elapsed.Milliseconds()),
			slog.Int64("status", result.HttpStatus.Int64),
			slog.String("cycle", cycle.ID.String()))

	default:

		attrs := []any{
			slog.Int64("elapsed_ms", result.Elapsed.Milliseconds()),
			slog.String("err", result.Err.Error()),
			slog.String("cycle", cycle.ID.String()),
		}

		if result.Icmp != nil {
			attrs = append(attrs, slog.Bool("icmp_reachable", result.Icmp.Reachable))
			if result.Icmp.Reachable {
				attrs = append(attrs, slog.Int64("icmp_rtt_ms", result.Icmp.Rtt.Milliseconds()))
			}
		}

		this.logger().ErrorContext(ctx, "Heartbeat request error", attrs...)
	}

	return nil
}

func (this *LogReporter) WriteWarmup(ctx context.Context, cycle Cycle, result WarmupResult) error {

	finished := result.Started.Add(result.Elapsed)

	switch result.Outcome {

	case WarmupOk:
		this.logger().InfoContext(ctx, "Signatures received",
			slog.String("at", finished.Format(probeTimeFormat)),
			slog.Int64("elapsed_ms", result.Elapsed.Milliseconds()),
			slog.String("cycle", cycle.ID.String()))

	case WarmupDecodeError:
		this.logger().WarnContext(ctx, "Failed to create signatures",
			slog.String("at", finished.Format(probeTimeFormat)),
			slog.Int64("elapsed_ms", result.Elapsed.Milliseconds()),
			slog.String("err", errString(result.Err)),
			slog.String("cycle", cycle.ID.String()))

	case WarmupStatusError:
		this.logger().ErrorContext(ctx, "Signatures request failed",
			slog.Int64("elapsed_ms", result.Elapsed.Milliseconds()),
			slog.Int64("status", result.HttpStatus.Int64),
			slog.String("cycle", cycle.ID.String()))

	default:
		this.logger().ErrorContext(ctx, "Signatures request error",
			slog.Int64("elapsed_ms", result.Elapsed.Milliseconds()),
			slog.String("err", errString(result.Err)),
			slog.String("cycle", cycle.ID.String()))
	}

	return nil
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}
