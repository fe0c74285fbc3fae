package keepalive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultInterval = 180 * time.Second
	DefaultTimeout  = 30 * time.Second
)

type ProberOptions struct {
	BaseUrl  string
	Interval time.Duration
	Timeout  time.Duration
	Headers  map[string]string

	// Stops the loop on heartbeat transport errors instead of logging them
	FatalHeartbeatErrors bool

	// Annotates heartbeat transport errors with an icmp check of the remote host. Optional.
	Pinger Pinger
}

// Prober keeps a remote service awake: every cycle it checks the heartbeat endpoint,
// then requests a throwaway set of signatures, then waits for the configured interval.
type Prober struct {
	ProberOptions

	client   *http.Client
	reporter Reporter
	baseUrl  *url.URL

	wait func(ctx context.Context, duration time.Duration) error
}

type Cycle struct {
	ID      uuid.UUID
	Started time.Time
	Target  string
}

func NewProber(opts ProberOptions, client *http.Client, reporter Reporter) (*Prober, error) {

	baseUrl, err := parseBaseUrl(opts.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("base url: %v", err)
	}

	if reporter == nil {
		return nil, errors.New("reporter is nil")
	}

	if client == nil {
		client = http.DefaultClient
	}

	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	return &Prober{
		ProberOptions: opts,
		client:        client,
		reporter:      reporter,
		baseUrl:       baseUrl,
		wait:          sleepContext,
	}, nil
}

// Run executes cycles until the context is cancelled.
// A non-nil error is only returned for heartbeat transport failures when FatalHeartbeatErrors is set.
func (this *Prober) Run(ctx context.Context) error {

	slog.Debug("Prober started",
		slog.String("url", this.baseUrl.String()),
		slog.Duration("interval", this.Interval),
		slog.Duration("timeout", this.Timeout))

	for ctx.Err() == nil {

		if err := this.Cycle(ctx); err != nil {

			if ctx.Err() != nil {
				break
			}

			return err
		}

		if err := this.wait(ctx, this.Interval); err != nil {
			break
		}
	}

	slog.Debug("Prober stopped")

	return nil
}

// Cycle performs a single heartbeat and warm-up probe pair.
// Probes interrupted by context cancellation are not reported; the context error is returned instead.
func (this *Prober) Cycle(ctx context.Context) error {

	cycle := Cycle{
		ID:      uuid.New(),
		Started: time.Now(),
		Target:  this.baseUrl.Host,
	}

	this.handleReportErr("WriteCycle", this.reporter.WriteCycle(ctx, cycle))

	heartbeat := this.probeHeartbeat(ctx)

	//	a cancelled cycle is not a failed one
	if err := ctx.Err(); err != nil {
		return err
	}

	if heartbeat.Err != nil && this.Pinger != nil {
		heartbeat.Icmp = this.diagnoseHost(ctx)
	}

	this.handleReportErr("WriteHeartbeat", this.reporter.WriteHeartbeat(ctx, cycle, heartbeat))

	if heartbeat.Err != nil && this.FatalHeartbeatErrors {
		return fmt.Errorf("heartbeat: %w", heartbeat.Err)
	}

	warmup := this.probeWarmup(ctx)

	if err := ctx.Err(); err != nil {
		return err
	}

	this.handleReportErr("WriteWarmup", this.reporter.WriteWarmup(ctx, cycle, warmup))

	return nil
}

func (this *Prober) diagnoseHost(ctx context.Context) *IcmpStatus {

	pingCtx, cancel := context.WithTimeout(ctx, this.Timeout)
	defer cancel()

	status, err := this.Pinger.Ping(pingCtx, this.baseUrl.Hostname())
	if err != nil {
		slog.Debug("Icmp diagnostics unavailable",
			slog.String("host", this.baseUrl.Hostname()),
			slog.String("err", err.Error()))
		return nil
	}

	return status
}

func (this *Prober) handleReportErr(op string, err error) {
	if err != nil {
		slog.Error("Reporter error",
			slog.String("op", op),
			slog.String("reporter", this.reporter.Type()),
			slog.String("err", err.Error()))
	}
}

func sleepContext(ctx context.Context, duration time.Duration) error {

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
