package exporters

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/maddsua/keepalive"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// PushReporter pushes the gathered metrics to a prometheus pushgateway after every probe.
// It has to be placed after the reporter that updates the metrics.
type PushReporter struct {
	pusher  *push.Pusher
	hostUrl url.URL
}

func NewPushReporter(hostUrl string, job string, gatherer prometheus.Gatherer) (*PushReporter, error) {

	hostUrl = strings.TrimSpace(hostUrl)
	if !strings.Contains(hostUrl, "://") {
		hostUrl = "http://" + hostUrl
	}

	baseUrl, err := url.Parse(hostUrl)
	if err != nil {
		return nil, err
	}

	switch baseUrl.Scheme {
	case "http", "https":
		break
	default:
		return nil, fmt.Errorf("unsupported protocol scheme '%s'", baseUrl.Scheme)
	}

	if baseUrl.Host == "" {
		return nil, fmt.Errorf("missing url host")
	}

	this := &PushReporter{hostUrl: url.URL{
		Scheme: baseUrl.Scheme,
		Host:   baseUrl.Host,
		User:   baseUrl.User,
		Path:   baseUrl.Path,
	}}

	pusher := push.New(this.hostUrl.String(), job).
		Gatherer(gatherer).
		Client(&http.Client{Timeout: 10 * time.Second})

	if hostname, err := os.Hostname(); err == nil {
		pusher = pusher.Grouping("instance", hostname)
	}

	this.pusher = pusher

	return this, nil
}

func (this *PushReporter) Type() string {
	return "pushgateway"
}

func (this *PushReporter) WriteCycle(ctx context.Context, cycle keepalive.Cycle) error {
	return nil
}

func (this *PushReporter) WriteHeartbeat(ctx context.Context, cycle keepalive.Cycle, result keepalive.HeartbeatResult) error {
	return this.push(ctx)
}

func (this *PushReporter) WriteWarmup(ctx context.Context, cycle keepalive.Cycle, result keepalive.WarmupResult) error {
	return this.push(ctx)
}

func (this *PushReporter) push(ctx context.Context) error {
	if err := this.pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push %s: %v", this.hostUrl.Host, err)
	}
	return nil
}
