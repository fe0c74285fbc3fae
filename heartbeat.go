package keepalive

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/guregu/null"
)

type HeartbeatResult struct {
	Started    time.Time
	Elapsed    time.Duration
	HttpStatus null.Int
	Err        error
	Icmp       *IcmpStatus
}

// Up reports whether the remote responded with exactly 204.
func (this HeartbeatResult) Up() bool {
	return this.Err == nil && this.HttpStatus.Valid && this.HttpStatus.Int64 == http.StatusNoContent
}

func (this *Prober) probeHeartbeat(ctx context.Context) HeartbeatResult {

	reqCtx, cancelReq := context.WithTimeout(ctx, this.Timeout)
	defer cancelReq()

	started := time.Now()

	req, err := this.newRequest(reqCtx, http.MethodGet, "/heartbeat", nil)
	if err != nil {
		return HeartbeatResult{Started: started, Err: err}
	}

	resp, err := this.client.Do(req)
	if err != nil {
		return HeartbeatResult{
			Started: started,
			Elapsed: time.Since(started),
			Err:     err,
		}
	}

	elapsed := time.Since(started)

	//	drain so the connection can be reused by the warm-up request
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return HeartbeatResult{
		Started:    started,
		Elapsed:    elapsed,
		HttpStatus: null.IntFrom(int64(resp.StatusCode)),
	}
}
