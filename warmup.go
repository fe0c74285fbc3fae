package keepalive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/guregu/null"
)

type WarmupOutcome int

const (
	WarmupOk WarmupOutcome = iota
	WarmupTransportError
	WarmupStatusError
	WarmupDecodeError
)

func (this WarmupOutcome) String() string {
	switch this {
	case WarmupOk:
		return "ok"
	case WarmupTransportError:
		return "transport_error"
	case WarmupStatusError:
		return "status_error"
	case WarmupDecodeError:
		return "decode_error"
	default:
		return "unknown"
	}
}

type WarmupResult struct {
	Started    time.Time
	Elapsed    time.Duration
	Outcome    WarmupOutcome
	HttpStatus null.Int
	Signatures *SignaturesResponse
	Err        error
}

type createSignaturesRequest struct {
	Save bool `json:"save"`
}

func (this *Prober) probeWarmup(ctx context.Context) WarmupResult {

	reqCtx, cancelReq := context.WithTimeout(ctx, this.Timeout)
	defer cancelReq()

	started := time.Now()

	body, err := json.Marshal(createSignaturesRequest{Save: false})
	if err != nil {
		return WarmupResult{Started: started, Outcome: WarmupTransportError, Err: fmt.Errorf("json.Marshal: %v", err)}
	}

	req, err := this.newRequest(reqCtx, http.MethodPost, "/signatures/create", bytes.NewReader(body))
	if err != nil {
		return WarmupResult{Started: started, Outcome: WarmupTransportError, Err: err}
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := this.client.Do(req)
	if err != nil {
		return WarmupResult{
			Started: started,
			Elapsed: time.Since(started),
			Outcome: WarmupTransportError,
			Err:     err,
		}
	}

	defer resp.Body.Close()

	if !isOkStatus(resp.StatusCode) {
		return WarmupResult{
			Started:    started,
			Elapsed:    time.Since(started),
			Outcome:    WarmupStatusError,
			HttpStatus: null.IntFrom(int64(resp.StatusCode)),
		}
	}

	signatures, err := DecodeSignatures(resp.Body)
	if err != nil {
		return WarmupResult{
			Started:    started,
			Elapsed:    time.Since(started),
			Outcome:    WarmupDecodeError,
			HttpStatus: null.IntFrom(int64(resp.StatusCode)),
			Err:        err,
		}
	}

	return WarmupResult{
		Started:    started,
		Elapsed:    time.Since(started),
		Outcome:    WarmupOk,
		HttpStatus: null.IntFrom(int64(resp.StatusCode)),
		Signatures: signatures,
	}
}
