package keepalive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	socks "github.com/maddsua/keepalive/proxy"
)

const userAgent = "maddsua/keepalive"

type ClientOptions struct {
	ProxyUrl string
}

// NewClient creates the client used for both probes.
// Request timeouts are applied per request by the prober, not here.
func NewClient(opts ClientOptions) (*http.Client, error) {

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSHandshakeTimeout: 10 * time.Second,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConns:        4,
	}

	if opts.ProxyUrl != "" {

		dialer, err := socks.NewDialer(opts.ProxyUrl)
		if err != nil {
			return nil, fmt.Errorf("proxy_url: %v", err)
		}

		transport.Proxy = nil
		transport.DialContext = dialer.DialContext
	}

	return &http.Client{Transport: transport}, nil
}

func parseBaseUrl(val string) (*url.URL, error) {

	val = strings.TrimSpace(val)
	if !strings.Contains(val, "://") {
		val = "https://" + val
	}

	baseUrl, err := url.Parse(val)
	if err != nil {
		return nil, fmt.Errorf("url.Parse: %v", err)
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

	baseUrl.Path = strings.TrimSuffix(baseUrl.Path, "/")
	baseUrl.RawQuery = ""
	baseUrl.Fragment = ""

	return baseUrl, nil
}

func (this *Prober) newRequest(ctx context.Context, method string, path string, body io.Reader) (*http.Request, error) {

	target := *this.baseUrl
	target.Path += path

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequest: %v", err)
	}

	req.Header.Set("User-Agent", userAgent)

	for key, val := range this.Headers {
		if strings.ToLower(key) == "host" {
			req.Host = val
		}
		req.Header.Set(key, val)
	}

	return req, nil
}

func isOkStatus(val int) bool {
	return val >= http.StatusOK && val < http.StatusMultipleChoices
}
