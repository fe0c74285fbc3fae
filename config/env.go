package config

import (
	"fmt"
	"os"
	"strings"
)

// ApplyEnv overrides config values with KEEPALIVE_* variables, DEBUG and LOGFMT.
func (this *RootConfig) ApplyEnv() error {

	if val := os.Getenv("KEEPALIVE_URL"); val != "" {
		this.Service.Url = strings.TrimSpace(val)
	}

	if val := os.Getenv("KEEPALIVE_INTERVAL"); val != "" {
		if err := this.Service.Interval.set(val); err != nil {
			return fmt.Errorf("KEEPALIVE_INTERVAL: %v", err)
		}
	}

	if val := os.Getenv("KEEPALIVE_TIMEOUT"); val != "" {
		if err := this.Service.Timeout.set(val); err != nil {
			return fmt.Errorf("KEEPALIVE_TIMEOUT: %v", err)
		}
	}

	if val := os.Getenv("KEEPALIVE_PROXY"); val != "" {
		this.Service.Proxy = val
	}

	if val := os.Getenv("KEEPALIVE_PUSHGATEWAY"); val != "" {
		this.Exporters.Pushgateway.Url = strings.TrimSpace(val)
	}

	if os.Getenv("DEBUG") == "true" {
		this.Logging.Level = LogLevelDebug
	}

	if os.Getenv("LOGFMT") == "json" {
		this.Logging.Format = LogFormatJson
	}

	return nil
}
