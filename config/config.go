package config

import (
	"net"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	socks "github.com/maddsua/keepalive/proxy"
)

const (
	DefaultServiceUrl = "https://particles-on-canvas.onrender.com"
	DefaultInterval   = 180 * time.Second
	DefaultTimeout    = 30 * time.Second
	DefaultWebListen  = ":9090"
	DefaultPushJob    = "keepalive"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	LogFormatText = "text"
	LogFormatJson = "json"
)

type RootConfig struct {
	Service     ServiceConfig     `yaml:"service" json:"service"`
	Logging     LoggingConfig     `yaml:"logging" json:"logging"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics" json:"diagnostics"`
	Exporters   ExportersConfig   `yaml:"exporters" json:"exporters"`
}

type ServiceConfig struct {
	Url                  string            `yaml:"url" json:"url"`
	Interval             Duration          `yaml:"interval" json:"interval"`
	Timeout              Duration          `yaml:"timeout" json:"timeout"`
	Proxy                string            `yaml:"proxy" json:"proxy"`
	Headers              map[string]string `yaml:"headers" json:"headers"`
	FatalHeartbeatErrors bool              `yaml:"fatal_heartbeat_errors" json:"fatal_heartbeat_errors"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type DiagnosticsConfig struct {
	Icmp           bool `yaml:"icmp" json:"icmp"`
	IcmpPrivileged bool `yaml:"icmp_privileged" json:"icmp_privileged"`
}

type ExportersConfig struct {
	Web         WebExporterConfig         `yaml:"web" json:"web"`
	Pushgateway PushgatewayExporterConfig `yaml:"pushgateway" json:"pushgateway"`
}

type PushgatewayExporterConfig struct {
	Url string `yaml:"url" json:"url"`
	Job string `yaml:"job" json:"job"`
}

type WebExporterConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Listen  string `yaml:"listen" json:"listen"`
}

func Default() RootConfig {
	return RootConfig{
		Service: ServiceConfig{
			Url:      DefaultServiceUrl,
			Interval: Duration(DefaultInterval),
			Timeout:  Duration(DefaultTimeout),
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
		Exporters: ExportersConfig{
			Web:         WebExporterConfig{Listen: DefaultWebListen},
			Pushgateway: PushgatewayExporterConfig{Job: DefaultPushJob},
		},
	}
}

// Validate fills the zero values left by partial config files and checks the rest.
func (this *RootConfig) Validate() error {

	this.Service.Url = strings.TrimSpace(this.Service.Url)
	if this.Service.Url != "" && !strings.Contains(this.Service.Url, "://") {
		this.Service.Url = "https://" + this.Service.Url
	}

	if this.Service.Interval <= 0 {
		this.Service.Interval = Duration(DefaultInterval)
	}

	if this.Service.Timeout <= 0 {
		this.Service.Timeout = Duration(DefaultTimeout)
	}

	this.Logging.Level = strings.ToLower(strings.TrimSpace(this.Logging.Level))
	if this.Logging.Level == "" {
		this.Logging.Level = LogLevelInfo
	}

	this.Logging.Format = strings.ToLower(strings.TrimSpace(this.Logging.Format))
	if this.Logging.Format == "" {
		this.Logging.Format = LogFormatText
	}

	if this.Exporters.Web.Listen == "" {
		this.Exporters.Web.Listen = DefaultWebListen
	}

	if this.Exporters.Pushgateway.Job == "" {
		this.Exporters.Pushgateway.Job = DefaultPushJob
	}

	return validation.ValidateStruct(this,
		validation.Field(&this.Service,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServiceConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServiceConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Url,
						validation.Required,
						validation.By(validateServiceUrl),
					),
					validation.Field(&sc.Interval,
						validation.By(minDuration(time.Second)),
					),
					validation.Field(&sc.Timeout,
						validation.By(minDuration(time.Millisecond)),
					),
					validation.Field(&sc.Proxy,
						validation.By(validateProxyUrl),
					),
				)
			}),
		),
		validation.Field(&this.Logging,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
					validation.Field(&lc.Format,
						validation.In(LogFormatText, LogFormatJson),
					),
				)
			}),
		),
		validation.Field(&this.Exporters,
			validation.By(func(value interface{}) error {
				ec, ok := value.(ExportersConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be an ExportersConfig")
				}
				if err := validation.ValidateStruct(&ec.Web,
					validation.Field(&ec.Web.Listen,
						validation.When(ec.Web.Enabled, validation.By(ValidateHostPort)),
					),
				); err != nil {
					return err
				}
				return validation.ValidateStruct(&ec.Pushgateway,
					validation.Field(&ec.Pushgateway.Url,
						validation.When(ec.Pushgateway.Url != "", is.URL),
					),
				)
			}),
		),
	)
}

func minDuration(min time.Duration) validation.RuleFunc {
	return func(value interface{}) error {

		val, ok := value.(Duration)
		if !ok {
			return validation.NewError("validation_invalid_type", "must be a duration")
		}

		if val.Duration() < min {
			return validation.NewError("validation_duration_too_small", "must be at least "+min.String())
		}

		return nil
	}
}

func validateServiceUrl(value interface{}) error {

	serviceUrl, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	parsedUrl, err := url.Parse(serviceUrl)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	if parsedUrl.Scheme != "http" && parsedUrl.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}

	if parsedUrl.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}

	return nil
}

func validateProxyUrl(value interface{}) error {

	proxyUrl, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if proxyUrl == "" {
		return nil
	}

	if _, err := socks.ParseUrl(proxyUrl); err != nil {
		return validation.NewError("validation_invalid_proxy", err.Error())
	}

	return nil
}

// ValidateHostPort checks a listen address in the host:port form. The host part may be empty.
func ValidateHostPort(value interface{}) error {

	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}
