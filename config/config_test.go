package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/maddsua/keepalive/config"
)

var _ = Describe("Config", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tempDir)
		os.Unsetenv("KEEPALIVE_URL")
		os.Unsetenv("KEEPALIVE_INTERVAL")
		os.Unsetenv("KEEPALIVE_TIMEOUT")
		os.Unsetenv("KEEPALIVE_PROXY")
		os.Unsetenv("KEEPALIVE_PUSHGATEWAY")
		os.Unsetenv("DEBUG")
		os.Unsetenv("LOGFMT")
	})

	writeFile := func(name string, content string) string {
		path := filepath.Join(tempDir, name)
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
		return path
	}

	Describe("Default", func() {
		It("should probe the reference service every three minutes", func() {
			cfg := config.Default()
			Expect(cfg.Service.Url).To(Equal(config.DefaultServiceUrl))
			Expect(cfg.Service.Interval.Duration()).To(Equal(180 * time.Second))
			Expect(cfg.Service.Timeout.Duration()).To(Equal(30 * time.Second))
			Expect(cfg.Service.FatalHeartbeatErrors).To(BeFalse())
			Expect(cfg.Validate()).To(Succeed())
		})
	})

	Describe("LoadConfigFile", func() {
		Context("with a yml file", func() {
			It("should accept seconds and duration strings", func() {
				path := writeFile("keepalive.yml", `
service:
  url: "https://example.com"
  interval: 90
  timeout: "15s"
  headers:
    x-probe: "keepalive"
logging:
  level: debug
  format: json
`)
				cfg, err := config.LoadConfigFile(path)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Validate()).To(Succeed())

				Expect(cfg.Service.Url).To(Equal("https://example.com"))
				Expect(cfg.Service.Interval.Duration()).To(Equal(90 * time.Second))
				Expect(cfg.Service.Timeout.Duration()).To(Equal(15 * time.Second))
				Expect(cfg.Service.Headers).To(HaveKeyWithValue("x-probe", "keepalive"))
				Expect(cfg.Logging.Level).To(Equal(config.LogLevelDebug))
				Expect(cfg.Logging.Format).To(Equal(config.LogFormatJson))
			})

			It("should keep defaults for omitted sections", func() {
				path := writeFile("keepalive.yml", `
service:
  url: "http://localhost:5000"
`)
				cfg, err := config.LoadConfigFile(path)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Validate()).To(Succeed())
				Expect(cfg.Service.Interval.Duration()).To(Equal(config.DefaultInterval))
				Expect(cfg.Logging.Level).To(Equal(config.LogLevelInfo))
				Expect(cfg.Exporters.Web.Listen).To(Equal(config.DefaultWebListen))
			})

			It("should reject malformed durations", func() {
				path := writeFile("keepalive.yml", `
service:
  interval: "soon"
`)
				_, err := config.LoadConfigFile(path)
				Expect(err).To(HaveOccurred())
			})
		})

		Context("with a json file", func() {
			It("should accept numeric durations", func() {
				path := writeFile("keepalive.json", `{
  "service": {"url": "https://example.com", "interval": 120, "timeout": "10s"},
  "exporters": {"web": {"enabled": true, "listen": "127.0.0.1:9100"}}
}`)
				cfg, err := config.LoadConfigFile(path)
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Validate()).To(Succeed())
				Expect(cfg.Service.Interval.Duration()).To(Equal(2 * time.Minute))
				Expect(cfg.Service.Timeout.Duration()).To(Equal(10 * time.Second))
				Expect(cfg.Exporters.Web.Enabled).To(BeTrue())
			})
		})

		It("should reject unsupported formats", func() {
			path := writeFile("keepalive.toml", `url = "x"`)
			_, err := config.LoadConfigFile(path)
			Expect(err).To(HaveOccurred())
		})

		It("should fail for missing files", func() {
			_, err := config.LoadConfigFile(filepath.Join(tempDir, "missing.yml"))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("FindConfig", func() {
		It("should return the first regular file", func() {
			path := writeFile("keepalive.yml", "service: {}\n")

			loc, has := config.FindConfig([]string{
				filepath.Join(tempDir, "nope.yml"),
				tempDir,
				path,
			})
			Expect(has).To(BeTrue())
			Expect(loc).To(Equal(path))
		})

		It("should report nothing when no file exists", func() {
			_, has := config.FindConfig([]string{filepath.Join(tempDir, "nope.yml")})
			Expect(has).To(BeFalse())
		})
	})

	Describe("Validate", func() {
		var cfg config.RootConfig

		BeforeEach(func() {
			cfg = config.Default()
		})

		It("should reject non-http urls", func() {
			cfg.Service.Url = "ftp://example.com"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should default bare hosts to https", func() {
			cfg.Service.Url = " example.com "
			Expect(cfg.Validate()).To(Succeed())
			Expect(cfg.Service.Url).To(Equal("https://example.com"))
		})

		It("should reject an empty url", func() {
			cfg.Service.Url = ""
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject sub-second intervals", func() {
			cfg.Service.Interval = config.Duration(500 * time.Millisecond)
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should fill zero durations with defaults", func() {
			cfg.Service.Interval = 0
			cfg.Service.Timeout = 0
			Expect(cfg.Validate()).To(Succeed())
			Expect(cfg.Service.Interval.Duration()).To(Equal(config.DefaultInterval))
			Expect(cfg.Service.Timeout.Duration()).To(Equal(config.DefaultTimeout))
		})

		It("should reject unknown log levels", func() {
			cfg.Logging.Level = "verbose"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should normalize log level case", func() {
			cfg.Logging.Level = "WARN"
			Expect(cfg.Validate()).To(Succeed())
			Expect(cfg.Logging.Level).To(Equal(config.LogLevelWarn))
		})

		It("should reject non-socks proxies", func() {
			cfg.Service.Proxy = "http://127.0.0.1:3128"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should accept socks proxies", func() {
			cfg.Service.Proxy = "socks5://127.0.0.1:1080"
			Expect(cfg.Validate()).To(Succeed())
		})

		It("should only check the listen address when the exporter is enabled", func() {
			cfg.Exporters.Web.Listen = "not an address"
			Expect(cfg.Validate()).To(Succeed())

			cfg.Exporters.Web.Enabled = true
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should share the listen address rule with the exporter server", func() {
			Expect(config.ValidateHostPort(":9090")).To(Succeed())
			Expect(config.ValidateHostPort("127.0.0.1:9090")).To(Succeed())
			Expect(config.ValidateHostPort("9090")).NotTo(Succeed())
			Expect(config.ValidateHostPort("bad host!:9090")).NotTo(Succeed())
		})

		It("should check the pushgateway url when one is set", func() {
			Expect(cfg.Validate()).To(Succeed())
			Expect(cfg.Exporters.Pushgateway.Job).To(Equal(config.DefaultPushJob))

			cfg.Exporters.Pushgateway.Url = "not a url"
			Expect(cfg.Validate()).NotTo(Succeed())

			cfg.Exporters.Pushgateway.Url = "http://pushgateway:9091"
			Expect(cfg.Validate()).To(Succeed())
		})
	})

	Describe("ApplyEnv", func() {
		It("should override service values", func() {
			os.Setenv("KEEPALIVE_URL", "https://override.example.com")
			os.Setenv("KEEPALIVE_INTERVAL", "5m")
			os.Setenv("KEEPALIVE_TIMEOUT", "20")

			cfg := config.Default()
			Expect(cfg.ApplyEnv()).To(Succeed())
			Expect(cfg.Service.Url).To(Equal("https://override.example.com"))
			Expect(cfg.Service.Interval.Duration()).To(Equal(5 * time.Minute))
			Expect(cfg.Service.Timeout.Duration()).To(Equal(20 * time.Second))
		})

		It("should switch logging from DEBUG and LOGFMT", func() {
			os.Setenv("DEBUG", "true")
			os.Setenv("LOGFMT", "json")

			cfg := config.Default()
			Expect(cfg.ApplyEnv()).To(Succeed())
			Expect(cfg.Logging.Level).To(Equal(config.LogLevelDebug))
			Expect(cfg.Logging.Format).To(Equal(config.LogFormatJson))
		})

		It("should reject malformed intervals", func() {
			os.Setenv("KEEPALIVE_INTERVAL", "-3")

			cfg := config.Default()
			Expect(cfg.ApplyEnv()).NotTo(Succeed())
		})
	})

	Describe("ParseDuration", func() {
		It("should treat plain numbers as seconds", func() {
			val, err := config.ParseDuration("180")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal(180 * time.Second))
		})

		It("should parse duration strings", func() {
			val, err := config.ParseDuration("1m30s")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal(90 * time.Second))
		})

		It("should return zero for empty values", func() {
			val, err := config.ParseDuration(" ")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(BeZero())
		})

		It("should reject negative durations", func() {
			_, err := config.ParseDuration("-1m")
			Expect(err).To(HaveOccurred())
		})

		It("should reject second counts that overflow a duration", func() {
			_, err := config.ParseDuration("9999999999999")
			Expect(err).To(HaveOccurred())

			val, err := config.ParseDuration("9223372036")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(BeNumerically(">", 0))
		})

		It("should reject overflowing json numbers", func() {
			var val config.Duration
			Expect(val.UnmarshalJSON([]byte("9999999999999"))).NotTo(Succeed())
			Expect(val.UnmarshalJSON([]byte("90"))).To(Succeed())
			Expect(val.Duration()).To(Equal(90 * time.Second))
		})
	})
})
