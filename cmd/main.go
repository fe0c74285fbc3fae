package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/maddsua/keepalive"
	"github.com/maddsua/keepalive/config"
	"github.com/maddsua/keepalive/exporters"
	"github.com/maddsua/keepalive/logger"
)

type CliFlags struct {
	Cfg      *string
	Debug    *bool
	JsonLogs *bool
}

func main() {

	godotenv.Load()

	cli := CliFlags{
		Cfg:      flag.String("cfg", "", "config file location"),
		Debug:    flag.Bool("debug", false, "enable debug logging"),
		JsonLogs: flag.Bool("json_logs", false, "log in json format"),
	}
	flag.Parse()

	cfg, err := loadConfig(*cli.Cfg)
	if err != nil {
		slog.Error("Failed to load config",
			slog.String("err", err.Error()))
		os.Exit(1)
	}

	if *cli.Debug {
		cfg.Logging.Level = config.LogLevelDebug
	}

	if *cli.JsonLogs {
		cfg.Logging.Format = config.LogFormatJson
	}

	slog.SetDefault(logger.New(os.Stderr, logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}))

	prober, metrics, err := setupProber(cfg)
	if err != nil {
		slog.Error("Failed to set up prober",
			slog.String("err", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var webExporter *exporters.WebExporter

	if cfg.Exporters.Web.Enabled {

		webExporter = &exporters.WebExporter{Gatherer: metrics.Registry()}

		srv, err := exporters.NewServer(cfg.Exporters.Web.Listen, webExporter)
		if err != nil {
			slog.Error("Failed to create exporter server",
				slog.String("err", err.Error()))
			os.Exit(1)
		}

		slog.Info("Web exporter enabled",
			slog.String("listen", cfg.Exporters.Web.Listen))

		go func() {
			if err := srv.Serve(ctx); err != nil {
				slog.Error("Web exporter stopped",
					slog.String("err", err.Error()))
			}
		}()

		webExporter.SetRunning(true)
	}

	slog.Info("Starting keepalive",
		slog.String("url", cfg.Service.Url),
		slog.Duration("interval", cfg.Service.Interval.Duration()),
		slog.Duration("timeout", cfg.Service.Timeout.Duration()))

	err = prober.Run(ctx)

	if webExporter != nil {
		webExporter.SetRunning(false)
	}

	if err != nil {
		slog.Error("Prober terminated",
			slog.String("err", err.Error()))
		os.Exit(1)
	}

	slog.Warn("Shutting down...")
}

func loadConfig(path string) (*config.RootConfig, error) {

	if path == "" {
		if loc, has := config.FindConfig([]string{
			"./keepalive.yml",
			"./keepalive.json",
			"/etc/keepalive/keepalive.yml",
		}); has {
			path = loc
		}
	}

	var cfg *config.RootConfig

	if path != "" {

		loaded, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, err
		}

		slog.Info("Config file located",
			slog.String("at", path))

		cfg = loaded

	} else {
		defaults := config.Default()
		cfg = &defaults
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setupProber(cfg *config.RootConfig) (*keepalive.Prober, *keepalive.MetricsReporter, error) {

	client, err := keepalive.NewClient(keepalive.ClientOptions{
		ProxyUrl: cfg.Service.Proxy,
	})
	if err != nil {
		return nil, nil, err
	}

	metrics := keepalive.NewMetricsReporter()

	opts := keepalive.ProberOptions{
		BaseUrl:              cfg.Service.Url,
		Interval:             cfg.Service.Interval.Duration(),
		Timeout:              cfg.Service.Timeout.Duration(),
		Headers:              cfg.Service.Headers,
		FatalHeartbeatErrors: cfg.Service.FatalHeartbeatErrors,
	}

	if cfg.Diagnostics.Icmp {
		opts.Pinger = &keepalive.IcmpPinger{Privileged: cfg.Diagnostics.IcmpPrivileged}
	}

	reporters := keepalive.MultiReporter{
		&keepalive.LogReporter{},
		metrics,
	}

	if pushUrl := cfg.Exporters.Pushgateway.Url; pushUrl != "" {

		pusher, err := exporters.NewPushReporter(pushUrl, cfg.Exporters.Pushgateway.Job, metrics.Registry())
		if err != nil {
			return nil, nil, fmt.Errorf("pushgateway: %v", err)
		}

		slog.Info("Pushgateway exporter enabled",
			slog.String("url", pushUrl))

		reporters = append(reporters, pusher)
	}

	prober, err := keepalive.NewProber(opts, client, reporters)
	if err != nil {
		return nil, nil, err
	}

	return prober, metrics, nil
}
