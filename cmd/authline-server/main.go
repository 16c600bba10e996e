package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/authline/internal/auth"
	"github.com/yndnr/authline/internal/infra/buildinfo"
	"github.com/yndnr/authline/internal/infra/confloader"
	"github.com/yndnr/authline/internal/infra/shutdown"
	"github.com/yndnr/authline/internal/server/config"
	"github.com/yndnr/authline/internal/server/lineserver"
	"github.com/yndnr/authline/internal/telemetry/logger"
	"github.com/yndnr/authline/internal/telemetry/metric"
)

// tokenEnv carries the shared secret.
const tokenEnv = "AUTH_TOKEN"

// metricsShutdownTimeout bounds the metrics server stop. Each shutdown
// hook gets its own deadline, so this budget remains after the line
// server has used all of server.shutdown_timeout.
const metricsShutdownTimeout = 5 * time.Second

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "authline-server",
		Usage:   "Token-authenticated line protocol server",
		Version: buildinfo.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML configuration file",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address, overrides server.addr",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error; overrides log.level",
			},
		},
		Action: run,
	}
}

// flagOverrides returns the config keys set on the command line.
func flagOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	if c.IsSet("addr") {
		overrides["server.addr"] = c.String("addr")
	}
	if c.IsSet("log-level") {
		overrides["log.level"] = c.String("log-level")
	}
	return overrides
}

func run(c *cli.Context) error {
	configFile := c.String("config")
	overrides := flagOverrides(c)

	cfg, err := loadConfig(configFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting authline-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", configFile)
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	verifier, err := auth.NewVerifier(cfg.Auth.Token)
	if err != nil {
		return fmt.Errorf("init auth: %w", err)
	}
	log.Info("authentication configured", "auth_token", cfg.Auth.Token, "mode", verifier.Mode())

	reg := metric.NewRegistry()
	srv := lineserver.New(serverConfig(cfg), verifier, log.Slog(), lineserver.WithMetrics(reg))
	reg.MustRegister(metric.NewCollector(srv))

	if err := srv.Listen(); err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.Addr, err)
	}

	shutdownHandler := shutdown.NewHandler(cfg.Server.ShutdownTimeout)

	// Hooks run in reverse registration order: the line server stops
	// first, the metrics endpoint last. Each hook has its own deadline.
	if cfg.Metrics.Addr != "" {
		metricsServer, err := startMetrics(cfg.Metrics.Addr, reg, log, shutdownHandler)
		if err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		shutdownHandler.OnShutdownTimeout(metricsShutdownTimeout, func(ctx context.Context) error {
			log.Info("stopping metrics server")
			return metricsServer.Shutdown(ctx)
		})
	}

	if configFile != "" {
		watcher, err := watchConfig(configFile, overrides, log)
		if err != nil {
			log.Warn("config hot reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(ctx context.Context) error {
				return watcher.Stop()
			})
		}
	}

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("stopping line server")
		return srv.Shutdown(ctx)
	})

	go func() {
		if err := srv.Serve(context.Background()); err != nil {
			shutdownHandler.Trigger(fmt.Errorf("serve: %w", err))
		}
	}()

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped")
	return nil
}

// loadConfig builds the configuration from defaults, the optional file,
// AUTHLINE_* variables, AUTH_TOKEN and flag overrides.
func loadConfig(configFile string, overrides map[string]any) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{
		confloader.WithEnvBinding(tokenEnv, "auth.token"),
		confloader.WithOverrides(overrides),
	}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

func serverConfig(cfg *config.ServerConfig) *lineserver.Config {
	return &lineserver.Config{
		Addr:          cfg.Server.Addr,
		ChunkSize:     cfg.Server.ChunkSize,
		MaxReadErrors: cfg.Server.MaxReadErrors,
		IdleTimeout:   cfg.Server.IdleTimeout,
		AcceptRate:    cfg.Server.AcceptRate,
		AcceptBurst:   cfg.Server.AcceptBurst,
	}
}

// startMetrics binds addr and serves /metrics until shutdown. A serve
// failure after startup triggers process shutdown.
func startMetrics(addr string, reg *metric.Registry, log logger.Logger, sh *shutdown.Handler) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("metrics server listening", "address", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", "error", err)
			sh.Trigger(fmt.Errorf("metrics server: %w", err))
		}
	}()
	return server, nil
}

// watchConfig reloads log.level when the config file changes. Every
// other setting needs a restart.
func watchConfig(configFile string, overrides map[string]any, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log.Slog()))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(configFile); err != nil {
		_ = w.Stop()
		return nil, err
	}
	w.OnChange(func(string) {
		reloadLogLevel(configFile, overrides, log)
	})
	w.StartAsync()
	return w, nil
}

func reloadLogLevel(configFile string, overrides map[string]any, log logger.Logger) {
	cfg, err := loadConfig(configFile, overrides)
	if err != nil {
		log.Warn("ignoring configuration change", "error", err)
		return
	}
	if strings.EqualFold(cfg.Log.Level, logger.GetLevel()) {
		return
	}
	logger.SetLevel(cfg.Log.Level)
	log.Info("log level changed", "level", logger.GetLevel())
}
