package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/masoncj86-ctrl/mason-trader/internal/collector"
	"github.com/masoncj86-ctrl/mason-trader/internal/config"
	"github.com/masoncj86-ctrl/mason-trader/internal/fx"
	"github.com/masoncj86-ctrl/mason-trader/internal/metrics"
	"github.com/masoncj86-ctrl/mason-trader/internal/model"
	"github.com/masoncj86-ctrl/mason-trader/internal/notifier"
	"github.com/masoncj86-ctrl/mason-trader/internal/pipeline"
	"github.com/masoncj86-ctrl/mason-trader/internal/recorder"
	"github.com/masoncj86-ctrl/mason-trader/internal/scheduler"
	"github.com/masoncj86-ctrl/mason-trader/internal/settings"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("mason", flag.ContinueOnError)
	auto := fs.Bool("auto", false, "run the screen once and deliver the report")
	daemon := fs.Bool("daemon", false, "run on the daily schedule and answer Telegram commands")
	dryRun := fs.Bool("dry-run", false, "print the report to stdout instead of sending it")
	cfgPath := fs.String("config", "", "path to config.yaml (default $CONFIG_PATH or configs/config.yaml)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !*auto && !*daemon && !*dryRun {
		fs.Usage()
		return 0
	}

	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	path := *cfgPath
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		return 1
	}

	logger, err := newLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("mason starting", zap.Bool("auto", *auto), zap.Bool("daemon", *daemon), zap.Bool("dry_run", *dryRun))

	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, cfg.DataSource.Timeout)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.Timeout)
	}
	logger.Info("data source selected", zap.String("source", fetcher.Name()))

	rates := fx.NewProvider(cfg.Rate.URL, cfg.Rate.Currency, cfg.Rate.Fallback, cfg.Rate.Timeout)

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, cfg.Telegram.Timeout)
	var sender notifier.Sender = tn
	if *dryRun {
		sender = notifier.StdoutSender{W: os.Stdout}
	} else if !cfg.DeliveryConfigured() {
		logger.Warn("telegram credentials missing, reports will not be delivered")
	}

	// dry runs never touch the settings file
	store := settings.NewStore(cfg.Settings.File, cfg.CI || *dryRun, logger)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	m := metrics.New()
	p := pipeline.New(cfg, fetcher, rates, sender, store, rec, m, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *daemon {
		return runDaemon(ctx, cfg, p, store, tn, m, logger, *dryRun)
	}

	saved := store.Load(model.Settings{Seed: cfg.Screen.DefaultSeed, Holdings: cfg.Screen.DefaultHoldings})
	rc, err := config.ResolveRun(os.LookupEnv, saved, cfg, *auto && !*dryRun)
	if err != nil {
		logger.Error("resolve run config", zap.Error(err))
		return 1
	}
	// only configuration errors abort a run; the pipeline has logged it
	if _, err := p.Run(ctx, rc); err != nil {
		return 1
	}
	return 0
}

func runDaemon(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, store *settings.Store,
	tn *notifier.TelegramNotifier, m *metrics.Metrics, logger *zap.Logger, dryRun bool) int {
	sched := scheduler.NewScheduler(ctx, p, store, cfg, logger)
	if err := sched.Register(cfg.Schedule.DailyCron); err != nil {
		logger.Error("register cron task", zap.Error(err))
		return 1
	}
	sched.Start()
	defer sched.Stop()

	if cfg.DeliveryConfigured() && !dryRun {
		go tn.StartPolling(ctx, logger, sched.HandleCommand)
		logger.Info("telegram polling started")
	}

	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("metrics server listening", zap.String("addr", cfg.Metrics.Addr))
	}

	if os.Getenv("RUN_ON_START") == "true" {
		logger.Info("RUN_ON_START enabled, executing daily task now")
		go func() {
			if _, err := sched.RunNow(ctx); err != nil {
				logger.Error("startup run failed", zap.Error(err))
			}
		}()
	}

	logger.Info("mason is running, press Ctrl+C to stop")
	<-ctx.Done()
	logger.Info("shutdown signal received, stopping")
	return 0
}

func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}
