// Command pushd runs the push notification delivery pipeline: it drains
// notification requests from the broker, fans them out across device
// subscriptions, and records aggregated delivery status in Redis.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/pushpipe/pkg/config"
	"github.com/dmitrymomot/pushpipe/pkg/consumer"
	"github.com/dmitrymomot/pushpipe/pkg/directory"
	"github.com/dmitrymomot/pushpipe/pkg/logger"
	"github.com/dmitrymomot/pushpipe/pkg/metrics"
	"github.com/dmitrymomot/pushpipe/pkg/processor"
	"github.com/dmitrymomot/pushpipe/pkg/push"
	"github.com/dmitrymomot/pushpipe/pkg/status"
)

type appConfig struct {
	Logger    logger.Config
	Broker    consumer.Config
	Redis     status.Config
	Push      push.Config
	Directory directory.Config

	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("pushd exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.NewFromConfig(cfg.Logger, logger.WithAttr(slog.String("service", "pushd")))
	slog.SetDefault(log)

	rdb, err := status.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	store, err := status.NewStore(rdb,
		status.WithTTL(cfg.Redis.RecordTTL),
		status.WithWriteTimeout(cfg.Redis.WriteTimeout))
	if err != nil {
		return err
	}

	dir, err := directory.NewClient(cfg.Directory.BaseURL,
		directory.WithHTTPClient(&http.Client{Timeout: cfg.Directory.RequestTimeout}),
		directory.WithLogger(log))
	if err != nil {
		return err
	}

	sender, err := push.NewSender(cfg.Push)
	if err != nil {
		return err
	}

	worker, err := push.NewWorker(sender, dir, push.WithWorkerLogger(log))
	if err != nil {
		return err
	}

	proc, err := processor.New(store, worker,
		processor.WithFanOutLimit(cfg.Broker.Prefetch),
		processor.WithLogger(log))
	if err != nil {
		return err
	}

	cons, err := consumer.New(cfg.Broker, proc.Process, consumer.WithLogger(log))
	if err != nil {
		return err
	}

	metrics.Register()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return cons.Run(ctx)
	})
	g.Go(func() error {
		return serveMetrics(ctx, cfg.MetricsAddr, log)
	})

	log.Info("pushd started", slog.String("queue", cfg.Broker.Queue))
	return g.Wait()
}

// serveMetrics exposes Prometheus metrics until ctx is cancelled.
func serveMetrics(ctx context.Context, addr string, log *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("metrics server shutdown failed", logger.Error(err))
		}
		return nil
	}
}
