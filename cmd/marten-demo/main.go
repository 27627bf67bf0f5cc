// Command marten-demo serves a weighted marten cache and a bloom filter over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/marten-cache/marten"
	"github.com/marten-cache/marten/bloom"
	"github.com/marten-cache/marten/internal/httpapi"
	"github.com/marten-cache/marten/plugin/pslog"
	"github.com/marten-cache/marten/stats"
)

type config struct {
	addr               string
	maximumWeight      uint64
	expireAfterWrite   time.Duration
	expectedInsertions int
	falsePositiveProb  float64
	shutdownTimeout    time.Duration
}

func parseFlags() config {
	var cfg config
	flag.StringVar(&cfg.addr, "addr", ":8080", "HTTP listen address")
	flag.Uint64Var(&cfg.maximumWeight, "max-weight", 64<<20, "maximum total size of cached values in bytes")
	flag.DurationVar(&cfg.expireAfterWrite, "ttl", 10*time.Minute, "time after which a written entry expires, 0 disables expiry")
	flag.IntVar(&cfg.expectedInsertions, "filter-insertions", 1_000_000, "expected number of keys put into the filter")
	flag.Float64Var(&cfg.falsePositiveProb, "filter-fpp", 0.01, "desired false positive probability of the filter")
	flag.DurationVar(&cfg.shutdownTimeout, "shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
	flag.Parse()
	return cfg
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	if err := run(parseFlags(), log); err != nil {
		log.Error("marten-demo failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(cfg config, log *slog.Logger) error {
	cache, err := marten.New(&marten.Options[string, string]{
		MaximumWeight: cfg.maximumWeight,
		Weigher: func(key string, value string) uint32 {
			return uint32(min(uint64(len(key))+uint64(len(value)), math.MaxUint32))
		},
		ExpireAfterWrite: cfg.expireAfterWrite,
		StatsRecorder:    stats.NewCounter(),
		Logger:           pslog.New(log, pslog.WithAttrs(slog.String("component", "cache"))),
		OnDeletion: func(e marten.DeletionEvent[string, string]) {
			if e.WasEvicted() {
				log.Debug("entry evicted", slog.String("key", e.Key), slog.String("cause", e.Cause.String()))
			}
		},
	})
	if err != nil {
		return err
	}
	defer cache.Close()

	filter, err := bloom.New[string](cfg.expectedInsertions, cfg.falsePositiveProb)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	srv, err := httpapi.NewServer(cache, filter, reg, log)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", cfg.addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
