// Command bazaar-api serves shops, owners, vendors, their interior and
// merchandise lists and transactions, with every read answered through a
// generation-checked representation cache.
package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/unkn0wn-root/repcache"
	"github.com/unkn0wn-root/repcache/codec"
	asynchook "github.com/unkn0wn-root/repcache/hooks/async"
	"github.com/unkn0wn-root/repcache/internal/api"
	"github.com/unkn0wn-root/repcache/internal/config"
	"github.com/unkn0wn-root/repcache/internal/store"
	"github.com/unkn0wn-root/repcache/internal/store/memstore"
	"github.com/unkn0wn-root/repcache/internal/store/postgres"
	logrusadapter "github.com/unkn0wn-root/repcache/log/logrus"
	slogadapter "github.com/unkn0wn-root/repcache/log/slog"
	zapadapter "github.com/unkn0wn-root/repcache/log/zap"
	zerologadapter "github.com/unkn0wn-root/repcache/log/zerolog"
	pr "github.com/unkn0wn-root/repcache/provider"
	"github.com/unkn0wn-root/repcache/provider/bigcache"
	"github.com/unkn0wn-root/repcache/provider/lru"
	"github.com/unkn0wn-root/repcache/provider/ristretto"
	"github.com/unkn0wn-root/repcache/sloghooks"
)

func main() {
	if err := run(); err != nil {
		stdlog.Fatalf("bazaar-api: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, flush, err := newLogger(cfg.LogBackend, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer flush()
	log.Info("starting", repcache.Fields{"config": cfg.String()})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := newStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer st.Close()

	p, err := newProvider(cfg)
	if err != nil {
		return fmt.Errorf("provider: %w", err)
	}
	compact, err := codec.Compact(cfg.CompactFormat)
	if err != nil {
		return err
	}

	stats := &repcache.Stats{}
	hookLog := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	logged := asynchook.New(sloghooks.New(hookLog, sloghooks.Options{SelfHealEvery: 10, StalePutEvery: 10}), 1, cfg.HookQueue)
	defer logged.Close()

	cache, err := repcache.New(repcache.Options{
		Provider:        p,
		Compact:         compact,
		Logger:          log,
		Hooks:           repcache.MultiHooks{stats, logged},
		CleanupInterval: cfg.GenCleanupInterval,
		GenRetention:    cfg.GenRetention,
		CoalesceMisses:  cfg.CoalesceMisses,
	})
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close(context.Background()) }()

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: api.New(api.Options{
			Cache:        cache,
			Store:        st,
			Stats:        stats,
			Logger:       log,
			Host:         cfg.Host,
			MaxBodyBytes: cfg.MaxBodyBytes,
		}).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", repcache.Fields{"addr": cfg.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", nil)
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

// newLogger returns the cache logger for backend and a flush func to run
// before exit.
func newLogger(backend, level string) (repcache.Logger, func(), error) {
	switch backend {
	case "zap":
		l, err := zapadapter.New(level)
		if err != nil {
			return nil, nil, err
		}
		return zapadapter.ZapLogger{L: l}, func() { _ = l.Sync() }, nil
	case "logrus":
		e, err := logrusadapter.New(level)
		if err != nil {
			return nil, nil, err
		}
		return logrusadapter.LogrusLogger{E: e}, func() {}, nil
	case "zerolog":
		l, err := zerologadapter.New(os.Stdout, level)
		if err != nil {
			return nil, nil, err
		}
		return zerologadapter.Logger{L: l}, func() {}, nil
	case "slog":
		lvl, err := slogadapter.ParseLevel(level)
		if err != nil {
			return nil, nil, err
		}
		h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
		return slogadapter.Logger{L: slog.New(h)}, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

func newStore(ctx context.Context, cfg *config.Config, log repcache.Logger) (store.Store, error) {
	if cfg.Store == "memory" {
		log.Warn("using in-memory store; data is lost on exit", nil)
		return memstore.New(), nil
	}
	return postgres.New(ctx, cfg.DatabaseURL, log)
}

func newProvider(cfg *config.Config) (pr.Provider, error) {
	n := cfg.CacheCapacity
	switch cfg.CacheProvider {
	case "ristretto":
		return ristretto.New(ristretto.ForEntries(int64(n)))
	case "bigcache":
		// generations bound freshness; the life window only reclaims memory
		return bigcache.New(bigcache.Config{
			LifeWindow:         cfg.GenRetention,
			CleanWindow:        cfg.GenCleanupInterval,
			MaxEntriesInWindow: n,
		})
	default:
		return lru.New(n)
	}
}
