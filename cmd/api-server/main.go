package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-co-op/gocron"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/faciam-dev/widgetboard/internal/cache"
	"github.com/faciam-dev/widgetboard/internal/config"
	"github.com/faciam-dev/widgetboard/internal/dashboard"
	"github.com/faciam-dev/widgetboard/internal/fetch"
	"github.com/faciam-dev/widgetboard/internal/logger"
	instancesrepo "github.com/faciam-dev/widgetboard/internal/repository/instances"
	"github.com/faciam-dev/widgetboard/internal/server"
	"github.com/faciam-dev/widgetboard/internal/state"
	"github.com/faciam-dev/widgetboard/internal/widget"
	"github.com/faciam-dev/widgetboard/internal/widget/builtin"
	"github.com/faciam-dev/widgetboard/pkg/util"
)

func main() {
	dsn := flag.String("dsn", "", "database DSN")
	driver := flag.String("driver", "mysql", "database driver (mysql or postgres)")
	addr := flag.String("addr", ":8080", "listen address")
	cfgPath := flag.String("config", util.GetEnv("WB_CONFIG", ""), "runtime config file (YAML or JSON)")
	redisDSN := flag.String("redis", util.GetEnv("REDIS_URL", ""), "redis URL for the shared fetch cache")
	uploads := flag.String("uploads", "static/uploads", "directory for processed images")
	openapi := flag.String("openapi", "", "write OpenAPI JSON and exit")
	flag.Parse()

	logger.Set(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logger.Level(os.Getenv("LOG_LEVEL")),
	})))

	ctx := context.Background()

	cfgStore, err := config.NewStore(*cfgPath, logger.L)
	if err != nil {
		logger.L.Error("load config", "path", *cfgPath, "err", err)
		os.Exit(1)
	}
	if err := cfgStore.Start(ctx); err != nil {
		logger.L.Error("watch config", "path", *cfgPath, "err", err)
		os.Exit(1)
	}
	ttl := cfgStore.Current().CacheTTL.D()

	var fetchCache cache.Cache
	if *redisDSN != "" {
		rc, err := cache.NewRedis(*redisDSN, ttl)
		if err != nil {
			logger.L.Error("redis cache", "err", err)
			os.Exit(1)
		}
		fetchCache = rc
	} else {
		fetchCache = cache.NewMemory(ttl)
	}

	gw := fetch.New(fetchCache, cfgStore)

	descriptors := builtin.All(builtin.Deps{
		Gateway: gw,
		Config:  cfgStore,
		State:   state.NewStore(),
		Filter:  &builtin.CopyFilterer{Dir: *uploads},
	})
	reg, err := widget.NewRegistry(descriptors...)
	if err != nil {
		logger.L.Error("build registry", "err", err)
		os.Exit(1)
	}

	if *dsn == "" {
		logger.L.Error("-dsn is required")
		os.Exit(1)
	}
	db, err := sql.Open(*driver, *dsn)
	if err != nil {
		logger.L.Error("db open", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	var store instancesrepo.Store
	switch *driver {
	case "postgres":
		store = instancesrepo.NewPGStore(db)
	default:
		store = instancesrepo.NewMySQLStore(db)
	}

	agg := dashboard.New(reg, store)
	if err := agg.SyncWidgets(ctx); err != nil {
		logger.L.Error("sync widget catalog", "err", err)
		os.Exit(1)
	}

	s := gocron.NewScheduler(time.UTC)
	if _, err := s.Cron("0 3 * * *").Do(func() {
		if err := agg.SyncWidgets(context.Background()); err != nil {
			logger.L.Error("scheduled widget sync", "err", err)
		}
	}); err != nil {
		logger.L.Error("schedule widget sync", "err", err)
	}
	if _, err := s.Every(10).Minutes().Do(func() {
		if n := fetchCache.Prune(context.Background()); n > 0 {
			logger.L.Debug("pruned expired cache entries", "count", n)
		}
	}); err != nil {
		logger.L.Error("schedule cache prune", "err", err)
	}
	s.StartAsync()

	api := server.New(agg)

	if *openapi != "" {
		data, err := json.MarshalIndent(api.OpenAPI(), "", "  ")
		if err != nil {
			logger.L.Error("marshal openapi", "err", err)
			os.Exit(1)
		}
		p := filepath.Clean(*openapi)
		if err := os.WriteFile(p, data, 0o600); err != nil {
			logger.L.Error("write openapi", "err", err)
			os.Exit(1)
		}
		return
	}

	logger.L.Info("listening", "addr", *addr)
	srv := &http.Server{
		Addr:         *addr,
		Handler:      api.Adapter(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.L.Error("server error", "err", err)
		os.Exit(1)
	}
}
