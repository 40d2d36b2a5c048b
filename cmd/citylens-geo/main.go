// citylens-geo serves the CityLens geo query API: distance, region
// containment, cached point lookup, and GeoJSON/WKT conversion, with
// optional Redis-backed lookup caching and Kafka-driven region updates.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/cache/redisstore"
	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/config"
	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/invalidate"
	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/logger"
	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/lookup"
	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/observability"
	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/regions"
	"github.com/PKA-OpenDynamics/CityLens-sub002/internal/server"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.FromEnv()
	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		SampleN:   cfg.LogSampleN,
		Component: "citylens-geo",
	}, os.Stdout)

	if err := cfg.Validate(); err != nil {
		zl.Error().Err(err).Msg("invalid configuration")
		return 1
	}

	observability.ExposeBuildInfo(Version)
	zl.Info().Str("addr", cfg.Addr).Str("version", Version).
		Bool("redis", cfg.Redis.Enabled).Bool("kafka", cfg.Kafka.Enabled).
		Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := regions.New(zl, cfg.BuiltinRegions)
	if cfg.RegionFile != "" {
		if err := reg.LoadFile(cfg.RegionFile); err != nil {
			zl.Error().Err(err).Msg("region file load failed")
			return 1
		}
	}

	var (
		store  lookup.Store
		pinger server.Pinger
	)
	if cfg.Redis.Enabled {
		client, err := redisstore.New(ctx, cfg.Redis.Addr,
			redisstore.WithPassword(cfg.Redis.Password),
			redisstore.WithDB(cfg.Redis.DB),
			redisstore.WithDialTimeout(cfg.Redis.DialTimeout),
			redisstore.WithReadTimeout(cfg.Redis.ReadTimeout),
			redisstore.WithWriteTimeout(cfg.Redis.WriteTimeout),
		)
		if err != nil {
			zl.Error().Err(err).Msg("redis connect failed")
			return 1
		}
		defer func() { _ = client.Close() }()
		store = client
		pinger = client
	}

	resolver, err := lookup.New(reg, store, lookup.Config{
		LRUSize:   cfg.LookupLRUSize,
		Precision: cfg.KeyPrecision,
		TTL:       cfg.Redis.TTL,
	}, zl)
	if err != nil {
		zl.Error().Err(err).Msg("lookup setup failed")
		return 1
	}

	consumerErr := make(chan error, 1)
	if cfg.Kafka.Enabled {
		slg := logger.NewSlog(&zl)
		applier := invalidate.NewApplier(reg, resolver, cfg.Kafka.DedupeSize, slg)
		consumer := invalidate.NewConsumer(invalidate.Config{
			Brokers:             cfg.Kafka.Brokers,
			Topic:               cfg.Kafka.Topic,
			GroupID:             cfg.Kafka.GroupID,
			InitialOffsetOldest: cfg.Kafka.InitialOffsetOldest,
		}, applier, slg)
		go func() { consumerErr <- consumer.Start(ctx) }()
	}

	handlers := &server.Handlers{
		Log:      zl,
		Registry: reg,
		Resolver: resolver,
		Cache:    pinger,
	}

	serverErr := make(chan error, 1)
	go func() { serverErr <- server.Run(ctx, cfg, zl, handlers) }()

	select {
	case err := <-serverErr:
		if err != nil {
			zl.Error().Err(err).Msg("http server failed")
			return 1
		}
	case err := <-consumerErr:
		// the consumer only returns on cancellation or a fatal setup error
		if err != nil {
			zl.Error().Err(err).Msg("region update consumer failed")
			return 1
		}
		<-serverErr
	case <-ctx.Done():
		// wait for the server to drain before exiting
		<-serverErr
	}

	zl.Info().Msg("shutdown complete")
	return 0
}
