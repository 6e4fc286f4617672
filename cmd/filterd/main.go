package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"

	_ "github.com/lib/pq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefilter/pkg/catalog"
	"storefilter/pkg/common"
	"storefilter/pkg/config"
	"storefilter/pkg/logging"
	"storefilter/pkg/messaging"
	"storefilter/pkg/query"
	"storefilter/pkg/server"
	"storefilter/pkg/settings"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	defer logger.Sync()

	db, err := sql.Open("postgres", cfg.Postgres.DSN())
	if err != nil {
		logger.Fatal("failed to open catalog database", zap.Error(err))
	}
	store := catalog.NewPostgresStore(db)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	settingsProvider := settings.NewRedisProvider(rdb, cfg.Redis.SettingsKey, cfg.Redis.SettingsTTL)

	compiler := query.NewCompiler(cfg.Filter.CategoryTaxonomy, cfg.Filter.Dimensions, store)
	engine := &query.Engine{Exec: store, Compiler: compiler}
	facets := &query.FacetCounter{
		Exec:        store,
		Compiler:    compiler,
		Concurrency: int64(cfg.Filter.FacetConcurrency),
	}
	bounds := query.NewBoundsCache(store)
	lookup := query.NewLookupCache(store)

	if cfg.Amqp.URL != "" {
		connectInvalidation(cfg, logger, bounds, lookup, settingsProvider)
	}

	ws := &server.WebServer{
		Log:              logger,
		Engine:           engine,
		Facets:           facets,
		Terms:            store,
		Prices:           store,
		Bounds:           bounds,
		Lookup:           lookup,
		Settings:         settingsProvider,
		Tokens:           server.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL),
		CategoryTaxonomy: cfg.Filter.CategoryTaxonomy,
		DefaultTaxonomy:  cfg.Filter.DefaultTaxonomy,
		MaxPageSize:      cfg.Filter.MaxPageSize,
		Dimensions:       cfg.Filter.Dimensions,
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      ws.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	common.RunServerWithShutdown(srv, "storefilter", cfg.Server.ShutdownTimeout, 0,
		func(ctx context.Context) error {
			return db.Close()
		},
		func(ctx context.Context) error {
			return rdb.Close()
		},
	)
}

func connectInvalidation(cfg *config.Config, logger *zap.Logger, bounds *query.BoundsCache, lookup *query.LookupCache, provider *settings.RedisProvider) {
	conn, err := amqp.DialConfig(cfg.Amqp.URL, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		logger.Warn("amqp unavailable, running without invalidation", zap.Error(err))
		return
	}
	ch, err := conn.Channel()
	if err != nil {
		logger.Warn("failed to open amqp channel", zap.Error(err))
		return
	}
	if err := messaging.DefineTopic(ch, cfg.Amqp.Prefix, messaging.CatalogChange); err != nil {
		logger.Warn("failed to declare catalog topic", zap.Error(err))
	}
	err = messaging.ListenToTopic(ch, logger, cfg.Amqp.Prefix, messaging.CatalogChange, func(d amqp.Delivery) error {
		logger.Info("catalog changed, dropping cached bounds and lookup table")
		bounds.Invalidate()
		lookup.Invalidate()
		return nil
	})
	if err != nil {
		logger.Warn("failed to listen for catalog changes", zap.Error(err))
	}

	ch2, err := conn.Channel()
	if err != nil {
		logger.Warn("failed to open amqp channel", zap.Error(err))
		return
	}
	if err := messaging.DefineTopic(ch2, cfg.Amqp.Prefix, messaging.SettingsChange); err != nil {
		logger.Warn("failed to declare settings topic", zap.Error(err))
	}
	err = messaging.ListenToTopic(ch2, logger, cfg.Amqp.Prefix, messaging.SettingsChange, func(d amqp.Delivery) error {
		logger.Info("settings changed, refreshing provider cache")
		provider.Invalidate()
		return nil
	})
	if err != nil {
		logger.Warn("failed to listen for settings changes", zap.Error(err))
	}
}
