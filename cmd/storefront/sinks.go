package main

import (
	"context"
	"fmt"
	"log"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/sink"
)

type closer struct {
	name  string
	close func() error
}

// buildSinks opens every configured sink. The returned closers release their
// connections and must run after the submitter has drained.
func buildSinks(ctx context.Context, cfg config.Config, logger *log.Logger) (sink.Sink, []closer, error) {
	var (
		sinks   []sink.Sink
		closers []closer
	)
	fail := func(err error) (sink.Sink, []closer, error) {
		closeAll(logger, closers)
		return nil, nil, err
	}

	for _, name := range cfg.Sinks {
		switch name {
		case "webhook":
			if !sink.WebhookConfigured(cfg.SinkWebhookURL) {
				logger.Printf("WARN: SINK_WEBHOOK_URL not configured, order records are simulated")
				sinks = append(sinks, &sink.Simulated{Delay: cfg.SinkSimulatedDelay, Logger: logger})
				continue
			}
			sinks = append(sinks, sink.NewWebhook(cfg.SinkWebhookURL, cfg.SinkTimeout))

		case "simulated":
			sinks = append(sinks, &sink.Simulated{Delay: cfg.SinkSimulatedDelay, Logger: logger})

		case "amqp":
			a, closeFn, err := sink.DialAMQP(cfg.RabbitMQURL)
			if err != nil {
				return fail(fmt.Errorf("amqp: %w", err))
			}
			closers = append(closers, closer{name: "amqp", close: closeFn})
			sinks = append(sinks, a)

		case "postgres":
			if cfg.RunMigrations {
				if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
					return fail(fmt.Errorf("postgres migrations: %w", err))
				}
			}
			pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
			if err != nil {
				return fail(fmt.Errorf("postgres: %w", err))
			}
			closers = append(closers, closer{name: "postgres", close: func() error { pool.Close(); return nil }})
			sinks = append(sinks, sink.NewPostgres(pool))

		case "sqlite":
			sqlDB, err := db.OpenSQLite(cfg.SQLitePath)
			if err != nil {
				return fail(fmt.Errorf("sqlite: %w", err))
			}
			closers = append(closers, closer{name: "sqlite", close: sqlDB.Close})
			sinks = append(sinks, sink.NewSQLite(sqlDB))

		default:
			return fail(fmt.Errorf("unknown sink %q", name))
		}
	}

	if len(sinks) == 0 {
		logger.Printf("WARN: no record sinks configured, order records are simulated")
		sinks = append(sinks, &sink.Simulated{Delay: cfg.SinkSimulatedDelay, Logger: logger})
	}
	return sink.Combine(sinks...), closers, nil
}

func closeAll(logger *log.Logger, closers []closer) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].close(); err != nil {
			logger.Printf("%s close error: %v", closers[i].name, err)
		}
	}
}
