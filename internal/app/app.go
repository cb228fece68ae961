// Package app assembles the domain service from configuration for the api and consumer binaries.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"example.com/exerciserx/internal/cache"
	"example.com/exerciserx/internal/catalog"
	"example.com/exerciserx/internal/config"
	"example.com/exerciserx/internal/domain"
	"example.com/exerciserx/internal/messaging"
	"example.com/exerciserx/internal/persistence"
	"example.com/exerciserx/internal/prescription"
)

// LoadCatalog returns the catalog at path, or the embedded one when path is empty.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

// Components is the wired service plus the resources it holds.
type Components struct {
	Service *domain.Service
	closers []func()
}

// Close releases resources in reverse acquisition order.
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Build wires engine, store, cache invalidation and event publishing from cfg.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Components, error) {
	c, err := LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	engine, err := prescription.NewEngine(c)
	if err != nil {
		return nil, err
	}

	repo, closeRepo, err := persistence.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	components := &Components{closers: []func(){closeRepo}}

	opts := []domain.Option{domain.WithLogger(logger)}

	if cfg.CacheInvalidationURL != "" {
		opts = append(opts, domain.WithInvalidator(cache.NewHTTPInvalidator(cfg.CacheInvalidationURL, cfg.CacheInvalidationToken, cfg.HTTPTimeout)))
	} else {
		opts = append(opts, domain.WithInvalidator(cache.NoopInvalidator{}))
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher := messaging.NewKafkaPublisher(messaging.PublisherConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.PrescriptionTopic,
			WriteTimeout: cfg.KafkaWriteTimeout,
		})
		components.closers = append(components.closers, func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("kafka publisher close failed", zap.Error(err))
			}
		})
		opts = append(opts, domain.WithPublisher(publisher))
	} else {
		logger.Info("no kafka brokers configured; prescription events are not published")
		opts = append(opts, domain.WithPublisher(messaging.NoopPublisher{}))
	}

	components.Service = domain.NewService(engine, repo, opts...)
	return components, nil
}
