package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	httpadapter "fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/adapters/in/ws"
	catalogcache "fooddelivery/internal/adapters/out/catalog"
	"fooddelivery/internal/adapters/out/kafka"
	"fooddelivery/internal/adapters/out/memory"
	"fooddelivery/internal/adapters/out/outbox"
	"fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/adapters/out/postgres/catalogrepo"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/jobs"
)

type CompositionRoot struct {
	cfg        Config
	logger     *slog.Logger
	uowFactory ports.UnitOfWorkFactory
	catalog    ports.CatalogLookup
	publisher  ports.EventPublisher
	hub        *ws.Hub
	gate       services.Gate
	closers    []io.Closer
}

// NewCompositionRoot opens the storage selected by cfg.Storage and builds the
// shared adapters. Close releases what it opened.
func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	root := &CompositionRoot{
		cfg:    cfg,
		logger: logger,
		hub:    ws.NewHub(logger),
		gate:   services.NewGate(),
	}

	var source ports.CatalogLookup
	switch cfg.Storage {
	case StorageMemory:
		logger.WarnContext(ctx, "Using in-memory storage; state is lost on restart")
		root.uowFactory = memory.NewUnitOfWorkFactory(memory.NewStore())
		if cfg.CatalogFile == "" {
			logger.WarnContext(ctx, "CATALOG_FILE is not set; the catalog is empty and orders will be rejected")
			source = memory.NewCatalog()
			break
		}
		seeded, err := memory.LoadCatalogFile(cfg.CatalogFile)
		if err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
		source = seeded
	default:
		db, err := postgres.Open(cfg.DSN(), postgres.PoolConfig{MaxOpenConns: 20, MaxIdleConns: 5}, logger)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		root.closers = append(root.closers, sqlDB)
		if err = postgres.Migrate(ctx, db); err != nil {
			_ = root.Close()
			return nil, err
		}
		root.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
		source = catalogrepo.NewGormCatalog(db)
	}
	root.catalog = catalogcache.NewCachedLookup(source, cfg.CatalogCacheSize, cfg.CatalogCacheTTL)

	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		publisher, err := kafka.NewPublisher(brokers, cfg.KafkaOrderChangedTopic, logger)
		if err != nil {
			_ = root.Close()
			return nil, fmt.Errorf("create kafka publisher: %w", err)
		}
		root.closers = append(root.closers, publisher)
		root.publisher = publisher
	} else {
		logger.WarnContext(ctx, "KAFKA_HOST is not set; order events are written to the log")
		root.publisher = outbox.NewLogPublisher(logger)
	}

	return root, nil
}

// Close releases the broker producer and the database pool.
func (c *CompositionRoot) Close() error {
	var closeErrs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		closeErrs = append(closeErrs, c.closers[i].Close())
	}
	return errors.Join(closeErrs...)
}

func (c *CompositionRoot) Hub() *ws.Hub {
	return c.hub
}

func (c *CompositionRoot) orderUoWs() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) ratingUoWs() commands.RatingUoWFactory {
	return FuncRatingUoWFactory(func() commands.RatingUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) messageUoWs() commands.MessageUoWFactory {
	return FuncMessageUoWFactory(func() commands.MessageUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) locationUoWs() commands.LocationUoWFactory {
	return FuncLocationUoWFactory(func() commands.LocationUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) outboxUoWs() commands.OutboxUoWFactory {
	return FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
}

// CreateHTTPServer wires every use case into the HTTP adapter.
func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	handlers := httpadapter.Handlers{
		CreateOrder:           commands.NewCreateOrderCommandHandler(c.orderUoWs(), c.catalog),
		EditOrder:             commands.NewEditOrderCommandHandler(c.orderUoWs(), c.catalog),
		CancelOrder:           commands.NewCancelOrderCommandHandler(c.orderUoWs(), c.hub),
		DeleteOrder:           commands.NewDeleteOrderCommandHandler(c.orderUoWs()),
		ClaimOrder:            commands.NewClaimOrderCommandHandler(c.orderUoWs(), c.hub),
		AdvanceOrder:          commands.NewAdvanceOrderCommandHandler(c.orderUoWs(), c.hub),
		RateOrder:             commands.NewRateOrderCommandHandler(c.ratingUoWs()),
		SendMessage:           commands.NewSendMessageCommandHandler(c.messageUoWs(), c.gate, c.hub),
		UpdateCourierLocation: commands.NewUpdateCourierLocationCommandHandler(c.locationUoWs()),
		UpdateOrderLocation:   commands.NewUpdateOrderLocationCommandHandler(c.locationUoWs(), c.gate, c.hub),

		GetOrder:         queries.NewGetOrderQueryHandler(c.uowFactory),
		ListUnclaimed:    queries.NewListUnclaimedOrdersQueryHandler(c.uowFactory),
		Gate:             queries.NewGateQueryHandler(c.uowFactory, c.gate),
		ListMessages:     queries.NewListMessagesQueryHandler(c.uowFactory, c.gate),
		GetOrderLocation: queries.NewGetOrderLocationQueryHandler(c.uowFactory, c.gate),
	}
	return httpadapter.NewServer(handlers, c.hub, c.logger)
}

func (c *CompositionRoot) HTTPConfig() httpadapter.Config {
	return httpadapter.Config{
		JWTSecret:      []byte(c.cfg.JWTSecret),
		RequestTimeout: c.cfg.RequestTimeout,
		RateLimitRPS:   c.cfg.RateLimitRPS,
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		commands.NewRelayOutboxCommandHandler(c.outboxUoWs(), c.publisher),
		commands.NewPurgeOrderLocationsCommandHandler(c.locationUoWs()),
		jobs.Settings{OutboxBatchSize: c.cfg.OutboxBatchSize},
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncRatingUoWFactory func() commands.RatingUoW

func (f FuncRatingUoWFactory) Create() commands.RatingUoW {
	return f()
}

type FuncMessageUoWFactory func() commands.MessageUoW

func (f FuncMessageUoWFactory) Create() commands.MessageUoW {
	return f()
}

type FuncLocationUoWFactory func() commands.LocationUoW

func (f FuncLocationUoWFactory) Create() commands.LocationUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
