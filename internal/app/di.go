package app

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	erpclient "github.com/stroyast/sales-agent/internal/client/http/erp"
	"github.com/stroyast/sales-agent/internal/config"
	"github.com/stroyast/sales-agent/internal/converter"
	"github.com/stroyast/sales-agent/internal/migrator"
	repository "github.com/stroyast/sales-agent/internal/repository/order"
	"github.com/stroyast/sales-agent/internal/service/catalog"
	service "github.com/stroyast/sales-agent/internal/service/order"
	"github.com/stroyast/sales-agent/internal/service/pricing"
	ordproducer "github.com/stroyast/sales-agent/internal/service/producer/order"
	catalogsync "github.com/stroyast/sales-agent/internal/service/sync"
	thttp "github.com/stroyast/sales-agent/internal/transport/http/v1"
	"github.com/stroyast/sales-agent/platform/closer"
	"github.com/stroyast/sales-agent/platform/kafka"
	"github.com/stroyast/sales-agent/platform/kafka/producer"
	"github.com/stroyast/sales-agent/platform/logger"
)

type Converter interface {
	ordproducer.Converter
}

type di struct {
	erpClient *erpclient.Client

	cache    *catalog.Cache
	resolver *catalog.Resolver
	sync     *catalogsync.Scheduler

	fetcher *pricing.LiveFetcher
	engine  *pricing.Engine

	dbPool     *pgxpool.Pool
	migrator   *migrator.Migrator
	repository service.OrderRepository

	syncProducer        sarama.SyncProducer
	orderPricedProducer kafka.Producer
	orderProducer       service.OrderProducer

	conv Converter

	service thttp.OrderService

	router *chi.Mux
}

func NewDI() *di { return &di{} }

func (d *di) ERPClient(_ context.Context) *erpclient.Client {
	if d.erpClient == nil {
		d.erpClient = erpclient.NewClient(config.C().ERP)
	}

	return d.erpClient
}

func (d *di) CatalogCache(ctx context.Context) *catalog.Cache {
	if d.cache == nil {
		cfg := config.C().Catalog

		d.cache = catalog.NewCache(
			d.ERPClient(ctx),
			cfg.TTL(),
			cfg.RefreshGrace(),
		)
	}

	return d.cache
}

func (d *di) CatalogResolver(ctx context.Context) *catalog.Resolver {
	if d.resolver == nil {
		d.resolver = catalog.NewResolver(d.CatalogCache(ctx))
	}

	return d.resolver
}

func (d *di) SyncScheduler(ctx context.Context) *catalogsync.Scheduler {
	if d.sync == nil {
		d.sync = catalogsync.NewScheduler(
			d.CatalogCache(ctx),
			config.C().Catalog.SyncInterval(),
		)
	}

	return d.sync
}

func (d *di) LiveFetcher(ctx context.Context) *pricing.LiveFetcher {
	if d.fetcher == nil {
		d.fetcher = pricing.NewLiveFetcher(d.ERPClient(ctx))
	}

	return d.fetcher
}

func (d *di) PricingEngine(ctx context.Context) *pricing.Engine {
	if d.engine == nil {
		d.engine = pricing.NewEngine(d.LiveFetcher(ctx))
	}

	return d.engine
}

func (d *di) DBPool(ctx context.Context) *pgxpool.Pool {
	if d.dbPool == nil {
		pool, err := pgxpool.New(ctx, config.C().Postgres.DSN())
		if err != nil {
			panic(fmt.Sprintf("failed to create pg pool: %v\n", err))
		}

		closer.AddNamed("PGX Pool",
			func(ctx context.Context) error {
				pool.Close()
				return nil
			})

		if err := pool.Ping(ctx); err != nil {
			panic(fmt.Sprintf("failed to ping db: %v\n", err))
		}

		d.dbPool = pool
	}

	return d.dbPool
}

func (d *di) Migrator(ctx context.Context) *migrator.Migrator {
	if d.migrator == nil {
		d.migrator = migrator.NewMigrator(
			stdlib.OpenDBFromPool(d.DBPool(ctx)),
			config.C().Postgres.MigrationDirectory(),
		)

		closer.AddNamed("Migrator",
			func(ctx context.Context) error {
				return d.migrator.Close()
			})
	}

	return d.migrator
}

func (d *di) OrderRepository(ctx context.Context) service.OrderRepository {
	if d.repository == nil {
		d.repository = repository.NewOrderRepository(d.DBPool(ctx))
	}

	return d.repository
}

func (d *di) KafkaConverter(_ context.Context) Converter {
	if d.conv == nil {
		d.conv = converter.NewKafkaConverter()
	}

	return d.conv
}

func (d *di) SyncProducer(_ context.Context) sarama.SyncProducer {
	if d.syncProducer == nil {
		cfg := config.C()

		p, err := sarama.NewSyncProducer(
			cfg.Kafka.Brokers(),
			cfg.Kafka.OrderPricedProducerConfig(),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create sync producer: %s\n", err.Error()))
		}
		closer.AddNamed("Kafka sync producer", func(ctx context.Context) error {
			return p.Close()
		})

		d.syncProducer = p
	}

	return d.syncProducer
}

func (d *di) OrderPricedProducer(ctx context.Context) kafka.Producer {
	if d.orderPricedProducer == nil {
		d.orderPricedProducer = producer.NewProducer(
			d.SyncProducer(ctx),
			config.C().Kafka.OrderPricedTopic(),
			logger.L(),
		)
	}

	return d.orderPricedProducer
}

func (d *di) OrderProducer(ctx context.Context) service.OrderProducer {
	if d.orderProducer == nil {
		d.orderProducer = ordproducer.NewOrderProducer(
			d.OrderPricedProducer(ctx),
			d.KafkaConverter(ctx),
		)
	}

	return d.orderProducer
}

func (d *di) OrderService(ctx context.Context) thttp.OrderService {
	if d.service == nil {
		d.service = service.NewOrderService(
			d.PricingEngine(ctx),
			d.OrderRepository(ctx),
			d.OrderProducer(ctx),
		)
	}

	return d.service
}

func (d *di) Router(_ context.Context) *chi.Mux {
	if d.router == nil {
		d.router = chi.NewRouter()
	}

	return d.router
}
