package cmd

import (
	"fmt"
	"log/slog"
	"time"

	httpin "shop/internal/adapters/in/http"
	"shop/internal/adapters/out/demo"
	"shop/internal/adapters/out/memory"
	"shop/internal/adapters/out/postgres"
	"shop/internal/adapters/out/postgres/orderrepo"
	"shop/internal/core/application/graph"
	"shop/internal/core/application/projection"
	"shop/internal/core/application/usecases/queries"
	"shop/internal/core/ports"
	"shop/internal/jobs"
	"shop/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config Config
	logger *slog.Logger
	store  ports.OrderGraphStore
	limits queries.PageLimits
}

func NewCompositionRoot(config Config, store ports.OrderGraphStore, logger *slog.Logger) (CompositionRoot, error) {
	limits, err := queries.NewPageLimits(config.DefaultPageLimit, config.MaxPageLimit)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		config: config,
		logger: logger,
		store:  store,
		limits: limits,
	}, nil
}

// OpenStore opens the store selected by config. The gorm handle is nil for
// the memory store.
func OpenStore(config Config) (ports.OrderGraphStore, *gorm.DB, error) {
	switch config.StoreDriver {
	case StoreDriverMemory:
		data, err := demo.Build(time.Now())
		if err != nil {
			return nil, nil, err
		}
		return memory.NewStore(data), nil, nil
	case StoreDriverPostgres:
		db, err := postgres.Open(config.DSN())
		if err != nil {
			return nil, nil, err
		}
		return orderrepo.NewGormOrderGraphStore(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", config.StoreDriver)
	}
}

func (c *CompositionRoot) CreateGraphReader() *graph.Reader {
	return graph.NewReader(c.store, c.logger)
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler(source string) queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(c.CreateGraphReader(), projection.NewProjector(), source)
}

func (c *CompositionRoot) CreateGetSimpleOrdersQueryHandler(source string) queries.GetSimpleOrdersQueryHandler {
	return queries.NewGetSimpleOrdersQueryHandler(c.CreateGraphReader(), projection.NewProjector(), source)
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateGetOrdersQueryHandler(metrics.SourceHTTP),
		c.CreateGetSimpleOrdersQueryHandler(metrics.SourceHTTP),
		c.limits,
	)
}

func (c *CompositionRoot) CreateRouter() *echo.Echo {
	return httpin.NewRouter(c.CreateServer(), c.logger)
}

// CreateJobManager returns a manager without jobs when no probe schedule is
// configured.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	if c.config.ProbeSchedule == "" {
		return jobs.NewJobManager(nil, c.logger)
	}

	probe := jobs.NewStrategyProbeJob(
		c.CreateGetOrdersQueryHandler(metrics.SourceProbe),
		c.CreateGetSimpleOrdersQueryHandler(metrics.SourceProbe),
		c.limits,
		c.config.ProbeSchedule,
		c.logger,
	)
	return jobs.NewJobManager(probe, c.logger)
}
