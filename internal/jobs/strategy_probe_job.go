package jobs

import (
	"context"
	"log/slog"
	"time"

	"shop/internal/core/application/usecases/queries"
	"shop/internal/core/domain/model/fetch"

	"github.com/robfig/cron/v3"
)

const probeTimeout = 30 * time.Second

// Endpoints a probe run covers.
const (
	EndpointOrders       = "orders"
	EndpointSimpleOrders = "simple-orders"
)

type OrdersHandler interface {
	Handle(ctx context.Context, query queries.GetOrdersQuery) (queries.GetOrdersQueryResponse, error)
}

type SimpleOrdersHandler interface {
	Handle(ctx context.Context, query queries.GetSimpleOrdersQuery) (queries.GetSimpleOrdersQueryResponse, error)
}

// ProbeResult is the cost of one strategy on the data the store holds now.
type ProbeResult struct {
	Endpoint string
	Version  string
	Orders   int
	Queries  int64
	Duration time.Duration
	Err      error
}

// StrategyProbeJob periodically reads the whole order graph through every
// strategy and logs what each one cost. Its handlers report to the metrics
// as the probe source, so the numbers stay apart from real traffic.
type StrategyProbeJob struct {
	ordersHandler       OrdersHandler
	simpleOrdersHandler SimpleOrdersHandler
	limits              queries.PageLimits
	schedule            string
	cron                *cron.Cron
	logger              *slog.Logger
}

// NewStrategyProbeJob creates a probe running on schedule, a cron expression
// with a seconds field.
func NewStrategyProbeJob(
	ordersHandler OrdersHandler,
	simpleOrdersHandler SimpleOrdersHandler,
	limits queries.PageLimits,
	schedule string,
	logger *slog.Logger,
) *StrategyProbeJob {
	return &StrategyProbeJob{
		ordersHandler:       ordersHandler,
		simpleOrdersHandler: simpleOrdersHandler,
		limits:              limits,
		schedule:            schedule,
		cron:                cron.New(cron.WithSeconds()),
		logger:              logger.With("component", "strategy_probe_job"),
	}
}

// Start schedules the probe.
func (j *StrategyProbeJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		j.Run(ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Strategy probe job started", "schedule", j.schedule)
	return nil
}

// Stop stops the schedule and waits for a running probe to finish.
func (j *StrategyProbeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Strategy probe job stopped")
}

// Run probes every strategy once, in version order. A failing strategy is
// logged and does not stop the others.
func (j *StrategyProbeJob) Run(ctx context.Context) []ProbeResult {
	results := make([]ProbeResult, 0, len(fetch.All())+len(fetch.AllSimple()))

	for _, strategy := range fetch.All() {
		if ctx.Err() != nil {
			break
		}
		results = append(results, j.log(ctx, j.probeOrders(ctx, strategy)))
	}
	for _, strategy := range fetch.AllSimple() {
		if ctx.Err() != nil {
			break
		}
		results = append(results, j.log(ctx, j.probeSimpleOrders(ctx, strategy)))
	}

	return results
}

func (j *StrategyProbeJob) probeOrders(ctx context.Context, strategy fetch.Strategy) ProbeResult {
	result := ProbeResult{Endpoint: EndpointOrders, Version: strategy.Version()}

	query, err := queries.NewGetOrdersQuery(strategy.Version(), nil, nil, fetch.OrderSearch{}, j.limits)
	if err != nil {
		result.Err = err
		return result
	}

	started := time.Now()
	response, err := j.ordersHandler.Handle(ctx, query)
	result.Duration = time.Since(started)
	result.Orders = response.Result.Count
	result.Queries = response.Queries
	result.Err = err
	return result
}

func (j *StrategyProbeJob) probeSimpleOrders(ctx context.Context, strategy fetch.SimpleStrategy) ProbeResult {
	result := ProbeResult{Endpoint: EndpointSimpleOrders, Version: strategy.Version()}

	query, err := queries.NewGetSimpleOrdersQuery(strategy.Version(), nil, nil, fetch.OrderSearch{}, j.limits)
	if err != nil {
		result.Err = err
		return result
	}

	started := time.Now()
	response, err := j.simpleOrdersHandler.Handle(ctx, query)
	result.Duration = time.Since(started)
	result.Orders = response.Result.Count
	result.Queries = response.Queries
	result.Err = err
	return result
}

func (j *StrategyProbeJob) log(ctx context.Context, result ProbeResult) ProbeResult {
	if result.Err != nil {
		j.logger.ErrorContext(ctx, "Strategy probe failed",
			"endpoint", result.Endpoint, "version", result.Version, "error", result.Err)
		return result
	}

	j.logger.InfoContext(ctx, "Strategy probed",
		"endpoint", result.Endpoint,
		"version", result.Version,
		"orders", result.Orders,
		"queries", result.Queries,
		"duration", result.Duration)
	return result
}
