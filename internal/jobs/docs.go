// Package jobs provides scheduled background tasks for the read API.
//
// Jobs are cron based (github.com/robfig/cron/v3, with a seconds field).
//
// # Available Jobs
//
// StrategyProbeJob reads the whole order graph through every fetch strategy
// of both endpoints and logs the orders returned, the store round trips and
// the duration of each one. Run it against production sized data to decide
// between strategies whose cost depends on the data, such as v5 against v6.
//
// # Usage
//
//	probe := jobs.NewStrategyProbeJob(ordersHandler, simpleOrdersHandler, limits, "0 */5 * * * *", logger)
//	jobManager := jobs.NewJobManager(probe, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failing strategy is logged and the run goes on with the next one. A
// cancelled context ends the run early.
package jobs
