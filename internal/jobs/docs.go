// Package jobs provides scheduled background tasks for the drone simulator.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Schedules use the six field form with seconds.
//
// # Available Jobs
//
// 1. RenderJob - Polls the terminal renderer (every second by default) and redraws the grid when it changed
// 2. SimulationJob - Replays the scenario on a configured schedule and records each run
//
// # Usage
//
//	renderJob := jobs.NewRenderJob(terminal, jobs.RenderEverySecond, logger)
//	simulationJob := jobs.NewSimulationJob(handler, recorder, "greedy", 42, "0 */5 * * * *", logger)
//
//	jobManager := jobs.NewJobManager(renderJob, simulationJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Both jobs log failures and keep their schedule
// - A tick still running when the next one is due is skipped
// - Failed job starts will stop any already running jobs
package jobs
