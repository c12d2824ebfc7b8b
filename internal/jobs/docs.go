// Package jobs runs the scheduled background work of the orchestrator on
// github.com/robfig/cron/v3 with second precision:
//
//   - CourierDispatchJob binds the oldest waiting delivery to the nearest
//     available courier (default every 5 seconds).
//   - MovementSimulationJob advances every active movement simulation by one
//     step (every second).
//
// Runs of the same job never overlap: a tick that fires while the previous
// run is still busy is skipped. Both jobs are owned by JobManager.
package jobs
