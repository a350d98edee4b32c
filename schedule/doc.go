// Package schedule drives recurring ingestion cycles on a cron cadence.
//
// The Service wraps a CycleRunner (normally the ingestion pipeline) and
// fires it on a standard five-field cron expression. Ticks never overlap:
// a tick arriving while a cycle is still running is logged and skipped.
package schedule
