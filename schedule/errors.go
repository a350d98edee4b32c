package schedule

import "errors"

var (
	// ErrRunnerRequired is returned when a cycle runner is not provided.
	ErrRunnerRequired = errors.New("cycle runner required")

	// ErrInvalidSchedule is returned when a cron expression does not parse.
	ErrInvalidSchedule = errors.New("invalid cron expression")

	// ErrAlreadyStarted is returned when Start is called on a running service.
	ErrAlreadyStarted = errors.New("scheduler already started")

	// ErrCycleInFlight is returned when a manual run collides with a
	// scheduled cycle that is still running.
	ErrCycleInFlight = errors.New("ingestion cycle already in flight")
)
