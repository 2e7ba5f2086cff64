package scheduler

// Package scheduler starts the daily stock update at fixed wall-clock times.
// It handles:
// - The primary daily trigger (after market close)
// - Weekday backup triggers
// - Containment of run failures, so one bad run never stops the loop
//
// Triggers are in trigger.go, the gocron-driven check loop in jobs.go
