package sched

import "errors"

var (
	// ErrCapacityExceeded is returned by Register once every slot is taken.
	ErrCapacityExceeded = errors.New("task registry full")
	ErrInvalidPeriod    = errors.New("period must be at least one tick")
	ErrNilEntry         = errors.New("task entry is nil")
	// ErrStarted is returned when the registry is touched after Init, or
	// when Init is called twice.
	ErrStarted    = errors.New("scheduler already started")
	ErrNotStarted = errors.New("scheduler not started")
)
