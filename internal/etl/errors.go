package etl

import (
	"errors"
	"fmt"
)

// Stage identifies where in the pipeline a failure occurred.
type Stage string

const (
	StageExtract   Stage = "extract"
	StageTransform Stage = "transform"
	StageLoad      Stage = "load"
	StageAggregate Stage = "aggregate"
)

// ErrRunInProgress is returned when another run or clear holds the pipeline
// lock.
var ErrRunInProgress = errors.New("another run or clear is in progress")

// StageError wraps a failure with the stage it happened in and the page it
// happened on (1-based; 0 for the aggregate stage, which is not page-scoped).
type StageError struct {
	Stage Stage
	Page  int
	Err   error
}

func (e *StageError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("%s page %d: %v", e.Stage, e.Page, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
