package interaction

import (
	"errors"
)

// Stage-classified run failures. Every error returned by Controller.Run wraps
// exactly one of these.
var (
	ErrInvalidRequest = errors.New("schema name, procedure name and query are required")
	ErrConnection     = errors.New("database connection failed")
	ErrNotFound       = errors.New("stored procedure not found")
	ErrQuery          = errors.New("catalog query failed")
	ErrPersist        = errors.New("saving stored procedure failed")
	ErrAnalysis       = errors.New("analysis failed")
)

// Stage is the step a run failed in. Recording has no stage of its own
// because appending to a history cannot fail.
type Stage string

const (
	StageIdle       Stage = "idle"
	StageConnecting Stage = "connecting"
	StageReading    Stage = "reading"
	StagePersisting Stage = "persisting"
	StageAnalyzing  Stage = "analyzing"
)

// StageError records which stage a run failed in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage a run error came from, or StageIdle.
func FailedStage(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return StageIdle
}
