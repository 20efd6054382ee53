package dto

import "errors"

// Execution errors
var (
	ErrAlreadyStarted     = errors.New("execution already started")
	ErrExecutionFinished  = errors.New("execution already completed or failed")
	ErrNotSuspended       = errors.New("execution is not suspended")
	ErrNotRunning         = errors.New("execution is not in a resumable running state")
	ErrStepLimitExceeded  = errors.New("step limit exceeded")
	ErrNilGraph           = errors.New("graph cannot be nil")
	ErrNilStore           = errors.New("state store cannot be nil")
	ErrGraphMismatch      = errors.New("checkpoint belongs to a different graph")
	ErrUnresumableStatus  = errors.New("checkpoint status is not resumable")
	ErrPendingEdgeMissing = errors.New("checkpoint pending edge not found in graph")
)
