// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package dasim

import "fmt"

// Error is a failure kind raised by the simulation engine. Call sites wrap
// one of the values below with context; match them with errors.Is.
type Error struct {
	Code    int32
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("dasim error %d: %s", e.Code, e.Message)
}

var (
	// ErrConfig indicates a malformed or internally inconsistent
	// configuration. It is raised before the first block is produced.
	ErrConfig = &Error{
		Code:    -1,
		Message: "invalid configuration",
	}
	// ErrSampling indicates that a draw requested more distinct nodes than
	// the pool holds. The run is aborted.
	ErrSampling = &Error{
		Code:    -2,
		Message: "sample exceeds pool",
	}
	// ErrRegistryInvariant indicates that the blob registry was asked to do
	// something that dense id assignment rules out, such as confirming a blob
	// that does not exist. It is logged and the operation is skipped.
	ErrRegistryInvariant = &Error{
		Code:    -3,
		Message: "registry invariant violated",
	}
	// ErrFinished is returned when stepping a simulation that already
	// produced its last block.
	ErrFinished = &Error{
		Code:    -4,
		Message: "simulation finished",
	}
	// ErrUnknownStrategy is returned when a strategy name does not match any
	// of the registered adversarial scenarios.
	ErrUnknownStrategy = &Error{
		Code:    -5,
		Message: "unknown strategy",
	}
)
