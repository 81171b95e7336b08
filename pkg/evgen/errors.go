// Package evgen drives the generation of particle-collision events through
// a process stage, a parton stage and a hadron stage, with bounded retry
// of the later stages and a final validity check of the finished record.
package evgen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for setup.
var (
	// ErrNotInitialized indicates Next was called before a successful Init.
	ErrNotInitialized = errors.New("generator not initialized")

	// ErrBeamsNotSupported indicates a beam combination other than
	// p p, pbar p or l+ l-.
	ErrBeamsNotSupported = errors.New("beam combination not supported")

	// ErrBelowThreshold indicates a collision energy below the sum of the
	// beam masses.
	ErrBelowThreshold = errors.New("collision energy below threshold")

	// ErrNilStage indicates a required stage was nil.
	ErrNilStage = errors.New("stage cannot be nil")
)

// Sentinel errors for generation.
var (
	// ErrProcessFailed indicates the process stage failed. It is not retried.
	ErrProcessFailed = errors.New("process-level generation failed")

	// ErrProcessVetoed indicates a hook vetoed the hard process.
	ErrProcessVetoed = errors.New("process-level event vetoed")

	// ErrPartonVetoed indicates a hook vetoed the parton-level event.
	// The attempt is retried.
	ErrPartonVetoed = errors.New("parton-level event vetoed")

	// ErrRetriesExhausted indicates every parton/hadron attempt failed.
	ErrRetriesExhausted = errors.New("generation failed after maximum tries")

	// ErrUnphysicalEvent indicates the finished event failed the validity check.
	ErrUnphysicalEvent = errors.New("unphysical event")
)

// StageError wraps an error returned by a stage.
type StageError struct {
	// Stage is the stage name ("process", "parton", "hadron").
	Stage string
	// Attempt is the 1-based attempt number; always 1 for the process stage.
	Attempt int
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s (attempt %d): %v", e.Stage, e.Attempt, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StageError) Unwrap() error {
	return e.Err
}

// PanicError captures a panic raised inside a stage.
type PanicError struct {
	// Stage is the stage that panicked.
	Stage string
	// Value is the value passed to panic().
	Value any
	// Stack is the stack trace at the time of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("stage %s panicked: %v", e.Stage, e.Value)
}

// RetryError reports that the retry loop ran out of attempts.
type RetryError struct {
	// Attempts is the number of attempts made.
	Attempts int
	// Last is the error of the final attempt.
	Last error
}

// Error implements the error interface.
func (e *RetryError) Error() string {
	return fmt.Sprintf("generation failed after %d tries: %v", e.Attempts, e.Last)
}

// Unwrap returns ErrRetriesExhausted and the last error for errors.Is/As
// support.
func (e *RetryError) Unwrap() []error {
	return []error{ErrRetriesExhausted, e.Last}
}

// CheckError describes why an event failed the validity check.
type CheckError struct {
	// UnknownIDLines are record indices with a null or unknown species id.
	UnknownIDLines []int
	// NonFiniteLines are record indices with non-finite kinematics.
	NonFiniteLines []int
	// EPDeviation is the summed absolute deviation of the four-momentum.
	EPDeviation float64
	// EPLimit is the tolerated deviation, epTolerance times the lab energy.
	EPLimit float64
	// ChargeSum is the net charge of the final state minus the beams.
	ChargeSum float64
}

// Error implements the error interface.
func (e *CheckError) Error() string {
	var parts []string
	if len(e.UnknownIDLines) > 0 {
		parts = append(parts, fmt.Sprintf("unknown particle code in lines %v", e.UnknownIDLines))
	}
	if len(e.NonFiniteLines) > 0 {
		parts = append(parts, fmt.Sprintf("not-a-number energy/momentum/mass in lines %v", e.NonFiniteLines))
	}
	if e.EPDeviation > e.EPLimit {
		parts = append(parts, fmt.Sprintf("energy-momentum not conserved (deviation %.3e, limit %.3e)", e.EPDeviation, e.EPLimit))
	}
	if e.ChargeSum > chargeTolerance || e.ChargeSum < -chargeTolerance {
		parts = append(parts, fmt.Sprintf("charge not conserved (sum %.3f)", e.ChargeSum))
	}
	return "unphysical event: " + strings.Join(parts, "; ")
}

// Unwrap returns ErrUnphysicalEvent for errors.Is support.
func (e *CheckError) Unwrap() error {
	return ErrUnphysicalEvent
}

// StoreError wraps a failure to persist an accepted event.
type StoreError struct {
	// Op is the operation that failed ("save").
	Op string
	// Event is the event number.
	Event int64
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s for event %d: %v", e.Op, e.Event, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StoreError) Unwrap() error {
	return e.Err
}
