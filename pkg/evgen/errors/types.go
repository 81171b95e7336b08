package errors

import "fmt"

// ThresholdError indicates a system too light to produce the requested
// final state.
type ThresholdError struct {
	Mass      float64
	Threshold float64
}

// Error implements the error interface.
func (e *ThresholdError) Error() string {
	return fmt.Sprintf("mass %.4f below threshold %.4f", e.Mass, e.Threshold)
}

// ColourError indicates colour lines that do not close.
type ColourError struct {
	Open []int
}

// Error implements the error interface.
func (e *ColourError) Error() string {
	return fmt.Sprintf("open colour tags %v", e.Open)
}
