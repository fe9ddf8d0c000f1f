package enums

import "fmt"

// PipelineState tracks one checkout submission through the order pipeline.
type PipelineState string

const (
	PipelineStateUnauthenticated PipelineState = "unauthenticated"
	PipelineStateAuthorizing     PipelineState = "authorizing"
	PipelineStateComposing       PipelineState = "composing"
	PipelineStateSubmitting      PipelineState = "submitting"
	PipelineStateRecording       PipelineState = "recording"
	PipelineStateNotifying       PipelineState = "notifying"
	PipelineStateCompleted       PipelineState = "completed"
	PipelineStateDenied          PipelineState = "denied"
	PipelineStateSubmitFailed    PipelineState = "submit_failed"
)

var validPipelineStates = []PipelineState{
	PipelineStateUnauthenticated,
	PipelineStateAuthorizing,
	PipelineStateComposing,
	PipelineStateSubmitting,
	PipelineStateRecording,
	PipelineStateNotifying,
	PipelineStateCompleted,
	PipelineStateDenied,
	PipelineStateSubmitFailed,
}

// String implements fmt.Stringer.
func (s PipelineState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PipelineState.
func (s PipelineState) IsValid() bool {
	for _, candidate := range validPipelineStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition can leave the state.
func (s PipelineState) IsTerminal() bool {
	switch s {
	case PipelineStateCompleted, PipelineStateDenied, PipelineStateSubmitFailed:
		return true
	default:
		return false
	}
}

// IsFailure reports whether the state ends the submission without an accepted order.
func (s PipelineState) IsFailure() bool {
	return s == PipelineStateDenied || s == PipelineStateSubmitFailed
}

// ParsePipelineState converts raw input into a PipelineState.
func ParsePipelineState(value string) (PipelineState, error) {
	for _, candidate := range validPipelineStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pipeline state %q", value)
}
