package pipeline

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step an error originated from.
type Stage string

const (
	StageValidate  Stage = "validate"
	StageSynthesis Stage = "synthesis"
	StageSearch    Stage = "search"
	StageAllocate  Stage = "allocate"
	StageDownload  Stage = "download"
	StageTranscode Stage = "transcode"
	StageConcat    Stage = "concat"
	StageMux       Stage = "mux"
)

// Error taxonomy. All are segment-scoped except ErrConcatenationFailure,
// which also covers the run-scoped final join.
var (
	ErrMalformedSegment     = errors.New("malformed segment")
	ErrSynthesisFailure     = errors.New("synthesis failure")
	ErrNoFootageFound       = errors.New("no footage found")
	ErrInsufficientFootage  = errors.New("insufficient footage")
	ErrDownloadFailure      = errors.New("download failure")
	ErrTranscodeFailure     = errors.New("transcode failure")
	ErrConcatenationFailure = errors.New("concatenation failure")
)

// SegmentError identifies the failing segment index and stage so callers
// can surface a structured failure instead of an opaque one.
type SegmentError struct {
	Index int
	Stage Stage
	Err   error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("segment %d: %s: %v", e.Index, e.Stage, e.Err)
}

func (e *SegmentError) Unwrap() error { return e.Err }

func segmentErr(index int, stage Stage, err error) error {
	return &SegmentError{Index: index, Stage: stage, Err: err}
}
