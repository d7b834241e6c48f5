package pipeline

import "errors"

var (
	// ErrAnnotation wraps every failure of the annotation engine.
	ErrAnnotation = errors.New("annotation failed")

	// ErrLoadInput wraps every failure to read an input document.
	ErrLoadInput = errors.New("cannot read input")

	// ErrNoDocument is returned when a report is requested before annotation.
	ErrNoDocument = errors.New("run has no annotated document")

	// ErrNoInput is returned when a run has neither text nor an input file.
	ErrNoInput = errors.New("run has no input")
)
