package annotate

import "errors"

var (
	// ErrInvalidStage is returned when a stage configuration names an unknown
	// annotator or lists an annotator before its prerequisites.
	ErrInvalidStage = errors.New("invalid annotation stage")

	// ErrServer is returned when the annotation server rejects a request or
	// cannot be reached.
	ErrServer = errors.New("annotation server error")

	// ErrNotReady is returned when the annotation server does not become ready in time.
	ErrNotReady = errors.New("annotation server not ready")

	// ErrDecode is returned when an annotation document cannot be decoded.
	ErrDecode = errors.New("cannot decode annotation document")
)
