package errors

import "fmt"

var (
	ErrArtifactUnavailable = fmt.Errorf("artifact unavailable")
	ErrInsufficientData    = fmt.Errorf("insufficient labeled data")
	ErrLabelMismatch       = fmt.Errorf("documents and labels length mismatch")
	ErrEmptyInput          = fmt.Errorf("empty input")
	ErrUnknownLabel        = fmt.Errorf("label outside the training label set")
)
