package quote

import "errors"

// Sentinel errors for builder and codec failures. Callers match with errors.Is;
// wrapped messages carry the offending field or input.
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidInput         = errors.New("invalid input")
	ErrCorruptDraft         = errors.New("corrupt draft")
)
