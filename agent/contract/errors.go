package contract

import "errors"

var (
	ErrValidation       = errors.New("validation failed")
	ErrInvalidMessage   = errors.New("message is invalid")
	ErrUnknownTool      = errors.New("unknown tool")
	ErrPartNotFound     = errors.New("part not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrModelInvoke      = errors.New("model invoke failed")
)
