package domain

import "errors"

// ErrVideoNotFound is an error thrown when a video record is not found
var ErrVideoNotFound = errors.New("video not found")

// ErrAlreadyExists is an error thrown when an entity already exists
var ErrAlreadyExists = errors.New("already exists")

// ErrProviderRejected is an error thrown when the processing provider
// refuses asset creation; fatal for the attempt
var ErrProviderRejected = errors.New("provider rejected asset")

// ErrProviderUnavailable is an error thrown when the provider cannot be
// reached after retries; transient, triggers async fallback
var ErrProviderUnavailable = errors.New("provider unavailable")

// ErrAwaitTimeout is an error thrown when the synchronous wait budget is
// exceeded; not a failure state, triggers async fallback
var ErrAwaitTimeout = errors.New("await ready timed out")

// ErrStaleEvent is an error thrown when a webhook event would regress the
// state machine; logged and discarded, never surfaced to the provider
var ErrStaleEvent = errors.New("stale event")

// ErrUnresolvedEvent is an error thrown when an event matches no record by
// asset id or correlation token
var ErrUnresolvedEvent = errors.New("event matches no record")

// ErrInvalidFileType is an error thrown when the uploaded MIME type is not
// a supported video container
var ErrInvalidFileType = errors.New("invalid file type")
