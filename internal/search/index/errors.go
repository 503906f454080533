package index

import "errors"

// ErrUnexpectedStatus indicates the index request returned a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// ErrIndexTooLarge indicates the index document exceeded MaxIndexSize.
var ErrIndexTooLarge = errors.New("search index too large")
