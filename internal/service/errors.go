package service

import "errors"

// ErrNotInitialized is returned by accessors before Initialize has run.
var ErrNotInitialized = errors.New("service: not initialized")
