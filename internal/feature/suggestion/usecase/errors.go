package usecase

import "errors"

// ErrNotFound is returned by repositories when no suggestion has the requested id.
var ErrNotFound = errors.New("suggestion not found")
