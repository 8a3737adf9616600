// Package errors provides the sentinel errors of the dashboard service.
package errors

import "errors"

// ErrDataAccess marks a failed query. The driver error is joined to it.
var ErrDataAccess = errors.New("data access failed")

var ErrStoreNotFound = errors.New("store not found")
var ErrAccessDenied = errors.New("access denied")

var ErrInvalidYear = errors.New("invalid year")
var ErrUnsupportedFormat = errors.New("unsupported export format")
