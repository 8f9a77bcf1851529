package services

import "errors"

// ErrNoUploads is returned by Process when it is called without files and
// without an upload validator
var ErrNoUploads = errors.New("no files uploaded")
