package dataprocessing

import "errors"

// Processing errors. Everything not listed here degrades to sentinel or
// missing values instead of failing.
var (
	ErrNoInput           = errors.New("no input files")
	ErrNoColumns         = errors.New("grid has no columns")
	ErrAccountNotFound   = errors.New("account identifier not found in first data cell")
	ErrInvalidVocabulary = errors.New("invalid vocabulary")
	ErrUnknownMode       = errors.New("unknown processing mode")
)
