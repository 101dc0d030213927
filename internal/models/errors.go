package models

import "errors"

var (
	ErrEmptyBatch    = errors.New("no files uploaded")
	ErrQueueFull     = errors.New("processing queue is full")
	ErrForbiddenPath = errors.New("path outside sandbox root")
)
