package models

import "errors"

// Store-level errors shared by every repository backend.
var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
)
