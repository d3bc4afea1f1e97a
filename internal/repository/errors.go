package repository

import "errors"

// ErrNotFound is returned when a requested record is not found in the repository.
// Services translate it into an application not-found error.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a write collides with a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")
