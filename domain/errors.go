package domain

import "errors"

// ErrTaskNotFound indicates an operation required an existing task row and
// found none. Only raise-to-front reports it; plain updates and deletes
// treat a missing id as a no-op.
var ErrTaskNotFound = errors.New("task not found")
