package model

import (
	"fmt"
	"strings"
)

// ValidationError indicates malformed or missing input. The caller can
// recover by correcting the request; it is never retried automatically.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError indicates that a referenced report, user or notification
// does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// ForbiddenError indicates that the authenticated principal does not own
// the resource it is trying to access.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// InvalidStatusError indicates that a raw status string does not match any
// value of the status vocabulary.
type InvalidStatusError struct {
	Input string
}

func (e *InvalidStatusError) Error() string {
	values := make([]string, len(AllStatuses))
	for i, status := range AllStatuses {
		values[i] = string(status)
	}
	return fmt.Sprintf("invalid status: %s, valid values are: %s", e.Input, strings.Join(values, ", "))
}
