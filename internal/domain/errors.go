// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation indicates client input failed a validation rule.
var ErrValidation = errors.New("validation failed")

// ErrInvocation indicates the external queue program could not be run or
// produced output that could not be understood.
var ErrInvocation = errors.New("queue invocation failed")
