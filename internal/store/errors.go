package store

import "errors"

// ErrNotFound is returned when a requested record does not exist in the store.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when creating an admin user whose email is
// already taken (case-insensitive).
var ErrDuplicateEmail = errors.New("email already in use")
