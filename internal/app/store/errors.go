// internal/app/store/errors.go

// Package store holds errors shared by the per-collection stores.
package store

import "errors"

// ErrNotFound is returned when a lookup, update or delete matches no document.
var ErrNotFound = errors.New("record not found")

// ErrExists is returned when a create collides with an existing _id.
var ErrExists = errors.New("record already exists")
