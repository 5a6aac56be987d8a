package models

import "errors"

// ErrNotFound is returned by stores when the requested row does not exist.
var ErrNotFound = errors.New("not found")
