// Package ident hands out record identifiers.
package ident

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator returns a fresh identifier on every call. Identifiers are never
// repeated for the lifetime of the generator.
type Generator interface {
	NewID() string
}

// UUID generates random v4 UUIDs.
type UUID struct{}

func (UUID) NewID() string { return uuid.NewString() }

// Counter generates prefix-1, prefix-2, ... and is safe for concurrent use.
type Counter struct {
	prefix string
	n      atomic.Uint64
}

func NewCounter(prefix string) *Counter {
	return &Counter{prefix: prefix}
}

func (c *Counter) NewID() string {
	return c.prefix + "-" + strconv.FormatUint(c.n.Add(1), 10)
}
