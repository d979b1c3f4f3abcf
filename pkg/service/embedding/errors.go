package embedding

import "errors"

// Sentinel errors for the embedding provider boundary
var (
	// ErrEmptyText is returned for empty input before any I/O
	ErrEmptyText = errors.New("embedding input text is empty")

	// ErrUnavailable is returned when the provider call fails or times out
	ErrUnavailable = errors.New("embedding provider unavailable")

	// ErrDimensionMismatch indicates the provider returned a vector of a
	// different dimensionality than configured. This is a configuration
	// error, not a per-record one.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
