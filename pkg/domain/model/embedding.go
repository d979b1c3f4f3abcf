package model

// Embedding is the result of one embedding provider call: a vector of
// the configured dimensionality plus the token count of the input, kept
// for observability and cost tracking.
type Embedding struct {
	Vector []float32
	Tokens int
}
