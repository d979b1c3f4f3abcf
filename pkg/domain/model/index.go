package model

import "github.com/m-mizutani/goerr/v2"

// DefaultEmbeddingDimension matches Gemini text-embedding-004
const DefaultEmbeddingDimension = 768

// IndexConfig describes the vector index of a backend. Engines without
// build-time graph parameters record or ignore GraphDegree and
// BuildCandidates; a dimension mismatch against stored vectors is a
// fatal configuration error, not a per-record one.
type IndexConfig struct {
	Name            string `toml:"name"`
	Dimension       int    `toml:"dimension"`
	GraphDegree     int    `toml:"graph_degree"`
	BuildCandidates int    `toml:"build_candidates"`
}

// Normalize fills unset fields with defaults
func (c IndexConfig) Normalize() IndexConfig {
	if c.Name == "" {
		c.Name = "ideas"
	}
	if c.Dimension == 0 {
		c.Dimension = DefaultEmbeddingDimension
	}
	if c.GraphDegree == 0 {
		c.GraphDegree = 16
	}
	if c.BuildCandidates == 0 {
		c.BuildCandidates = 200
	}
	return c
}

// Validate checks the index configuration
func (c IndexConfig) Validate() error {
	if c.Dimension < 1 {
		return goerr.New("index dimension must be positive", goerr.V("dimension", c.Dimension))
	}
	if c.GraphDegree < 0 || c.BuildCandidates < 0 {
		return goerr.New("index build parameters must not be negative",
			goerr.V("graphDegree", c.GraphDegree),
			goerr.V("buildCandidates", c.BuildCandidates))
	}
	return nil
}
