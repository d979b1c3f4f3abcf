package model

// IdeaMatch is one ranked semantic search result.
// Score is cosine similarity in [0,1]; Distance is 1 - Score.
type IdeaMatch struct {
	Idea     *Idea   `json:"idea"`
	Score    float64 `json:"score"`
	Distance float64 `json:"distance"`
}

// SearchOptions tunes a semantic search. Zero values fall back to the
// configured defaults.
type SearchOptions struct {
	Limit     int         `json:"limit,omitempty"`
	Threshold float64     `json:"threshold,omitempty"`
	Filter    *IdeaFilter `json:"filter,omitempty"`
}

// Stats reports record count and vector index footprint, best-effort
// per backend.
type Stats struct {
	Count     int `json:"count"`
	IndexSize int `json:"indexSize"`
}
