package models

// QueryRequest is the request for a natural-language question
type QueryRequest struct {
	Q string `json:"q"`
}

// QueryResponse is the answer to a question. UsedVerses reports whether the
// answer is grounded in corpus verses.
type QueryResponse struct {
	Answer     string `json:"answer"`
	UsedVerses bool   `json:"used_verses"`
}

// HealthResponse reports service status and corpus load counts
type HealthResponse struct {
	Status           string `json:"status"`
	EmbeddingsLoaded int    `json:"embeddings_loaded"`
	MetadataLoaded   int    `json:"metadata_loaded"`
}

// InfoResponse is the root route's service descriptor
type InfoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Status  string `json:"status"`
}
