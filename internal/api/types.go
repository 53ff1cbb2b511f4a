// internal/api/types.go
package api

import (
	"encoding/json"

	"github.com/vecbridge/vecbridge/internal/search"
)

// ImportRequest is the body for POST /v1/databases
type ImportRequest struct {
	// Name overrides whatever name the payload carries, and becomes the
	// key the database is cached under.
	Name    string          `json:"name,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// ImportResponse describes an imported database
type ImportResponse struct {
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	Format    string `json:"format"`
	Dimension int    `json:"dimension"`
	Documents int    `json:"documents"`
}

// SearchRequest is the body for POST /v1/databases/{name}/search
type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK,omitempty"`
}

// SearchResponse carries ranked results and the assembled context block
type SearchResponse struct {
	Results []search.Result `json:"results"`
	Context string          `json:"context"`
}

// ConvertRequest is the body for POST /v1/convert
type ConvertRequest struct {
	Payload  json.RawMessage `json:"payload"`
	Target   string          `json:"target"`
	Encoding string          `json:"encoding,omitempty"`
}

// DatabaseInfo summarizes a cached database
type DatabaseInfo struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Documents int    `json:"documents"`
}

// ListResponse is the body for GET /v1/databases
type ListResponse struct {
	Databases []DatabaseInfo `json:"databases"`
}

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body for GET /health
type HealthResponse struct {
	Status string `json:"status"`
}
