package vectordb

import "errors"

// ErrUnrecognizedFormat is returned when raw input matches none of the
// known vector store export shapes.
var ErrUnrecognizedFormat = errors.New("unrecognized vector database format")

// ErrDimensionMismatch is returned when a query embedding's length differs
// from the database dimension.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// ErrProviderUnavailable is returned when the embedding provider fails or
// times out. Retry policy, if any, belongs to the caller.
var ErrProviderUnavailable = errors.New("embedding provider unavailable")

// ErrNotFound is returned when a named database does not exist.
var ErrNotFound = errors.New("database not found")
