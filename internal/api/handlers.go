// internal/api/handlers.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vecbridge/vecbridge/internal/codec"
	"github.com/vecbridge/vecbridge/internal/format"
	"github.com/vecbridge/vecbridge/internal/search"
	"github.com/vecbridge/vecbridge/internal/store"
	"github.com/vecbridge/vecbridge/internal/vectordb"
)

// contextBudget caps the assembled context block returned by search
const contextBudget = 8000

// Handlers holds HTTP handler dependencies. The store is optional; the
// persistence routes are only mounted when one is configured.
type Handlers struct {
	importer    *format.Importer
	svc         *search.Service
	cache       *search.Cache
	store       store.Store
	healthCheck func() error
}

// NewHandlers creates new API handlers
func NewHandlers(importer *format.Importer, svc *search.Service, cache *search.Cache, st store.Store) *Handlers {
	return &Handlers{
		importer: importer,
		svc:      svc,
		cache:    cache,
		store:    st,
	}
}

// SetHealthCheck installs a connectivity probe run by the health endpoint
func (h *Handlers) SetHealthCheck(fn func() error) {
	h.healthCheck = fn
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, ErrorResponse{Error: msg})
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.healthCheck != nil {
		if err := h.healthCheck(); err != nil {
			h.respondError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
	}
	h.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Import handles POST /v1/databases
func (h *Handlers) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Payload) == 0 {
		h.respondError(w, http.StatusBadRequest, "payload is required")
		return
	}

	var raw interface{}
	if err := json.Unmarshal(req.Payload, &raw); err != nil {
		h.respondError(w, http.StatusBadRequest, "payload is not valid JSON")
		return
	}

	detected, _ := format.Detect(raw)

	db, err := h.importer.Import(raw, "api")
	if err != nil {
		if errors.Is(err, vectordb.ErrUnrecognizedFormat) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if req.Name != "" {
		db.Name = req.Name
	}
	h.cache.Put(db.Name, db)

	h.respondJSON(w, http.StatusCreated, ImportResponse{
		Name:      db.Name,
		CreatedAt: db.CreatedAt,
		Format:    string(detected),
		Dimension: db.Dimension,
		Documents: len(db.Documents),
	})
}

// List handles GET /v1/databases
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	infos := []DatabaseInfo{}
	for _, key := range h.cache.Keys() {
		db, ok := h.cache.Get(key)
		if !ok {
			continue
		}
		infos = append(infos, DatabaseInfo{
			Name:      db.Name,
			Dimension: db.Dimension,
			Documents: len(db.Documents),
		})
	}
	h.respondJSON(w, http.StatusOK, ListResponse{Databases: infos})
}

// Delete handles DELETE /v1/databases/{name}
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, ok := h.cache.Get(name); !ok {
		h.respondError(w, http.StatusNotFound, fmt.Sprintf("database %q not found", name))
		return
	}
	h.cache.Invalidate(name)
	w.WriteHeader(http.StatusNoContent)
}

// Search handles POST /v1/databases/{name}/search
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	db, ok := h.cache.Get(name)
	if !ok {
		h.respondError(w, http.StatusNotFound, fmt.Sprintf("database %q not found", name))
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		h.respondError(w, http.StatusBadRequest, "query is required")
		return
	}

	results, err := h.svc.Search(r.Context(), db, req.Query, req.TopK)
	if err != nil {
		switch {
		case errors.Is(err, vectordb.ErrDimensionMismatch):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, vectordb.ErrProviderUnavailable):
			h.respondError(w, http.StatusServiceUnavailable, err.Error())
		default:
			h.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.respondJSON(w, http.StatusOK, SearchResponse{
		Results: results,
		Context: search.ExtractContext(results, contextBudget),
	})
}

// Convert handles POST /v1/convert
func (h *Handlers) Convert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Payload) == 0 || req.Target == "" {
		h.respondError(w, http.StatusBadRequest, "payload and target are required")
		return
	}

	target, err := format.ParseFormat(req.Target)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	enc := codec.EncodingJSON
	if req.Encoding != "" {
		enc, err = codec.ParseEncoding(req.Encoding)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if enc == codec.EncodingColumnar && target != format.FormatCanonical {
		h.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("columnar encoding requires the canonical target, got %q", target))
		return
	}

	var raw interface{}
	if err := json.Unmarshal(req.Payload, &raw); err != nil {
		h.respondError(w, http.StatusBadRequest, "payload is not valid JSON")
		return
	}

	db, err := h.importer.Import(raw, "convert")
	if err != nil {
		if errors.Is(err, vectordb.ErrUnrecognizedFormat) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	exported, err := format.Export(db, target)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := codec.Marshal(exported, enc)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", codec.MIMEType(enc))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Save handles POST /v1/databases/{name}/save
func (h *Handlers) Save(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	db, ok := h.cache.Get(name)
	if !ok {
		h.respondError(w, http.StatusNotFound, fmt.Sprintf("database %q not found", name))
		return
	}

	if err := h.store.Save(r.Context(), db); err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, DatabaseInfo{
		Name:      db.Name,
		Dimension: db.Dimension,
		Documents: len(db.Documents),
	})
}

// Load handles POST /v1/databases/{name}/load
func (h *Handlers) Load(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	db, err := h.store.Load(r.Context(), name)
	if err != nil {
		if errors.Is(err, vectordb.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.cache.Put(db.Name, db)
	h.respondJSON(w, http.StatusOK, DatabaseInfo{
		Name:      db.Name,
		Dimension: db.Dimension,
		Documents: len(db.Documents),
	})
}
