package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vecbridge/vecbridge/internal/codec"
	"github.com/vecbridge/vecbridge/internal/format"
	"github.com/vecbridge/vecbridge/internal/search"
)

// contextBudget caps the context block returned by vb_search
const contextBudget = 8000

// Handler holds dependencies for tool handlers
type Handler struct {
	importer *format.Importer
	svc      *search.Service
	cache    *search.Cache
}

// ImportInput defines the input schema for vb_import
type ImportInput struct {
	Payload string `json:"payload" jsonschema:"required" jsonschema_description:"Vector database export as a JSON string, in any supported format"`
	Name    string `json:"name,omitempty" jsonschema_description:"Name to register the database under (default: name from the payload)"`
}

// ImportOutput defines the output schema for vb_import
type ImportOutput struct {
	Name      string `json:"name"`
	Format    string `json:"format"`
	Dimension int    `json:"dimension"`
	Documents int    `json:"documents"`
}

// SearchInput defines the input schema for vb_search
type SearchInput struct {
	Database string `json:"database" jsonschema:"required" jsonschema_description:"Name of a previously imported database"`
	Query    string `json:"query" jsonschema:"required" jsonschema_description:"Search query to embed and match against documents"`
	TopK     int    `json:"top_k,omitempty" jsonschema_description:"Maximum number of results (default: 5)"`
}

// SearchOutput defines the output schema for vb_search
type SearchOutput struct {
	Results []search.Result `json:"results"`
	Context string          `json:"context"`
}

// ConvertInput defines the input schema for vb_convert
type ConvertInput struct {
	Payload  string `json:"payload" jsonschema:"required" jsonschema_description:"Vector database export as a JSON string, in any supported format"`
	Target   string `json:"target" jsonschema:"required" jsonschema_description:"Target format: canonical, chroma, qdrant, pinecone, weaviate, milvus, lancedb, duckdb, or redis"`
	Encoding string `json:"encoding,omitempty" jsonschema_description:"Output encoding: json (default), bson, or columnar"`
}

// ConvertOutput defines the output schema for vb_convert
type ConvertOutput struct {
	Output   string `json:"output"`
	Encoding string `json:"encoding"`
	// Base64 is true when the output is base64-encoded binary (bson)
	Base64 bool `json:"base64"`
}

// ListInput defines the input schema for vb_list
type ListInput struct{}

// DatabaseInfo summarizes a registered database
type DatabaseInfo struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Documents int    `json:"documents"`
}

// ListOutput defines the output schema for vb_list
type ListOutput struct {
	Databases []DatabaseInfo `json:"databases"`
}

// FormatsInput defines the input schema for vb_formats
type FormatsInput struct{}

// FormatsOutput defines the output schema for vb_formats
type FormatsOutput struct {
	ImportFormats []string `json:"import_formats"`
	ExportTargets []string `json:"export_targets"`
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// Register adds all VB tools to the MCP server
func Register(server *mcp.Server, importer *format.Importer, svc *search.Service, cache *search.Cache) {
	h := &Handler{importer: importer, svc: svc, cache: cache}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "vb_import",
		Description: "Import a vector database export (ChromaDB, Qdrant, Pinecone, Weaviate, Milvus, LanceDB, FAISS, or canonical) and register it for searching",
	}, h.Import)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "vb_search",
		Description: "Semantic search over a previously imported database",
	}, h.Search)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "vb_convert",
		Description: "Convert a vector database export from any supported format to a target format",
	}, h.Convert)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "vb_list",
		Description: "List registered databases",
	}, h.List)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "vb_formats",
		Description: "List supported import formats and export targets",
	}, h.Formats)
}

func (h *Handler) Import(ctx context.Context, req *mcp.CallToolRequest, input ImportInput) (*mcp.CallToolResult, ImportOutput, error) {
	if input.Payload == "" {
		return errorResult("payload is required"), ImportOutput{}, nil
	}

	var raw interface{}
	if err := json.Unmarshal([]byte(input.Payload), &raw); err != nil {
		return errorResult(fmt.Sprintf("payload is not valid JSON: %v", err)), ImportOutput{}, nil
	}

	detected, _ := format.Detect(raw)

	db, err := h.importer.Import(raw, "mcp")
	if err != nil {
		return errorResult(fmt.Sprintf("failed to import: %v", err)), ImportOutput{}, nil
	}

	if input.Name != "" {
		db.Name = input.Name
	}
	h.cache.Put(db.Name, db)

	out := ImportOutput{
		Name:      db.Name,
		Format:    string(detected),
		Dimension: db.Dimension,
		Documents: len(db.Documents),
	}
	msg := fmt.Sprintf("Imported %q (%s format): %d documents, dimension %d.",
		out.Name, out.Format, out.Documents, out.Dimension)
	return textResult(msg), out, nil
}

func (h *Handler) Search(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	if input.Database == "" || input.Query == "" {
		return errorResult("database and query are required"), SearchOutput{}, nil
	}

	db, ok := h.cache.Get(input.Database)
	if !ok {
		return errorResult(fmt.Sprintf("database %q not found: import it first with vb_import", input.Database)), SearchOutput{}, nil
	}

	results, err := h.svc.Search(ctx, db, input.Query, input.TopK)
	if err != nil {
		return errorResult(fmt.Sprintf("failed to search: %v", err)), SearchOutput{}, nil
	}

	if len(results) == 0 {
		return textResult("No matching documents found."), SearchOutput{Results: []search.Result{}}, nil
	}

	out := SearchOutput{
		Results: results,
		Context: search.ExtractContext(results, contextBudget),
	}
	return textResult(out.Context), out, nil
}

func (h *Handler) Convert(ctx context.Context, req *mcp.CallToolRequest, input ConvertInput) (*mcp.CallToolResult, ConvertOutput, error) {
	if input.Payload == "" || input.Target == "" {
		return errorResult("payload and target are required"), ConvertOutput{}, nil
	}

	target, err := format.ParseFormat(input.Target)
	if err != nil {
		return errorResult(err.Error()), ConvertOutput{}, nil
	}

	enc := codec.EncodingJSON
	if input.Encoding != "" {
		enc, err = codec.ParseEncoding(input.Encoding)
		if err != nil {
			return errorResult(err.Error()), ConvertOutput{}, nil
		}
	}
	if enc == codec.EncodingColumnar && target != format.FormatCanonical {
		return errorResult(fmt.Sprintf("columnar encoding requires the canonical target, got %q", target)), ConvertOutput{}, nil
	}

	var raw interface{}
	if err := json.Unmarshal([]byte(input.Payload), &raw); err != nil {
		return errorResult(fmt.Sprintf("payload is not valid JSON: %v", err)), ConvertOutput{}, nil
	}

	db, err := h.importer.Import(raw, "mcp-convert")
	if err != nil {
		return errorResult(fmt.Sprintf("failed to import: %v", err)), ConvertOutput{}, nil
	}

	exported, err := format.Export(db, target)
	if err != nil {
		return errorResult(fmt.Sprintf("failed to export: %v", err)), ConvertOutput{}, nil
	}

	data, err := codec.Marshal(exported, enc)
	if err != nil {
		return errorResult(fmt.Sprintf("failed to encode: %v", err)), ConvertOutput{}, nil
	}

	out := ConvertOutput{Encoding: string(enc)}
	if enc == codec.EncodingBSON {
		out.Output = base64.StdEncoding.EncodeToString(data)
		out.Base64 = true
	} else {
		out.Output = string(data)
	}
	return textResult(out.Output), out, nil
}

func (h *Handler) List(ctx context.Context, req *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
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

	if len(infos) == 0 {
		return textResult("No databases registered."), ListOutput{Databases: infos}, nil
	}

	result, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("failed to format response: %v", err)), ListOutput{}, nil
	}
	return textResult(string(result)), ListOutput{Databases: infos}, nil
}

func (h *Handler) Formats(ctx context.Context, req *mcp.CallToolRequest, input FormatsInput) (*mcp.CallToolResult, FormatsOutput, error) {
	out := FormatsOutput{}
	for _, f := range format.ImportFormats() {
		out.ImportFormats = append(out.ImportFormats, string(f))
	}
	for _, f := range format.ExportTargets {
		out.ExportTargets = append(out.ExportTargets, string(f))
	}

	result, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("failed to format response: %v", err)), FormatsOutput{}, nil
	}
	return textResult(string(result)), out, nil
}
