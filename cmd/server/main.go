package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vecbridge/vecbridge/internal/codec"
	"github.com/vecbridge/vecbridge/internal/embedder"
	"github.com/vecbridge/vecbridge/internal/format"
	"github.com/vecbridge/vecbridge/internal/search"
	"github.com/vecbridge/vecbridge/internal/tools"
)

// version is set by goreleaser via ldflags
var version = "dev"

func main() {
	// Embedder flags
	provider := flag.String("provider", "ollama", "Embedding provider: ollama, openai")
	ollamaURL := flag.String("ollama-url", "http://localhost:11434", "Ollama API URL")
	embeddingModel := flag.String("embedding-model", "", "Embedding model (provider default if empty)")
	openaiBaseURL := flag.String("openai-base-url", "", "OpenAI-compatible API base URL")

	// CLI mode flags
	convertFlag := flag.String("convert", "", "Convert input to the given target format and exit (CLI mode)")
	inFlag := flag.String("in", "", "Input file for -convert (default: stdin)")
	outFlag := flag.String("out", "", "Output file for -convert (default: stdout)")
	encodingFlag := flag.String("encoding", "", "Output encoding for -convert: json, bson, columnar (default: by output extension)")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Parse()

	if *versionFlag {
		fmt.Printf("vecbridge %s\n", version)
		return
	}

	// CLI mode - convert between formats
	if *convertFlag != "" {
		if err := runConvert(*convertFlag, *inFlag, *outFlag, *encodingFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx := context.Background()

	// Initialize embedder
	emb, err := embedder.New(embedder.Config{
		Provider:      *provider,
		OllamaURL:     *ollamaURL,
		OllamaModel:   *embeddingModel,
		OpenAIBaseURL: *openaiBaseURL,
		OpenAIModel:   *embeddingModel,
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
	})
	if err != nil {
		log.Fatalf("Failed to initialize embedder: %v", err)
	}

	importer := format.NewImporter(nil)
	svc := search.New(emb, nil)
	cache := search.NewCache()

	// Create MCP server
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "vecbridge",
		Version: version,
	}, nil)

	// Register tools
	tools.Register(server, importer, svc, cache)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutting down...")
		cancel()
	}()

	// Start server with stdio transport
	log.Println("Starting vecbridge MCP server...")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func runConvert(target, inPath, outPath, encoding string) error {
	tgt, err := format.ParseFormat(target)
	if err != nil {
		return err
	}

	var input []byte
	if inPath == "" || inPath == "-" {
		input, err = io.ReadAll(os.Stdin)
	} else {
		input, err = os.ReadFile(inPath)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	inEnc := codec.EncodingJSON
	if inPath != "" && inPath != "-" {
		inEnc = codec.DetectEncoding(inPath)
	}

	raw, err := codec.Unmarshal(input, inEnc)
	if err != nil {
		return fmt.Errorf("failed to decode input: %w", err)
	}

	source := inPath
	if source == "" || source == "-" {
		source = "stdin"
	}

	db, err := format.NewImporter(nil).Import(raw, source)
	if err != nil {
		return err
	}

	exported, err := format.Export(db, tgt)
	if err != nil {
		return err
	}

	outEnc := codec.EncodingJSON
	if encoding != "" {
		outEnc, err = codec.ParseEncoding(encoding)
		if err != nil {
			return err
		}
	} else if outPath != "" && outPath != "-" {
		outEnc = codec.DetectEncoding(outPath)
	}

	data, err := codec.Marshal(exported, outEnc)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	if outPath == "" || outPath == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}
