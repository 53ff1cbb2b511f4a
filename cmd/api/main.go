// cmd/api/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vecbridge/vecbridge/internal/api"
	"github.com/vecbridge/vecbridge/internal/embedder"
	"github.com/vecbridge/vecbridge/internal/format"
	"github.com/vecbridge/vecbridge/internal/search"
	"github.com/vecbridge/vecbridge/internal/store"
)

func main() {
	// Server flags
	addr := flag.String("addr", ":8080", "Server address")

	// Store flags (optional; persistence routes are disabled without a driver)
	storeDriver := flag.String("store-driver", "", "Store driver: sqlite, postgres, mongodb (empty to disable persistence)")
	sqlitePath := flag.String("sqlite-path", ".vecbridge/databases.db", "Path to SQLite database (sqlite driver)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (postgres driver)")
	mongoURI := flag.String("mongodb-uri", "", "MongoDB connection URI (mongodb driver)")
	mongoDatabase := flag.String("mongodb-database", "vecbridge", "MongoDB database name (mongodb driver)")

	// Embedder flags
	provider := flag.String("provider", "ollama", "Embedding provider: ollama, openai")
	ollamaURL := flag.String("ollama-url", "http://localhost:11434", "Ollama API URL")
	embeddingModel := flag.String("embedding-model", "", "Embedding model (provider default if empty)")
	openaiBaseURL := flag.String("openai-base-url", "", "OpenAI-compatible API base URL")

	flag.Parse()

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

	// Initialize store (optional)
	var st store.Store
	if *storeDriver != "" {
		st, err = store.New(ctx, store.Config{
			Driver:          *storeDriver,
			SQLitePath:      *sqlitePath,
			PostgresDSN:     *postgresDSN,
			MongoDBURI:      *mongoURI,
			MongoDBDatabase: *mongoDatabase,
		})
		if err != nil {
			log.Fatalf("Failed to initialize store: %v", err)
		}
		defer st.Close()
	}

	importer := format.NewImporter(nil)
	svc := search.New(emb, nil)
	cache := search.NewCache()

	// Create handlers
	handlers := api.NewHandlers(importer, svc, cache, st)

	if st != nil {
		handlers.SetHealthCheck(func() error {
			_, err := st.List(context.Background())
			return err
		})
	}

	// Setup router
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(api.RequestID)
	r.Use(api.MaxBodySize)

	// Routes
	r.Get("/health", handlers.Health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/databases", handlers.Import)
		r.Get("/databases", handlers.List)
		r.Delete("/databases/{name}", handlers.Delete)
		r.Post("/databases/{name}/search", handlers.Search)
		r.Post("/convert", handlers.Convert)

		if st != nil {
			r.Post("/databases/{name}/save", handlers.Save)
			r.Post("/databases/{name}/load", handlers.Load)
		}
	})

	// Create server
	srv := &http.Server{
		Addr:         *addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool)
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}

		close(done)
	}()

	// Start server
	log.Printf("Starting API server on %s", *addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	<-done
	fmt.Println("Server stopped")
}
