package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vecbridge/vecbridge/internal/similarity"
	"github.com/vecbridge/vecbridge/internal/vectordb"
)

// MongoDB implements Store using MongoDB
type MongoDB struct {
	client    *mongo.Client
	db        *mongo.Database
	databases *mongo.Collection
}

// databaseDoc is the MongoDB document structure. A saved database is one
// document with its records embedded, so Save and Load stay atomic.
type databaseDoc struct {
	Name      string        `bson:"_id"`
	CreatedAt string        `bson:"created_at"`
	Dimension int           `bson:"dimension"`
	Documents []documentDoc `bson:"documents"`
}

type documentDoc struct {
	ID        string    `bson:"doc_id"`
	FileName  string    `bson:"file_name"`
	Content   string    `bson:"content"`
	Title     string    `bson:"title,omitempty"`
	CreatedAt string    `bson:"created_at,omitempty"`
	Embedding []float32 `bson:"embedding"`
}

// NewMongoDB creates a new MongoDB store
func NewMongoDB(ctx context.Context, uri, database string) (*MongoDB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(database)
	return &MongoDB{
		client:    client,
		db:        db,
		databases: db.Collection("databases"),
	}, nil
}

func (m *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (m *MongoDB) Save(ctx context.Context, db *vectordb.Database) error {
	doc := databaseDoc{
		Name:      db.Name,
		CreatedAt: db.CreatedAt,
		Dimension: db.Dimension,
		Documents: make([]documentDoc, 0, len(db.Documents)),
	}
	for _, d := range db.Documents {
		doc.Documents = append(doc.Documents, documentDoc{
			ID:        d.ID,
			FileName:  d.FileName,
			Content:   d.Content,
			Title:     d.Metadata.Title,
			CreatedAt: d.Metadata.CreatedAt,
			Embedding: d.Embedding,
		})
	}

	opts := options.Replace().SetUpsert(true)
	_, err := m.databases.ReplaceOne(ctx, bson.D{{Key: "_id", Value: db.Name}}, doc, opts)
	if err != nil {
		return fmt.Errorf("failed to save database: %w", err)
	}
	return nil
}

func (m *MongoDB) Load(ctx context.Context, name string) (*vectordb.Database, error) {
	var doc databaseDoc
	err := m.databases.FindOne(ctx, bson.D{{Key: "_id", Value: name}}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("database %q: %w", name, vectordb.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	db := &vectordb.Database{
		Name:      doc.Name,
		CreatedAt: doc.CreatedAt,
		Dimension: doc.Dimension,
		Documents: make([]vectordb.Document, 0, len(doc.Documents)),
	}
	for _, d := range doc.Documents {
		db.Documents = append(db.Documents, vectordb.Document{
			ID:        d.ID,
			FileName:  d.FileName,
			Content:   d.Content,
			Embedding: d.Embedding,
			Metadata:  vectordb.Metadata{Title: d.Title, CreatedAt: d.CreatedAt},
		})
	}
	return db, nil
}

func (m *MongoDB) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.D{{Key: "_id", Value: 1}}).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := m.databases.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var names []string
	for cursor.Next(ctx) {
		var doc struct {
			Name string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		names = append(names, doc.Name)
	}
	return names, cursor.Err()
}

func (m *MongoDB) Delete(ctx context.Context, name string) error {
	result, err := m.databases.DeleteOne(ctx, bson.D{{Key: "_id", Value: name}})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("database %q: %w", name, vectordb.ErrNotFound)
	}
	return nil
}

// Search ranks client-side. Atlas Vector Search needs a per-collection index
// with a fixed dimension, which saved databases do not share.
func (m *MongoDB) Search(ctx context.Context, name string, embedding []float32, limit int) ([]vectordb.Document, error) {
	if limit <= 0 {
		limit = 5
	}

	db, err := m.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	corpus := make([]similarity.Vector, len(db.Documents))
	for i, d := range db.Documents {
		corpus[i] = similarity.Vector{ID: d.ID, Values: d.Embedding}
	}

	ranked := similarity.Rank(embedding, corpus)
	if limit > len(ranked) {
		limit = len(ranked)
	}

	docs := make([]vectordb.Document, 0, limit)
	for _, r := range ranked[:limit] {
		docs = append(docs, db.Documents[r.Index])
	}
	return docs, nil
}
