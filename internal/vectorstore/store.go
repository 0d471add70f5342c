// Package vectorstore provides a VecLite-based vector store for dream
// summaries, backing the follow-up Q&A retrieval.
package vectorstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abdul-hamid-achik/veclite"
)

const dreamsCollection = "dreams"

// Config holds configuration for the DreamStore.
type Config struct {
	// Path to the VecLite database file (e.g., "data/dreams.veclite").
	Path string

	// ConfigPath is the path to veclite.yaml config file (optional).
	// If empty, searches ./veclite.yaml, ~/.veclite/config.yaml.
	ConfigPath string
}

// DreamStore wraps VecLite for dream summary storage and search.
type DreamStore struct {
	vecdb    *veclite.DB
	coll     *veclite.Collection
	embedder veclite.Embedder
}

// DreamRecord is the payload stored per dream.
type DreamRecord struct {
	DreamID  int64
	UserID   int64
	Summary  string
	Themes   string
	Language string
}

// SearchResult represents a search result from the vector store.
type SearchResult struct {
	VecLiteID  uint64
	DreamID    int64
	UserID     int64
	Summary    string
	Themes     string
	Similarity float32
}

// New creates a new DreamStore using veclite.yaml configuration.
func New(cfg Config) (*DreamStore, error) {
	slog.Debug("creating DreamStore", "path", cfg.Path, "config_path", cfg.ConfigPath)

	vecliteCfg, err := veclite.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load veclite config: %w", err)
	}

	embedder, err := veclite.NewEmbedderFromConfig(vecliteCfg.Embedder)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	dimension := embedder.Dimension()
	slog.Debug("embedder created", "dimension", dimension)

	vecdb, err := veclite.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open veclite db: %w", err)
	}

	coll, err := vecdb.CreateCollection(dreamsCollection,
		veclite.WithDimension(dimension),
		veclite.WithDistanceType(veclite.DistanceCosine),
		veclite.WithHNSW(16, 200), // M=16, efConstruction=200
		veclite.WithTextIndex("summary", "themes"),
		veclite.WithEmbedder(embedder),
	)
	if err != nil {
		// Collection might already exist, try to get it
		coll, err = vecdb.GetCollection(dreamsCollection)
		if err != nil {
			vecdb.Close()
			return nil, fmt.Errorf("get collection: %w", err)
		}
	}

	return &DreamStore{
		vecdb:    vecdb,
		coll:     coll,
		embedder: embedder,
	}, nil
}

// Close closes the VecLite database.
func (s *DreamStore) Close() error {
	if s.vecdb != nil {
		return s.vecdb.Close()
	}
	return nil
}

// InsertDream adds a dream summary to the vector store.
// Returns the VecLite record ID.
func (s *DreamStore) InsertDream(ctx context.Context, rec DreamRecord) (uint64, error) {
	payload := map[string]any{
		"dream_id": rec.DreamID,
		"user_id":  rec.UserID,
		"summary":  rec.Summary,
		"themes":   rec.Themes,
		"language": rec.Language,
	}

	id, err := s.coll.InsertText(rec.Summary, payload)
	if err != nil {
		return 0, fmt.Errorf("insert dream: %w", err)
	}

	return id, nil
}

// Search finds dream summaries similar to the query text.
func (s *DreamStore) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	results, err := s.coll.SearchText(query, veclite.TopK(k))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return s.convertResults(results), nil
}

// SearchForUser finds the user's own dreams similar to the query.
func (s *DreamStore) SearchForUser(ctx context.Context, query string, userID int64, k int) ([]SearchResult, error) {
	queryVec, err := s.embedder.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.coll.Search(queryVec,
		veclite.TopK(k),
		veclite.WithFilter(veclite.Equal("user_id", userID)),
	)
	if err != nil {
		return nil, fmt.Errorf("search for user: %w", err)
	}

	return s.convertResults(results), nil
}

// Count returns the number of dreams in the store.
func (s *DreamStore) Count() int {
	return s.coll.Count()
}

// Sync persists any pending changes to disk.
func (s *DreamStore) Sync() error {
	return s.vecdb.Sync()
}

// convertResults converts VecLite results to SearchResults.
func (s *DreamStore) convertResults(results []veclite.Result) []SearchResult {
	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		sr := SearchResult{
			VecLiteID:  r.Record.ID,
			Similarity: r.Score,
		}

		if r.Record.Payload != nil {
			if id, ok := r.Record.Payload["dream_id"].(int64); ok {
				sr.DreamID = id
			} else if id, ok := r.Record.Payload["dream_id"].(int); ok {
				sr.DreamID = int64(id)
			}
			if id, ok := r.Record.Payload["user_id"].(int64); ok {
				sr.UserID = id
			} else if id, ok := r.Record.Payload["user_id"].(int); ok {
				sr.UserID = int64(id)
			}
			if summary, ok := r.Record.Payload["summary"].(string); ok {
				sr.Summary = summary
			}
			if themes, ok := r.Record.Payload["themes"].(string); ok {
				sr.Themes = themes
			}
		}

		if sr.Summary == "" && r.Record.Content != "" {
			sr.Summary = r.Record.Content
		}

		out = append(out, sr)
	}
	return out
}
