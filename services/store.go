// ABOUTME: Caller memory storage interface and shared validation rules
// ABOUTME: Selects the configured backend and wraps it with the read cache

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/markalston/callbridge/config"
	"github.com/markalston/callbridge/models"
)

var (
	ErrInvalidPhoneHash = errors.New("invalid phone hash")
	ErrEmptyText        = errors.New("text must not be empty")
)

// MemoryStore persists caller memory and operator notes.
type MemoryStore interface {
	// AddFact appends a fact for the caller and returns the updated memory.
	AddFact(ctx context.Context, phoneHash, fact, source string) (models.CallerMemory, error)
	// GetMemory returns the caller's memory. Unknown callers get an empty
	// memory, not an error.
	GetMemory(ctx context.Context, phoneHash string) (models.CallerMemory, error)
	// RecordCall counts a finished call and keeps its summary as a fact.
	RecordCall(ctx context.Context, phoneHash string, rec models.CallRecord) (models.CallerMemory, error)
	AddNote(ctx context.Context, text string) (models.Note, error)
	// ListNotes returns every note, oldest first.
	ListNotes(ctx context.Context) ([]models.Note, error)
	Close() error
}

// OpenStore opens the backend named by cfg.StoreBackend. A positive
// MemoryCacheTTL adds a read-through cache in front of it.
func OpenStore(ctx context.Context, cfg *config.Config) (MemoryStore, error) {
	var (
		store MemoryStore
		err   error
	)

	switch cfg.StoreBackend {
	case config.StoreBackendFile:
		store, err = NewFileStore(cfg.DataDir, cfg.MaxFactsPerCaller)
	case config.StoreBackendPostgres:
		store, err = NewPostgresStore(ctx, cfg.DatabaseURL, cfg.MaxFactsPerCaller)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("Memory store opened", "backend", cfg.StoreBackend, "max_facts", cfg.MaxFactsPerCaller)

	if cfg.MemoryCacheTTL > 0 {
		ttl := time.Duration(cfg.MemoryCacheTTL) * time.Second
		slog.Info("Memory read cache enabled", "ttl", ttl)
		return NewCachingStore(store, ttl), nil
	}
	return store, nil
}

// cleanText drops NUL bytes, trims text and rejects blank input.
// PostgreSQL text columns cannot hold NUL, so both backends store the same
// cleaned value.
func cleanText(text string) (string, error) {
	text = strings.TrimSpace(stripNUL(text))
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

func stripNUL(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}

// appendFact adds f and drops the oldest facts beyond limit.
func appendFact(facts []models.Fact, f models.Fact, limit int) []models.Fact {
	facts = append(facts, f)
	if limit > 0 && len(facts) > limit {
		facts = append([]models.Fact(nil), facts[len(facts)-limit:]...)
	}
	return facts
}

// emptyMemory is what GetMemory returns for a caller with no history.
func emptyMemory(phoneHash string) models.CallerMemory {
	return models.CallerMemory{PhoneHash: phoneHash, Facts: []models.Fact{}}
}
