// ABOUTME: JSON-file backed caller memory store
// ABOUTME: One file per caller plus a shared notes file, written atomically

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/markalston/callbridge/models"
)

const (
	memoryDirName = "memory"
	notesFileName = "notes.json"
)

// FileStore keeps caller memory under a data directory:
//
//	<dir>/memory/<phone_hash>.json
//	<dir>/notes.json
//
// A single mutex serializes all reads and writes.
type FileStore struct {
	mu       sync.Mutex
	dir      string
	maxFacts int
	now      func() time.Time
}

type notesFile struct {
	Notes []models.Note `json:"notes"`
}

// NewFileStore opens a file store rooted at dir, creating it if needed.
func NewFileStore(dir string, maxFacts int) (*FileStore, error) {
	if err := EnsureDataDir(dir); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir, maxFacts: maxFacts, now: time.Now}, nil
}

// EnsureDataDir creates dir and its memory subdirectory.
func EnsureDataDir(dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, memoryDirName), 0o750); err != nil {
		return fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	return nil
}

func (s *FileStore) AddFact(ctx context.Context, phoneHash, fact, source string) (models.CallerMemory, error) {
	if err := ValidatePhoneHash(phoneHash); err != nil {
		return models.CallerMemory{}, err
	}
	text, err := cleanText(fact)
	if err != nil {
		return models.CallerMemory{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mem, err := s.readMemory(phoneHash)
	if err != nil {
		return models.CallerMemory{}, err
	}
	mem.Facts = appendFact(mem.Facts, models.Fact{
		Text:      text,
		Source:    source,
		CreatedAt: s.now().UTC(),
	}, s.maxFacts)

	if err := s.writeJSON(s.memoryPath(phoneHash), mem); err != nil {
		return models.CallerMemory{}, err
	}
	return mem, nil
}

func (s *FileStore) GetMemory(ctx context.Context, phoneHash string) (models.CallerMemory, error) {
	if err := ValidatePhoneHash(phoneHash); err != nil {
		return models.CallerMemory{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readMemory(phoneHash)
}

func (s *FileStore) RecordCall(ctx context.Context, phoneHash string, rec models.CallRecord) (models.CallerMemory, error) {
	if err := ValidatePhoneHash(phoneHash); err != nil {
		return models.CallerMemory{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mem, err := s.readMemory(phoneHash)
	if err != nil {
		return models.CallerMemory{}, err
	}

	endedAt := rec.EndedAt
	if endedAt.IsZero() {
		endedAt = s.now()
	}
	endedAt = endedAt.UTC()

	mem.CallCount++
	mem.LastCallAt = &endedAt
	mem.LastCallSID = stripNUL(rec.CallSID)
	if summary, err := cleanText(rec.Summary); err == nil {
		mem.Facts = appendFact(mem.Facts, models.Fact{
			Text:      summary,
			Source:    models.FactSourcePostCall,
			CreatedAt: endedAt,
		}, s.maxFacts)
	}

	if err := s.writeJSON(s.memoryPath(phoneHash), mem); err != nil {
		return models.CallerMemory{}, err
	}
	return mem, nil
}

func (s *FileStore) AddNote(ctx context.Context, text string) (models.Note, error) {
	text, err := cleanText(text)
	if err != nil {
		return models.Note{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.readNotes()
	if err != nil {
		return models.Note{}, err
	}

	note := models.Note{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: s.now().UTC(),
	}
	notes.Notes = append(notes.Notes, note)

	if err := s.writeJSON(filepath.Join(s.dir, notesFileName), notes); err != nil {
		return models.Note{}, err
	}
	return note, nil
}

func (s *FileStore) ListNotes(ctx context.Context) ([]models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.readNotes()
	if err != nil {
		return nil, err
	}
	return notes.Notes, nil
}

// Close is a no-op; every write is already on disk.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) memoryPath(phoneHash string) string {
	return filepath.Join(s.dir, memoryDirName, phoneHash+".json")
}

// readMemory loads a caller file. Must be called while holding s.mu.
func (s *FileStore) readMemory(phoneHash string) (models.CallerMemory, error) {
	mem := emptyMemory(phoneHash)
	found, err := s.readJSON(s.memoryPath(phoneHash), &mem)
	if err != nil || !found {
		return mem, err
	}
	mem.PhoneHash = phoneHash
	if mem.Facts == nil {
		mem.Facts = []models.Fact{}
	}
	return mem, nil
}

// readNotes loads the notes file. Must be called while holding s.mu.
func (s *FileStore) readNotes() (notesFile, error) {
	notes := notesFile{Notes: []models.Note{}}
	if _, err := s.readJSON(filepath.Join(s.dir, notesFileName), &notes); err != nil {
		return notes, err
	}
	if notes.Notes == nil {
		notes.Notes = []models.Note{}
	}
	return notes, nil
}

// readJSON decodes path into v. A missing file leaves v untouched and
// reports found=false.
func (s *FileStore) readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", path, err)
	}
	return true, nil
}

// writeJSON replaces path atomically via a temp file in the same directory.
func (s *FileStore) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", path, err)
	}

	success = true
	return nil
}
