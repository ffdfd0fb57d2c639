// Package jsonfile implements a storage.Adapter persisted as a single JSON
// file. Every operation reloads the file under a cross-process lock, so
// several processes can share one store.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/arthur-debert/nanofire/nanofire/storage"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FormatVersion is written into the metadata of every saved file
const FormatVersion = "1.0"

const (
	lockTimeout    = 3 * time.Second
	lockMaxRetries = 3
	lockRetryDelay = 100 * time.Millisecond
)

// fileData is the on-disk layout
type fileData struct {
	Entries  map[string]string `json:"entries"`
	Metadata Metadata          `json:"metadata"`
}

// Metadata describes the file
type Metadata struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is a storage.Adapter backed by one JSON file
type Store struct {
	path        string
	fs          FileSystem
	lockFactory FileLockFactory
	fileLock    FileLock
	timeFunc    func() time.Time
	logger      *slog.Logger

	mu   sync.Mutex
	data *fileData
}

var _ storage.Adapter = (*Store)(nil)

// Open creates a store for path, loading the file when it exists.
// A missing file is created on the first write.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:        path,
		fs:          OSFileSystem{},
		lockFactory: FlockFactory{},
		timeFunc:    time.Now,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.fileLock = s.lockFactory.New(path + ".lock")

	err := s.withLock(context.Background(), func() error {
		return s.load()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return s, nil
}

// Path returns the data file location
func (s *Store) Path() string {
	return s.path
}

// Metadata returns the metadata of the last loaded or saved state
func (s *Store) Metadata() Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Metadata
}

// Get implements storage.Adapter.Get
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := s.withLock(ctx, func() error {
		if err := s.load(); err != nil {
			return err
		}
		value, ok = s.data.Entries[key]
		return nil
	})
	return value, ok, err
}

// Set implements storage.Adapter.Set
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.withLock(ctx, func() error {
		if err := s.load(); err != nil {
			return err
		}
		s.data.Entries[key] = value
		return s.save()
	})
}

// Remove implements storage.Adapter.Remove
func (s *Store) Remove(ctx context.Context, key string) error {
	return s.withLock(ctx, func() error {
		if err := s.load(); err != nil {
			return err
		}
		if _, ok := s.data.Entries[key]; !ok {
			return nil
		}
		delete(s.data.Entries, key)
		return s.save()
	})
}

// Close implements storage.Adapter.Close
func (s *Store) Close() error {
	return nil
}

// withLock serializes fn within the process and across processes
func (s *Store) withLock(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	if err := s.acquireLock(ctx); err != nil {
		return err
	}
	defer func() { _ = s.fileLock.Unlock() }()

	return fn()
}

// acquireLock attempts to acquire the file lock with retry logic
func (s *Store) acquireLock(ctx context.Context) error {
	for i := 0; i < lockMaxRetries; i++ {
		locked, err := s.fileLock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return fmt.Errorf("failed to acquire lock: %w", err)
		}
		if locked {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
	return fmt.Errorf("failed to acquire lock after %d attempts", lockMaxRetries)
}

// load reads the file into memory. Caller must hold the lock.
func (s *Store) load() error {
	if _, err := s.fs.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		if s.data == nil {
			s.data = s.empty()
		} else {
			s.data.Entries = make(map[string]string)
		}
		return nil
	}

	raw, err := s.fs.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if len(raw) == 0 {
		s.data = s.empty()
		return nil
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	if data.Entries == nil {
		data.Entries = make(map[string]string)
	}
	s.data = &data
	return nil
}

// save writes the in-memory state atomically. Caller must hold the lock.
func (s *Store) save() error {
	s.data.Metadata.UpdatedAt = s.timeFunc()

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	tmpFile := s.path + ".tmp"
	if err := s.fs.WriteFile(tmpFile, raw, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := s.fs.Rename(tmpFile, s.path); err != nil {
		_ = s.fs.Remove(tmpFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	s.logger.Debug("store saved", "path", s.path, "entries", len(s.data.Entries))
	return nil
}

func (s *Store) empty() *fileData {
	now := s.timeFunc()
	return &fileData{
		Entries: make(map[string]string),
		Metadata: Metadata{
			Version:   FormatVersion,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}
