package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/yanqian/jungle-board/internal/domain/session"
)

const defaultPollInterval = time.Second

// FileStorage keeps one JSON file per key under dir. Several client processes may share the
// directory; Watch reports changes written by the others.
type FileStorage struct {
	dir          string
	pollInterval time.Duration
	logger       *slog.Logger

	mu    sync.Mutex
	known map[string]string
}

// NewFileStorage creates dir if needed.
func NewFileStorage(dir string, pollInterval time.Duration, logger *slog.Logger) (*FileStorage, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("session directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &FileStorage{
		dir:          dir,
		pollInterval: pollInterval,
		logger:       logger.With("component", "sessionstore.file"),
		known:        make(map[string]string),
	}, nil
}

// Get implements session.Storage.
func (s *FileStorage) Get(_ context.Context, key string) (string, bool, error) {
	value, ok, err := s.read(key)
	if err != nil {
		return "", false, err
	}
	return value, ok, nil
}

// Set writes through a temp file and rename so readers never see a partial record.
func (s *FileStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tmp, err := os.CreateTemp(s.dir, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	s.known[key] = value
	return nil
}

// Remove implements session.Storage. Removing an absent key is not an error.
func (s *FileStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	s.known[key] = ""
	return nil
}

// Watch polls the key's file and signals when its content differs from the last value this
// storage read or wrote.
func (s *FileStorage) Watch(ctx context.Context, key string) (<-chan struct{}, error) {
	current, _, err := s.read(key)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if _, ok := s.known[key]; !ok {
		s.known[key] = current
	}
	s.mu.Unlock()

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if s.changed(key) {
					select {
					case changes <- struct{}{}:
					default:
					}
				}
			}
		}
	}()
	return changes, nil
}

func (s *FileStorage) changed(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, _, err := s.read(key)
	if err != nil {
		s.logger.Warn("session poll failed", "error", err)
		return false
	}
	if s.known[key] == current {
		return false
	}
	s.known[key] = current
	return true
}

func (s *FileStorage) read(key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read session file: %w", err)
	}
	return string(data), true, nil
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

var (
	_ session.Storage = (*FileStorage)(nil)
	_ session.Watcher = (*FileStorage)(nil)
)
