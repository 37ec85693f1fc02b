package session

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	apperrors "github.com/yanqian/jungle-board/pkg/errors"
	"github.com/yanqian/jungle-board/pkg/metrics"
)

// Store is the single source of truth for the signed-in session. Writes from other processes
// sharing the same storage are last-write-wins; there is no compare-and-swap.
type Store struct {
	storage Storage
	key     string
	logger  *slog.Logger
	metrics *metrics.Recorder

	mu        sync.Mutex
	listeners map[uint64]Listener
	nextID    uint64
}

// NewStore builds a Store. A nil storage turns every operation into a no-op.
func NewStore(storage Storage, key string, logger *slog.Logger, recorder *metrics.Recorder) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		storage:   storage,
		key:       key,
		logger:    logger.With("component", "session.store"),
		metrics:   recorder,
		listeners: make(map[uint64]Listener),
	}
}

// Load returns the persisted session, or nil. Malformed records are removed.
func (s *Store) Load(ctx context.Context) *Session {
	if s.storage == nil {
		return nil
	}
	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("session read failed", "error", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	sess, err := decode(raw)
	if err != nil {
		s.logger.Warn("discarding malformed session record", "error", err)
		s.metrics.SessionEvent("purge")
		if err := s.storage.Remove(ctx, s.key); err != nil {
			s.logger.Warn("session purge failed", "error", err)
		}
		return nil
	}
	return &sess
}

// Save persists the session and notifies every subscriber before returning.
func (s *Store) Save(ctx context.Context, sess Session) error {
	if s.storage == nil {
		return nil
	}
	payload, err := encode(sess)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to encode session", err)
	}
	if err := s.storage.Set(ctx, s.key, payload); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to persist session", err)
	}
	s.metrics.SessionEvent("save")
	s.notify(&sess)
	return nil
}

// Clear removes the persisted session and notifies subscribers with nil.
func (s *Store) Clear(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}
	if err := s.storage.Remove(ctx, s.key); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to clear session", err)
	}
	s.metrics.SessionEvent("clear")
	s.notify(nil)
	return nil
}

// Subscribe registers listener and returns a func that removes it. The returned func is idempotent.
func (s *Store) Subscribe(listener Listener) func() {
	if listener == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Watch relays changes made by other processes to subscribers until ctx is done.
// It returns immediately when the storage cannot observe foreign writes.
func (s *Store) Watch(ctx context.Context) error {
	watcher, ok := s.storage.(Watcher)
	if !ok {
		return nil
	}
	changes, err := watcher.Watch(ctx, s.key)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, open := <-changes:
			if !open {
				return nil
			}
			s.metrics.SessionEvent("remote")
			s.notify(s.Load(ctx))
		}
	}
}

func (s *Store) notify(sess *Session) {
	s.mu.Lock()
	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	snapshot := make([]Listener, 0, len(ids))
	for _, id := range ids {
		snapshot = append(snapshot, s.listeners[id])
	}
	s.mu.Unlock()

	for _, listener := range snapshot {
		if sess == nil {
			listener(nil)
			continue
		}
		copied := *sess
		listener(&copied)
	}
}
