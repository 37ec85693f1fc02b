package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/jungle-board/internal/domain/session"
)

type changeEvent struct {
	Origin string `json:"origin"`
	Key    string `json:"key"`
}

// ValkeyStorage persists records in Valkey and announces every write on a pub/sub channel so
// that other client processes sharing the server can refresh.
type ValkeyStorage struct {
	client valkey.Client
	prefix string
	origin string
	logger *slog.Logger

	retryMin time.Duration
	retryMax time.Duration
}

// NewValkeyStorage constructs a storage backed by Valkey.
func NewValkeyStorage(client valkey.Client, prefix string, logger *slog.Logger) *ValkeyStorage {
	if prefix == "" {
		prefix = "jungle-board"
	}
	return &ValkeyStorage{
		client: client,
		prefix: prefix,
		origin:   uuid.NewString(),
		logger:   logger.With("component", "sessionstore.valkey"),
		retryMin: 500 * time.Millisecond,
		retryMax: 30 * time.Second,
	}
}

// Get implements session.Storage.
func (s *ValkeyStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Do(ctx, s.client.B().Get().Key(s.recordKey(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Set implements session.Storage.
func (s *ValkeyStorage) Set(ctx context.Context, key, value string) error {
	if err := s.client.Do(ctx, s.client.B().Set().Key(s.recordKey(key)).Value(value).Build()).Error(); err != nil {
		return err
	}
	s.announce(ctx, key)
	return nil
}

// Remove implements session.Storage.
func (s *ValkeyStorage) Remove(ctx context.Context, key string) error {
	if err := s.client.Do(ctx, s.client.B().Del().Key(s.recordKey(key)).Build()).Error(); err != nil {
		return err
	}
	s.announce(ctx, key)
	return nil
}

// Watch subscribes to the change channel and signals writes from other origins. A dropped
// subscription is retried with backoff until ctx is done, and each resubscribe signals a change
// since writes may have been missed in between.
func (s *ValkeyStorage) Watch(ctx context.Context, key string) (<-chan struct{}, error) {
	changes := make(chan struct{}, 1)
	go s.subscribe(ctx, key, changes)
	return changes, nil
}

func (s *ValkeyStorage) subscribe(ctx context.Context, key string, changes chan struct{}) {
	defer close(changes)
	wait := s.retryMin
	for {
		started := time.Now()
		cmd := s.client.B().Subscribe().Channel(s.channel()).Build()
		err := s.client.Receive(ctx, cmd, func(msg valkey.PubSubMessage) {
			s.handle(msg, key, changes)
		})
		if ctx.Err() != nil {
			return
		}
		if time.Since(started) > s.retryMax {
			wait = s.retryMin
		}
		s.logger.Warn("session subscription ended, resubscribing", "error", err, "retry_in", wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		wait = min(wait*2, s.retryMax)
		signal(changes)
	}
}

func (s *ValkeyStorage) handle(msg valkey.PubSubMessage, key string, changes chan<- struct{}) {
	var evt changeEvent
	if err := json.Unmarshal([]byte(msg.Message), &evt); err != nil {
		s.logger.Warn("ignoring malformed change event", "error", err)
		return
	}
	if evt.Origin == s.origin || evt.Key != key {
		return
	}
	signal(changes)
}

func signal(changes chan<- struct{}) {
	select {
	case changes <- struct{}{}:
	default:
	}
}

func (s *ValkeyStorage) announce(ctx context.Context, key string) {
	payload, err := json.Marshal(changeEvent{Origin: s.origin, Key: key})
	if err != nil {
		return
	}
	cmd := s.client.B().Publish().Channel(s.channel()).Message(string(payload)).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		s.logger.Warn("session change publish failed", "error", err)
	}
}

func (s *ValkeyStorage) recordKey(key string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, key)
}

func (s *ValkeyStorage) channel() string {
	return fmt.Sprintf("%s:session:changed", s.prefix)
}

var (
	_ session.Storage = (*ValkeyStorage)(nil)
	_ session.Watcher = (*ValkeyStorage)(nil)
)
