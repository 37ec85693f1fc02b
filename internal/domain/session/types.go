package session

import "context"

// DefaultKey is the storage key holding the serialized session record.
const DefaultKey = "jungle-board-auth"

// User is the profile returned by the board API on login.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is the signed-in user's bearer token and profile.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Listener observes session changes; nil means signed out.
type Listener func(*Session)

// Storage is the key/value backend the Store persists into.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Watcher is implemented by storages that can observe writes made by other processes.
// Writes made through the same Storage value must not be reported.
type Watcher interface {
	Watch(ctx context.Context, key string) (<-chan struct{}, error)
}
