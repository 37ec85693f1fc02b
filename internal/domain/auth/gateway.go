package auth

import "context"

// Gateway abstracts the board API's auth endpoints.
type Gateway interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Register(ctx context.Context, payload RegisterPayload) error
}
