package account

import "context"

// Backend performs the remote authentication calls.
type Backend interface {
	Me(ctx context.Context) (*User, error)
	Login(ctx context.Context, username, password string) (*User, error)
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Logout(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

// SessionStore keeps the backend session alive across processes.
type SessionStore interface {
	Save(ctx context.Context) error
	Clear(ctx context.Context) error
}
