package activity

import "context"

// Repository provides persistence operations for activity entries.
type Repository interface {
	Log(ctx context.Context, owner string, entry *ActivityEntry) error
	List(ctx context.Context, owner string, opts ListActivityOptions) ([]ActivityEntry, error)
}
