package repository

import (
	"context"
	"net/http"

	"github.com/rpggio/pyeditor/internal/domain/activity"
	"github.com/rpggio/pyeditor/internal/domain/session"
)

// PreferenceRepository manages client preferences such as the theme
type PreferenceRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// IntentRepository manages one-shot navigation intents between CLI runs
type IntentRepository interface {
	Push(ctx context.Context, intent session.Intent) error
	Consume(ctx context.Context) (session.Intent, error)
}

// CookieRepository manages persisted backend session cookies
type CookieRepository interface {
	SaveCookies(ctx context.Context, scope string, cookies []*http.Cookie) error
	LoadCookies(ctx context.Context, scope string) ([]*http.Cookie, error)
	DeleteCookies(ctx context.Context, scope string) error
}

// ActivityRepository manages activity log persistence
type ActivityRepository interface {
	Log(ctx context.Context, owner string, entry *activity.ActivityEntry) error
	List(ctx context.Context, owner string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}
