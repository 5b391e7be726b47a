package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/pyeditor/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	entry1 := &activity.ActivityEntry{
		SessionID:    "s1",
		ProjectID:    "p1",
		ActivityType: activity.TypeProjectOpened,
		Summary:      "opened project p1",
	}
	entry2 := &activity.ActivityEntry{
		SessionID:    "s1",
		ProjectID:    "p1",
		ActivityType: activity.TypeCodeExecuted,
		Summary:      "ran python code",
		Details:      `{"success":true}`,
	}

	require.NoError(t, repo.Log(ctx, "ayse", entry1))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.Log(ctx, "ayse", entry2))
	require.NotZero(t, entry1.ID)
	require.Equal(t, "ayse", entry2.Owner)

	entries, err := repo.List(ctx, "ayse", activity.ListActivityOptions{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.ActivityType, entries[0].ActivityType)
	require.Equal(t, entry1.ActivityType, entries[1].ActivityType)
	require.Equal(t, "s1", entries[0].SessionID)
	require.Nil(t, entries[0].FileID)
}

func TestActivityRepository_FiltersAndOwnerIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	sessionID := "s1"
	fileID := "f1"
	require.NoError(t, repo.Log(ctx, "ayse", &activity.ActivityEntry{
		SessionID:    sessionID,
		ProjectID:    "p1",
		FileID:       &fileID,
		ActivityType: activity.TypeFileSaved,
		Summary:      "saved main.py",
	}))
	require.NoError(t, repo.Log(ctx, "ayse", &activity.ActivityEntry{
		SessionID:    sessionID,
		ProjectID:    "p1",
		ActivityType: activity.TypeProjectOpened,
		Summary:      "opened project p1",
	}))
	require.NoError(t, repo.Log(ctx, "ali", &activity.ActivityEntry{
		ProjectID:    "p2",
		ActivityType: activity.TypeFileSaved,
		Summary:      "saved other.py",
	}))

	activityType := activity.TypeFileSaved
	entries, err := repo.List(ctx, "ayse", activity.ListActivityOptions{
		ProjectID:    "p1",
		SessionID:    &sessionID,
		FileID:       &fileID,
		ActivityType: &activityType,
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "f1", *entries[0].FileID)

	entries, err = repo.List(ctx, "ali", activity.ListActivityOptions{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, entries, 0)
}

func TestActivityRepository_LimitOffset(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Log(ctx, "ayse", &activity.ActivityEntry{
			ActivityType: activity.TypeFileSaved,
			Summary:      string(rune('a' + i)),
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := repo.List(ctx, "ayse", activity.ListActivityOptions{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "d", entries[0].Summary)
	require.Equal(t, "c", entries[1].Summary)

	entries, err = repo.List(ctx, "ayse", activity.ListActivityOptions{Offset: 3})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "b", entries[0].Summary)
}
