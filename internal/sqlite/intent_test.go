package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/pyeditor/internal/domain/session"
	"github.com/rpggio/pyeditor/internal/domain/workspace"
	"github.com/rpggio/pyeditor/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestIntentRepository_ConsumeReturnsNewestOnce(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewIntentRepository(db)

	intent, err := repo.Consume(ctx)
	require.NoError(t, err)
	require.True(t, intent.IsZero())

	require.NoError(t, repo.Push(ctx, session.Intent{OpenProjectID: "p1"}))
	require.NoError(t, repo.Push(ctx, session.Intent{OpenProjectID: "p2", OpenFileID: "f9", NewProjectCreated: true}))

	intent, err = repo.Consume(ctx)
	require.NoError(t, err)
	require.Equal(t, session.Intent{OpenProjectID: "p2", OpenFileID: "f9", NewProjectCreated: true}, intent)

	intent, err = repo.Consume(ctx)
	require.NoError(t, err)
	require.True(t, intent.IsZero())
}

func TestIntentRepository_ExampleFileRoundTrip(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewIntentRepository(db)

	example := workspace.ExampleFile("HTML Sayfası", "<h1>hi</h1>", time.UnixMilli(42))
	require.NoError(t, repo.Push(ctx, session.Intent{ExampleFile: &example}))

	intent, err := repo.Consume(ctx)
	require.NoError(t, err)
	require.NotNil(t, intent.ExampleFile)
	require.Equal(t, example, *intent.ExampleFile)
}

func TestIntentRepository_RejectsEmpty(t *testing.T) {
	repo := NewIntentRepository(NewTestDB(t))
	require.ErrorIs(t, repo.Push(context.Background(), session.Intent{}), repository.ErrInvalidInput)
}
