package theme

import (
	"context"
	"testing"

	"github.com/rpggio/pyeditor/internal/domain/workspace"
	"github.com/rpggio/pyeditor/internal/repository"
	"github.com/stretchr/testify/require"
)

type memStore map[string]string

func (m memStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return v, nil
}

func (m memStore) Set(_ context.Context, key, value string) error {
	m[key] = value
	return nil
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Dark ")
	require.NoError(t, err)
	require.Equal(t, ModeDark, m)

	_, err = ParseMode("sepia")
	require.ErrorIs(t, err, ErrInvalidMode)
}

func TestService_DefaultsToSystem(t *testing.T) {
	ctx := context.Background()
	store := memStore{}
	svc := NewService(store, nil)
	require.Equal(t, ModeSystem, svc.Current(ctx))

	store[PreferenceKey] = "garbage"
	require.Equal(t, ModeSystem, svc.Current(ctx))
}

func TestService_SetAndToggle(t *testing.T) {
	ctx := context.Background()
	store := memStore{}
	svc := NewService(store, nil)
	svc.darkSystem = func() bool { return true }

	require.Equal(t, ModeDark, svc.Resolve(ModeSystem))

	next, err := svc.Toggle(ctx)
	require.NoError(t, err)
	require.Equal(t, ModeLight, next)
	require.Equal(t, "light", store[PreferenceKey])

	next, err = svc.Toggle(ctx)
	require.NoError(t, err)
	require.Equal(t, ModeDark, next)

	require.ErrorIs(t, svc.Set(ctx, Mode("blue")), ErrInvalidMode)
	require.NoError(t, svc.Set(ctx, ModeSystem))
	require.Equal(t, ModeSystem, svc.Current(ctx))
}

func TestIcon(t *testing.T) {
	require.Equal(t, "📁", Icon(workspace.FileRecord{Kind: workspace.KindProject}))
	require.Equal(t, "🐍", Icon(workspace.FileRecord{Kind: workspace.KindFile, Name: "a.py"}))
	require.Equal(t, "🌐", Icon(workspace.FileRecord{Kind: workspace.KindFile, Name: "x", Language: workspace.LanguageHTML}))
	require.Equal(t, "📄", Icon(workspace.FileRecord{Kind: workspace.KindFile, Name: "notes.txt"}))
}

func TestPaletteFor_FileStyles(t *testing.T) {
	p := PaletteFor(ModeDark)
	py := p.ForFile(workspace.FileRecord{Kind: workspace.KindFile, Name: "a.py"})
	require.Equal(t, p.languages[workspace.LanguagePython].GetForeground(), py.GetForeground())
	require.Equal(t, p.Folder.GetForeground(), p.ForFile(workspace.FileRecord{Kind: workspace.KindFolder}).GetForeground())
	require.Equal(t, p.File.GetForeground(), p.ForFile(workspace.FileRecord{Kind: workspace.KindFile, Name: "x.txt"}).GetForeground())
}
