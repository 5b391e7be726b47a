package workspace_test

import (
	"testing"
	"time"

	"github.com/rpggio/pyeditor/internal/domain/workspace"
	"github.com/stretchr/testify/require"
)

func TestDefaultContent(t *testing.T) {
	require.Equal(t, "# Yeni Python dosyası\nprint(\"Merhaba Dünya!\")\n", workspace.DefaultContent(workspace.LanguagePython))
	require.Contains(t, workspace.DefaultContent(workspace.LanguageHTML), "<!DOCTYPE html>")
	require.Contains(t, workspace.DefaultContent(workspace.LanguageCSS), "/* Yeni CSS Dosyası */")
	require.Contains(t, workspace.DefaultContent(workspace.LanguageJavaScript), "console.log")

	seen := map[string]bool{}
	for _, lang := range workspace.Languages() {
		body := workspace.DefaultContent(lang)
		require.False(t, seen[body], "templates must differ per language")
		seen[body] = true
	}
}

func TestParseLanguage(t *testing.T) {
	lang, err := workspace.ParseLanguage("")
	require.NoError(t, err)
	require.Equal(t, workspace.LanguagePython, lang)

	lang, err = workspace.ParseLanguage("JS")
	require.NoError(t, err)
	require.Equal(t, workspace.LanguageJavaScript, lang)

	_, err = workspace.ParseLanguage("ruby")
	require.ErrorIs(t, err, workspace.ErrUnsupportedLanguage)
}

func TestEnsureExtension(t *testing.T) {
	require.Equal(t, "app.py", workspace.EnsureExtension("app", workspace.LanguagePython))
	require.Equal(t, "index.html", workspace.EnsureExtension("index", workspace.LanguageHTML))
	require.Equal(t, "notes.txt", workspace.EnsureExtension("notes.txt", workspace.LanguagePython))

	lang, ok := workspace.LanguageForName("Site.CSS")
	require.True(t, ok)
	require.Equal(t, workspace.LanguageCSS, lang)
}

func TestValidateName(t *testing.T) {
	require.NoError(t, workspace.ValidateName("main.py"))
	require.ErrorIs(t, workspace.ValidateName("  "), workspace.ErrInvalidInput)
	require.ErrorIs(t, workspace.ValidateName("a/b.py"), workspace.ErrInvalidInput)
	require.ErrorIs(t, workspace.ValidateName(".."), workspace.ErrInvalidInput)
}

func TestExampleFile(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	f := workspace.ExampleFile("Veri Analizi", "import pandas", now)
	require.Equal(t, "example_1700000000123", f.ID)
	require.Equal(t, "veri_analizi.py", f.Name)
	require.Equal(t, workspace.LanguagePython, f.Language)
	require.Equal(t, workspace.KindFile, f.Kind)
	require.True(t, workspace.IsExample(f))

	f = workspace.ExampleFile("HTML Sayfa Yapısı", "<p>", now)
	require.Equal(t, "html_sayfa_yapısı.html", f.Name)
	require.Equal(t, workspace.LanguageHTML, f.Language)
}
