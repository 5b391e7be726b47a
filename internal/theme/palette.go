package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rpggio/pyeditor/internal/domain/workspace"
)

// Palette holds the styles the shell renders with.
type Palette struct {
	Title     lipgloss.Style
	Project   lipgloss.Style
	Folder    lipgloss.Style
	File      lipgloss.Style
	ActiveTab lipgloss.Style
	Tab       lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
	languages map[workspace.Language]lipgloss.Style
}

type colors struct {
	fg, muted, accent, success, failure lipgloss.Color
	lang                                map[workspace.Language]lipgloss.Color
}

var (
	lightColors = colors{
		fg:      lipgloss.Color("235"),
		muted:   lipgloss.Color("245"),
		accent:  lipgloss.Color("25"),
		success: lipgloss.Color("28"),
		failure: lipgloss.Color("160"),
		lang: map[workspace.Language]lipgloss.Color{
			workspace.LanguagePython:     lipgloss.Color("28"),
			workspace.LanguageHTML:       lipgloss.Color("166"),
			workspace.LanguageCSS:        lipgloss.Color("25"),
			workspace.LanguageJavaScript: lipgloss.Color("136"),
		},
	}
	darkColors = colors{
		fg:      lipgloss.Color("252"),
		muted:   lipgloss.Color("240"),
		accent:  lipgloss.Color("75"),
		success: lipgloss.Color("78"),
		failure: lipgloss.Color("203"),
		lang: map[workspace.Language]lipgloss.Color{
			workspace.LanguagePython:     lipgloss.Color("78"),
			workspace.LanguageHTML:       lipgloss.Color("215"),
			workspace.LanguageCSS:        lipgloss.Color("75"),
			workspace.LanguageJavaScript: lipgloss.Color("221"),
		},
	}
)

// PaletteFor builds the palette of a resolved mode. ModeSystem falls back to light.
func PaletteFor(m Mode) Palette {
	c := lightColors
	if m == ModeDark {
		c = darkColors
	}

	p := Palette{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(c.accent),
		Project:   lipgloss.NewStyle().Bold(true).Foreground(c.fg),
		Folder:    lipgloss.NewStyle().Foreground(c.accent),
		File:      lipgloss.NewStyle().Foreground(c.fg),
		ActiveTab: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(c.accent),
		Tab:       lipgloss.NewStyle().Foreground(c.muted),
		Success:   lipgloss.NewStyle().Foreground(c.success),
		Error:     lipgloss.NewStyle().Foreground(c.failure),
		Muted:     lipgloss.NewStyle().Foreground(c.muted),
		languages: make(map[workspace.Language]lipgloss.Style, len(c.lang)),
	}
	for lang, color := range c.lang {
		p.languages[lang] = lipgloss.NewStyle().Foreground(color)
	}
	return p
}

// ForFile returns the style of a file entry, colored by language or extension.
func (p Palette) ForFile(rec workspace.FileRecord) lipgloss.Style {
	switch rec.Kind {
	case workspace.KindProject:
		return p.Project
	case workspace.KindFolder:
		return p.Folder
	}
	lang := rec.Language
	if lang == "" {
		lang, _ = workspace.LanguageForName(rec.Name)
	}
	if s, ok := p.languages[lang]; ok {
		return s
	}
	return p.File
}

// Icon returns the glyph shown before a tree entry.
func Icon(rec workspace.FileRecord) string {
	switch rec.Kind {
	case workspace.KindProject, workspace.KindFolder:
		return "📁"
	}
	lang := rec.Language
	if lang == "" {
		lang, _ = workspace.LanguageForName(rec.Name)
	}
	switch lang {
	case workspace.LanguagePython:
		return "🐍"
	case workspace.LanguageHTML:
		return "🌐"
	case workspace.LanguageCSS:
		return "🎨"
	case workspace.LanguageJavaScript:
		return "⚡"
	default:
		return "📄"
	}
}
