package workspace

import (
	"fmt"
	"path"
	"strings"
)

// Language selects templates, extensions and the execution runtime.
type Language string

const (
	LanguagePython     Language = "python"
	LanguageHTML       Language = "html"
	LanguageCSS        Language = "css"
	LanguageJavaScript Language = "javascript"
)

type languageSpec struct {
	extension string
	template  string
}

var languages = map[Language]languageSpec{
	LanguagePython: {
		extension: ".py",
		template:  "# Yeni Python dosyası\nprint(\"Merhaba Dünya!\")\n",
	},
	LanguageHTML: {
		extension: ".html",
		template: `<!DOCTYPE html>
<html lang="tr">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Yeni HTML Sayfası</title>
</head>
<body>
    <h1>Merhaba Dünya!</h1>
</body>
</html>`,
	},
	LanguageCSS: {
		extension: ".css",
		template: `/* Yeni CSS Dosyası */
body {
    font-family: Arial, sans-serif;
    margin: 0;
    padding: 20px;
    background-color: #f5f5f5;
}

h1 {
    color: #333;
    text-align: center;
}`,
	},
	LanguageJavaScript: {
		extension: ".js",
		template: `// Yeni JavaScript dosyası
console.log("Merhaba Dünya!");

// DOM yüklendiğinde çalış
document.addEventListener("DOMContentLoaded", function() {
    console.log("Sayfa hazır!");
});`,
	},
}

// Languages lists the supported languages in display order.
func Languages() []Language {
	return []Language{LanguagePython, LanguageHTML, LanguageCSS, LanguageJavaScript}
}

// ParseLanguage accepts a language name; empty means python.
func ParseLanguage(s string) (Language, error) {
	lang := Language(strings.ToLower(strings.TrimSpace(s)))
	if lang == "" {
		return LanguagePython, nil
	}
	if lang == "js" {
		return LanguageJavaScript, nil
	}
	if _, ok := languages[lang]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
	}
	return lang, nil
}

// DefaultContent returns the boilerplate body for a new file.
func DefaultContent(lang Language) string {
	if spec, ok := languages[lang]; ok {
		return spec.template
	}
	return languages[LanguagePython].template
}

// Extension returns the file extension for lang, including the dot.
func Extension(lang Language) string {
	if spec, ok := languages[lang]; ok {
		return spec.extension
	}
	return languages[LanguagePython].extension
}

// EnsureExtension appends the language extension when name has none.
func EnsureExtension(name string, lang Language) string {
	if strings.Contains(name, ".") {
		return name
	}
	return name + Extension(lang)
}

// LanguageForName infers a language from a file extension.
func LanguageForName(name string) (Language, bool) {
	ext := strings.ToLower(path.Ext(name))
	for lang, spec := range languages {
		if spec.extension == ext {
			return lang, true
		}
	}
	return "", false
}
