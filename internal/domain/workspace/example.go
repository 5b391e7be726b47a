package workspace

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ExampleFile builds a detached, unsaved file from a code sample.
// The language is inferred from the title; the id is not known to the backend.
func ExampleFile(title, code string, now time.Time) FileRecord {
	lang := exampleLanguage(title)
	name := whitespaceRun.ReplaceAllString(strings.ToLower(title), "_") + Extension(lang)
	return FileRecord{
		ID:       fmt.Sprintf("example_%d", now.UnixMilli()),
		Name:     name,
		Kind:     KindFile,
		Content:  code,
		Language: lang,
	}
}

// IsExample reports whether the record was built by ExampleFile.
func IsExample(r FileRecord) bool {
	return IsExampleID(r.ID)
}

// IsExampleID reports whether id belongs to an example file.
func IsExampleID(id string) bool {
	return strings.HasPrefix(id, "example_")
}

func exampleLanguage(title string) Language {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "html"):
		return LanguageHTML
	case strings.Contains(lower, "css"):
		return LanguageCSS
	case strings.Contains(lower, "javascript"):
		return LanguageJavaScript
	default:
		return LanguagePython
	}
}
