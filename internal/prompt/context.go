package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/JackVanta/VantaSDK/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultContextChars bounds the project context sent with each chat turn.
	DefaultContextChars = 8000

	activeExcerptChars  = 4000
	relatedExcerptChars = 1500
	maxRelatedFiles     = 3
	truncatedMarker     = "\n...(truncated)"
)

// BuildContext summarizes the project for the model: the file list, the active file and
// short excerpts of up to three other files. An active file with no content gets no section. A section that would reach maxChars is skipped,
// never cut to fit. Lengths are counted in characters, not bytes.
func BuildContext(files models.ProjectFiles, activeFile string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultContextChars
	}

	paths := files.Paths()

	var summary strings.Builder
	header := "Project files: " + strings.Join(paths, ", ")
	summary.WriteString(header)
	used := utf8.RuneCountInString(header)

	if content := files[activeFile]; content != "" {
		section := fmt.Sprintf("\n\n--- Active file: %s ---\n%s", activeFile, headChars(content, activeExcerptChars))
		if n := utf8.RuneCountInString(section); used+n < maxChars {
			summary.WriteString(section)
			used += n
		} else {
			logrus.Debugf("Active file '%s' skipped from context (%d chars over budget)", activeFile, used+n-maxChars)
		}
	}

	related := make([]string, 0, maxRelatedFiles)
	for _, path := range paths {
		if path == activeFile {
			continue
		}
		related = append(related, path)
		if len(related) == maxRelatedFiles {
			break
		}
	}

	for _, path := range related {
		content := files[path]
		excerpt := headChars(content, relatedExcerptChars)
		if utf8.RuneCountInString(content) > relatedExcerptChars {
			excerpt += truncatedMarker
		}
		section := fmt.Sprintf("\n\n--- %s (excerpt) ---\n%s", path, excerpt)
		if n := utf8.RuneCountInString(section); used+n < maxChars {
			summary.WriteString(section)
			used += n
		}
	}

	return summary.String()
}

// headChars returns at most n leading characters of s.
func headChars(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
