package prompt

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/JackVanta/VantaSDK/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProjectFiles(t *testing.T, count, size int) models.ProjectFiles {
	t.Helper()
	files := make(models.ProjectFiles, count)
	for i := 0; i < count; i++ {
		files[fmt.Sprintf("src/file%02d.ts", i)] = strings.Repeat("x", size)
	}
	return files
}

func TestBuildContext_TenFilesNoActive(t *testing.T) {
	files := setupProjectFiles(t, 10, 2000)

	out := BuildContext(files, "", DefaultContextChars)

	assert.LessOrEqual(t, utf8.RuneCountInString(out), DefaultContextChars)
	assert.Equal(t, 3, strings.Count(out, "(excerpt)"))
	assert.Equal(t, 3, strings.Count(out, truncatedMarker))
	assert.True(t, strings.HasPrefix(out, "Project files: src/file00.ts, src/file01.ts"))
	assert.Contains(t, out, "--- src/file00.ts (excerpt) ---")
	assert.Contains(t, out, "--- src/file02.ts (excerpt) ---")
	assert.NotContains(t, out, "--- src/file03.ts (excerpt) ---")
}

func TestBuildContext_ActiveFile(t *testing.T) {
	files := models.ProjectFiles{
		"README.md":    "# Readme",
		"app/page.tsx": strings.Repeat("p", 5000),
		"lib/vanta.ts": "export const vanta = 1",
	}

	out := BuildContext(files, "app/page.tsx", DefaultContextChars)

	require.Contains(t, out, "--- Active file: app/page.tsx ---\n")
	assert.Contains(t, out, "\n"+strings.Repeat("p", activeExcerptChars)+"\n\n--- README.md (excerpt) ---")
	assert.NotContains(t, out, "--- app/page.tsx (excerpt) ---")
	assert.Contains(t, out, "--- lib/vanta.ts (excerpt) ---\nexport const vanta = 1")
}

func TestBuildContext_MissingActiveFileIsIgnored(t *testing.T) {
	files := models.ProjectFiles{"a.ts": "A"}

	out := BuildContext(files, "ghost.ts", DefaultContextChars)

	assert.NotContains(t, out, "Active file")
	assert.Contains(t, out, "--- a.ts (excerpt) ---\nA")
}

func TestBuildContext_EmptyActiveFileHasNoSection(t *testing.T) {
	files := models.ProjectFiles{"a.ts": "A", "empty.ts": ""}

	out := BuildContext(files, "empty.ts", DefaultContextChars)

	assert.NotContains(t, out, "Active file")
	assert.NotContains(t, out, "--- empty.ts (excerpt) ---")
	assert.Equal(t, "Project files: a.ts, empty.ts\n\n--- a.ts (excerpt) ---\nA", out)
}

func TestBuildContext_SkipsSectionOverBudgetAndContinues(t *testing.T) {
	files := models.ProjectFiles{
		"a.ts": strings.Repeat("a", relatedExcerptChars),
		"b.ts": "short",
	}

	out := BuildContext(files, "", 200)

	assert.Equal(t, "Project files: a.ts, b.ts\n\n--- b.ts (excerpt) ---\nshort", out)
}

func TestBuildContext_HeaderAlwaysPresent(t *testing.T) {
	files := setupProjectFiles(t, 2, 10)

	out := BuildContext(files, "src/file00.ts", 10)

	assert.Equal(t, "Project files: src/file00.ts, src/file01.ts", out)
}

func TestBuildContext_CountsCharactersNotBytes(t *testing.T) {
	files := models.ProjectFiles{"notes.md": strings.Repeat("é", 2000)}

	out := BuildContext(files, "", DefaultContextChars)

	assert.Contains(t, out, "\n"+strings.Repeat("é", relatedExcerptChars)+truncatedMarker)
	assert.True(t, utf8.ValidString(out))
}

func TestBuildContext_Deterministic(t *testing.T) {
	files := setupProjectFiles(t, 6, 300)

	first := BuildContext(files, "src/file04.ts", DefaultContextChars)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, BuildContext(files, "src/file04.ts", DefaultContextChars))
	}
}

func TestSystemPrompt(t *testing.T) {
	testCases := []struct {
		name     string
		project  *models.ProjectContext
		mode     models.Mode
		contains []string
		excludes []string
	}{
		{
			name:     "Chat without context",
			mode:     models.ModeChat,
			excludes: []string{"Project context:", "User wants"},
		},
		{
			name:     "Fix mode",
			mode:     models.ModeFix,
			contains: []string{"User wants to FIX a bug"},
		},
		{
			name:     "Tests mode adds nothing",
			mode:     models.ModeTests,
			excludes: []string{"User wants"},
		},
		{
			name:     "Unknown mode adds nothing",
			mode:     models.Mode("deploy"),
			excludes: []string{"User wants"},
		},
		{
			name:     "Context with files",
			project:  &models.ProjectContext{Files: models.ProjectFiles{"a.ts": "A"}, ActiveFile: "a.ts"},
			mode:     models.ModeExplain,
			contains: []string{"\n\nProject context:\nProject files: a.ts", "--- Active file: a.ts ---", "User wants an EXPLANATION"},
		},
		{
			name:     "Context without files map",
			project:  &models.ProjectContext{ActiveFile: "a.ts"},
			excludes: []string{"Project context:"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := SystemPrompt(tc.project, tc.mode, DefaultContextChars)
			assert.True(t, strings.HasPrefix(out, BasePrompt))
			for _, s := range tc.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tc.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestSystemPrompt_ContextBeforeModeSuffix(t *testing.T) {
	project := &models.ProjectContext{Files: models.ProjectFiles{"a.ts": "A"}}

	out := SystemPrompt(project, models.ModeGenerate, DefaultContextChars)

	assert.Less(t, strings.Index(out, "Project context:"), strings.Index(out, "User wants to GENERATE"))
	assert.True(t, strings.HasSuffix(out, ModeInstructions(models.ModeGenerate)))
}
