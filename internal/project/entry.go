package project

import "github.com/JackVanta/VantaSDK/internal/models"

// PreferredEntryFiles are probed in order when choosing the file to open after an upload.
var PreferredEntryFiles = []string{"README.md", "app/page.tsx", "src/index.ts", "index.ts"}

// ResolveEntryFile picks the file to open for a project: the first preferred file with
// content, else the lexicographically first path. It returns "" for an empty project.
func ResolveEntryFile(files models.ProjectFiles) string {
	for _, preferred := range PreferredEntryFiles {
		if files[preferred] != "" {
			return preferred
		}
	}
	paths := files.Paths()
	if len(paths) == 0 {
		return ""
	}
	return paths[0]
}
