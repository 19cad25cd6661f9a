package project

import (
	"testing"

	"github.com/JackVanta/VantaSDK/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDeriveFileTree(t *testing.T) {
	tree := DeriveFileTree(models.ProjectFiles{"a/b.ts": "", "a/c.ts": "", "d.ts": ""})

	assert.Equal(t, []models.FileTreeItem{
		{
			ID: "a", Name: "a", Type: models.TreeItemFolder, Path: "a",
			Children: []models.FileTreeItem{
				{ID: "a/b.ts", Name: "b.ts", Type: models.TreeItemFile, Path: "a/b.ts"},
				{ID: "a/c.ts", Name: "c.ts", Type: models.TreeItemFile, Path: "a/c.ts"},
			},
		},
		{ID: "d.ts", Name: "d.ts", Type: models.TreeItemFile, Path: "d.ts"},
	}, tree)
}

func TestDeriveFileTree_NestedFolders(t *testing.T) {
	tree := DeriveFileTree(models.ProjectFiles{
		"app/api/protected/route.ts": "",
		"app/page.tsx":               "",
		"README.md":                  "",
	})

	assert.Len(t, tree, 2)
	assert.Equal(t, "README.md", tree[0].Name)
	app := tree[1]
	assert.Equal(t, models.TreeItemFolder, app.Type)
	assert.Len(t, app.Children, 2)
	assert.Equal(t, "app/api", app.Children[0].Path)
	assert.Equal(t, "app/api/protected", app.Children[0].Children[0].ID)
	assert.Equal(t, "route.ts", app.Children[0].Children[0].Children[0].Name)
	assert.Equal(t, "app/page.tsx", app.Children[1].ID)
}

func TestDeriveFileTree_Empty(t *testing.T) {
	assert.Empty(t, DeriveFileTree(nil))
}

func TestLanguageFor(t *testing.T) {
	testCases := map[string]string{
		"page.tsx":     "typescript",
		"index.TS":     "typescript",
		"app.jsx":      "javascript",
		"Pay.sol":      "solidity",
		"README.md":    "markdown",
		"package.json": "json",
		"globals.css":  "css",
		"foundry.toml": "toml",
		"Makefile":     "text",
		"main.go":      "text",
		".md":          "markdown",
	}
	for name, want := range testCases {
		assert.Equal(t, want, LanguageFor(name), name)
	}
}

func TestResolveEntryFile(t *testing.T) {
	assert.Equal(t, "", ResolveEntryFile(models.ProjectFiles{}))
	assert.Equal(t, "src/index.ts", ResolveEntryFile(models.ProjectFiles{"src/index.ts": "x", "b.ts": "y"}))
}
