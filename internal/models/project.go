package models

import "sort"

// ProjectFiles maps a relative, forward-slash path to the full file content.
type ProjectFiles map[string]string

// Paths returns the file paths in lexicographic order.
func (f ProjectFiles) Paths() []string {
	paths := make([]string, 0, len(f))
	for p := range f {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Clone returns a shallow copy of the map.
func (f ProjectFiles) Clone() ProjectFiles {
	out := make(ProjectFiles, len(f))
	for p, c := range f {
		out[p] = c
	}
	return out
}

// TreeItemType distinguishes files from folders in the derived tree.
type TreeItemType string

const (
	TreeItemFile   TreeItemType = "file"
	TreeItemFolder TreeItemType = "folder"
)

// FileTreeItem is one node of the tree derived from ProjectFiles.
type FileTreeItem struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Type     TreeItemType   `json:"type"`
	Path     string         `json:"path"`
	Children []FileTreeItem `json:"children,omitempty"`
}

// FileTab is an open editor tab. Content is a snapshot kept in sync on patch application.
type FileTab struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Language string `json:"language"`
	Content  string `json:"content"`
}

// FileChange is a single create-or-replace write carried by a Patch.
type FileChange struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Patch is a set of file writes plus optional tab hints.
type Patch struct {
	Files  []FileChange `json:"files"`
	Open   []string     `json:"open,omitempty"`
	Active string       `json:"active,omitempty"`
}
