package project

import (
	"strings"

	"github.com/JackVanta/VantaSDK/internal/models"
)

type treeNode struct {
	item     models.FileTreeItem
	children []*treeNode
}

// DeriveFileTree builds the explorer hierarchy from the flat file map.
// Paths are visited in sorted order; a folder is created the first time one of its
// descendants is seen, so siblings keep that first-seen order.
func DeriveFileTree(files models.ProjectFiles) []models.FileTreeItem {
	var roots []*treeNode
	folders := make(map[string]*treeNode)

	for _, p := range files.Paths() {
		parts := strings.Split(p, "/")
		name := parts[len(parts)-1]
		file := &treeNode{item: models.FileTreeItem{ID: p, Name: name, Type: models.TreeItemFile, Path: p}}

		level := &roots
		current := ""
		for _, part := range parts[:len(parts)-1] {
			if current == "" {
				current = part
			} else {
				current += "/" + part
			}
			folder, ok := folders[current]
			if !ok {
				folder = &treeNode{item: models.FileTreeItem{ID: current, Name: part, Type: models.TreeItemFolder, Path: current}}
				folders[current] = folder
				*level = append(*level, folder)
			}
			level = &folder.children
		}
		*level = append(*level, file)
	}

	return flatten(roots)
}

func flatten(nodes []*treeNode) []models.FileTreeItem {
	if len(nodes) == 0 {
		return nil
	}
	items := make([]models.FileTreeItem, len(nodes))
	for i, n := range nodes {
		items[i] = n.item
		if n.item.Type == models.TreeItemFolder {
			items[i].Children = flatten(n.children)
		}
	}
	return items
}
