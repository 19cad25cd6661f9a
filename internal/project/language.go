package project

import (
	"path"
	"strings"
)

// LanguageFor maps a file name to the editor language of its tab.
func LanguageFor(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if ext == "" {
		ext = strings.ToLower(path.Base(name))
	}
	switch ext {
	case "ts", "tsx":
		return "typescript"
	case "js", "jsx":
		return "javascript"
	case "sol":
		return "solidity"
	case "md":
		return "markdown"
	case "json":
		return "json"
	case "css":
		return "css"
	case "toml":
		return "toml"
	default:
		return "text"
	}
}

// baseName returns the last segment of a slash-separated path.
func baseName(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 && i < len(p)-1 {
		return p[i+1:]
	}
	return p
}
