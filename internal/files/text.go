package files

import (
	"path"
	"strings"
)

// textExtensions are the file extensions kept from an upload.
var textExtensions = map[string]bool{
	"ts": true, "tsx": true, "js": true, "jsx": true, "json": true, "md": true,
	"sol": true, "css": true, "html": true, "txt": true, "env": true, "toml": true,
	"yaml": true, "yml": true, "xml": true, "svg": true, "sh": true, "bash": true,
	"zsh": true, "py": true, "rb": true, "go": true, "rs": true, "java": true,
	"kt": true, "swift": true, "c": true, "cpp": true, "h": true,
	"gitignore": true, "prettierrc": true, "eslintrc": true, "editorconfig": true,
}

// textBasenames are extensionless files kept from an upload.
var textBasenames = map[string]bool{
	"readme": true, "license": true, "makefile": true, "dockerfile": true,
}

// IsTextFile reports whether a path names a file worth loading as text.
// Dotfiles such as .gitignore count by the name after the dot.
func IsTextFile(p string) bool {
	base := strings.ToLower(path.Base(p))
	if i := strings.LastIndex(base, "."); i >= 0 {
		return textExtensions[base[i+1:]]
	}
	return textBasenames[base]
}
