// Package files turns an uploaded project (a directory, a set of files or a zip archive)
// into the flat path to content map used by the builder.
package files

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/JackVanta/VantaSDK/internal/models"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNoFiles is returned when nothing usable is left after filtering.
	ErrNoFiles = errors.New("no usable text files found")
	// ErrInvalidArchive is returned for a zip archive that cannot be read.
	ErrInvalidArchive = errors.New("failed to parse ZIP file")
)

// DefaultExcludes are always skipped, wherever they appear in the tree.
var DefaultExcludes = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/__MACOSX/**",
}

const (
	DefaultMaxFileSize = 1 << 20
	DefaultMaxFiles    = 2000
	sniffLen           = 1024
)

// Options bound what a collector accepts. Zero values take the defaults.
type Options struct {
	MaxFileSize int64
	MaxFiles    int
	IgnoreGlobs []string
}

// Entry is one uploaded file with its relative path.
type Entry struct {
	Path string
	Data []byte
}

// Collector filters and normalizes uploaded files.
type Collector struct {
	maxFileSize int64
	maxFiles    int
	excludes    []string
}

// NewCollector creates a collector. Invalid ignore globs are dropped with a warning.
func NewCollector(opts Options) *Collector {
	c := &Collector{
		maxFileSize: opts.MaxFileSize,
		maxFiles:    opts.MaxFiles,
		excludes:    append([]string(nil), DefaultExcludes...),
	}
	if c.maxFileSize <= 0 {
		c.maxFileSize = DefaultMaxFileSize
	}
	if c.maxFiles <= 0 {
		c.maxFiles = DefaultMaxFiles
	}
	for _, pattern := range opts.IgnoreGlobs {
		if !doublestar.ValidatePattern(pattern) {
			logrus.Warnf("Ignoring invalid upload glob '%s'", pattern)
			continue
		}
		c.excludes = append(c.excludes, pattern)
	}
	return c
}

// FromEntries collects an uploaded set of files.
func (c *Collector) FromEntries(entries []Entry) (models.ProjectFiles, error) {
	b := c.newBatch()
	for _, e := range entries {
		b.add(e.Path, int64(len(e.Data)), func() ([]byte, error) { return e.Data, nil })
	}
	return b.finish()
}

// FromDir collects the files below root.
func (c *Collector) FromDir(root string) (models.ProjectFiles, error) {
	b := c.newBatch()
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && c.excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		b.add(rel, info.Size(), func() ([]byte, error) { return os.ReadFile(p) })
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return b.finish()
}

// FromZip collects the files of a zip archive. Nothing is returned when the archive
// cannot be read.
func (c *Collector) FromZip(r io.ReaderAt, size int64) (models.ProjectFiles, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	b := c.newBatch()
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		b.add(f.Name, int64(f.UncompressedSize64), func() ([]byte, error) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(io.LimitReader(rc, c.maxFileSize+1))
		})
	}
	return b.finish()
}

// FromZipFile opens and collects a zip archive on disk.
func (c *Collector) FromZipFile(name string) (models.ProjectFiles, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return c.FromZip(f, info.Size())
}

func (c *Collector) excluded(p string) bool {
	for _, pattern := range c.excludes {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}

type batch struct {
	c       *Collector
	files   models.ProjectFiles
	skipped int
}

func (c *Collector) newBatch() *batch {
	return &batch{c: c, files: make(models.ProjectFiles)}
}

func (b *batch) skip(p, reason string) {
	b.skipped++
	logrus.Debugf("Skipping upload entry '%s': %s", p, reason)
}

func (b *batch) add(name string, size int64, read func() ([]byte, error)) {
	p, ok := cleanPath(name)
	switch {
	case !ok:
		b.skip(name, "invalid path")
		return
	case b.c.excluded(p):
		b.skip(p, "excluded")
		return
	case !IsTextFile(p):
		b.skip(p, "not a text file")
		return
	case size > b.c.maxFileSize:
		b.skip(p, fmt.Sprintf("%d bytes exceeds limit", size))
		return
	case len(b.files) >= b.c.maxFiles:
		b.skip(p, "file limit reached")
		return
	}

	data, err := read()
	if err != nil {
		logrus.Warnf("Could not read upload entry '%s': %v", p, err)
		b.skipped++
		return
	}
	if int64(len(data)) > b.c.maxFileSize {
		b.skip(p, "exceeds size limit")
		return
	}
	if isBinary(data) {
		b.skip(p, "binary content")
		return
	}
	b.files[p] = strings.ToValidUTF8(string(data), "\uFFFD")
}

func (b *batch) finish() (models.ProjectFiles, error) {
	files := stripCommonRoot(b.files)
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	logrus.Infof("Collected %d files (%d skipped)", len(files), b.skipped)
	return files, nil
}

// cleanPath normalizes an entry name to a relative forward-slash path.
// Names that climb out of the root are rejected.
func cleanPath(name string) (string, bool) {
	p := strings.ReplaceAll(name, "\\", "/")
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", false
		}
	}
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	return p, p != ""
}

func isBinary(data []byte) bool {
	if len(data) > sniffLen {
		data = data[:sniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}

// stripCommonRoot removes a leading folder shared by every path.
func stripCommonRoot(files models.ProjectFiles) models.ProjectFiles {
	root := ""
	for p := range files {
		i := strings.Index(p, "/")
		if i < 0 {
			return files
		}
		if root == "" {
			root = p[:i]
		} else if p[:i] != root {
			return files
		}
	}
	if root == "" {
		return files
	}
	out := make(models.ProjectFiles, len(files))
	for p, content := range files {
		out[strings.TrimPrefix(p, root+"/")] = content
	}
	return out
}
