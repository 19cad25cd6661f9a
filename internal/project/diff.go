package project

import (
	"fmt"
	"strings"

	"github.com/JackVanta/VantaSDK/internal/models"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// FileSummary describes what a patch did to one file.
type FileSummary struct {
	Path    string `json:"path"`
	Created bool   `json:"created"`
	Added   int    `json:"added"`
	Removed int    `json:"removed"`
}

// Summary describes the effect of a patch on the project.
type Summary struct {
	Files []FileSummary `json:"files"`
}

// Created counts the files the patch added to the project.
func (s Summary) Created() int {
	n := 0
	for _, f := range s.Files {
		if f.Created {
			n++
		}
	}
	return n
}

// Updated counts the existing files the patch changed.
func (s Summary) Updated() int {
	n := 0
	for _, f := range s.Files {
		if !f.Created && (f.Added > 0 || f.Removed > 0) {
			n++
		}
	}
	return n
}

func (s Summary) String() string {
	added, removed := 0, 0
	for _, f := range s.Files {
		added += f.Added
		removed += f.Removed
	}
	return fmt.Sprintf("%d created, %d updated (+%d -%d lines)", s.Created(), s.Updated(), added, removed)
}

// Summarize compares the patch against the files it overwrites. A path written twice
// in one patch is reported once, with its final content.
func Summarize(before models.ProjectFiles, patch *models.Patch) Summary {
	if patch == nil {
		return Summary{}
	}
	final := make(map[string]string, len(patch.Files))
	var order []string
	for _, f := range patch.Files {
		if _, seen := final[f.Path]; !seen {
			order = append(order, f.Path)
		}
		final[f.Path] = f.Content
	}

	dmp := diffmatchpatch.New()
	summary := Summary{Files: make([]FileSummary, 0, len(order))}
	for _, p := range order {
		old, existed := before[p]
		fs := FileSummary{Path: p, Created: !existed}
		fs.Added, fs.Removed = lineDelta(dmp, old, final[p])
		summary.Files = append(summary.Files, fs)
	}
	return summary
}

func lineDelta(dmp *diffmatchpatch.DiffMatchPatch, before, after string) (added, removed int) {
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += countLines(d.Text)
		case diffmatchpatch.DiffDelete:
			removed += countLines(d.Text)
		}
	}
	return added, removed
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
