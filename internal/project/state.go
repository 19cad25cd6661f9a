// Package project holds the builder's project state: files, open tabs and the active file,
// and the transitions that change them.
package project

import (
	"errors"
	"fmt"

	"github.com/JackVanta/VantaSDK/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrEmptyProject is returned when an upload holds no usable files.
	ErrEmptyProject = errors.New("project has no files")
	// ErrUnknownTemplate is returned for a template name that does not exist.
	ErrUnknownTemplate = errors.New("unknown template")
)

// placeholderContent is shown for a selected path whose content is missing or empty.
const placeholderContent = "// File: %s\n// Content not available"

// State is one snapshot of the project. Transitions never mutate their input.
//
// At most one tab exists per path. ActiveTabID is empty or names a tab in Tabs.
type State struct {
	Files       models.ProjectFiles `json:"files"`
	Tabs        []models.FileTab    `json:"tabs"`
	ActiveTabID string              `json:"activeTabId"`
	ActiveFile  string              `json:"activeFile"`
}

var newTabID = func() string {
	return "tab-" + uuid.NewString()
}

func newTab(path, content string) models.FileTab {
	name := baseName(path)
	return models.FileTab{
		ID:       newTabID(),
		Name:     name,
		Path:     path,
		Language: LanguageFor(name),
		Content:  content,
	}
}

// Clone returns a copy that shares nothing mutable with st.
func (st State) Clone() State {
	out := st
	out.Files = st.Files.Clone()
	out.Tabs = append([]models.FileTab(nil), st.Tabs...)
	return out
}

// Tab returns the tab with the given id.
func (st State) Tab(id string) (models.FileTab, bool) {
	i := st.tabIndex(id)
	if i < 0 {
		return models.FileTab{}, false
	}
	return st.Tabs[i], true
}

// ActiveTab returns the active tab, if any.
func (st State) ActiveTab() (models.FileTab, bool) {
	return st.Tab(st.ActiveTabID)
}

func (st State) tabIndex(id string) int {
	if id == "" {
		return -1
	}
	for i, tab := range st.Tabs {
		if tab.ID == id {
			return i
		}
	}
	return -1
}

func tabForPath(tabs []models.FileTab, path string) (models.FileTab, bool) {
	for _, tab := range tabs {
		if tab.Path == path {
			return tab, true
		}
	}
	return models.FileTab{}, false
}

// singleTab is the state of a project opened on one entry file.
func singleTab(files models.ProjectFiles, entry string) State {
	tab := newTab(entry, files[entry])
	return State{
		Files:       files,
		Tabs:        []models.FileTab{tab},
		ActiveTabID: tab.ID,
		ActiveFile:  entry,
	}
}

// CreateNew replaces the project with a template opened on its entry file.
func CreateNew(template string) (State, error) {
	t, err := LookupTemplate(template)
	if err != nil {
		return State{}, err
	}
	return singleTab(t.ProjectFiles(), t.Entry), nil
}

// Upload replaces the project with uploaded files opened on their entry file.
func Upload(files models.ProjectFiles) (State, error) {
	if len(files) == 0 {
		return State{}, ErrEmptyProject
	}
	files = files.Clone()
	return singleTab(files, ResolveEntryFile(files)), nil
}

// ApplyPatch writes the patch files into the project, refreshes open tabs, opens new
// tabs and selects the active file in one step.
//
// Files to open default to the patch paths; the active path defaults to the first of
// those. A new tab is only created for a path written by this patch with non-empty
// content. If no tab ends up on the active path, ActiveTabID is left unchanged.
func ApplyPatch(st State, patch *models.Patch) State {
	if patch == nil || len(patch.Files) == 0 {
		return st
	}

	out := st.Clone()
	written := make(map[string]string, len(patch.Files))
	for _, f := range patch.Files {
		written[f.Path] = f.Content
		out.Files[f.Path] = f.Content
	}

	toOpen := patch.Open
	if len(toOpen) == 0 {
		toOpen = make([]string, len(patch.Files))
		for i, f := range patch.Files {
			toOpen[i] = f.Path
		}
	}
	active := patch.Active
	if active == "" && len(toOpen) > 0 {
		active = toOpen[0]
	}
	if active == "" {
		active = patch.Files[0].Path
	}

	for i, tab := range out.Tabs {
		if content, ok := written[tab.Path]; ok {
			out.Tabs[i].Content = content
		}
	}
	for _, p := range toOpen {
		if _, open := tabForPath(out.Tabs, p); open {
			continue
		}
		if content := written[p]; content != "" {
			out.Tabs = append(out.Tabs, newTab(p, content))
		}
	}

	if tab, ok := tabForPath(out.Tabs, active); ok {
		out.ActiveTabID = tab.ID
	}
	out.ActiveFile = active
	return out
}

// SelectFile makes path the active file, focusing its tab or opening a new one.
func SelectFile(st State, path string) State {
	out := st.Clone()
	out.ActiveFile = path
	if tab, ok := tabForPath(out.Tabs, path); ok {
		out.ActiveTabID = tab.ID
		return out
	}
	content := out.Files[path]
	if content == "" {
		content = fmt.Sprintf(placeholderContent, path)
	}
	tab := newTab(path, content)
	out.Tabs = append(out.Tabs, tab)
	out.ActiveTabID = tab.ID
	return out
}

// ActivateTab focuses an existing tab. Unknown ids leave the state unchanged.
func ActivateTab(st State, id string) State {
	tab, ok := st.Tab(id)
	if !ok {
		return st
	}
	out := st.Clone()
	out.ActiveTabID = tab.ID
	out.ActiveFile = tab.Path
	return out
}

// CloseTab removes a tab. Closing the active tab focuses the tab that takes its index,
// or the new last tab; with no tabs left there is no active tab and ActiveFile is kept.
func CloseTab(st State, id string) State {
	idx := st.tabIndex(id)
	if idx < 0 {
		return st
	}
	out := st.Clone()
	out.Tabs = append(out.Tabs[:idx], out.Tabs[idx+1:]...)

	if id != st.ActiveTabID {
		return out
	}
	if len(out.Tabs) == 0 {
		out.ActiveTabID = ""
		return out
	}
	next := out.Tabs[min(idx, len(out.Tabs)-1)]
	out.ActiveTabID = next.ID
	out.ActiveFile = next.Path
	return out
}
