package project

import (
	"embed"
	"fmt"
	"sort"
	"sync"

	"github.com/JackVanta/VantaSDK/internal/models"
	"gopkg.in/yaml.v3"
)

// DefaultTemplate is the starter project a new session opens with.
const DefaultTemplate = "nextjs"

//go:embed templates/*.yaml
var templateFS embed.FS

// Template is a canned starter project.
type Template struct {
	Name        string            `yaml:"name"`
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	Entry       string            `yaml:"entry"`
	Files       map[string]string `yaml:"files"`
}

var (
	templatesOnce sync.Once
	templates     map[string]Template
	templatesErr  error
)

func loadTemplates() (map[string]Template, error) {
	templatesOnce.Do(func() {
		entries, err := templateFS.ReadDir("templates")
		if err != nil {
			templatesErr = fmt.Errorf("read templates: %w", err)
			return
		}
		loaded := make(map[string]Template, len(entries))
		for _, entry := range entries {
			data, err := templateFS.ReadFile("templates/" + entry.Name())
			if err != nil {
				templatesErr = fmt.Errorf("read template %s: %w", entry.Name(), err)
				return
			}
			var t Template
			if err := yaml.Unmarshal(data, &t); err != nil {
				templatesErr = fmt.Errorf("parse template %s: %w", entry.Name(), err)
				return
			}
			if _, ok := t.Files[t.Entry]; !ok {
				templatesErr = fmt.Errorf("template %s: entry file %q missing", t.Name, t.Entry)
				return
			}
			loaded[t.Name] = t
		}
		templates = loaded
	})
	return templates, templatesErr
}

// LookupTemplate returns the named template. An empty name selects DefaultTemplate.
func LookupTemplate(name string) (Template, error) {
	if name == "" {
		name = DefaultTemplate
	}
	all, err := loadTemplates()
	if err != nil {
		return Template{}, err
	}
	t, ok := all[name]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	return t, nil
}

// TemplateNames lists the available templates in sorted order.
func TemplateNames() []string {
	all, err := loadTemplates()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProjectFiles returns a fresh copy of the template files.
func (t Template) ProjectFiles() models.ProjectFiles {
	return models.ProjectFiles(t.Files).Clone()
}
