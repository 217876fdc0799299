package renderer

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/aymerick/raymond"
)

const (
	templateDir = "templates"
	partialDir  = "templates/partials"
)

// TemplateSet holds the parsed page templates of a site layout. Partials and
// helpers are registered on each template, never globally, so several sets
// can coexist in one process.
type TemplateSet struct {
	templates map[string]*raymond.Template
}

// LoadTemplateSet parses every templates/*.hbs file of fsys. The files below
// templates/partials are registered as partials on each template under their
// base name.
func LoadTemplateSet(fsys fs.FS) (*TemplateSet, error) {
	partials, err := readPartials(fsys)
	if err != nil {
		return nil, err
	}

	names, err := fs.Glob(fsys, templateDir+"/*.hbs")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no templates found in %s", templateDir)
	}

	ts := &TemplateSet{templates: make(map[string]*raymond.Template, len(names))}
	for _, name := range names {
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", name, err)
		}
		tpl, err := raymond.Parse(string(src))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		tpl.RegisterPartials(partials)
		tpl.RegisterHelpers(templateHelpers())
		ts.templates[strings.TrimSuffix(path.Base(name), ".hbs")] = tpl
	}
	return ts, nil
}

func readPartials(fsys fs.FS) (map[string]string, error) {
	entries, err := fs.ReadDir(fsys, partialDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read partials: %w", err)
	}
	partials := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".hbs" {
			continue
		}
		src, err := fs.ReadFile(fsys, path.Join(partialDir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read partial %s: %w", e.Name(), err)
		}
		partials[strings.TrimSuffix(e.Name(), ".hbs")] = string(src)
	}
	return partials, nil
}

// templateHelpers returns a fresh helper map; raymond panics when a helper
// is registered twice on the same template.
func templateHelpers() map[string]interface{} {
	return map[string]interface{}{
		"eq": func(a interface{}, b interface{}) bool {
			return fmt.Sprint(a) == fmt.Sprint(b)
		},
		"join": func(items []string, sep string) string {
			return strings.Join(items, sep)
		},
	}
}

// Names lists the templates of the set.
func (ts *TemplateSet) Names() []string {
	names := make([]string, 0, len(ts.templates))
	for n := range ts.templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Render executes template name with data.
func (ts *TemplateSet) Render(name string, data interface{}) (string, error) {
	tpl, ok := ts.templates[name]
	if !ok {
		return "", fmt.Errorf("template %q not found", name)
	}
	out, err := tpl.Exec(data)
	if err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return out, nil
}
