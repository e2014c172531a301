package core

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
)

const layoutTemplate = "layout.html"

// Renderer owns one parsed template set per page, each combining
// layout.html with the page file. Reload swaps the whole set at once.
type Renderer struct {
	mu    sync.RWMutex
	fsys  fs.FS
	funcs template.FuncMap
	pages map[string]*template.Template
}

func NewRenderer(fsys fs.FS, funcs template.FuncMap) (*Renderer, error) {
	r := &Renderer{fsys: fsys, funcs: funcs}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) Reload() error {
	files, err := fs.Glob(r.fsys, "*.html")
	if err != nil {
		return fmt.Errorf("listing templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutTemplate {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		tmpl, err := template.New(name).Funcs(r.funcs).ParseFS(r.fsys, layoutTemplate, file)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", file, err)
		}
		if tmpl.Lookup("layout") == nil {
			return fmt.Errorf("parsing %s: no \"layout\" template defined", file)
		}
		pages[name] = tmpl
	}

	r.mu.Lock()
	r.pages = pages
	r.mu.Unlock()
	return nil
}

// Render executes the named page into a buffer and only writes to w when
// execution succeeds.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	r.mu.RLock()
	tmpl, ok := r.pages[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("template %q: %w", name, ErrNotFound)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) Pages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Renderer) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.pages[name]
	return ok
}
