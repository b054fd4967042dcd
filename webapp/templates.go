// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package webapp

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// TemplateNotFoundError is returned when rendering an unknown template.
type TemplateNotFoundError struct {
	Name string
}

// Error implements the [error] interface.
func (e TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template not found: %s", e.Name)
}

// Templates is a parsed set of HTML templates addressed by file name.
// It is safe for concurrent use.
type Templates struct {
	set *template.Template
}

// DefaultTemplates parses the templates shipped with the server:
// error.html, list.html and server-info.html.
func DefaultTemplates() (*Templates, error) {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, err
	}
	return ParseTemplates(sub, "*.html")
}

// ParseTemplates parses every file in fsys matching any of patterns.
func ParseTemplates(fsys fs.FS, patterns ...string) (*Templates, error) {
	set, err := template.New("").ParseFS(fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Templates{set: set}, nil
}

// Render executes the named template with args.
func (t *Templates) Render(name string, args map[string]any) (string, error) {
	tmpl := t.set.Lookup(name)
	if tmpl == nil {
		return "", TemplateNotFoundError{Name: name}
	}

	var sb strings.Builder
	err := tmpl.Execute(&sb, args)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return sb.String(), nil
}
