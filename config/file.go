// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"text/template"

	"github.com/z5labs/tinyhttp/internal/try"
)

var fileFormats = map[string]func(io.Reader) Source{
	".yaml":       func(r io.Reader) Source { return FromYaml(r) },
	".yml":        func(r io.Reader) Source { return FromYaml(r) },
	".json":       func(r io.Reader) Source { return FromJson(r) },
	".properties": func(r io.Reader) Source { return FromProperties(r) },
}

// UnsupportedFormatError occurs when a config file extension is not one
// of .yaml, .yml, .json or .properties.
type UnsupportedFormatError struct {
	Name string
}

// Error implements the error interface.
func (e UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported config file format: %s", e.Name)
}

// File is a Source read from a config file. The file is rendered as a
// text/template before it is parsed in the format its extension names.
type File struct {
	fs    fs.FS
	name  string
	funcs template.FuncMap
}

// FromFile returns a source for the file called name in fsys. Nothing is
// opened until the source is applied.
func FromFile(fsys fs.FS, name string, opts ...TemplateOption) File {
	f := File{
		fs:    fsys,
		name:  name,
		funcs: make(template.FuncMap),
	}
	for _, opt := range opts {
		opt(f.funcs)
	}
	return f
}

// Apply implements the Source interface.
func (f File) Apply(store Store) (err error) {
	newSource, ok := fileFormats[strings.ToLower(path.Ext(f.name))]
	if !ok {
		return UnsupportedFormatError{Name: f.name}
	}

	r, err := f.fs.Open(f.name)
	if err != nil {
		return err
	}
	defer try.Close(&err, r)

	rendered, err := renderTemplate(f.name, r, f.funcs)
	if err != nil {
		return err
	}
	return newSource(rendered).Apply(store)
}
