// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"bytes"
	"fmt"
	"io"
	"text/template"
)

// TemplateOption registers functions usable from config file templates.
type TemplateOption func(template.FuncMap)

// TemplateFunc makes f callable as name inside a config file, e.g.
// TemplateFunc("env", os.Getenv) enables {{ env "HOME" }}.
func TemplateFunc(name string, f any) TemplateOption {
	return func(funcs template.FuncMap) {
		funcs[name] = f
	}
}

// TemplateParseError occurs when a config file is not a valid template.
type TemplateParseError struct {
	Name  string
	Cause error
}

// Error implements the error interface.
func (e TemplateParseError) Error() string {
	return fmt.Sprintf("failed to parse config template %s: %s", e.Name, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e TemplateParseError) Unwrap() error {
	return e.Cause
}

// TemplateExecError occurs when rendering a config file fails, usually
// because a template func returned an error.
type TemplateExecError struct {
	Name  string
	Cause error
}

// Error implements the error interface.
func (e TemplateExecError) Error() string {
	return fmt.Sprintf("failed to render config template %s: %s", e.Name, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e TemplateExecError) Unwrap() error {
	return e.Cause
}

func renderTemplate(name string, r io.Reader, funcs template.FuncMap) (*bytes.Buffer, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).Funcs(funcs).Parse(string(b))
	if err != nil {
		return nil, TemplateParseError{Name: name, Cause: err}
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, nil)
	if err != nil {
		return nil, TemplateExecError{Name: name, Cause: err}
	}
	return &buf, nil
}
