// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"io"

	"github.com/magiconair/properties"
	"github.com/z5labs/tinyhttp/config/key"
	"github.com/z5labs/tinyhttp/internal/try"
)

// Properties represents a Source where its underlying format is a
// Java style .properties file. Dotted keys become key chains, e.g.
// server.port=8080 sets server.port.
type Properties struct {
	r io.Reader
}

// FromProperties returns a source which will apply its config
// from properties parsed from the given io.Reader.
func FromProperties(r io.Reader) Properties {
	return Properties{r: r}
}

// InvalidPropertiesError occurs if the underlying io.Reader contains invalid properties.
type InvalidPropertiesError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidPropertiesError) Error() string {
	return fmt.Sprintf("invalid properties: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidPropertiesError) Unwrap() error {
	return e.Cause
}

// Apply implements the Source interface.
func (src Properties) Apply(store Store) (err error) {
	defer try.Close(&err, src.r)

	b, err := io.ReadAll(src.r)
	if err != nil {
		return err
	}

	l := &properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: true,
	}
	p, err := l.LoadBytes(b)
	if err != nil {
		return InvalidPropertiesError{Cause: err}
	}

	for _, k := range p.Keys() {
		v, _ := p.Get(k)
		chain := key.Split(k, ".")
		if len(chain) == 0 {
			continue
		}
		err = store.Set(chain, v)
		if err != nil {
			return err
		}
	}
	return nil
}
