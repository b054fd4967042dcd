// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config merges key value pairs from YAML, JSON, properties
// and environment variable sources and decodes the result into
// structs tagged with "config".
//
// Keys are case-insensitive. Sources are applied in order so a later
// source overrides any key an earlier one set, which lets environment
// variables override a config file.
//
// Config files are read through [FromFile], which renders them as a
// text/template before picking a parser by file extension.
package config
