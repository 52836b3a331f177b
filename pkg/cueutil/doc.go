// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema and
// decodes them, with error messages that point at the offending field.
//
//	//go:embed config_schema.cue
//	var schema string
//
//	var values map[string]any
//	err := cueutil.Decode(schema, data, "#Config", &values,
//	    cueutil.WithFilename(path),
//	    cueutil.WithConcrete(false),
//	)
package cueutil
