// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Doc: {
	name:   string & !=""
	count?: int & >=0
	tags?: [...string]
}
`

type testDoc struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

func TestDecode(t *testing.T) {
	t.Parallel()

	var doc testDoc
	err := Decode(testSchema, []byte(`name: "swan", count: 2, tags: ["a", "b"]`), "#Doc", &doc, WithFilename("doc.cue"))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if doc.Name != "swan" || doc.Count != 2 || len(doc.Tags) != 2 {
		t.Errorf("unexpected result: %+v", doc)
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		opts    []Option
		wantSub string
	}{
		{"syntax error", `name: "x`, nil, "doc.cue"},
		{"constraint violation", `name: "x", count: -1`, nil, "count"},
		{"unknown field", `name: "x", extra: 1`, nil, "extra"},
		{"not concrete", `count: 1`, nil, "name"},
		{"too large", `name: "x"`, []Option{WithMaxFileSize(3)}, "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var doc testDoc
			opts := append([]Option{WithFilename("doc.cue")}, tt.opts...)
			err := Decode(testSchema, []byte(tt.data), "#Doc", &doc, opts...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestDecode_NonConcreteAllowed(t *testing.T) {
	t.Parallel()

	const optionalSchema = `#Opt: {name?: string, count?: int}`

	var values map[string]any
	if err := Decode(optionalSchema, []byte(`count: 1`), "#Opt", &values, WithConcrete(false)); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if values["count"] != int64(1) && values["count"] != 1 {
		t.Errorf("count = %#v, want 1", values["count"])
	}
	if _, ok := values["name"]; ok {
		t.Errorf("unset optional field should not be decoded, got %#v", values)
	}
}

func TestDecode_MissingDefinition(t *testing.T) {
	t.Parallel()

	var doc testDoc
	err := Decode(testSchema, []byte(`name: "x"`), "#Missing", &doc)
	if err == nil || !strings.Contains(err.Error(), "internal error") {
		t.Errorf("expected internal error, got %v", err)
	}
}
