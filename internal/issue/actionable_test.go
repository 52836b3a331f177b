// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{"operation only", &ActionableError{Operation: "discover services"}, "failed to discover services"},
		{"with resource", &ActionableError{Operation: "load configuration", Resource: "config.cue"}, "failed to load configuration: config.cue"},
		{
			"with cause",
			&ActionableError{Operation: "load configuration", Resource: "config.cue", Cause: errors.New("bad syntax")},
			"failed to load configuration: config.cue: bad syntax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := NewErrorContext().WithOperation("x").Wrap(fmt.Errorf("wrapped: %w", sentinel)).BuildError()
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should see through ActionableError")
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation should return a nil error, got %#v", err)
	}

	ae := NewErrorContext().
		WithOperation("discover migrations").
		WithResource("/src/specter/util/migrations").
		WithSuggestion("first").
		WithSuggestions("second", "third").
		WithIssue(MigrationImportFailedId).
		Build()
	if ae.Operation != "discover migrations" || ae.Resource != "/src/specter/util/migrations" {
		t.Errorf("unexpected error: %+v", ae)
	}
	if len(ae.Suggestions) != 3 || !ae.HasSuggestions() {
		t.Errorf("Suggestions = %v", ae.Suggestions)
	}
	if ae.Issue != MigrationImportFailedId {
		t.Errorf("Issue = %d", ae.Issue)
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	root := errors.New("module not found")
	joined := errors.Join(errors.New("unexpected import failure"), root)
	ae := &ActionableError{
		Operation:   "discover migrations",
		Suggestions: []string{"Check the migrations package"},
		Cause:       fmt.Errorf("m003: %w", joined),
	}

	short := ae.Format(false)
	if !strings.Contains(short, "• Check the migrations package") {
		t.Errorf("Format(false) should list suggestions, got:\n%s", short)
	}
	if strings.Contains(short, "Error chain") {
		t.Errorf("Format(false) should not include the chain, got:\n%s", short)
	}

	verbose := ae.Format(true)
	for _, want := range []string{"Error chain:", "  - m003:", "      - module not found", "      - unexpected import failure"} {
		if !strings.Contains(verbose, want) {
			t.Errorf("Format(true) should contain %q, got:\n%s", want, verbose)
		}
	}
}
