// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()
		if err := FormatError(nil, "config.cue"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("non-CUE error is prefixed with file", func(t *testing.T) {
		t.Parallel()
		original := errors.New("boom")
		err := FormatError(original, "config.cue")
		if !errors.Is(err, original) {
			t.Errorf("error should wrap original, got %v", err)
		}
		if !strings.HasPrefix(err.Error(), "config.cue: ") {
			t.Errorf("error should start with the file name, got %q", err)
		}
	})

	t.Run("wrapped sentinel stays reachable", func(t *testing.T) {
		t.Parallel()
		err := FormatError(fmt.Errorf("read config: %w", fs.ErrNotExist), "config.cue")
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("error should wrap fs.ErrNotExist, got %v", err)
		}
		if err.Error() != "config.cue: read config: file does not exist" {
			t.Errorf("unexpected message %q", err)
		}
	})
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path []string
		want string
	}{
		{"empty", nil, ""},
		{"single", []string{"discovery"}, "discovery"},
		{"nested", []string{"discovery", "source_ext"}, "discovery.source_ext"},
		{"index", []string{"discovery", "extra_roots", "1"}, "discovery.extra_roots[1]"},
		{"index then field", []string{"roots", "0", "path"}, "roots[0].path"},
		{"leading number", []string{"0", "x"}, "0.x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatPath(tt.path); got != tt.want {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize(make([]byte, 10), 10, "f.cue"); err != nil {
		t.Errorf("size at limit should pass, got %v", err)
	}
	err := CheckFileSize(make([]byte, 11), 10, "f.cue")
	if err == nil {
		t.Fatal("size over limit should fail")
	}
	if !strings.Contains(err.Error(), "f.cue") {
		t.Errorf("error should name the file, got %q", err)
	}
}
