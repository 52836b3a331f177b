// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing errors: ActionableError carries the
// failed operation and remediation hints, and the issue catalog holds
// Markdown guidance for known failure classes, rendered with glamour.
package issue
