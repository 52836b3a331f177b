// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers that fail the test on error and
// undo their changes through t.Cleanup: working directory (MustChdir),
// environment (MustSetenv, MustUnsetenv, SetHomeDir) and fixture files
// (MustMkdirAll, MustWriteFile).
package testutil
