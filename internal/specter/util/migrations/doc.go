// SPDX-License-Identifier: MPL-2.0

// Package migrations holds the data-directory migration steps. Each file
// mNNN_<name>.go defines the module "specter/util/migrations/mNNN_<name>".
package migrations
