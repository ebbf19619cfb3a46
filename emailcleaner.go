// Package emailcleaner holds assets shared by the binaries of this module.
package emailcleaner

import "embed"

// Migrations contains the goose SQL migrations of the reference data tables.
//
//go:embed migrations/*.sql
var Migrations embed.FS
