// Package migrations contiene el esquema SQL versionado (goose) embebido en el binario.
package migrations

import "embed"

// FS archivos .sql de migración.
//
//go:embed *.sql
var FS embed.FS
