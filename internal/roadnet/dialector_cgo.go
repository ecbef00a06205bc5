//go:build cgo

package roadnet

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DefaultDialector opens path with the cgo mattn/go-sqlite3 driver. Build
// with -tags cgo (and CGO_ENABLED=1) to select this over the pure-Go
// default.
func DefaultDialector(path string) gorm.Dialector {
	return sqlite.Open(path)
}
