//go:build !cgo

package roadnet

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// DefaultDialector opens path with the pure-Go modernc.org/sqlite driver,
// used when the binary is built without cgo (the default for this
// module). Use the cgo-tagged build for mattn/go-sqlite3 instead.
func DefaultDialector(path string) gorm.Dialector {
	return sqlite.Open(path)
}
