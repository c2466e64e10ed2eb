// Package ids generates primary keys for persisted entities.
package ids

import "github.com/lucsky/cuid"

// New returns a collision-resistant cuid suitable for a primary key
func New() string {
	return cuid.New()
}
