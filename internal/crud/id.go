// internal/crud/id.go
//
// Botfleet – CRUD subsystem: identifier generation and format checks.

package crud

import (
	"crypto/rand"
	"regexp"
)

// idAlphabet and idLength define generated identifiers: 32 characters of
// lowercase alphanumerics.  Lookups accept uppercase too (see idPattern);
// generation never emits it.
const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 32
)

// idPattern is the default identifier-format constraint, checked before any
// lookup so a malformed id is distinguishable from a missing record.
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9]{32}$`)

// NewID returns a fresh identifier.  There is no collision retry: at the
// record volumes this layer serves, the collision probability is negligible
// and a duplicate surfaces as a storage conflict, a documented accepted
// risk.
func NewID() string {
	// Largest multiple of len(idAlphabet) below 256; bytes past it are
	// rejected to keep the character distribution uniform.
	const limit = byte(252)

	id := make([]byte, 0, idLength)
	buf := make([]byte, idLength*2)
	for len(id) < idLength {
		if _, err := rand.Read(buf); err != nil {
			panic("crud: crypto/rand unavailable: " + err.Error())
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			id = append(id, idAlphabet[int(b)%len(idAlphabet)])
			if len(id) == idLength {
				break
			}
		}
	}
	return string(id)
}
