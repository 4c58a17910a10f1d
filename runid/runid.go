// Package runid generates short random identifiers for runs and stored
// failures. IDs come from the OS entropy pool, not from the run's seeded
// source, so identifier generation never perturbs replayability.
package runid

import (
	crand "crypto/rand"
	"encoding/base64"
)

// idBytes gives 72 bits of entropy, enough that collisions across a
// failure database are not a practical concern.
const idBytes = 9

// New generates a 12-character URL-safe identifier.
func New() string {
	var b [idBytes]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("runid: failed to read random bytes: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b[:])
}
