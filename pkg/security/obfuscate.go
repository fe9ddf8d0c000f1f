package security

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// ObfuscateID derives a short stable token for id so raw customer ids never appear in
// public object paths.
func ObfuscateID(salt, id string) string {
	sum := blake2b.Sum256([]byte(salt + id))
	return hex.EncodeToString(sum[:])[:16]
}
