// Package texthash computes content fingerprints of user-submitted source
// text. The hashes are used for deduplication and audit bookkeeping on
// generation records, not for anything security sensitive.
package texthash

import (
	"crypto/md5" // #nosec G501 -- dedup/audit fingerprint, not a security boundary
	"encoding/hex"
)

// Hash returns the lowercase hex MD5 digest of the given text.
// It is deterministic and has no failure modes.
func Hash(text string) string {
	sum := md5.Sum([]byte(text)) // #nosec G401
	return hex.EncodeToString(sum[:])
}
