package cache

import (
	"encoding/hex"
	"encoding/json"

	"lukechampine.com/blake3"
)

// hashKey builds "prefix:hash(parts...)". Parts are JSON-encoded so struct
// options hash by value.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the 256-bit BLAKE3 digest of data as 64 hex characters.
func Hash(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
