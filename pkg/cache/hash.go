package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"hash"
)

func sum(h hash.Hash) string { return hex.EncodeToString(h.Sum(nil)) }

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	h := sha256.New()
	h.Write(data)
	return sum(h)
}

// HashJSON returns the hex SHA-256 of the JSON encoding of v. Struct field
// order fixes the encoding, so equal values hash equally.
func HashJSON(v any) (string, error) {
	h := sha256.New()
	if err := json.NewEncoder(h).Encode(v); err != nil {
		return "", err
	}
	return sum(h), nil
}

// hashKey builds "prefix:<sha256 of parts>". Parts are plain option
// structs, so encoding cannot fail.
func hashKey(prefix string, parts ...any) string {
	digest, _ := HashJSON(parts)
	return prefix + ":" + digest
}
