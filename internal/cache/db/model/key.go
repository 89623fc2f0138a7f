package model

import (
	"encoding/hex"
	"github.com/zeebo/xxh3"
	"sync"
)

// SchemaVersion participates in every key; bumping it orphans all previously generated keys.
const SchemaVersion = "fact-v1"

const keySeparator = ":"

var hasherPool = sync.Pool{New: func() any { return xxh3.New() }}

// GenerateKey returns prefix + ":" + hex(xxh3-128(prefix, query, SchemaVersion)).
func GenerateKey(prefix, query string) string {
	hasher := hasherPool.Get().(*xxh3.Hasher)
	hasher.Reset()

	_, _ = hasher.WriteString(prefix)
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.WriteString(query)
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.WriteString(SchemaVersion)

	sum := hasher.Sum128().Bytes()
	hasherPool.Put(hasher)

	return prefix + keySeparator + hex.EncodeToString(sum[:])
}

// HashKey maps a key to 64 bits for frequency sketches.
func HashKey(key string) uint64 {
	return xxh3.HashString(key)
}

// KeyPrefix returns the namespace part of a key generated by GenerateKey.
func KeyPrefix(key string) string {
	for i := len(key) - 1; i >= 0; i-- {
		if key[i] == keySeparator[0] {
			return key[:i]
		}
	}
	return ""
}
