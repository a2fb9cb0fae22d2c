package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const maxKeyLen = 200

// Key joins prefix and params with ':'. Keys longer than 200 bytes keep the prefix and
// replace the rest with its SHA-256.
func Key(prefix string, params ...interface{}) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, p := range params {
		fmt.Fprintf(&b, ":%v", p)
	}
	key := b.String()
	if len(key) <= maxKeyLen {
		return key
	}
	sum := sha256.Sum256([]byte(key[len(prefix):]))
	return prefix + ":" + hex.EncodeToString(sum[:])
}
