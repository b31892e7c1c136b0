package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeSignalID computes a deterministic signal id using SHA256.
// Formula: SHA256(symbol|direction|source|created_at)
// Returns hex-encoded hash (64 characters).
//
// Signal ids must be stable across runs so that re-running a backtest
// on identical input yields identical output; random ids would break
// that.
func ComputeSignalID(symbol, direction, source string, createdAt int64) string {
	data := fmt.Sprintf("%s|%s|%s|%d", symbol, direction, source, createdAt)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
