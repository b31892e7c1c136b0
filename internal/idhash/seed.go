package idhash

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// SyntheticSeed derives a deterministic PRNG seed for the synthetic
// fallback tier. Formula: first 8 bytes of SHA256(symbol|date|index),
// big-endian. Repeated runs over the same symbol and dates reproduce
// the same perturbations.
func SyntheticSeed(symbol string, dateMs int64, index int) int64 {
	data := fmt.Sprintf("%s|%d|%d", symbol, dateMs, index)
	hash := sha256.Sum256([]byte(data))
	return int64(binary.BigEndian.Uint64(hash[:8]))
}
