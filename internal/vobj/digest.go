package vobj

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest - фиксированный 256 битный хеш содержимого библиотеки
type Digest [32]byte

// HashBytes returns the digest of raw bytes.
func HashBytes(b []byte) Digest {
	return sha256.Sum256(b)
}

// Combine строит агрегированный хеш: H( content || dep1 || dep2 ... ).
// Порядок deps должен быть детерминированным.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Hex returns the full lowercase hex form.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 12 hex characters, for display.
func (d Digest) Short() string {
	return d.Hex()[:12]
}

// IsZero reports whether the digest is all zeroes (never a valid content hash).
func (d Digest) IsZero() bool {
	var z Digest
	return d == z
}
