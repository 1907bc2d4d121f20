package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashDeviceKey returns a filesystem-safe identifier for a device fingerprint.
func HashDeviceKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
