package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// CalculateChecksum returns the hex SHA-256 of data
func CalculateChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
