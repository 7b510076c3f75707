package cache

import (
	"encoding/hex"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/blake3"

	"github.com/Kush-Singh-26/folio/builder/models"
)

// OGPEntry is a cached link preview with its expiry.
type OGPEntry struct {
	Data      models.OGPData `msgpack:"data"`
	FetchedAt int64          `msgpack:"fetched_at"`
	ExpiresAt int64          `msgpack:"expires_at"`
}

// CompressionType marks how a stored html blob is encoded.
type CompressionType uint8

const (
	CompressionNone CompressionType = iota
	CompressionZstd
)

const (
	RawThreshold  = 8 * 1024 // < 8KB stored raw
	SchemaVersion = 1
)

// HashContent computes BLAKE3 hash of content and returns hex string
func HashContent(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashString computes BLAKE3 hash of a string
func HashString(s string) string {
	return HashContent([]byte(s))
}

// Encode serializes a value to msgpack bytes
func Encode(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Decode deserializes msgpack bytes to a value
func Decode(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}
