package cache

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// HTMLKey identifies a rendered body under a converter fingerprint.
func HTMLKey(fingerprint, body string) string {
	return HashString(fingerprint + "\x00" + body)
}

// GetHTML returns previously rendered html for key.
func (m *Manager) GetHTML(key string) (string, bool, error) {
	var out []byte
	err := m.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(BucketHTML)).Get([]byte(key))
		if len(data) == 0 {
			return nil
		}
		switch CompressionType(data[0]) {
		case CompressionNone:
			out = append([]byte(nil), data[1:]...)
		case CompressionZstd:
			decoded, err := m.decoder.DecodeAll(data[1:], nil)
			if err != nil {
				return fmt.Errorf("decompress html %s: %w", key, err)
			}
			out = decoded
		default:
			return fmt.Errorf("unknown compression type %d for %s", data[0], key)
		}
		return nil
	})
	if err != nil || out == nil {
		return "", false, err
	}
	return string(out), true, nil
}

// PutHTML stores html under key, compressing blobs above RawThreshold.
func (m *Manager) PutHTML(key, html string) error {
	var data []byte
	if len(html) < RawThreshold {
		data = append([]byte{byte(CompressionNone)}, html...)
	} else {
		data = m.encoder.EncodeAll([]byte(html), []byte{byte(CompressionZstd)})
	}
	return m.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketHTML)).Put([]byte(key), data)
	})
}
