package cache

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	bolt "go.etcd.io/bbolt"
)

// Manager persists OGP records and rendered html between builds.
type Manager struct {
	db       *bolt.DB
	basePath string
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
}

// Stats summarises the cache contents.
type Stats struct {
	OGPEntries  int
	HTMLEntries int
	BuildCount  uint32
	LastBuild   time.Time
}

// Open opens or creates a cache at the given path
func Open(basePath string) (*Manager, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	opts := &bolt.Options{
		Timeout:      10 * time.Second,
		FreelistType: bolt.FreelistArrayType,
	}

	dbPath := filepath.Join(basePath, "folio.db")
	db, err := bolt.Open(dbPath, 0644, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BoltDB: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		_ = encoder.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	m := &Manager{
		db:       db,
		basePath: basePath,
		encoder:  encoder,
		decoder:  decoder,
	}

	if err := m.initSchema(); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return m, nil
}

// Close closes the cache
func (m *Manager) Close() error {
	if m.encoder != nil {
		_ = m.encoder.Close()
	}
	if m.decoder != nil {
		m.decoder.Close()
	}
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// BasePath returns the cache directory.
func (m *Manager) BasePath() string {
	return m.basePath
}

// initSchema creates all buckets if they don't exist
func (m *Manager) initSchema() error {
	return m.db.Update(func(tx *bolt.Tx) error {
		for _, name := range AllBuckets() {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}

		meta := tx.Bucket([]byte(BucketMeta))
		existing := meta.Get([]byte(KeySchemaVersion))
		if existing != nil && binary.BigEndian.Uint32(existing) != SchemaVersion {
			// Older layouts are dropped rather than migrated.
			if err := resetBuckets(tx); err != nil {
				return err
			}
			existing = nil
		}
		if existing == nil {
			v := make([]byte, 4)
			binary.BigEndian.PutUint32(v, SchemaVersion)
			if err := meta.Put([]byte(KeySchemaVersion), v); err != nil {
				return err
			}
		}

		return nil
	})
}

func resetBuckets(tx *bolt.Tx) error {
	for _, name := range []string{BucketOGP, BucketHTML} {
		if err := tx.DeleteBucket([]byte(name)); err != nil {
			return err
		}
		if _, err := tx.CreateBucket([]byte(name)); err != nil {
			return err
		}
	}
	return nil
}

// Clear drops every cached OGP record and rendered page. Build stats are kept.
func (m *Manager) Clear() error {
	return m.db.Update(resetBuckets)
}

// RecordBuild increments the build counter and stamps the build time.
func (m *Manager) RecordBuild(now time.Time) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		stats := tx.Bucket([]byte(BucketStats))
		var count uint32
		if data := stats.Get([]byte(KeyBuildCount)); len(data) == 4 {
			count = binary.BigEndian.Uint32(data)
		}
		v := make([]byte, 4)
		binary.BigEndian.PutUint32(v, count+1)
		if err := stats.Put([]byte(KeyBuildCount), v); err != nil {
			return err
		}
		ts := make([]byte, 8)
		binary.BigEndian.PutUint64(ts, uint64(now.Unix()))
		return stats.Put([]byte(KeyLastBuild), ts)
	})
}

// Stats returns entry counts and build bookkeeping.
func (m *Manager) Stats() (Stats, error) {
	var s Stats
	err := m.db.View(func(tx *bolt.Tx) error {
		s.OGPEntries = tx.Bucket([]byte(BucketOGP)).Stats().KeyN
		s.HTMLEntries = tx.Bucket([]byte(BucketHTML)).Stats().KeyN

		stats := tx.Bucket([]byte(BucketStats))
		if data := stats.Get([]byte(KeyBuildCount)); len(data) == 4 {
			s.BuildCount = binary.BigEndian.Uint32(data)
		}
		if data := stats.Get([]byte(KeyLastBuild)); len(data) == 8 {
			s.LastBuild = time.Unix(int64(binary.BigEndian.Uint64(data)), 0)
		}
		return nil
	})
	return s, err
}

// getCachedItem retrieves a generic item from a bucket
func getCachedItem[T any](db *bolt.DB, bucketName string, key []byte) (*T, error) {
	var result *T
	err := db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return nil
		}
		data := bucket.Get(key)
		if data == nil {
			return nil
		}

		var item T
		if err := Decode(data, &item); err != nil {
			return err
		}
		result = &item
		return nil
	})
	return result, err
}

// putCachedItem stores a generic item in a bucket
func putCachedItem[T any](db *bolt.DB, bucketName string, key []byte, value *T) error {
	data, err := Encode(value)
	if err != nil {
		return err
	}
	return db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		if err != nil {
			return err
		}
		return bucket.Put(key, data)
	})
}
