package cache

import (
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/Kush-Singh-26/folio/builder/models"
)

func ogpKey(url string) []byte {
	return []byte(HashString(url))
}

// GetOGP returns the cached record for url if it has not expired at now.
func (m *Manager) GetOGP(url string, now time.Time) (models.OGPData, bool, error) {
	entry, err := getCachedItem[OGPEntry](m.db, BucketOGP, ogpKey(url))
	if err != nil || entry == nil {
		return models.OGPData{}, false, err
	}
	if entry.ExpiresAt <= now.Unix() || entry.Data.URL != url {
		return models.OGPData{}, false, nil
	}
	return entry.Data, true, nil
}

// PutOGP stores data until now+ttl. Records carrying nothing but the URL are
// not stored, so a failed fetch is retried on the next build.
func (m *Manager) PutOGP(data models.OGPData, now time.Time, ttl time.Duration) error {
	if data.URL == "" || data.IsEmpty() {
		return nil
	}
	entry := &OGPEntry{
		Data:      data,
		FetchedAt: now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
	return putCachedItem(m.db, BucketOGP, ogpKey(data.URL), entry)
}

// PruneOGP deletes expired records and returns how many were removed.
func (m *Manager) PruneOGP(now time.Time) (int, error) {
	removed := 0
	err := m.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketOGP))
		var expired [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			var entry OGPEntry
			if err := Decode(v, &entry); err != nil || entry.ExpiresAt <= now.Unix() {
				expired = append(expired, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		removed = len(expired)
		return nil
	})
	return removed, err
}
