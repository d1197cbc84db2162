package snapshot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/vango-dev/domsync/internal/errors"
	bolt "go.etcd.io/bbolt"
)

const (
	bucketHTML = "html"
	bucketMeta = "meta"
)

type boltMeta struct {
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// BoltStore stores snapshots in a bbolt database. Documents and their
// metadata live in separate buckets keyed by the cleaned path.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens or creates the database at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.New("D060").Wrap(err).
			WithDetail("Cannot open " + path).
			WithSuggestion("Check that no other process holds the database open")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketHTML, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, errors.New("D060").Wrap(err)
	}
	return &BoltStore{db: db}, nil
}

// Put stores snap.
func (s *BoltStore) Put(ctx context.Context, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	meta, err := json.Marshal(boltMeta{ContentType: snap.ContentType, CreatedAt: snap.CreatedAt})
	if err != nil {
		return err
	}
	key := []byte(CleanPath(snap.Path))
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(bucketHTML)).Put(key, snap.HTML); err != nil {
			return err
		}
		return tx.Bucket([]byte(bucketMeta)).Put(key, meta)
	})
}

// Get returns the snapshot stored for path.
func (s *BoltStore) Get(ctx context.Context, path string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path = CleanPath(path)
	var snap *Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		key := []byte(path)
		html := tx.Bucket([]byte(bucketHTML)).Get(key)
		if html == nil {
			return ErrNotFound
		}
		var meta boltMeta
		if v := tx.Bucket([]byte(bucketMeta)).Get(key); v != nil {
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
		}
		// Values are only valid inside the transaction.
		snap = &Snapshot{
			Path:        path,
			HTML:        append([]byte(nil), html...),
			ContentType: meta.ContentType,
			CreatedAt:   meta.CreatedAt,
		}
		return nil
	})
	return snap, err
}

// Delete removes the snapshot stored for path, if any.
func (s *BoltStore) Delete(path string) error {
	key := []byte(CleanPath(path))
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(bucketHTML)).Delete(key); err != nil {
			return err
		}
		return tx.Bucket([]byte(bucketMeta)).Delete(key)
	})
}

// Paths lists the stored paths in key order.
func (s *BoltStore) Paths() ([]string, error) {
	var paths []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketHTML)).ForEach(func(k, _ []byte) error {
			paths = append(paths, string(k))
			return nil
		})
	})
	return paths, err
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
