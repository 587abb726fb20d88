package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketState = []byte("state")

// Bolt is a bbolt-backed Store. All keys live in a single bucket; values are
// opaque strings (the tracker stores JSON).
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens (creating if necessary) the database file at path.
// The open has a short timeout so a stale lock from a crashed process
// surfaces as an error instead of blocking forever.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketState)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create bucket: %w", err)
	}
	return &Bolt{db: db}, nil
}

func (s *Bolt) Get(key string) (string, bool, error) {
	var val string
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketState).Get([]byte(key)); v != nil {
			val = string(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("store: get %s: %w", key, err)
	}
	return val, found, nil
}

func (s *Bolt) Set(key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketState).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("store: set %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database file.
func (s *Bolt) Close() error { return s.db.Close() }
